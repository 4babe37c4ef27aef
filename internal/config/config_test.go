package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/plan-autofill/pkg/constants"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Empty path yields defaults",
			configPath: "",
		},
		{
			name:       "Non-existent config file yields defaults",
			configPath: "nonexistent.yaml",
		},
		{
			name:       "Example configuration",
			configPath: filepath.Join("..", "..", "test", "config.yaml"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationOverrides(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join("..", "..", "test", "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("unexpected logging config %+v", conf.Logging)
	}
	if conf.Output.Format != constants.OutputFormatCSV {
		t.Errorf("Output.Format = %q, expected %q", conf.Output.Format, constants.OutputFormatCSV)
	}
	if conf.Output.WorkbookName != constants.DefaultWorkbookName {
		t.Errorf("Output.WorkbookName = %q, expected default %q", conf.Output.WorkbookName, constants.DefaultWorkbookName)
	}
	if conf.Output.DocumentFormat != constants.DocumentFormatMarkdown {
		t.Errorf("Output.DocumentFormat = %q, expected %q", conf.Output.DocumentFormat, constants.DocumentFormatMarkdown)
	}
	if !conf.Narrative.Enabled || conf.Narrative.Model != "gemini-2.0-flash-lite" {
		t.Errorf("unexpected narrative config %+v", conf.Narrative)
	}
	if conf.Narrative.Timeout != 10*time.Second {
		t.Errorf("Narrative.Timeout = %v, expected 10s", conf.Narrative.Timeout)
	}
	if conf.Narrative.APIKeyEnv != constants.DefaultNarrativeAPIKeyEnv {
		t.Errorf("Narrative.APIKeyEnv = %q, expected default", conf.Narrative.APIKeyEnv)
	}

	// Overridden policy values win, the rest keep their defaults.
	if conf.Policy.TargetGrossMargin != 0.6 {
		t.Errorf("TargetGrossMargin = %v, expected 0.6", conf.Policy.TargetGrossMargin)
	}
	if conf.Policy.OverheadPctOfRevenue != 0.12 {
		t.Errorf("OverheadPctOfRevenue = %v, expected default 0.12", conf.Policy.OverheadPctOfRevenue)
	}
	if got := conf.Policy.UsefulLife("equipment"); got != 8 {
		t.Errorf("UsefulLife(equipment) = %d, expected 8", got)
	}
	if got := conf.Policy.UsefulLife("it"); got != 3 {
		t.Errorf("UsefulLife(it) = %d, expected default 3", got)
	}
}

func TestLoadConfigurationInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("logging: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadConfiguration(path); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()

	checks := []struct {
		name      string
		got, want float64
	}{
		{"growth year 1", policy.Growth(0), 0},
		{"growth year 2", policy.Growth(1), 0.08},
		{"growth year 3", policy.Growth(2), 0.08},
		{"growth out of range", policy.Growth(5), 0},
		{"gross margin", policy.TargetGrossMargin, 0.55},
		{"overhead", policy.OverheadPctOfRevenue, 0.12},
		{"social charges", policy.SocialChargesPct, 0.2375},
		{"salary raise", policy.DefaultSalaryRaisePct, 0.03},
		{"interest", policy.DefaultInterestRate, 0.06},
		{"current assets", policy.CurrentAssetsPctOfRevenue, 0.10},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-12 {
			t.Errorf("%s = %v, expected %v", c.name, c.got, c.want)
		}
	}
	if policy.DefaultAmortizationYears != 3 {
		t.Errorf("DefaultAmortizationYears = %d, expected 3", policy.DefaultAmortizationYears)
	}
}

func TestPolicyNormalize(t *testing.T) {
	policy := Policy{RevenueGrowth: []float64{0}}
	policy.Normalize()

	if len(policy.RevenueGrowth) != 3 {
		t.Errorf("expected growth padded to 3 entries, got %v", policy.RevenueGrowth)
	}
	if got := policy.UsefulLife("vehicles"); got != 4 {
		t.Errorf("UsefulLife(vehicles) = %d, expected 4", got)
	}
}

func TestUsefulLife(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		category string
		expected int
	}{
		{"equipment", 5},
		{"Equipamento", 5},
		{"  EQUIPMENT ", 5},
		{"it", 3},
		{"informatica", 3},
		{"vehicles", 4},
		{"veiculos", 4},
		{"intangibles", 3},
		{"intangiveis", 3},
		{"other", 4},
		{"outros", 4},
		{"spaceship", 4},
		{"", 4},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			if got := policy.UsefulLife(tt.category); got != tt.expected {
				t.Errorf("UsefulLife(%q) = %d, expected %d", tt.category, got, tt.expected)
			}
		})
	}
}

func TestUsefulLifeZeroOverride(t *testing.T) {
	policy := DefaultPolicy()
	policy.DepreciationYears[CategoryIT] = 0

	if got := policy.UsefulLife("it"); got != 0 {
		t.Errorf("UsefulLife(it) = %d, expected the overridden 0", got)
	}
}
