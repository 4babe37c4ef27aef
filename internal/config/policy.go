package config

import "strings"

// Investment categories recognized by the depreciation policy.
const (
	CategoryEquipment   = "equipment"
	CategoryIT          = "it"
	CategoryVehicles    = "vehicles"
	CategoryIntangibles = "intangibles"
	CategoryOther       = "other"
)

// categoryAliases maps accepted spellings onto canonical categories.
var categoryAliases = map[string]string{
	"equipment":   CategoryEquipment,
	"equipamento": CategoryEquipment,
	"it":          CategoryIT,
	"informatica": CategoryIT,
	"informática": CategoryIT,
	"vehicles":    CategoryVehicles,
	"vehicle":     CategoryVehicles,
	"veiculos":    CategoryVehicles,
	"veículos":    CategoryVehicles,
	"intangibles": CategoryIntangibles,
	"intangible":  CategoryIntangibles,
	"intangiveis": CategoryIntangibles,
	"intangíveis": CategoryIntangibles,
	"other":       CategoryOther,
	"outros":      CategoryOther,
}

// Policy holds the fixed projection assumptions. It is passed explicitly to
// the projection engine so tests can override any of it.
type Policy struct {
	// RevenueGrowth holds the growth applied in each projected year; the
	// first entry is unused because year one is computed from the sales lines.
	RevenueGrowth             []float64      `mapstructure:"revenueGrowth" yaml:"revenueGrowth,omitempty"`
	TargetGrossMargin         float64        `mapstructure:"targetGrossMargin" yaml:"targetGrossMargin"`
	OverheadPctOfRevenue      float64        `mapstructure:"overheadPctOfRevenue" yaml:"overheadPctOfRevenue"`
	SocialChargesPct          float64        `mapstructure:"socialChargesPct" yaml:"socialChargesPct"`
	DefaultSalaryRaisePct     float64        `mapstructure:"defaultSalaryRaisePct" yaml:"defaultSalaryRaisePct"`
	DepreciationYears         map[string]int `mapstructure:"depreciationYears" yaml:"depreciationYears,omitempty"`
	DefaultInterestRate       float64        `mapstructure:"defaultInterestRate" yaml:"defaultInterestRate"`
	DefaultAmortizationYears  int            `mapstructure:"defaultAmortizationYears" yaml:"defaultAmortizationYears"`
	CurrentAssetsPctOfRevenue float64        `mapstructure:"currentAssetsPctOfRevenue" yaml:"currentAssetsPctOfRevenue"`
}

// DefaultPolicy returns the standard projection assumptions.
func DefaultPolicy() Policy {
	return Policy{
		RevenueGrowth:         []float64{0.0, 0.08, 0.08},
		TargetGrossMargin:     0.55,
		OverheadPctOfRevenue:  0.12,
		SocialChargesPct:      0.2375,
		DefaultSalaryRaisePct: 0.03,
		DepreciationYears: map[string]int{
			CategoryEquipment:   5,
			CategoryIT:          3,
			CategoryVehicles:    4,
			CategoryIntangibles: 3,
			CategoryOther:       4,
		},
		DefaultInterestRate:       0.06,
		DefaultAmortizationYears:  3,
		CurrentAssetsPctOfRevenue: 0.10,
	}
}

// Normalize pads RevenueGrowth to three entries and fills in depreciation
// lives for any category the policy does not mention.
func (p *Policy) Normalize() {
	for len(p.RevenueGrowth) < 3 {
		p.RevenueGrowth = append(p.RevenueGrowth, 0)
	}

	defaults := DefaultPolicy()
	if p.DepreciationYears == nil {
		p.DepreciationYears = make(map[string]int, len(defaults.DepreciationYears))
	}
	for category, years := range defaults.DepreciationYears {
		if _, ok := p.DepreciationYears[category]; !ok {
			p.DepreciationYears[category] = years
		}
	}
}

// Growth returns the revenue growth applied to the given year index (0-2).
func (p Policy) Growth(yearIndex int) float64 {
	if yearIndex < 0 || yearIndex >= len(p.RevenueGrowth) {
		return 0
	}
	return p.RevenueGrowth[yearIndex]
}

// CanonicalCategory maps a free-form category onto a known one; unrecognized
// values become CategoryOther.
func CanonicalCategory(category string) string {
	key := strings.ToLower(strings.TrimSpace(category))
	if canonical, ok := categoryAliases[key]; ok {
		return canonical
	}
	return CategoryOther
}

// UsefulLife returns the depreciation life in years for a category.
func (p Policy) UsefulLife(category string) int {
	canonical := CanonicalCategory(category)
	if years, ok := p.DepreciationYears[canonical]; ok {
		return years
	}
	return DefaultPolicy().DepreciationYears[CategoryOther]
}
