// Package narrative drafts the free-text sections of a business plan with a
// language model. Every failure collapses to a placeholder so callers never
// have to handle generation errors.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/plan-autofill/internal/config"
	"go.uber.org/zap"
)

// ErrUnavailable is returned by generators that cannot produce text, whether
// because they are not configured or because the request failed.
var ErrUnavailable = errors.New("narrative generation unavailable")

// Generator produces a narrative section from structured plan context.
type Generator interface {
	Generate(ctx context.Context, title, instructions string, plan Context) (string, error)
}

// Context is the structured plan data handed to a generator.
type Context struct {
	Identification config.BusinessProfile  `json:"identification"`
	Sales          []config.SalesLine      `json:"sales"`
	Personnel      []config.PersonnelLine  `json:"personnel"`
	Investment     []config.InvestmentItem `json:"investment"`
}

// NewContext extracts the generator context from an input.
func NewContext(in config.Input) Context {
	return Context{
		Identification: in.Identification,
		Sales:          in.Sales,
		Personnel:      in.Personnel,
		Investment:     in.Investment,
	}
}

// Section names a narrative field and what its text should cover.
type Section struct {
	Title        string
	Instructions string
}

// The three narrative sections of a plan.
var (
	SectionObjectives = Section{Title: "Project Objectives", Instructions: "Include goals, expected results and KPIs."}
	SectionMarket     = Section{Title: "Market", Instructions: "Segments, needs, competition and value proposition."}
	SectionFacilities = Section{Title: "Facilities", Instructions: "Location, technical resources, team and partnerships."}
)

// Unavailable is the generator used when no language model is configured.
type Unavailable struct{}

// Generate always fails with ErrUnavailable.
func (Unavailable) Generate(context.Context, string, string, Context) (string, error) {
	return "", ErrUnavailable
}

// Placeholder is the clearly marked text used in place of a failed draft.
func Placeholder(section Section) string {
	return fmt.Sprintf("[To fill in] %s: %s", section.Title, section.Instructions)
}

// Draft asks the generator for a section and returns the placeholder on any
// failure.
func Draft(ctx context.Context, logger *zap.Logger, generator Generator, section Section, plan Context) string {
	if logger == nil {
		logger = zap.NewNop()
	}
	if generator == nil {
		return Placeholder(section)
	}

	text, err := generator.Generate(ctx, section.Title, section.Instructions, plan)
	if err == nil {
		text = CleanText(text)
	}
	if err != nil || text == "" {
		if err == nil {
			err = ErrUnavailable
		}
		logger.Warn("narrative draft unavailable, using placeholder",
			zap.String("op", "narrative.Draft"),
			zap.String("section", section.Title),
			zap.Error(err),
		)
		return Placeholder(section)
	}

	return text
}

// Fill returns the input's narratives with every empty section drafted.
// Sections that already hold text are left untouched.
func Fill(ctx context.Context, logger *zap.Logger, generator Generator, in config.Input) config.Narratives {
	narratives := in.Narratives
	plan := NewContext(in)

	fields := []struct {
		section Section
		text    *string
	}{
		{SectionObjectives, &narratives.Objectives},
		{SectionMarket, &narratives.Market},
		{SectionFacilities, &narratives.Facilities},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.text) != "" {
			continue
		}
		*field.text = Draft(ctx, logger, generator, field.section, plan)
	}

	return narratives
}

// CleanText strips surrounding whitespace and an outer Markdown code fence
// that language models sometimes wrap their answers in.
func CleanText(input string) string {
	cleaned := strings.TrimSpace(input)
	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") && len(cleaned) >= 6 {
		cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "```"), "```")
		// Drop a language tag such as ```markdown on the opening line.
		if idx := strings.Index(cleaned, "\n"); idx >= 0 && !strings.Contains(cleaned[:idx], " ") {
			cleaned = cleaned[idx+1:]
		}
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}
