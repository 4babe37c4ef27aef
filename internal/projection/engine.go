// Package projection turns a business plan input into the three-year
// financial projection tables.
package projection

import (
	"maps"

	"github.com/iwvelando/plan-autofill/internal/config"
	"github.com/iwvelando/plan-autofill/pkg/constants"
	"github.com/iwvelando/plan-autofill/pkg/loans"
	"go.uber.org/zap"
)

// YearValues holds one figure per projected year.
type YearValues [constants.YearsInProjection]float64

// Totals holds the unrounded yearly aggregates the statements are built from.
type Totals struct {
	Revenue      YearValues
	Personnel    YearValues
	Depreciation YearValues
	Interest     YearValues
}

// Projection is the result of one engine run. It is not modified after
// Project returns.
type Projection struct {
	Years  config.YearSet
	Tables Tables
	Totals Totals
}

// Engine computes projections under a fixed policy.
type Engine struct {
	logger *zap.Logger
	policy config.Policy
	loans  *loans.AmortizationScheduleGenerator
}

// NewEngine creates an engine for the given policy.
func NewEngine(logger *zap.Logger, policy config.Policy) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	policy.RevenueGrowth = append([]float64(nil), policy.RevenueGrowth...)
	policy.DepreciationYears = maps.Clone(policy.DepreciationYears)
	policy.Normalize()

	return &Engine{
		logger: logger,
		policy: policy,
		loans:  loans.NewAmortizationScheduleGenerator(logger),
	}
}

// Policy returns the policy the engine projects with.
func (e *Engine) Policy() config.Policy {
	return e.policy
}

// Project computes every projection table for the input. Missing optional
// sections produce empty or zero-filled tables rather than errors.
func (e *Engine) Project(in config.Input) Projection {
	years := in.YearSet()
	labels := years.Labels()

	var result Projection
	result.Years = years

	result.Tables.Sales, result.Totals.Revenue = e.salesTable(in.Sales, labels)
	result.Tables.COGS = e.cogsTable(result.Totals.Revenue, labels)
	result.Tables.Overhead = e.overheadTable(result.Totals.Revenue, labels)
	result.Tables.Personnel, result.Totals.Personnel = e.personnelTable(in, labels)
	result.Tables.Depreciation, result.Totals.Depreciation = e.depreciationTable(in.Investment, labels)
	result.Tables.Financing, result.Totals.Interest = e.financingTable(in.Loan, years)
	result.Tables.IncomeStatement = e.incomeStatement(result.Tables, result.Totals, labels)
	result.Tables.BalanceSheet = e.balanceSheet(in, result.Totals.Revenue, labels)

	e.logger.Debug("projection computed",
		zap.String("op", "projection.Project"),
		zap.Ints("years", years[:]),
		zap.Int("sales", len(in.Sales)),
		zap.Int("personnel", len(in.Personnel)),
		zap.Int("investment", len(in.Investment)),
		zap.Bool("financing", !result.Tables.Financing.Empty()),
	)

	return result
}
