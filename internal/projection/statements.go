package projection

import (
	"github.com/iwvelando/plan-autofill/internal/config"
	"github.com/iwvelando/plan-autofill/pkg/mathutil"
)

// firstRowValues returns the rounded values of a single-row table.
func firstRowValues(table Table) YearValues {
	var values YearValues
	if table.Empty() {
		return values
	}
	for i, cell := range table.Rows[0].Values {
		if i < len(values) && cell != nil {
			values[i] = *cell
		}
	}
	return values
}

// incomeStatement stacks revenue and the five expense lines in fixed order
// and derives the yearly result from the rounded figures.
func (e *Engine) incomeStatement(tables Tables, totals Totals, years []string) Table {
	table := newYearTable(TableIncomeStatement, "Income Statement", "item", years)

	lines := []struct {
		label  string
		values YearValues
	}{
		{RowRevenue, totals.Revenue},
		{RowCOGS, firstRowValues(tables.COGS)},
		{RowOverhead, firstRowValues(tables.Overhead)},
		{RowPersonnel, totals.Personnel},
		{RowDepreciation, totals.Depreciation},
		{RowInterest, totals.Interest},
	}

	var result YearValues
	for idx, line := range lines {
		cells := roundedValues(line.values)
		table.Rows = append(table.Rows, Row{Label: line.label, Values: cells})
		for i := range result {
			if idx == 0 {
				result[i] = *cells[i]
			} else {
				result[i] = mathutil.Sum(result[i], -*cells[i])
			}
		}
	}
	table.Rows = append(table.Rows, Row{Label: RowResult, Values: roundedValues(result)})

	return table
}

// balanceSheet reports the simplified three-line balance sheet. Non-current
// assets and equity are only known at the start, so years two and three are
// left unset; the sheet is not expected to balance.
func (e *Engine) balanceSheet(in config.Input, revenue YearValues, years []string) Table {
	table := newYearTable(TableBalanceSheet, "Balance Sheet", "item", years)

	investments := make([]float64, 0, len(in.Investment))
	for _, item := range in.Investment {
		investments = append(investments, item.Value)
	}

	currentAssets := make([]*float64, len(revenue))
	for i, r := range revenue {
		currentAssets[i] = mathutil.RoundPtr(mathutil.Max(e.policy.CurrentAssetsPctOfRevenue*r, 0))
	}

	table.Rows = append(table.Rows,
		Row{Label: RowNonCurrentAssets, Values: firstYearOnly(mathutil.Sum(investments...), len(years))},
		Row{Label: RowCurrentAssets, Values: currentAssets},
		Row{Label: RowEquity, Values: firstYearOnly(in.InitialEquity, len(years))},
	)

	return table
}

func firstYearOnly(value float64, width int) []*float64 {
	cells := make([]*float64, width)
	if width > 0 {
		cells[0] = mathutil.RoundPtr(value)
	}
	return cells
}
