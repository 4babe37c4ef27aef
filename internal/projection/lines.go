package projection

import (
	"fmt"
	"strings"

	"github.com/iwvelando/plan-autofill/internal/config"
	"github.com/iwvelando/plan-autofill/pkg/constants"
	"github.com/iwvelando/plan-autofill/pkg/mathutil"
	"go.uber.org/zap"
)

func labelOrMissing(label string) string {
	if strings.TrimSpace(label) == "" {
		return constants.MissingLabel
	}
	return label
}

func roundedValues(values YearValues) []*float64 {
	cells := make([]*float64, len(values))
	for i, v := range values {
		cells[i] = mathutil.RoundPtr(v)
	}
	return cells
}

// addRounded accumulates the rounded cells of a row so totals match what the
// table shows.
func addRounded(total *YearValues, cells []*float64) {
	for i := range total {
		total[i] = mathutil.Sum(total[i], *cells[i])
	}
}

// salesTable projects each sales line over the three years and returns the
// revenue totals.
func (e *Engine) salesTable(lines []config.SalesLine, years []string) (Table, YearValues) {
	table := newYearTable(TableSales, "Sales/Services (3 years)", "description", years)
	var revenue YearValues

	for _, line := range lines {
		var values YearValues
		values[0] = line.UnitPrice * line.MonthlyQuantity * line.Months()
		for i := 1; i < len(values); i++ {
			values[i] = mathutil.Grow(values[i-1], e.policy.Growth(i))
		}

		cells := roundedValues(values)
		table.Rows = append(table.Rows, Row{Label: labelOrMissing(line.Label), Values: cells})
		addRounded(&revenue, cells)
	}

	return table, revenue
}

// cogsTable derives cost of goods sold from the target gross margin.
func (e *Engine) cogsTable(revenue YearValues, years []string) Table {
	table := newYearTable(TableCOGS, "COGS (3 years)", "item", years)
	var cogs YearValues
	for i, r := range revenue {
		cogs[i] = (1 - e.policy.TargetGrossMargin) * r
	}
	table.Rows = append(table.Rows, Row{Label: RowCOGS, Values: roundedValues(cogs)})
	return table
}

// overheadTable derives supplies and external services (FSE) as a share of revenue.
func (e *Engine) overheadTable(revenue YearValues, years []string) Table {
	table := newYearTable(TableOverhead, "Overhead/FSE (3 years)", "item", years)
	var overhead YearValues
	for i, r := range revenue {
		overhead[i] = e.policy.OverheadPctOfRevenue * r
	}
	table.Rows = append(table.Rows, Row{Label: "FSE", Values: roundedValues(overhead)})
	return table
}

// personnelTable compounds the salary raise on gross pay and then applies
// social charges to each year's gross.
func (e *Engine) personnelTable(in config.Input, years []string) (Table, YearValues) {
	table := newYearTable(TablePersonnel, "Personnel (3 years)", "item", years)
	var total YearValues
	raise := in.SalaryRaise(e.policy)

	for _, line := range in.Personnel {
		var gross, cost YearValues
		gross[0] = line.MonthlyPay * line.Headcount * line.PaidMonths()
		for i := 1; i < len(gross); i++ {
			gross[i] = mathutil.Grow(gross[i-1], raise)
		}
		for i, g := range gross {
			cost[i] = mathutil.Grow(g, e.policy.SocialChargesPct)
		}

		cells := roundedValues(cost)
		table.Rows = append(table.Rows, Row{Label: labelOrMissing(line.Role), Values: cells})
		addRounded(&total, cells)
	}

	return table, total
}

// depreciationTable applies straight-line depreciation to every investment,
// the same amount in each year.
func (e *Engine) depreciationTable(items []config.InvestmentItem, years []string) (Table, YearValues) {
	table := newYearTable(TableDepreciation, "Depreciation", "asset", years)
	var total YearValues

	for _, item := range items {
		category := strings.ToLower(strings.TrimSpace(item.Category))
		if category == "" {
			category = config.CategoryOther
		}

		life := e.policy.UsefulLife(category)
		annual := 0.0
		if life > 0 {
			annual = item.Value / float64(life)
		} else {
			e.logger.Debug(fmt.Sprintf("investment %q has no useful life, not depreciated", item.Description),
				zap.String("op", "projection.depreciationTable"),
			)
		}

		var values YearValues
		for i := range values {
			values[i] = annual
			total[i] += annual
		}

		label := fmt.Sprintf("%s: %s", category, labelOrMissing(item.Description))
		table.Rows = append(table.Rows, Row{Label: label, Values: roundedValues(values)})
	}

	return table, total
}
