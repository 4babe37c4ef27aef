package projection

import (
	"strconv"

	"github.com/iwvelando/plan-autofill/internal/config"
	"github.com/iwvelando/plan-autofill/pkg/loans"
	"github.com/iwvelando/plan-autofill/pkg/mathutil"
)

// financingTable builds the fixed-principal repayment schedule, one row per
// projected year, and returns the interest paid each year. Without a loan
// the table has no rows and interest is zero.
func (e *Engine) financingTable(loan *config.Loan, years config.YearSet) (Table, YearValues) {
	table := Table{
		Name:    TableFinancing,
		Title:   "Financing",
		Columns: append([]string(nil), FinancingColumns...),
		Rows:    []Row{},
	}
	var interest YearValues

	if loan == nil || loan.Principal <= 0 {
		return table, interest
	}

	schedule := e.loans.GenerateSchedule(loans.LoanConfig{
		Name:         "loan",
		Principal:    loan.Principal,
		InterestRate: loan.Rate(e.policy),
		TermYears:    loan.Term(e.policy),
	}, years[:])

	for i, payment := range schedule {
		interest[i] = payment.Interest
		table.Rows = append(table.Rows, Row{
			Label: strconv.Itoa(payment.Year),
			Values: []*float64{
				mathutil.RoundPtr(payment.Installment),
				mathutil.RoundPtr(payment.Principal),
				mathutil.RoundPtr(payment.Interest),
				mathutil.RoundPtr(payment.RemainingPrincipal),
			},
		})
	}

	return table, interest
}
