// Package loans provides common loan processing utilities.
package loans

import (
	"fmt"

	"github.com/iwvelando/plan-autofill/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given yearly payment.
type Payment struct {
	Year               int
	Installment        float64
	Principal          float64
	Interest           float64
	RemainingPrincipal float64
}

// LoanConfig represents loan configuration parameters. InterestRate is an
// annual fraction (0.06 for 6%).
type LoanConfig struct {
	Name         string
	Principal    float64
	InterestRate float64
	TermYears    int
}

// CalculateAnnualPrincipal returns the constant capital repaid each year under
// fixed-principal amortization. A non-positive term repays everything in the
// first year.
func CalculateAnnualPrincipal(principal float64, termYears int) float64 {
	if termYears <= 0 {
		return principal
	}
	return principal / float64(termYears)
}

// CalculateInterestPayment calculates the interest owed for one year on the
// remaining principal.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * annualInterestRate
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates a fixed-principal amortization schedule with one
// payment per requested year. Values are not rounded. A loan without
// principal has no schedule.
func (g *AmortizationScheduleGenerator) GenerateSchedule(loan LoanConfig, years []int) []Payment {
	if loan.Principal <= 0 {
		return nil
	}

	annualPrincipal := CalculateAnnualPrincipal(loan.Principal, loan.TermYears)
	balance := loan.Principal
	schedule := make([]Payment, 0, len(years))

	for _, year := range years {
		var payment Payment
		payment.Year = year
		payment.Interest = CalculateInterestPayment(balance, loan.InterestRate)
		payment.Principal = mathutil.Min(annualPrincipal, balance)
		payment.Installment = payment.Interest + payment.Principal
		balance = mathutil.Max(0, balance-payment.Principal)
		payment.RemainingPrincipal = balance
		schedule = append(schedule, payment)

		if balance == 0 && payment.Principal > 0 {
			g.logger.Debug(fmt.Sprintf("%d: loan %s fully repaid", year, loan.Name),
				zap.String("op", "loans.GenerateSchedule"),
			)
		}
	}

	if balance > 0 {
		g.logger.Debug(fmt.Sprintf("loan %s has %.2f outstanding after the projected years", loan.Name, balance),
			zap.String("op", "loans.GenerateSchedule"),
		)
	}

	return schedule
}
