package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/iwvelando/plan-autofill/pkg/constants"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Input is the full business plan submission consumed by the projection engine.
type Input struct {
	Identification  BusinessProfile  `mapstructure:"identification" yaml:"identification" json:"identification"`
	Narratives      Narratives       `mapstructure:"narratives" yaml:"narratives" json:"narratives"`
	CharacterLimits CharacterLimits  `mapstructure:"characterLimits" yaml:"characterLimits" json:"characterLimits"`
	Years           []int            `mapstructure:"years" yaml:"years,flow" json:"years"`
	Sales           []SalesLine      `mapstructure:"sales" yaml:"sales" json:"sales" validate:"dive"`
	Personnel       []PersonnelLine  `mapstructure:"personnel" yaml:"personnel" json:"personnel" validate:"dive"`
	Investment      []InvestmentItem `mapstructure:"investment" yaml:"investment" json:"investment" validate:"dive"`
	InitialEquity   float64          `mapstructure:"initialEquity" yaml:"initialEquity" json:"initialEquity" validate:"gte=0"`
	SalaryRaisePct  *float64         `mapstructure:"salaryRaisePct" yaml:"salaryRaisePct,omitempty" json:"salaryRaisePct,omitempty" validate:"omitempty,gte=0"`
	Loan            *Loan            `mapstructure:"loan" yaml:"loan,omitempty" json:"loan,omitempty"`
}

// BusinessProfile holds the free-form identification fields of the business.
type BusinessProfile struct {
	CompanyName  string `mapstructure:"companyName" yaml:"companyName" json:"companyName"`
	TaxID        string `mapstructure:"taxId" yaml:"taxId" json:"taxId"`
	Promoter     string `mapstructure:"promoter" yaml:"promoter" json:"promoter"`
	LegalForm    string `mapstructure:"legalForm" yaml:"legalForm" json:"legalForm"`
	Address      string `mapstructure:"address" yaml:"address" json:"address"`
	Email        string `mapstructure:"email" yaml:"email" json:"email"`
	Phone        string `mapstructure:"phone" yaml:"phone" json:"phone"`
	ActivityCode string `mapstructure:"activityCode" yaml:"activityCode" json:"activityCode"`
}

// Field is a labelled identification value, in display order.
type Field struct {
	Label string
	Value string
}

// Fields returns the identification values in display order.
func (b BusinessProfile) Fields() []Field {
	return []Field{
		{"Company Name", b.CompanyName},
		{"Tax ID", b.TaxID},
		{"Promoter", b.Promoter},
		{"Legal Form", b.LegalForm},
		{"Address", b.Address},
		{"Email", b.Email},
		{"Phone", b.Phone},
		{"Activity Code", b.ActivityCode},
	}
}

// Narratives holds the three free-text plan sections.
type Narratives struct {
	Objectives string `mapstructure:"objectives" yaml:"objectives" json:"objectives"`
	Market     string `mapstructure:"market" yaml:"market" json:"market"`
	Facilities string `mapstructure:"facilities" yaml:"facilities" json:"facilities"`
}

// CharacterLimits caps the length of each narrative section.
type CharacterLimits struct {
	Objectives int `mapstructure:"objectives" yaml:"objectives" json:"objectives"`
	Market     int `mapstructure:"market" yaml:"market" json:"market"`
	Facilities int `mapstructure:"facilities" yaml:"facilities" json:"facilities"`
}

// SalesLine is one product or service sold.
type SalesLine struct {
	Label           string   `mapstructure:"label" yaml:"label" json:"label"`
	UnitPrice       float64  `mapstructure:"unitPrice" yaml:"unitPrice" json:"unitPrice" validate:"gte=0"`
	MonthlyQuantity float64  `mapstructure:"monthlyQuantity" yaml:"monthlyQuantity" json:"monthlyQuantity" validate:"gte=0"`
	MonthsYear1     *float64 `mapstructure:"monthsYear1" yaml:"monthsYear1,omitempty" json:"monthsYear1,omitempty" validate:"omitempty,gte=0,lte=12"`
}

// Months returns the months of operation in the first year, defaulting to a full year.
func (s SalesLine) Months() float64 {
	if s.MonthsYear1 == nil {
		return constants.MonthsPerYear
	}
	return *s.MonthsYear1
}

// PersonnelLine is one role on the payroll.
type PersonnelLine struct {
	Role       string   `mapstructure:"role" yaml:"role" json:"role"`
	Headcount  float64  `mapstructure:"headcount" yaml:"headcount" json:"headcount" validate:"gte=0"`
	MonthlyPay float64  `mapstructure:"monthlyPay" yaml:"monthlyPay" json:"monthlyPay" validate:"gte=0"`
	Months     *float64 `mapstructure:"months" yaml:"months,omitempty" json:"months,omitempty" validate:"omitempty,gte=0"`
}

// PaidMonths returns the months paid per year, defaulting to twelve.
func (p PersonnelLine) PaidMonths() float64 {
	if p.Months == nil {
		return constants.MonthsPerYear
	}
	return *p.Months
}

// InvestmentItem is one fixed asset acquired at the start of the plan.
type InvestmentItem struct {
	Category    string  `mapstructure:"category" yaml:"category" json:"category"`
	Description string  `mapstructure:"description" yaml:"description" json:"description"`
	Value       float64 `mapstructure:"value" yaml:"value" json:"value" validate:"gte=0"`
}

// Loan holds the financing terms. InterestRate is an annual fraction.
type Loan struct {
	Principal    float64  `mapstructure:"principal" yaml:"principal" json:"principal" validate:"gte=0"`
	InterestRate *float64 `mapstructure:"interestRate" yaml:"interestRate,omitempty" json:"interestRate,omitempty" validate:"omitempty,gte=0"`
	TermYears    *int     `mapstructure:"termYears" yaml:"termYears,omitempty" json:"termYears,omitempty" validate:"omitempty,gte=1"`
}

// Rate returns the loan interest rate or the policy default.
func (l Loan) Rate(policy Policy) float64 {
	if l.InterestRate == nil {
		return policy.DefaultInterestRate
	}
	return *l.InterestRate
}

// Term returns the amortization term in years or the policy default.
func (l Loan) Term(policy Policy) int {
	if l.TermYears == nil {
		return policy.DefaultAmortizationYears
	}
	return *l.TermYears
}

// YearSet is the three projected years, in order.
type YearSet [constants.YearsInProjection]int

// Labels returns the years as column labels.
func (y YearSet) Labels() []string {
	labels := make([]string, len(y))
	for i, year := range y {
		labels[i] = strconv.Itoa(year)
	}
	return labels
}

// YearSet returns exactly three sequential-or-given years. Missing years are
// filled in after the last one given; extra years are dropped.
func (in Input) YearSet() YearSet {
	var years YearSet
	switch {
	case len(in.Years) == 0:
		for i := range years {
			years[i] = constants.DefaultFirstYear + i
		}
	default:
		for i := range years {
			if i < len(in.Years) {
				years[i] = in.Years[i]
			} else {
				years[i] = years[i-1] + 1
			}
		}
	}
	return years
}

// SalaryRaise returns the yearly salary raise or the policy default.
func (in Input) SalaryRaise(policy Policy) float64 {
	if in.SalaryRaisePct == nil {
		return policy.DefaultSalaryRaisePct
	}
	return *in.SalaryRaisePct
}

// Limits returns the character limits with defaults applied to unset fields.
func (in Input) Limits() CharacterLimits {
	limits := in.CharacterLimits
	if limits.Objectives == 0 {
		limits.Objectives = constants.DefaultObjectivesLimit
	}
	if limits.Market == 0 {
		limits.Market = constants.DefaultMarketLimit
	}
	if limits.Facilities == 0 {
		limits.Facilities = constants.DefaultFacilitiesLimit
	}
	return limits
}

// LoadInput loads a YAML business plan input from disk.
func LoadInput(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading input file, %w", err)
	}
	return LoadInputFromReader(bytes.NewReader(data))
}

// LoadInputFromReader decodes a YAML business plan input.
func LoadInputFromReader(r io.Reader) (*Input, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading input data, %w", err)
	}

	var input Input
	if err := v.Unmarshal(&input); err != nil {
		return nil, fmt.Errorf("unable to decode input into struct, %w", err)
	}

	return &input, nil
}

// MarshalInput encodes an input as YAML, e.g. to offer a starting template.
func MarshalInput(in Input) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(in); err != nil {
		return nil, fmt.Errorf("failed to encode input: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode input: %w", err)
	}
	return buf.Bytes(), nil
}

// SampleInput returns a complete example submission with the values the
// interactive form starts from.
func SampleInput() Input {
	monthsYear1 := 10.0
	months := 12.0
	rate := 0.06
	term := 3
	return Input{
		Identification: BusinessProfile{LegalForm: "ENI"},
		CharacterLimits: CharacterLimits{
			Objectives: constants.DefaultObjectivesLimit,
			Market:     constants.DefaultMarketLimit,
			Facilities: constants.DefaultFacilitiesLimit,
		},
		Years: []int{constants.DefaultFirstYear, constants.DefaultFirstYear + 1, constants.DefaultFirstYear + 2},
		Sales: []SalesLine{
			{Label: "Service A", UnitPrice: 50, MonthlyQuantity: 100, MonthsYear1: &monthsYear1},
		},
		Personnel: []PersonnelLine{
			{Role: "Technician", Headcount: 1, MonthlyPay: 1100, Months: &months},
		},
		Investment: []InvestmentItem{
			{Category: CategoryEquipment, Description: "Equipment", Value: 12000},
		},
		InitialEquity: 8000,
		Loan:          &Loan{Principal: 12000, InterestRate: &rate, TermYears: &term},
	}
}
