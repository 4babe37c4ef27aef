package projection

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/iwvelando/plan-autofill/internal/config"
	"github.com/iwvelando/plan-autofill/pkg/mathutil"
	"go.uber.org/zap"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int          { return &v }

func newTestEngine() *Engine {
	return NewEngine(zap.NewNop(), config.DefaultPolicy())
}

func assertRow(t *testing.T, table Table, label string, expected []float64) {
	t.Helper()
	row, ok := table.Row(label)
	if !ok {
		t.Fatalf("%s: missing row %q", table.Name, label)
	}
	if len(row.Values) != len(expected) {
		t.Fatalf("%s/%s: expected %d values, got %d", table.Name, label, len(expected), len(row.Values))
	}
	for i, want := range expected {
		if row.Values[i] == nil {
			t.Errorf("%s/%s[%d]: unset, expected %.2f", table.Name, label, i, want)
			continue
		}
		if got := *row.Values[i]; math.Abs(got-want) > 1e-9 {
			t.Errorf("%s/%s[%d] = %.4f, expected %.2f", table.Name, label, i, got, want)
		}
	}
}

func sampleInput() config.Input {
	return config.Input{
		Years: []int{2025, 2026, 2027},
		Sales: []config.SalesLine{
			{Label: "Service A", UnitPrice: 50, MonthlyQuantity: 100, MonthsYear1: floatPtr(10)},
		},
		Personnel: []config.PersonnelLine{
			{Role: "Technician", Headcount: 1, MonthlyPay: 1100, Months: floatPtr(12)},
		},
		Investment: []config.InvestmentItem{
			{Category: "equipamento", Description: "Workshop tools", Value: 12000},
		},
		InitialEquity: 8000,
		Loan:          &config.Loan{Principal: 12000, InterestRate: floatPtr(0.06), TermYears: intPtr(3)},
	}
}

func TestProjectSales(t *testing.T) {
	p := newTestEngine().Project(sampleInput())

	assertRow(t, p.Tables.Sales, "Service A", []float64{50000, 54000, 58320})
	assertRow(t, p.Tables.COGS, RowCOGS, []float64{22500, 24300, 26244})
	assertRow(t, p.Tables.Overhead, "FSE", []float64{6000, 6480, 6998.40})

	if p.Totals.Revenue != (YearValues{50000, 54000, 58320}) {
		t.Errorf("revenue totals = %v", p.Totals.Revenue)
	}
}

func TestProjectSalesMultipleLines(t *testing.T) {
	in := config.Input{
		Sales: []config.SalesLine{
			{Label: "A", UnitPrice: 10, MonthlyQuantity: 10},
			{UnitPrice: 0.333, MonthlyQuantity: 1, MonthsYear1: floatPtr(1)},
		},
	}
	p := newTestEngine().Project(in)

	assertRow(t, p.Tables.Sales, "A", []float64{1200, 1296, 1399.68})
	assertRow(t, p.Tables.Sales, "—", []float64{0.33, 0.36, 0.39})
	// Totals add the rounded row values.
	assertRow(t, p.Tables.IncomeStatement, RowRevenue, []float64{1200.33, 1296.36, 1400.07})
}

func TestProjectPersonnel(t *testing.T) {
	p := newTestEngine().Project(sampleInput())

	// Raise compounds on gross pay; social charges apply to each year's gross.
	assertRow(t, p.Tables.Personnel, "Technician", []float64{16335.00, 16825.05, 17329.80})
}

func TestProjectPersonnelCustomRaise(t *testing.T) {
	in := config.Input{
		SalaryRaisePct: floatPtr(0),
		Personnel: []config.PersonnelLine{
			{Role: "Cook", Headcount: 2, MonthlyPay: 1000},
		},
	}
	p := newTestEngine().Project(in)

	assertRow(t, p.Tables.Personnel, "Cook", []float64{29700, 29700, 29700})
	if p.Totals.Personnel != (YearValues{29700, 29700, 29700}) {
		t.Errorf("personnel totals = %v", p.Totals.Personnel)
	}
}

func TestProjectDepreciation(t *testing.T) {
	in := config.Input{
		Investment: []config.InvestmentItem{
			{Category: "Equipamento", Description: "Lathe", Value: 12000},
			{Category: "IT", Description: "Laptops", Value: 3000},
			{Category: "spaceship", Description: "Mystery", Value: 1000},
			{Value: 400},
		},
	}
	p := newTestEngine().Project(in)

	assertRow(t, p.Tables.Depreciation, "equipamento: Lathe", []float64{2400, 2400, 2400})
	assertRow(t, p.Tables.Depreciation, "it: Laptops", []float64{1000, 1000, 1000})
	assertRow(t, p.Tables.Depreciation, "spaceship: Mystery", []float64{250, 250, 250})
	assertRow(t, p.Tables.Depreciation, "other: —", []float64{100, 100, 100})
	assertRow(t, p.Tables.IncomeStatement, RowDepreciation, []float64{3750, 3750, 3750})
}

func TestProjectDepreciationZeroLife(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.DepreciationYears[config.CategoryIT] = 0
	p := NewEngine(nil, policy).Project(config.Input{
		Investment: []config.InvestmentItem{{Category: "it", Description: "Servers", Value: 9000}},
	})

	assertRow(t, p.Tables.Depreciation, "it: Servers", []float64{0, 0, 0})
	if v, ok := p.Tables.BalanceSheet.Value(RowNonCurrentAssets, 0); !ok || v != 9000 {
		t.Errorf("non-current assets = %v (set=%v), expected 9000", v, ok)
	}
}

func TestProjectFinancing(t *testing.T) {
	p := newTestEngine().Project(sampleInput())

	financing := p.Tables.Financing
	if len(financing.Columns) != 5 || financing.Columns[0] != "year" {
		t.Fatalf("unexpected financing columns %v", financing.Columns)
	}
	assertRow(t, financing, "2025", []float64{4720, 4000, 720, 8000})
	assertRow(t, financing, "2026", []float64{4480, 4000, 480, 4000})
	assertRow(t, financing, "2027", []float64{4240, 4000, 240, 0})
	assertRow(t, p.Tables.IncomeStatement, RowInterest, []float64{720, 480, 240})
}

func TestProjectFinancingDefaults(t *testing.T) {
	in := config.Input{Loan: &config.Loan{Principal: 9000}}
	p := newTestEngine().Project(in)

	assertRow(t, p.Tables.Financing, "2025", []float64{3540, 3000, 540, 6000})
}

func TestProjectWithoutLoan(t *testing.T) {
	for name, loan := range map[string]*config.Loan{
		"absent":         nil,
		"zero principal": {Principal: 0, InterestRate: floatPtr(0.06), TermYears: intPtr(3)},
	} {
		t.Run(name, func(t *testing.T) {
			in := sampleInput()
			in.Loan = loan
			p := newTestEngine().Project(in)

			if !p.Tables.Financing.Empty() {
				t.Errorf("expected an empty financing table, got %d rows", len(p.Tables.Financing.Rows))
			}
			if len(p.Tables.Financing.Columns) != 5 {
				t.Errorf("expected financing columns to be kept, got %v", p.Tables.Financing.Columns)
			}
			assertRow(t, p.Tables.IncomeStatement, RowInterest, []float64{0, 0, 0})
		})
	}
}

func TestProjectIncomeStatement(t *testing.T) {
	p := newTestEngine().Project(sampleInput())
	is := p.Tables.IncomeStatement

	expectedOrder := []string{RowRevenue, RowCOGS, RowOverhead, RowPersonnel, RowDepreciation, RowInterest, RowResult}
	if len(is.Rows) != len(expectedOrder) {
		t.Fatalf("expected %d rows, got %d", len(expectedOrder), len(is.Rows))
	}
	for i, label := range expectedOrder {
		if is.Rows[i].Label != label {
			t.Errorf("row %d = %q, expected %q", i, is.Rows[i].Label, label)
		}
	}

	assertRow(t, is, RowResult, []float64{2045, 3514.95, 5107.80})
}

func TestProjectBalanceSheet(t *testing.T) {
	p := newTestEngine().Project(sampleInput())
	bs := p.Tables.BalanceSheet

	if len(bs.Rows) != 3 {
		t.Fatalf("expected 3 balance sheet rows, got %d", len(bs.Rows))
	}
	if v, ok := bs.Value(RowNonCurrentAssets, 0); !ok || v != 12000 {
		t.Errorf("non-current assets year 1 = %v (set=%v), expected 12000", v, ok)
	}
	if v, ok := bs.Value(RowEquity, 0); !ok || v != 8000 {
		t.Errorf("equity year 1 = %v (set=%v), expected 8000", v, ok)
	}
	for _, label := range []string{RowNonCurrentAssets, RowEquity} {
		for col := 1; col < 3; col++ {
			if _, ok := bs.Value(label, col); ok {
				t.Errorf("%s year %d should be unset", label, col+1)
			}
		}
	}
	assertRow(t, bs, RowCurrentAssets, []float64{5000, 5400, 5832})
}

func TestProjectEmptyInput(t *testing.T) {
	p := newTestEngine().Project(config.Input{})

	if p.Years != (config.YearSet{2025, 2026, 2027}) {
		t.Errorf("Years = %v, expected defaults", p.Years)
	}

	for _, table := range []Table{p.Tables.Sales, p.Tables.Personnel, p.Tables.Depreciation} {
		if !table.Empty() {
			t.Errorf("%s: expected no rows, got %d", table.Name, len(table.Rows))
		}
		if len(table.Columns) != 4 || table.Columns[1] != "2025" || table.Columns[3] != "2027" {
			t.Errorf("%s: unexpected columns %v", table.Name, table.Columns)
		}
	}

	for _, label := range []string{RowRevenue, RowCOGS, RowOverhead, RowPersonnel, RowDepreciation, RowInterest, RowResult} {
		assertRow(t, p.Tables.IncomeStatement, label, []float64{0, 0, 0})
	}
	assertRow(t, p.Tables.COGS, RowCOGS, []float64{0, 0, 0})
	assertRow(t, p.Tables.BalanceSheet, RowCurrentAssets, []float64{0, 0, 0})
}

func TestProjectTablesOrdered(t *testing.T) {
	p := newTestEngine().Project(sampleInput())

	expected := []string{
		TableSales, TableCOGS, TableOverhead, TablePersonnel,
		TableDepreciation, TableFinancing, TableIncomeStatement, TableBalanceSheet,
	}
	ordered := p.Tables.Ordered()
	if len(ordered) != len(expected) {
		t.Fatalf("expected %d tables, got %d", len(expected), len(ordered))
	}
	for i, name := range expected {
		if ordered[i].Name != name {
			t.Errorf("table %d = %q, expected %q", i, ordered[i].Name, name)
		}
		if ordered[i].Title == "" {
			t.Errorf("table %q has no title", name)
		}
	}
	if len(p.Tables.ByName()) != len(expected) {
		t.Errorf("ByName() returned %d tables", len(p.Tables.ByName()))
	}
}

func TestProjectPolicyOverride(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.RevenueGrowth = []float64{0, 0.5, 0}
	policy.TargetGrossMargin = 1
	policy.OverheadPctOfRevenue = 0

	p := NewEngine(zap.NewNop(), policy).Project(config.Input{
		Sales: []config.SalesLine{{Label: "X", UnitPrice: 100, MonthlyQuantity: 1}},
	})

	assertRow(t, p.Tables.Sales, "X", []float64{1200, 1800, 1800})
	assertRow(t, p.Tables.COGS, RowCOGS, []float64{0, 0, 0})
	assertRow(t, p.Tables.IncomeStatement, RowResult, []float64{1200, 1800, 1800})
}

func TestNewEngineDoesNotAlterPolicy(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.DepreciationYears = map[string]int{config.CategoryIT: 2}

	engine := NewEngine(nil, policy)
	if len(policy.DepreciationYears) != 1 {
		t.Errorf("caller's policy map was modified: %v", policy.DepreciationYears)
	}
	if engine.Policy().UsefulLife(config.CategoryEquipment) != 5 {
		t.Errorf("engine policy missing default lives: %v", engine.Policy().DepreciationYears)
	}
}

func TestProjectFromInputFile(t *testing.T) {
	in, err := config.LoadInput(filepath.Join("..", "..", "test", "input.yaml"))
	if err != nil {
		t.Fatalf("LoadInput() error = %v", err)
	}
	p := newTestEngine().Project(*in)
	assertRow(t, p.Tables.IncomeStatement, RowResult, []float64{2045, 3514.95, 5107.80})
}

func isRounded(v float64) bool {
	scaled := v * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

// TestIncomeStatementResultIdentity checks the result row against its
// components for generated inputs.
func TestIncomeStatementResultIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	engine := newTestEngine()
	categories := []string{"equipment", "it", "vehicles", "intangibles", "other", "unknown"}

	for iteration := 0; iteration < 500; iteration++ {
		var in config.Input
		for i := rng.Intn(4); i > 0; i-- {
			in.Sales = append(in.Sales, config.SalesLine{
				Label:           "s",
				UnitPrice:       rng.Float64() * 500,
				MonthlyQuantity: float64(rng.Intn(1000)),
				MonthsYear1:     floatPtr(float64(rng.Intn(13))),
			})
		}
		for i := rng.Intn(4); i > 0; i-- {
			in.Personnel = append(in.Personnel, config.PersonnelLine{
				Role:       "p",
				Headcount:  float64(rng.Intn(5)),
				MonthlyPay: rng.Float64() * 3000,
			})
		}
		for i := rng.Intn(4); i > 0; i-- {
			in.Investment = append(in.Investment, config.InvestmentItem{
				Category: categories[rng.Intn(len(categories))],
				Value:    rng.Float64() * 50000,
			})
		}
		if rng.Intn(2) == 0 {
			in.Loan = &config.Loan{
				Principal:    rng.Float64() * 100000,
				InterestRate: floatPtr(rng.Float64() * 0.15),
				TermYears:    intPtr(rng.Intn(10)),
			}
		}

		is := engine.Project(in).Tables.IncomeStatement
		for col := 0; col < 3; col++ {
			get := func(label string) float64 {
				v, ok := is.Value(label, col)
				if !ok {
					t.Fatalf("iteration %d: %s year %d unset", iteration, label, col+1)
				}
				if !isRounded(v) {
					t.Fatalf("iteration %d: %s year %d = %v is not rounded to cents", iteration, label, col+1, v)
				}
				return v
			}
			revenue, cogs, overhead := get(RowRevenue), get(RowCOGS), get(RowOverhead)
			personnel, depreciation, interest := get(RowPersonnel), get(RowDepreciation), get(RowInterest)
			result := get(RowResult)

			expected := mathutil.Round(mathutil.Sum(revenue, -cogs, -overhead, -personnel, -depreciation, -interest))
			if result != expected {
				t.Fatalf("iteration %d year %d: result %.2f, expected %.2f", iteration, col+1, result, expected)
			}
			if plain := revenue - cogs - overhead - personnel - depreciation - interest; math.Abs(result-plain) > 1e-6 {
				t.Fatalf("iteration %d year %d: result %.2f differs from %.6f", iteration, col+1, result, plain)
			}
		}
	}
}
