package projection

// Table names, in the order renderers present them.
const (
	TableSales           = "sales"
	TableCOGS            = "cogs"
	TableOverhead        = "overhead"
	TablePersonnel       = "personnel"
	TableDepreciation    = "depreciation"
	TableFinancing       = "financing"
	TableIncomeStatement = "income_statement"
	TableBalanceSheet    = "balance_sheet"
)

// Income statement row labels, in their fixed order.
const (
	RowRevenue      = "Sales/Services"
	RowCOGS         = "COGS"
	RowOverhead     = "Overhead (FSE)"
	RowPersonnel    = "Personnel"
	RowDepreciation = "Depreciation"
	RowInterest     = "Interest"
	RowResult       = "Result"
)

// Balance sheet row labels.
const (
	RowNonCurrentAssets = "Non-current assets"
	RowCurrentAssets    = "Current assets"
	RowEquity           = "Equity"
)

// FinancingColumns are the columns of the financing schedule.
var FinancingColumns = []string{"year", "installment", "capital", "interest", "balance"}

// Table is a labelled grid: the first column holds row labels and every other
// column one value per row. A nil value is an unset cell.
type Table struct {
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Row is one line of a Table. Values align with Columns[1:].
type Row struct {
	Label  string     `json:"label"`
	Values []*float64 `json:"values"`
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Row returns the first row with the given label.
func (t Table) Row(label string) (Row, bool) {
	for _, row := range t.Rows {
		if row.Label == label {
			return row, true
		}
	}
	return Row{}, false
}

// Value returns the cell at the given row label and value column index, and
// whether it is set.
func (t Table) Value(label string, column int) (float64, bool) {
	row, ok := t.Row(label)
	if !ok || column < 0 || column >= len(row.Values) || row.Values[column] == nil {
		return 0, false
	}
	return *row.Values[column], true
}

// Tables holds every table produced by one projection.
type Tables struct {
	Sales           Table `json:"sales"`
	COGS            Table `json:"cogs"`
	Overhead        Table `json:"overhead"`
	Personnel       Table `json:"personnel"`
	Depreciation    Table `json:"depreciation"`
	Financing       Table `json:"financing"`
	IncomeStatement Table `json:"incomeStatement"`
	BalanceSheet    Table `json:"balanceSheet"`
}

// Ordered returns the tables in presentation order.
func (t Tables) Ordered() []Table {
	return []Table{
		t.Sales,
		t.COGS,
		t.Overhead,
		t.Personnel,
		t.Depreciation,
		t.Financing,
		t.IncomeStatement,
		t.BalanceSheet,
	}
}

// ByName returns the tables keyed by table name.
func (t Tables) ByName() map[string]Table {
	ordered := t.Ordered()
	byName := make(map[string]Table, len(ordered))
	for _, table := range ordered {
		byName[table.Name] = table
	}
	return byName
}

func newYearTable(name, title, labelColumn string, years []string) Table {
	columns := make([]string, 0, len(years)+1)
	columns = append(columns, labelColumn)
	columns = append(columns, years...)
	return Table{Name: name, Title: title, Columns: columns, Rows: []Row{}}
}
