package core

// CategoryAmount represents an amount aggregated by category id.
type CategoryAmount struct {
	Category string
	Amount   Money
}

// Totals are the income and expense sums of a period.
type Totals struct {
	Income  Money
	Expense Money
}

// Saved is income minus expense.
func (t Totals) Saved() Money {
	return t.Income.Sub(t.Expense)
}

// MonthTotals pairs a month with its totals.
type MonthTotals struct {
	Month MonthKey
	Totals
}

// NetWorthPoint is one date of the net-worth series, with same-day entries summed.
type NetWorthPoint struct {
	Date   Date
	Assets Money
	Liab   Money
	Net    Money
}

// ExportRow is the flat projection of a transaction handed to spreadsheet sinks.
type ExportRow struct {
	ID       string
	Type     string
	Amount   string // major units, two decimals
	Date     string
	Category string // resolved label
}

// Dataset is one named series of a chart.
type Dataset struct {
	Label  string
	Values []Money
}

// Series is the chart projection: labels on the x axis, one or more datasets.
type Series struct {
	Labels   []string
	Datasets []Dataset
}

// SummaryRow is one month of the yearly summary export, preformatted.
type SummaryRow struct {
	Month   string // "2024-03"
	Income  string
	Expense string
	Saved   string
	Percent string // empty without a goal
	Status  string
}
