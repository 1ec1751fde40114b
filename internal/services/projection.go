package services

import (
	"fintrack/internal/core"
)

// Read-only projections handed to exporters and chart renderers.

// TransactionRows flattens transactions for spreadsheet export, resolving
// category labels through the registry.
func TransactionRows(txns []core.Transaction, categories *CategoryRegistry) []core.ExportRow {
	rows := make([]core.ExportRow, len(txns))
	for i, t := range txns {
		rows[i] = core.ExportRow{
			ID:       t.ID,
			Type:     string(t.Type),
			Amount:   t.Amount.String(),
			Date:     t.Date.String(),
			Category: categories.ResolveLabel(t.Category),
		}
	}
	return rows
}

// YearlyRows projects a year of totals, with goal achievement when a goal is set.
func YearlyRows(s *core.State, year int) []core.SummaryRow {
	var goal core.Money
	if s.Goal != nil {
		goal = *s.Goal
	}
	totals := YearlyTotals(s.Transactions, year)
	rows := make([]core.SummaryRow, 0, len(totals))
	for _, m := range totals {
		row := core.SummaryRow{
			Month:   m.Month.String(),
			Income:  m.Income.String(),
			Expense: m.Expense.String(),
			Saved:   m.Saved().String(),
		}
		if pct, ok := AchievementPercent(m.Saved(), goal); ok {
			row.Percent = pct.String()
			row.Status = Classify(pct).String()
		}
		rows = append(rows, row)
	}
	return rows
}

func monthLabel(k core.MonthKey) string {
	return k.Month.String()[:3]
}

// ChartSeries bundles the series the dashboard charts draw.
type ChartSeries struct {
	Recent   core.Series // income vs expense, last three months
	Yearly   core.Series // income, expense and saved per month
	NetWorth core.Series
}

// Charts builds every chart series from s as of asOf.
func Charts(s *core.State, asOf core.Date) ChartSeries {
	var cs ChartSeries

	recent := RecentMonths(s.Transactions, asOf, 3)
	income := core.Dataset{Label: "Income"}
	expense := core.Dataset{Label: "Expense"}
	for _, m := range recent {
		cs.Recent.Labels = append(cs.Recent.Labels, monthLabel(m.Month))
		income.Values = append(income.Values, m.Income)
		expense.Values = append(expense.Values, m.Expense)
	}
	cs.Recent.Datasets = []core.Dataset{income, expense}

	yIncome := core.Dataset{Label: "Income"}
	yExpense := core.Dataset{Label: "Expense"}
	ySaved := core.Dataset{Label: "Saved"}
	for _, m := range YearlyTotals(s.Transactions, asOf.Year()) {
		cs.Yearly.Labels = append(cs.Yearly.Labels, monthLabel(m.Month))
		yIncome.Values = append(yIncome.Values, m.Income)
		yExpense.Values = append(yExpense.Values, m.Expense)
		ySaved.Values = append(ySaved.Values, m.Saved())
	}
	cs.Yearly.Datasets = []core.Dataset{yIncome, yExpense, ySaved}

	net := core.Dataset{Label: "Net Worth"}
	for _, p := range NetWorthSeries(s.NetWorth) {
		cs.NetWorth.Labels = append(cs.NetWorth.Labels, p.Date.String())
		net.Values = append(net.Values, p.Net)
	}
	cs.NetWorth.Datasets = []core.Dataset{net}
	return cs
}
