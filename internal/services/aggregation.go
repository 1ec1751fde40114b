package services

import (
	"maps"
	"slices"
	"time"

	"fintrack/internal/core"
)

// TransactionFilter selects the transactions an aggregate covers.
type TransactionFilter func(core.Transaction) bool

func InMonth(k core.MonthKey) TransactionFilter {
	return func(t core.Transaction) bool { return k.Contains(t.Date) }
}

func InYear(year int) TransactionFilter {
	return func(t core.Transaction) bool { return t.Date.Year() == year }
}

func OnDay(d core.Date) TransactionFilter {
	return func(t core.Transaction) bool { return t.Date.Equal(d) }
}

// AllTime matches every transaction.
func AllTime(core.Transaction) bool { return true }

// TotalsWhere sums income and expense over the matching transactions.
func TotalsWhere(txns []core.Transaction, match TransactionFilter) core.Totals {
	var tot core.Totals
	for _, t := range txns {
		if !match(t) {
			continue
		}
		switch t.Type {
		case core.Income:
			tot.Income = tot.Income.Add(t.Amount)
		case core.Expense:
			tot.Expense = tot.Expense.Add(t.Amount)
		}
	}
	return tot
}

func MonthlyTotals(txns []core.Transaction, k core.MonthKey) core.Totals {
	return TotalsWhere(txns, InMonth(k))
}

// YearlyTotals returns one row per month, January first.
func YearlyTotals(txns []core.Transaction, year int) [12]core.MonthTotals {
	var rows [12]core.MonthTotals
	for i := range rows {
		rows[i].Month = core.MonthKey{Year: year, Month: time.Month(i + 1)}
	}
	for _, t := range txns {
		if t.Date.Year() != year {
			continue
		}
		r := &rows[t.Date.Month()-1]
		switch t.Type {
		case core.Income:
			r.Income = r.Income.Add(t.Amount)
		case core.Expense:
			r.Expense = r.Expense.Add(t.Amount)
		}
	}
	return rows
}

// RecentMonths returns the totals of the n months ending with asOf's month, oldest first.
func RecentMonths(txns []core.Transaction, asOf core.Date, n int) []core.MonthTotals {
	if n <= 0 {
		return nil
	}
	out := make([]core.MonthTotals, n)
	k := asOf.MonthKey()
	for i := n - 1; i >= 0; i-- {
		out[i] = core.MonthTotals{Month: k, Totals: MonthlyTotals(txns, k)}
		k = k.Prev()
	}
	return out
}

// CategoryTotals sums amounts of one type per category id.
func CategoryTotals(txns []core.Transaction, typ core.TransactionType, match TransactionFilter) map[string]core.Money {
	out := make(map[string]core.Money)
	for _, t := range txns {
		if t.Type != typ || !match(t) {
			continue
		}
		out[t.Category] = out[t.Category].Add(t.Amount)
	}
	return out
}

// RankCategories orders category totals from largest to smallest, breaking
// ties by category id.
func RankCategories(totals map[string]core.Money) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(totals))
	for _, id := range slices.Sorted(maps.Keys(totals)) {
		out = append(out, core.CategoryAmount{Category: id, Amount: totals[id]})
	}
	slices.SortStableFunc(out, func(a, b core.CategoryAmount) int {
		return b.Amount.Compare(a.Amount)
	})
	return out
}

// NetWorthSeries groups entries by date, summing same-day assets and
// liabilities, and returns the points in date order.
func NetWorthSeries(entries []core.NetWorthEntry) []core.NetWorthPoint {
	byDate := make(map[string]*core.NetWorthPoint)
	var points []*core.NetWorthPoint
	for _, e := range entries {
		key := e.Date.String()
		p, ok := byDate[key]
		if !ok {
			p = &core.NetWorthPoint{Date: e.Date}
			byDate[key] = p
			points = append(points, p)
		}
		p.Assets = p.Assets.Add(e.Assets)
		p.Liab = p.Liab.Add(e.Liab)
	}
	out := make([]core.NetWorthPoint, 0, len(points))
	for _, p := range points {
		p.Net = p.Assets.Sub(p.Liab)
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b core.NetWorthPoint) int { return a.Date.Compare(b.Date) })
	return out
}

// LifetimeNet is total income minus total expense over the whole ledger.
func LifetimeNet(txns []core.Transaction) core.Money {
	return TotalsWhere(txns, AllTime).Saved()
}

// Widgets are the headline numbers of the dashboard.
type Widgets struct {
	TodaySpend      core.Money
	TotalNet        core.Money
	RemainingToGoal *core.Money          // nil when no goal is set
	TopCategory     *core.CategoryAmount // largest expense category this month, nil if none
}

// ComputeWidgets derives the dashboard numbers from s as of asOf.
func ComputeWidgets(s *core.State, asOf core.Date) Widgets {
	w := Widgets{
		TodaySpend: TotalsWhere(s.Transactions, OnDay(asOf)).Expense,
		TotalNet:   LifetimeNet(s.Transactions),
	}
	if s.Goal != nil {
		remaining := s.Goal.Sub(w.TotalNet)
		if remaining.IsNegative() {
			remaining = core.Money{}
		}
		w.RemainingToGoal = &remaining
	}
	ranked := RankCategories(CategoryTotals(s.Transactions, core.Expense, InMonth(asOf.MonthKey())))
	if len(ranked) > 0 {
		top := ranked[0]
		w.TopCategory = &top
	}
	return w
}
