package services

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestCategoryTotals_RentScenario(t *testing.T) {
	f := newFixture(t, core.NewDate(2024, 3, 31))
	id, err := f.categories.Add("Rent", "")
	if err != nil || id != "rent" {
		t.Fatalf("Add category = %q, %v", id, err)
	}
	f.add(t, core.Expense, "rent", core.FromDecimal("1200.00").Cents, core.NewDate(2024, 3, 1))
	f.add(t, core.Expense, "rent", 5000, core.NewDate(2024, 4, 1))
	f.add(t, core.Income, "salary", 9000, core.NewDate(2024, 3, 1))

	got := CategoryTotals(f.state.Transactions, core.Expense, InMonth(core.MonthKey{Year: 2024, Month: time.March}))
	if len(got) != 1 || got["rent"] != core.Cents(120000) {
		t.Errorf("CategoryTotals() = %v, want rent: 120000", got)
	}
}

func TestMonthlyAndYearlyTotals(t *testing.T) {
	f := newFixture(t, core.NewDate(2024, 12, 31))
	f.add(t, core.Income, "salary", 500000, core.NewDate(2024, 1, 1))
	f.add(t, core.Expense, "food", 20000, core.NewDate(2024, 1, 31))
	f.add(t, core.Expense, "food", 1000, core.NewDate(2024, 12, 1))
	f.add(t, core.Income, "salary", 7, core.NewDate(2023, 1, 1))

	jan := MonthlyTotals(f.state.Transactions, core.MonthKey{Year: 2024, Month: time.January})
	if jan.Income != core.Cents(500000) || jan.Expense != core.Cents(20000) || jan.Saved() != core.Cents(480000) {
		t.Errorf("January = %+v", jan)
	}

	year := YearlyTotals(f.state.Transactions, 2024)
	if year[0].Month.Month != time.January || year[11].Month.Month != time.December {
		t.Errorf("months out of order: %v .. %v", year[0].Month, year[11].Month)
	}
	if year[11].Expense != core.Cents(1000) || !year[5].Income.IsZero() {
		t.Errorf("year rows = %+v", year)
	}
}

func TestRecentMonths(t *testing.T) {
	f := newFixture(t, core.NewDate(2024, 2, 10))
	f.add(t, core.Expense, "food", 100, core.NewDate(2023, 12, 5))
	f.add(t, core.Expense, "food", 200, core.NewDate(2024, 2, 9))

	got := RecentMonths(f.state.Transactions, core.NewDate(2024, 2, 10), 3)
	wantMonths := []string{"2023-12", "2024-01", "2024-02"}
	for i, m := range got {
		if m.Month.String() != wantMonths[i] {
			t.Errorf("month[%d] = %s, want %s", i, m.Month, wantMonths[i])
		}
	}
	if got[0].Expense != core.Cents(100) || !got[1].Expense.IsZero() || got[2].Expense != core.Cents(200) {
		t.Errorf("RecentMonths() = %+v", got)
	}
}

func TestRankCategories(t *testing.T) {
	got := RankCategories(map[string]core.Money{
		"b":    core.Cents(100),
		"a":    core.Cents(100),
		"food": core.Cents(900),
	})
	want := []string{"food", "a", "b"}
	for i, c := range got {
		if c.Category != want[i] {
			t.Errorf("rank[%d] = %s, want %s", i, c.Category, want[i])
		}
	}
}

func TestNetWorthSeries(t *testing.T) {
	entries := []core.NetWorthEntry{
		{ID: "1", Date: core.NewDate(2024, 2, 1), Assets: core.Cents(1000), Liab: core.Cents(100)},
		{ID: "2", Date: core.NewDate(2024, 1, 1), Assets: core.Cents(500), Liab: core.Cents(0)},
		{ID: "3", Date: core.NewDate(2024, 2, 1), Assets: core.Cents(250), Liab: core.Cents(50)},
	}
	got := NetWorthSeries(entries)
	if len(got) != 2 {
		t.Fatalf("points = %d, want 2", len(got))
	}
	if got[0].Date != core.NewDate(2024, 1, 1) || got[0].Net != core.Cents(500) {
		t.Errorf("first point = %+v", got[0])
	}
	if got[1].Assets != core.Cents(1250) || got[1].Liab != core.Cents(150) || got[1].Net != core.Cents(1100) {
		t.Errorf("second point = %+v", got[1])
	}
}

func TestComputeWidgets(t *testing.T) {
	today := core.NewDate(2024, 3, 10)
	f := newFixture(t, today)
	f.add(t, core.Income, "salary", 100000, core.NewDate(2024, 3, 1))
	f.add(t, core.Expense, "food", 1500, today)
	f.add(t, core.Expense, "utilities", 2500, today)
	f.add(t, core.Expense, "food", 2000, core.NewDate(2024, 3, 2))
	f.add(t, core.Expense, "utilities", 99999, core.NewDate(2024, 2, 2))

	w := ComputeWidgets(f.state, today)
	if w.TodaySpend != core.Cents(4000) {
		t.Errorf("TodaySpend = %v", w.TodaySpend)
	}
	if w.TotalNet != core.Cents(100000-1500-2500-2000-99999) {
		t.Errorf("TotalNet = %v", w.TotalNet)
	}
	if w.RemainingToGoal != nil {
		t.Error("RemainingToGoal should be nil without a goal")
	}
	if w.TopCategory == nil || w.TopCategory.Category != "food" || w.TopCategory.Amount != core.Cents(3500) {
		t.Errorf("TopCategory = %+v", w.TopCategory)
	}

	goal := core.Cents(500)
	f.state.Goal = &goal
	w = ComputeWidgets(f.state, today)
	if w.RemainingToGoal == nil || *w.RemainingToGoal != core.Cents(6499) {
		t.Errorf("RemainingToGoal = %v", w.RemainingToGoal)
	}

	goal = core.Cents(1)
	f.state.Transactions = f.state.Transactions[:1]
	w = ComputeWidgets(f.state, today)
	if w.RemainingToGoal == nil || !w.RemainingToGoal.IsZero() {
		t.Errorf("RemainingToGoal should floor at zero, got %v", w.RemainingToGoal)
	}
}
