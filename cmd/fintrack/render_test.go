package main

import (
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

func label(id string) string {
	if c, ok := core.DefaultCategory(id); ok {
		return c.Label()
	}
	return id
}

func TestRenderTransactions(t *testing.T) {
	rows := services.RunningBalance([]core.Transaction{
		{ID: "txn_1", Type: core.Income, Category: "salary", Amount: core.Cents(500000), Date: core.NewDate(2024, 3, 1)},
		{ID: "txn_2", Type: core.Expense, Category: "food", Amount: core.Cents(1250), Date: core.NewDate(2024, 3, 2)},
	})
	out := renderTransactions(rows, label)

	for _, want := range []string{"txn_1", "txn_2", "💼 Salary", "🍔 Food", "Income", "Expense", "+$5,000.00", "-$12.50", "$4,987.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderTransactions() missing %q:\n%s", want, out)
		}
	}

	if got := renderTransactions(nil, label); !strings.Contains(got, "No transactions yet.") {
		t.Errorf("empty ledger = %q", got)
	}
}

func TestRenderBarsScalesToLargest(t *testing.T) {
	out := renderBars([]core.CategoryAmount{
		{Category: "food", Amount: core.Cents(10000)},
		{Category: "utilities", Amount: core.Cents(5000)},
	}, label)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if got := strings.Count(lines[0], "█"); got != st.BarWidth {
		t.Errorf("largest bar = %d cells, want %d", got, st.BarWidth)
	}
	if got := strings.Count(lines[1], "█"); got != st.BarWidth/2 {
		t.Errorf("half bar = %d cells, want %d", got, st.BarWidth/2)
	}
}

func TestEmiStatusText(t *testing.T) {
	tests := []struct {
		status services.EmiStatus
		want   string
	}{
		{services.EmiStatus{Kind: services.EmiPaid}, "Paid"},
		{services.EmiStatus{Kind: services.EmiOverdue, Days: -3}, "Overdue by 3 day(s)"},
		{services.EmiStatus{Kind: services.EmiDueSoon, Days: 0}, "Due today"},
		{services.EmiStatus{Kind: services.EmiDueSoon, Days: 2}, "Due soon, in 2 day(s)"},
		{services.EmiStatus{Kind: services.EmiUpcoming, Days: 12}, "Upcoming, in 12 day(s)"},
	}
	for _, tt := range tests {
		if got := emiStatusText(tt.status); !strings.Contains(got, tt.want) {
			t.Errorf("emiStatusText(%+v) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestRenderInsightsListsRoadmap(t *testing.T) {
	shortfall := core.Cents(120000)
	in := services.Insights{
		Year:   2024,
		Goal:   core.Cents(50000),
		Saved:  core.Cents(480000),
		Status: services.GoalAtRisk,
		Roadmap: services.Roadmap{
			Shortfall:       &shortfall,
			TopCategories:   []core.CategoryAmount{{Category: "food", Amount: core.Cents(90000)}},
			Recommendations: []string{"Shortfall this year: $1,200.00", "Review subscriptions and pause unused ones."},
		},
	}
	out := renderInsights(in, label)
	for _, want := range []string{"2024 goal review", "$500.00", "AtRisk", "🍔 Food", "Shortfall this year: $1,200.00", "Review subscriptions"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderInsights() missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDashboardWithoutGoal(t *testing.T) {
	out := renderDashboard(services.Widgets{TodaySpend: core.Cents(1250)}, services.ChartSeries{}, []services.EmiView{
		{Emi: core.Emi{ID: "emi_1", Title: "Car", Amount: core.Cents(30000)}, Status: services.EmiStatus{Kind: services.EmiOverdue, Days: -1}},
		{Emi: core.Emi{ID: "emi_2", Title: "Phone", Amount: core.Cents(3000)}, Status: services.EmiStatus{Kind: services.EmiUpcoming, Days: 20}},
	}, label)

	for _, want := range []string{"$12.50", "no goal set", "none this month", "emi_1"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderDashboard() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "emi_2") {
		t.Error("upcoming EMIs should not need attention")
	}
}

func TestParseHelpers(t *testing.T) {
	today := core.NewDate(2024, 3, 15)

	if k, err := parseMonth("", today); err != nil || k.String() != "2024-03" {
		t.Errorf("parseMonth(\"\") = %v, %v", k, err)
	}
	if k, err := parseMonth("2023-11", today); err != nil || k.String() != "2023-11" {
		t.Errorf("parseMonth(2023-11) = %v, %v", k, err)
	}
	if _, err := parseMonth("2023-13", today); !core.IsValidation(err) {
		t.Errorf("parseMonth(2023-13) error = %v", err)
	}

	if d, err := parseDate("", today); err != nil || !d.Equal(today) {
		t.Errorf("parseDate(\"\") = %v, %v", d, err)
	}
	if _, err := parseDate("yesterday", today); !core.IsValidation(err) {
		t.Errorf("parseDate(yesterday) error = %v", err)
	}

	if m, err := parseAmount("12,345"); err != nil || m != core.Cents(1235) {
		t.Errorf("parseAmount(12,345) = %v, %v", m, err)
	}
	if _, err := parseAmount("0"); !core.IsValidation(err) {
		t.Errorf("parseAmount(0) error = %v", err)
	}

	if m, err := parseBalance("assets", "0"); err != nil || !m.IsZero() {
		t.Errorf("parseBalance(0) = %v, %v", m, err)
	}
	if _, err := parseBalance("assets", "-5"); !core.IsValidation(err) {
		t.Errorf("parseBalance(-5) error = %v", err)
	}

	if _, err := parseType("transfer"); !core.IsValidation(err) {
		t.Errorf("parseType(transfer) error = %v", err)
	}
}
