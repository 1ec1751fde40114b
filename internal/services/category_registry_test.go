package services

import (
	"errors"
	"testing"

	"fintrack/internal/core"
)

func TestCategoryRegistry_Add(t *testing.T) {
	f := newFixture(t, core.NewDate(2024, 3, 1))

	tests := []struct {
		name    string
		input   string
		wantID  string
		wantErr error
	}{
		{name: "simple", input: "Rent", wantID: "rent"},
		{name: "spaces collapse", input: "  Kids   School ", wantID: "kids-school"},
		{name: "collision suffix", input: "rent", wantID: "rent-2"},
		{name: "second collision", input: "RENT", wantID: "rent-3"},
		{name: "seeded collision", input: "Food", wantID: "food-2"},
		{name: "symbols only", input: "💸💸", wantID: "cat_1"},
		{name: "empty", input: "   ", wantErr: core.ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := f.categories.Add(tt.input, "")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !core.IsValidation(err) {
					t.Fatalf("Add(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Add(%q) error = %v", tt.input, err)
			}
			if id != tt.wantID {
				t.Errorf("Add(%q) = %q, want %q", tt.input, id, tt.wantID)
			}
		})
	}
}

func TestCategoryRegistry_RenameKeepsID(t *testing.T) {
	f := newFixture(t, core.NewDate(2024, 3, 1))
	id, _ := f.categories.Add("Rent", "🏠")
	if err := f.categories.Rename(id, "Housing"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	c, ok := f.categories.Get(id)
	if !ok || c.ID != "rent" || c.Name != "Housing" {
		t.Errorf("after rename got %+v", c)
	}
	if got := f.categories.ResolveLabel(id); got != "🏠 Housing" {
		t.Errorf("ResolveLabel = %q", got)
	}
	if err := f.categories.Rename("nope", "x"); !core.IsNotFound(err) {
		t.Errorf("Rename unknown error = %v", err)
	}
	if err := f.categories.SetIcon("nope", "x"); !core.IsNotFound(err) {
		t.Errorf("SetIcon unknown error = %v", err)
	}
}

func TestCategoryRegistry_ResolveLabel(t *testing.T) {
	f := newFixture(t, core.NewDate(2024, 3, 1))
	f.categories.Add("Plain", "")
	tests := map[string]string{
		"food":    "🍔 Food",
		"Food":    "🍔 Food",
		"plain":   "Plain",
		"missing": "missing",
	}
	for in, want := range tests {
		if got := f.categories.ResolveLabel(in); got != want {
			t.Errorf("ResolveLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCategoryRegistry_RemoveReassigns(t *testing.T) {
	f := newFixture(t, core.NewDate(2024, 3, 1))
	march := core.MonthKey{Year: 2024, Month: 3}
	f.add(t, core.Expense, "food", 2500, core.NewDate(2024, 3, 2))
	f.add(t, core.Expense, "food", 1500, core.NewDate(2024, 3, 3))
	f.add(t, core.Expense, core.CategoryOther, 1000, core.NewDate(2024, 3, 4))
	f.recurring.AddTemplate(TemplateInput{Type: core.Expense, Category: "food", Amount: core.Cents(100), StartDate: core.NewDate(2024, 3, 1), Interval: core.Weekly})

	n, err := f.categories.Remove("food")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if n != 3 {
		t.Errorf("reassigned = %d, want 3 (two expenses and the template seed)", n)
	}
	totals := CategoryTotals(f.state.Transactions, core.Expense, InMonth(march))
	if _, ok := totals["food"]; ok {
		t.Error("food should have no total after removal")
	}
	if got := totals[core.CategoryOther]; got != core.Cents(5100) {
		t.Errorf("other total = %v, want 51.00", got)
	}
	if f.state.Recurring[0].Category != core.CategoryOther {
		t.Error("template was not reassigned")
	}
	assertCategoryInvariant(t, f.state)
}

func TestCategoryRegistry_RemoveOtherRecreatesIt(t *testing.T) {
	f := newFixture(t, core.NewDate(2024, 3, 1))
	f.add(t, core.Expense, core.CategoryOther, 100, core.NewDate(2024, 3, 2))
	if _, err := f.categories.Remove(core.CategoryOther); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !f.categories.Exists(core.CategoryOther) {
		t.Error("other must always exist")
	}
	assertCategoryInvariant(t, f.state)

	if _, err := f.categories.Remove("ghost"); !core.IsNotFound(err) {
		t.Errorf("Remove unknown error = %v", err)
	}
}
