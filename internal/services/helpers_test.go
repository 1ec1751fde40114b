package services

import (
	"testing"

	"fintrack/internal/core"
)

type fixture struct {
	state      *core.State
	ids        *core.SequentialIDs
	clock      core.Clock
	categories *CategoryRegistry
	ledger     *Ledger
	emis       *EmiTracker
	recurring  *RecurringProcessor
	advisor    *GoalAdvisor
}

func newFixture(t *testing.T, today core.Date) *fixture {
	t.Helper()
	f := &fixture{
		state: core.NewState(),
		ids:   &core.SequentialIDs{},
		clock: core.FixedClock(today),
	}
	f.categories = NewCategoryRegistry(f.state, f.ids)
	f.ledger = NewLedger(f.state, f.categories, f.ids)
	f.emis = NewEmiTracker(f.state, f.ledger, f.categories, f.ids, f.clock)
	f.recurring = NewRecurringProcessor(f.state, f.ledger, f.ids)
	f.advisor = NewGoalAdvisor(f.state, f.categories)
	return f
}

func (f *fixture) add(t *testing.T, typ core.TransactionType, category string, cents int64, date core.Date) core.Transaction {
	t.Helper()
	tx, err := f.ledger.Add(TransactionInput{Type: typ, Category: category, Amount: core.Cents(cents), Date: date})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	return tx
}

// assertCategoryInvariant checks that every reference resolves to a category.
func assertCategoryInvariant(t *testing.T, s *core.State) {
	t.Helper()
	for _, tx := range s.Transactions {
		if !s.HasCategory(tx.Category) {
			t.Errorf("transaction %s references missing category %q", tx.ID, tx.Category)
		}
	}
	for _, r := range s.Recurring {
		if !s.HasCategory(r.Category) {
			t.Errorf("template %s references missing category %q", r.ID, r.Category)
		}
	}
}

// assertEmiLinks checks that paid EMIs have exactly one linked transaction and unpaid ones none.
func assertEmiLinks(t *testing.T, s *core.State) {
	t.Helper()
	links := map[string]int{}
	for _, tx := range s.Transactions {
		if tx.EmiID != "" {
			links[tx.EmiID]++
		}
	}
	for _, e := range s.Emis {
		want := 0
		if e.Paid {
			want = 1
		}
		if links[e.ID] != want {
			t.Errorf("emi %s (paid=%v) has %d linked transactions, want %d", e.ID, e.Paid, links[e.ID], want)
		}
	}
}
