package services

import (
	"errors"
	"testing"

	"fintrack/internal/core"
)

func TestLedger_AddValidation(t *testing.T) {
	f := newFixture(t, core.NewDate(2024, 3, 1))
	good := TransactionInput{Type: core.Expense, Category: "food", Amount: core.Cents(100), Date: core.NewDate(2024, 3, 1)}

	tests := []struct {
		name    string
		mutate  func(*TransactionInput)
		wantErr error
	}{
		{name: "valid", mutate: func(*TransactionInput) {}},
		{name: "bad type", mutate: func(in *TransactionInput) { in.Type = "transfer" }, wantErr: core.ErrInvalidType},
		{name: "unknown category", mutate: func(in *TransactionInput) { in.Category = "ghost" }, wantErr: core.ErrUnknownCategory},
		{name: "zero amount", mutate: func(in *TransactionInput) { in.Amount = core.Money{} }, wantErr: core.ErrInvalidAmount},
		{name: "negative amount", mutate: func(in *TransactionInput) { in.Amount = core.Cents(-5) }, wantErr: core.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := good
			tt.mutate(&in)
			before := len(f.state.Transactions)
			tx, err := f.ledger.Add(in)
			if tt.wantErr == nil {
				if err != nil || tx.ID == "" {
					t.Fatalf("Add() = %+v, %v", tx, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) || !core.IsValidation(err) {
				t.Errorf("Add() error = %v, want %v", err, tt.wantErr)
			}
			if len(f.state.Transactions) != before {
				t.Error("rejected transaction was stored")
			}
		})
	}

	in := good
	in.Date = core.Date{}
	if _, err := f.ledger.Add(in); !core.IsValidation(err) {
		t.Errorf("zero date error = %v", err)
	}
}

func TestLedger_EditKeepsIdentity(t *testing.T) {
	f := newFixture(t, core.NewDate(2024, 3, 1))
	tx, _ := f.ledger.Add(TransactionInput{Type: core.Expense, Category: "emi", Amount: core.Cents(500), Date: core.NewDate(2024, 3, 1), EmiID: "emi_9"})

	income := core.Income
	amount := core.Cents(700)
	got, err := f.ledger.Edit(tx.ID, TransactionPatch{Type: &income, Amount: &amount})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got.ID != tx.ID || got.EmiID != "emi_9" || got.Type != core.Income || got.Amount != amount || got.Category != "emi" {
		t.Errorf("Edit() = %+v", got)
	}

	bad := "ghost"
	if _, err := f.ledger.Edit(tx.ID, TransactionPatch{Category: &bad}); !errors.Is(err, core.ErrUnknownCategory) {
		t.Errorf("Edit bad category error = %v", err)
	}
	if stored, _ := f.ledger.Get(tx.ID); stored != got {
		t.Error("failed edit changed the transaction")
	}
	if _, err := f.ledger.Edit("nope", TransactionPatch{}); !core.IsNotFound(err) {
		t.Errorf("Edit unknown error = %v", err)
	}
}

func TestLedger_Remove(t *testing.T) {
	f := newFixture(t, core.NewDate(2024, 3, 1))
	tx := f.add(t, core.Expense, "food", 100, core.NewDate(2024, 3, 1))
	if err := f.ledger.Remove(tx.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := f.ledger.Get(tx.ID); ok {
		t.Error("transaction still present")
	}
	if err := f.ledger.Remove(tx.ID); !core.IsNotFound(err) {
		t.Errorf("second Remove error = %v", err)
	}
}

func txnIDs(txns []core.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLedger_View(t *testing.T) {
	f := newFixture(t, core.NewDate(2024, 3, 31))
	a := f.add(t, core.Expense, "utilities", 3000, core.NewDate(2024, 3, 5)) // txn_1
	b := f.add(t, core.Income, "salary", 500000, core.NewDate(2024, 3, 1))   // txn_2
	c := f.add(t, core.Expense, "food", 3000, core.NewDate(2024, 3, 5))      // txn_3
	d := f.add(t, core.Expense, "emi", 100, core.NewDate(2024, 3, 10))       // txn_4

	tests := []struct {
		sort, filter string
		want         []string
	}{
		{"date-desc", "", []string{d.ID, a.ID, c.ID, b.ID}},
		{"date-asc", "", []string{b.ID, a.ID, c.ID, d.ID}},
		{"amount-asc", "expense", []string{d.ID, a.ID, c.ID}},
		{"amount-desc", "expense", []string{a.ID, c.ID, d.ID}},
		{"amount-desc", "income", []string{b.ID}},
		// labels: "💡 Utilities", "💼 Salary", "🍔 Food", "🏦 EMI"
		{"category-asc", "all", nil},
	}
	for _, tt := range tests {
		t.Run(tt.sort+"/"+tt.filter, func(t *testing.T) {
			opts, err := ParseViewOptions(tt.sort, tt.filter)
			if err != nil {
				t.Fatalf("ParseViewOptions: %v", err)
			}
			got := txnIDs(f.ledger.View(opts))
			if tt.want == nil {
				if len(got) != 4 {
					t.Errorf("View() returned %d rows", len(got))
				}
				return
			}
			if !equalIDs(got, tt.want) {
				t.Errorf("View() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLedger_ViewCategoryCollation(t *testing.T) {
	f := newFixture(t, core.NewDate(2024, 3, 31))
	for _, name := range []string{"zeta", "Éclair", "apple", "Banana"} {
		f.categories.Add(name, "")
	}
	z := f.add(t, core.Expense, "zeta", 100, core.NewDate(2024, 3, 1))
	e := f.add(t, core.Expense, "clair", 100, core.NewDate(2024, 3, 1))
	a := f.add(t, core.Expense, "apple", 100, core.NewDate(2024, 3, 1))
	b := f.add(t, core.Expense, "banana", 100, core.NewDate(2024, 3, 1))

	got := txnIDs(f.ledger.View(ViewOptions{Filter: FilterAll, Sort: SortByCategory}))
	want := []string{a.ID, b.ID, e.ID, z.ID}
	if !equalIDs(got, want) {
		t.Errorf("category asc = %v, want %v", got, want)
	}
	got = txnIDs(f.ledger.View(ViewOptions{Filter: FilterAll, Sort: SortByCategory, Desc: true}))
	want = []string{z.ID, e.ID, b.ID, a.ID}
	if !equalIDs(got, want) {
		t.Errorf("category desc = %v, want %v", got, want)
	}
}

func TestParseViewOptions(t *testing.T) {
	tests := []struct {
		sort, filter string
		want         ViewOptions
		wantErr      bool
	}{
		{"", "", DefaultViewOptions(), false},
		{"amount-asc", "income", ViewOptions{Filter: FilterIncome, Sort: SortByAmount}, false},
		{"Category-Desc", "EXPENSE", ViewOptions{Filter: FilterExpense, Sort: SortByCategory, Desc: true}, false},
		{"date", "all", ViewOptions{Filter: FilterAll, Sort: SortByDate, Desc: true}, false},
		{"size-asc", "", ViewOptions{}, true},
		{"date-sideways", "", ViewOptions{}, true},
		{"", "transfers", ViewOptions{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.sort+"/"+tt.filter, func(t *testing.T) {
			got, err := ParseViewOptions(tt.sort, tt.filter)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseViewOptions() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRunningBalance(t *testing.T) {
	f := newFixture(t, core.NewDate(2024, 3, 31))
	f.add(t, core.Income, "salary", 100000, core.NewDate(2024, 3, 1))
	f.add(t, core.Expense, "food", 2550, core.NewDate(2024, 3, 2))
	f.add(t, core.Expense, "utilities", 12000, core.NewDate(2024, 3, 3))
	f.add(t, core.Income, "other", 1, core.NewDate(2024, 3, 4))

	for _, opts := range []ViewOptions{
		{Filter: FilterAll, Sort: SortByDate},
		{Filter: FilterAll, Sort: SortByDate, Desc: true},
		{Filter: FilterExpense, Sort: SortByAmount, Desc: true},
		{Filter: FilterAll, Sort: SortByCategory},
	} {
		view := f.ledger.View(opts)
		rows := RunningBalance(view)
		var want int64
		for k, row := range rows {
			sign := int64(-1)
			if view[k].Type == core.Income {
				sign = 1
			}
			want += sign * view[k].Amount.Cents
			if row.Balance.Cents != want {
				t.Errorf("%+v: balance[%d] = %d, want %d", opts, k, row.Balance.Cents, want)
			}
		}
	}

	rows := RunningBalance(f.ledger.View(ViewOptions{Filter: FilterAll, Sort: SortByDate}))
	if got := rows[len(rows)-1].Balance; got != core.Cents(85451) {
		t.Errorf("final balance = %v, want 854.51", got)
	}
}
