package services

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"fintrack/internal/core"
)

// TransactionInput describes a new ledger entry. EmiID and TemplateID are
// set by the EMI tracker and the recurrence engine respectively.
type TransactionInput struct {
	Type       core.TransactionType
	Category   string
	Amount     core.Money
	Date       core.Date
	EmiID      string
	TemplateID string
}

// TransactionPatch lists the fields an edit may replace; nil means unchanged.
// Identity and linkage fields are not editable.
type TransactionPatch struct {
	Type     *core.TransactionType
	Category *string
	Amount   *core.Money
	Date     *core.Date
}

// Ledger is the ordered collection of transactions.
type Ledger struct {
	state      *core.State
	categories *CategoryRegistry
	ids        core.IDGenerator
}

func NewLedger(state *core.State, categories *CategoryRegistry, ids core.IDGenerator) *Ledger {
	return &Ledger{state: state, categories: categories, ids: ids}
}

func (l *Ledger) validate(t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if !l.categories.Exists(t.Category) {
		return core.Invalid("category", fmt.Errorf("%w: %s", core.ErrUnknownCategory, t.Category))
	}
	return nil
}

// Add appends a validated transaction with a fresh id.
func (l *Ledger) Add(in TransactionInput) (core.Transaction, error) {
	t := core.Transaction{
		Type:       in.Type,
		Category:   strings.TrimSpace(in.Category),
		Amount:     in.Amount,
		Date:       in.Date,
		EmiID:      in.EmiID,
		TemplateID: in.TemplateID,
	}
	if err := l.validate(t); err != nil {
		return core.Transaction{}, err
	}
	t.ID = l.ids.NewID(core.PrefixTransaction)
	l.state.Transactions = append(l.state.Transactions, t)
	return t, nil
}

func (l *Ledger) index(id string) int {
	return slices.IndexFunc(l.state.Transactions, func(t core.Transaction) bool { return t.ID == id })
}

// Edit applies patch to the transaction. Nothing changes if validation fails.
func (l *Ledger) Edit(id string, patch TransactionPatch) (core.Transaction, error) {
	i := l.index(id)
	if i < 0 {
		return core.Transaction{}, core.NotFound("transaction", id)
	}
	t := l.state.Transactions[i]
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.Category != nil {
		t.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if err := l.validate(t); err != nil {
		return core.Transaction{}, err
	}
	l.state.Transactions[i] = t
	return t, nil
}

func (l *Ledger) Remove(id string) error {
	i := l.index(id)
	if i < 0 {
		return core.NotFound("transaction", id)
	}
	l.state.Transactions = slices.Delete(l.state.Transactions, i, i+1)
	return nil
}

func (l *Ledger) Get(id string) (core.Transaction, bool) {
	if i := l.index(id); i >= 0 {
		return l.state.Transactions[i], true
	}
	return core.Transaction{}, false
}

// All returns the transactions in insertion order.
func (l *Ledger) All() []core.Transaction {
	return slices.Clone(l.state.Transactions)
}

// removeWhere drops every transaction matching pred and returns how many went.
func (l *Ledger) removeWhere(pred func(core.Transaction) bool) int {
	before := len(l.state.Transactions)
	l.state.Transactions = slices.DeleteFunc(l.state.Transactions, pred)
	return before - len(l.state.Transactions)
}

func (l *Ledger) exists(pred func(core.Transaction) bool) bool {
	return slices.ContainsFunc(l.state.Transactions, pred)
}

// TypeFilter restricts a view to one transaction type.
type TypeFilter string

const (
	FilterAll     TypeFilter = "all"
	FilterIncome  TypeFilter = "income"
	FilterExpense TypeFilter = "expense"
)

// SortKey selects the field a view is ordered by.
type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByAmount   SortKey = "amount"
	SortByCategory SortKey = "category"
)

// ViewOptions control filtering and ordering of a ledger view.
type ViewOptions struct {
	Filter TypeFilter
	Sort   SortKey
	Desc   bool
}

// DefaultViewOptions shows everything, newest first.
func DefaultViewOptions() ViewOptions {
	return ViewOptions{Filter: FilterAll, Sort: SortByDate, Desc: true}
}

// ParseViewOptions reads the select values used by the front ends, such as
// sort "amount-asc" and filter "income". Empty or unknown values keep the defaults.
func ParseViewOptions(sort, filter string) (ViewOptions, error) {
	opts := DefaultViewOptions()
	switch f := TypeFilter(strings.ToLower(strings.TrimSpace(filter))); f {
	case "":
	case FilterAll, FilterIncome, FilterExpense:
		opts.Filter = f
	default:
		return opts, core.Invalid("filter", fmt.Errorf("unknown filter %q", filter))
	}

	sort = strings.ToLower(strings.TrimSpace(sort))
	if sort == "" {
		return opts, nil
	}
	key, dir, _ := strings.Cut(sort, "-")
	switch k := SortKey(key); k {
	case SortByDate, SortByAmount, SortByCategory:
		opts.Sort = k
	default:
		return opts, core.Invalid("sort", fmt.Errorf("unknown sort key %q", key))
	}
	switch dir {
	case "", "desc":
		opts.Desc = true
	case "asc":
		opts.Desc = false
	default:
		return opts, core.Invalid("sort", fmt.Errorf("unknown sort direction %q", dir))
	}
	return opts, nil
}

// View returns a filtered, sorted copy of the ledger. Ties keep insertion order.
func (l *Ledger) View(opts ViewOptions) []core.Transaction {
	out := make([]core.Transaction, 0, len(l.state.Transactions))
	for _, t := range l.state.Transactions {
		switch opts.Filter {
		case FilterIncome:
			if t.Type != core.Income {
				continue
			}
		case FilterExpense:
			if t.Type != core.Expense {
				continue
			}
		}
		out = append(out, t)
	}

	var cmp func(a, b core.Transaction) int
	switch opts.Sort {
	case SortByAmount:
		cmp = func(a, b core.Transaction) int { return a.Amount.Compare(b.Amount) }
	case SortByCategory:
		labels := make(map[string]string)
		for _, t := range out {
			if _, ok := labels[t.Category]; !ok {
				labels[t.Category] = l.categories.ResolveLabel(t.Category)
			}
		}
		col := collate.New(language.Und, collate.IgnoreCase)
		cmp = func(a, b core.Transaction) int {
			return col.CompareString(labels[a.Category], labels[b.Category])
		}
	default:
		cmp = func(a, b core.Transaction) int { return a.Date.Compare(b.Date) }
	}
	if opts.Desc {
		asc := cmp
		cmp = func(a, b core.Transaction) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}

// BalanceRow is a transaction with the running balance after it.
type BalanceRow struct {
	core.Transaction
	Balance core.Money
}

// RunningBalance accumulates signed amounts in the given order, starting from
// zero. The balance belongs to the view, not to the ledger.
func RunningBalance(txns []core.Transaction) []BalanceRow {
	rows := make([]BalanceRow, len(txns))
	var bal core.Money
	for i, t := range txns {
		bal = bal.Add(t.Signed())
		rows[i] = BalanceRow{Transaction: t, Balance: bal}
	}
	return rows
}
