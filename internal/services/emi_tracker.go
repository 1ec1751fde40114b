package services

import (
	"slices"
	"strings"

	"fintrack/internal/core"
)

// dueSoonDays is how close a due date must be for an unpaid EMI to be flagged.
const dueSoonDays = 5

type EmiInput struct {
	Title   string
	Amount  core.Money
	DueDate core.Date
}

// EmiStatusKind classifies an installment relative to a date.
type EmiStatusKind int

const (
	EmiUpcoming EmiStatusKind = iota
	EmiDueSoon
	EmiOverdue
	EmiPaid
)

func (k EmiStatusKind) String() string {
	switch k {
	case EmiPaid:
		return "Paid"
	case EmiOverdue:
		return "Overdue"
	case EmiDueSoon:
		return "Due soon"
	default:
		return "Upcoming"
	}
}

// EmiStatus is the derived state of an EMI. Days is the number of days from
// the reference date to the due date, negative when overdue.
type EmiStatus struct {
	Kind EmiStatusKind
	Days int
}

// EmiStatusAt classifies e as of asOf.
func EmiStatusAt(e core.Emi, asOf core.Date) EmiStatus {
	days := asOf.DaysUntil(e.DueDate)
	switch {
	case e.Paid:
		return EmiStatus{Kind: EmiPaid, Days: days}
	case days < 0:
		return EmiStatus{Kind: EmiOverdue, Days: days}
	case days <= dueSoonDays:
		return EmiStatus{Kind: EmiDueSoon, Days: days}
	default:
		return EmiStatus{Kind: EmiUpcoming, Days: days}
	}
}

// EmiTracker manages installment loans and keeps each paid EMI linked to
// exactly one expense in the ledger.
type EmiTracker struct {
	state      *core.State
	ledger     *Ledger
	categories *CategoryRegistry
	ids        core.IDGenerator
	clock      core.Clock
}

func NewEmiTracker(state *core.State, ledger *Ledger, categories *CategoryRegistry, ids core.IDGenerator, clock core.Clock) *EmiTracker {
	return &EmiTracker{state: state, ledger: ledger, categories: categories, ids: ids, clock: clock}
}

func (t *EmiTracker) Add(in EmiInput) (core.Emi, error) {
	e := core.Emi{
		Title:   strings.TrimSpace(in.Title),
		Amount:  in.Amount,
		DueDate: in.DueDate,
	}
	if err := e.Validate(); err != nil {
		return core.Emi{}, err
	}
	e.ID = t.ids.NewID(core.PrefixEmi)
	t.state.Emis = append(t.state.Emis, e)
	return e, nil
}

func (t *EmiTracker) index(id string) int {
	return slices.IndexFunc(t.state.Emis, func(e core.Emi) bool { return e.ID == id })
}

func (t *EmiTracker) Get(id string) (core.Emi, bool) {
	if i := t.index(id); i >= 0 {
		return t.state.Emis[i], true
	}
	return core.Emi{}, false
}

func (t *EmiTracker) All() []core.Emi {
	return slices.Clone(t.state.Emis)
}

func linkedTo(id string) func(core.Transaction) bool {
	return func(tx core.Transaction) bool { return tx.EmiID == id }
}

// MarkPaid flags the EMI as paid today and books its linked expense in the
// "emi" category unless one already exists. Paying a paid EMI changes nothing.
// On error the EMI is left untouched.
func (t *EmiTracker) MarkPaid(id string) (core.Emi, error) {
	i := t.index(id)
	if i < 0 {
		return core.Emi{}, core.NotFound("emi", id)
	}
	e := t.state.Emis[i]
	if e.Paid && t.ledger.exists(linkedTo(id)) {
		return e, nil
	}

	paidOn := t.clock.Today()
	if e.Paid && !e.PaidDate.IsEmpty() {
		paidOn = e.PaidDate
	}
	if !t.ledger.exists(linkedTo(id)) {
		if _, err := t.ledger.Add(TransactionInput{
			Type:     core.Expense,
			Category: t.categories.Ensure(core.CategoryEMI),
			Amount:   e.Amount,
			Date:     paidOn,
			EmiID:    id,
		}); err != nil {
			return core.Emi{}, err
		}
	}
	e.Paid = true
	e.PaidDate = paidOn
	t.state.Emis[i] = e
	return e, nil
}

// MarkUnpaid clears the paid flag and removes every linked transaction.
func (t *EmiTracker) MarkUnpaid(id string) (core.Emi, error) {
	i := t.index(id)
	if i < 0 {
		return core.Emi{}, core.NotFound("emi", id)
	}
	t.ledger.removeWhere(linkedTo(id))
	t.state.Emis[i].Paid = false
	t.state.Emis[i].PaidDate = core.Date{}
	return t.state.Emis[i], nil
}

// Delete removes the EMI together with its linked transactions.
func (t *EmiTracker) Delete(id string) error {
	i := t.index(id)
	if i < 0 {
		return core.NotFound("emi", id)
	}
	t.ledger.removeWhere(linkedTo(id))
	t.state.Emis = slices.Delete(t.state.Emis, i, i+1)
	return nil
}

func (t *EmiTracker) Status(id string, asOf core.Date) (EmiStatus, error) {
	e, ok := t.Get(id)
	if !ok {
		return EmiStatus{}, core.NotFound("emi", id)
	}
	return EmiStatusAt(e, asOf), nil
}

// EmiView pairs an EMI with its status.
type EmiView struct {
	core.Emi
	Status EmiStatus
}

// Statuses lists every EMI with its status as of asOf, in insertion order.
func (t *EmiTracker) Statuses(asOf core.Date) []EmiView {
	out := make([]EmiView, len(t.state.Emis))
	for i, e := range t.state.Emis {
		out[i] = EmiView{Emi: e, Status: EmiStatusAt(e, asOf)}
	}
	return out
}
