package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// Notifier is told about every change that reached the store.
type Notifier interface {
	NotifyLedgerChanged(ctx context.Context, op string, revision int64, counts core.Counts) error
}

type TrackerConfig struct {
	Store    storage.Store
	Clock    core.Clock
	IDs      core.IDGenerator
	Notifier Notifier    // optional
	Logger   *log.Logger // optional
}

// Tracker owns the ledger state and is the only way to change it. Every
// mutation is validated, applied, flushed to the store and only then
// announced. If the flush fails the state is rolled back.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	state    *core.State
	store    storage.Store
	clock    core.Clock
	ids      core.IDGenerator
	notifier Notifier
	logger   *log.Logger
	norm     *storage.Normalizer
	revision int64

	categories *CategoryRegistry
	ledger     *Ledger
	emis       *EmiTracker
	recurring  *RecurringProcessor
	advisor    *GoalAdvisor
}

// NewTracker wires the components around an empty state. Call Load to read
// what the store holds.
func NewTracker(cfg TrackerConfig) *Tracker {
	if cfg.Clock == nil {
		cfg.Clock = core.SystemClock{}
	}
	if cfg.IDs == nil {
		cfg.IDs = core.UUIDs{}
	}
	if cfg.Store == nil {
		cfg.Store = storage.NewMemoryStore(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.ForComponent(log.ComponentLedger)
	}

	state := core.NewState()
	categories := NewCategoryRegistry(state, cfg.IDs)
	ledger := NewLedger(state, categories, cfg.IDs)
	return &Tracker{
		state:      state,
		store:      cfg.Store,
		clock:      cfg.Clock,
		ids:        cfg.IDs,
		notifier:   cfg.Notifier,
		logger:     cfg.Logger,
		norm:       &storage.Normalizer{IDs: cfg.IDs, Clock: cfg.Clock},
		categories: categories,
		ledger:     ledger,
		emis:       NewEmiTracker(state, ledger, categories, cfg.IDs, cfg.Clock),
		recurring:  NewRecurringProcessor(state, ledger, cfg.IDs),
		advisor:    NewGoalAdvisor(state, categories),
	}
}

// OpenTracker builds a Tracker and loads the persisted state.
func OpenTracker(ctx context.Context, cfg TrackerConfig) *Tracker {
	t := NewTracker(cfg)
	t.Load(ctx)
	return t
}

// Load replaces the in-memory state with what the store holds. Absent or
// corrupt data falls back to defaults; it never fails.
func (t *Tracker) Load(ctx context.Context) {
	t.state.Replace(t.norm.LoadState(ctx, t.store))
	t.reserveIDs()
	t.logger.InfoContext(ctx, "Ledger loaded", counts(t.state.Counts())...)
}

// reserveIDs tells a counting generator about the ids already in use.
func (t *Tracker) reserveIDs() {
	r, ok := t.ids.(core.IDReserver)
	if !ok {
		return
	}
	for _, id := range t.state.IDs() {
		r.Reserve(id)
	}
}

func counts(c core.Counts) []any {
	return []any{
		"transactions", c.Transactions,
		"emis", c.Emis,
		"categories", c.Categories,
		"recurring", c.Recurring,
		"net_entries", c.NetWorth,
	}
}

func (t *Tracker) flush(ctx context.Context) error {
	values, err := storage.EncodeState(t.state)
	if err != nil {
		return err
	}
	return storage.SaveAll(ctx, t.store, values)
}

// mutate runs fn against the live state and persists the result. Any error
// restores the state as it was before fn ran.
func (t *Tracker) mutate(ctx context.Context, op string, fn func() error) error {
	snapshot := t.state.Clone()
	if err := fn(); err != nil {
		t.state.Replace(snapshot)
		return err
	}
	if err := t.flush(ctx); err != nil {
		t.state.Replace(snapshot)
		t.logger.ErrorContext(ctx, "Failed to persist ledger, change rolled back",
			log.NewFields().WithOperation(op).WithError(err).ToSlice()...)
		return fmt.Errorf("persist %s: %w", op, err)
	}
	t.revision++
	t.notify(ctx, op)
	return nil
}

func (t *Tracker) notify(ctx context.Context, op string) {
	if t.notifier == nil {
		return
	}
	if err := t.notifier.NotifyLedgerChanged(ctx, op, t.revision, t.state.Counts()); err != nil {
		// the change is already stored; subscribers catch up on the next one
		t.logger.WarnContext(ctx, "Failed to publish ledger change",
			log.NewFields().WithOperation(op).WithRevision(t.revision).WithError(err).ToSlice()...)
	}
}

// Revision counts successful mutations since the Tracker was created.
func (t *Tracker) Revision() int64 { return t.revision }

// Today is the tracker's notion of the current date.
func (t *Tracker) Today() core.Date { return t.clock.Today() }

// Transactions

func (t *Tracker) AddTransaction(ctx context.Context, in TransactionInput) (core.Transaction, error) {
	var tx core.Transaction
	err := t.mutate(ctx, "add_transaction", func() (err error) {
		tx, err = t.ledger.Add(in)
		return err
	})
	if err != nil {
		return core.Transaction{}, err
	}
	t.logger.InfoContext(ctx, "Transaction added",
		log.NewFields().WithTransaction(tx.ID, string(tx.Type), tx.Category, tx.Amount.Cents, tx.Date.String()).ToSlice()...)
	return tx, nil
}

func (t *Tracker) EditTransaction(ctx context.Context, id string, patch TransactionPatch) (core.Transaction, error) {
	var tx core.Transaction
	err := t.mutate(ctx, "edit_transaction", func() (err error) {
		tx, err = t.ledger.Edit(id, patch)
		return err
	})
	return tx, err
}

// RemoveTransaction deletes a transaction. Removing the payment of a paid EMI
// marks that EMI unpaid, keeping the two in step.
func (t *Tracker) RemoveTransaction(ctx context.Context, id string) error {
	return t.mutate(ctx, "remove_transaction", func() error {
		tx, ok := t.ledger.Get(id)
		if !ok {
			return core.NotFound("transaction", id)
		}
		if _, linked := t.emis.Get(tx.EmiID); tx.EmiID != "" && linked {
			_, err := t.emis.MarkUnpaid(tx.EmiID)
			return err
		}
		return t.ledger.Remove(id)
	})
}

func (t *Tracker) Transaction(id string) (core.Transaction, bool) { return t.ledger.Get(id) }

func (t *Tracker) Transactions() []core.Transaction { return t.ledger.All() }

// View returns the filtered, sorted ledger with a running balance computed
// over exactly the rows shown.
func (t *Tracker) View(opts ViewOptions) []BalanceRow {
	return RunningBalance(t.ledger.View(opts))
}

// Categories

func (t *Tracker) AddCategory(ctx context.Context, name, icon string) (string, error) {
	var id string
	err := t.mutate(ctx, "add_category", func() (err error) {
		id, err = t.categories.Add(name, icon)
		return err
	})
	return id, err
}

func (t *Tracker) RenameCategory(ctx context.Context, id, name string) error {
	return t.mutate(ctx, "rename_category", func() error { return t.categories.Rename(id, name) })
}

func (t *Tracker) SetCategoryIcon(ctx context.Context, id, icon string) error {
	return t.mutate(ctx, "set_category_icon", func() error { return t.categories.SetIcon(id, icon) })
}

// RemoveCategory deletes a category and returns how many transactions moved to "other".
func (t *Tracker) RemoveCategory(ctx context.Context, id string) (int, error) {
	var n int
	err := t.mutate(ctx, "remove_category", func() (err error) {
		n, err = t.categories.Remove(id)
		return err
	})
	if err == nil && n > 0 {
		t.logger.InfoContext(ctx, "Transactions reassigned to other", "category", id, "count", n)
	}
	return n, err
}

func (t *Tracker) Categories() []core.Category { return t.categories.All() }

func (t *Tracker) CategoryLabel(id string) string { return t.categories.ResolveLabel(id) }

// EMIs

func (t *Tracker) AddEmi(ctx context.Context, in EmiInput) (core.Emi, error) {
	var e core.Emi
	err := t.mutate(ctx, "add_emi", func() (err error) {
		e, err = t.emis.Add(in)
		return err
	})
	return e, err
}

func (t *Tracker) MarkEmiPaid(ctx context.Context, id string) (core.Emi, error) {
	var e core.Emi
	err := t.mutate(ctx, "mark_emi_paid", func() (err error) {
		e, err = t.emis.MarkPaid(id)
		return err
	})
	if err == nil {
		t.logger.InfoContext(ctx, "EMI marked paid", log.NewFields().WithEmi(e.ID, e.Amount.Cents).ToSlice()...)
	}
	return e, err
}

func (t *Tracker) MarkEmiUnpaid(ctx context.Context, id string) (core.Emi, error) {
	var e core.Emi
	err := t.mutate(ctx, "mark_emi_unpaid", func() (err error) {
		e, err = t.emis.MarkUnpaid(id)
		return err
	})
	return e, err
}

func (t *Tracker) DeleteEmi(ctx context.Context, id string) error {
	return t.mutate(ctx, "delete_emi", func() error { return t.emis.Delete(id) })
}

// Emis lists every EMI with its status as of today.
func (t *Tracker) Emis() []EmiView { return t.emis.Statuses(t.clock.Today()) }

func (t *Tracker) EmiStatus(id string) (EmiStatus, error) {
	return t.emis.Status(id, t.clock.Today())
}

// Recurring templates

func (t *Tracker) AddRecurring(ctx context.Context, in TemplateInput) (core.RecurringTemplate, core.Transaction, error) {
	var (
		tpl  core.RecurringTemplate
		seed core.Transaction
	)
	err := t.mutate(ctx, "add_recurring", func() (err error) {
		tpl, seed, err = t.recurring.AddTemplate(in)
		return err
	})
	if err == nil {
		t.logger.InfoContext(ctx, "Recurring template added",
			log.NewFields().WithTemplate(tpl.ID).WithTransaction(seed.ID, string(seed.Type), seed.Category, seed.Amount.Cents, seed.Date.String()).ToSlice()...)
	}
	return tpl, seed, err
}

func (t *Tracker) RemoveRecurring(ctx context.Context, id string) error {
	return t.mutate(ctx, "remove_recurring", func() error { return t.recurring.RemoveTemplate(id) })
}

func (t *Tracker) Templates() []core.RecurringTemplate { return t.recurring.Templates() }

// MaterializeDue books every recurring occurrence due up to today. Nothing is
// written when no template moved.
func (t *Tracker) MaterializeDue(ctx context.Context) (int, error) {
	return t.MaterializeDueAt(ctx, t.clock.Today())
}

func (t *Tracker) MaterializeDueAt(ctx context.Context, asOf core.Date) (int, error) {
	before := slices.Clone(t.state.Recurring)
	var created int
	err := t.mutate(ctx, "materialize_due", func() (err error) {
		created, err = t.recurring.MaterializeDue(ctx, asOf)
		if err == nil && created == 0 && slices.Equal(before, t.state.Recurring) {
			return errUnchanged
		}
		return err
	})
	if errors.Is(err, errUnchanged) {
		return 0, nil
	}
	return created, err
}

var errUnchanged = errors.New("unchanged")

// Net worth

type NetWorthInput struct {
	Date   core.Date
	Assets core.Money
	Liab   core.Money
}

func (t *Tracker) AddNetWorth(ctx context.Context, in NetWorthInput) (core.NetWorthEntry, error) {
	e := core.NetWorthEntry{Date: in.Date, Assets: in.Assets, Liab: in.Liab}
	if err := e.Validate(); err != nil {
		return core.NetWorthEntry{}, err
	}
	err := t.mutate(ctx, "add_net_worth", func() error {
		e.ID = t.ids.NewID(core.PrefixNetWorth)
		t.state.NetWorth = append(t.state.NetWorth, e)
		return nil
	})
	return e, err
}

func (t *Tracker) RemoveNetWorth(ctx context.Context, id string) error {
	return t.mutate(ctx, "remove_net_worth", func() error {
		i := slices.IndexFunc(t.state.NetWorth, func(e core.NetWorthEntry) bool { return e.ID == id })
		if i < 0 {
			return core.NotFound("net worth entry", id)
		}
		t.state.NetWorth = slices.Delete(t.state.NetWorth, i, i+1)
		return nil
	})
}

func (t *Tracker) NetWorthEntries() []core.NetWorthEntry { return slices.Clone(t.state.NetWorth) }

func (t *Tracker) NetWorth() []core.NetWorthPoint { return NetWorthSeries(t.state.NetWorth) }

// Goal

// SetGoal sets the monthly savings target, which must be positive.
func (t *Tracker) SetGoal(ctx context.Context, goal core.Money) error {
	if err := goal.Validate(); err != nil {
		return core.Invalid("goal", err)
	}
	return t.mutate(ctx, "set_goal", func() error {
		t.state.Goal = &goal
		return nil
	})
}

func (t *Tracker) ClearGoal(ctx context.Context) error {
	return t.mutate(ctx, "clear_goal", func() error {
		t.state.Goal = nil
		return nil
	})
}

// Goal returns the monthly target, if one is set.
func (t *Tracker) Goal() (core.Money, bool) {
	if t.state.Goal == nil {
		return core.Money{}, false
	}
	return *t.state.Goal, true
}

// Derived views

func (t *Tracker) MonthlyTotals(k core.MonthKey) core.Totals {
	return MonthlyTotals(t.state.Transactions, k)
}

func (t *Tracker) YearlyTotals(year int) [12]core.MonthTotals {
	return YearlyTotals(t.state.Transactions, year)
}

// TopExpenseCategories ranks expense categories of month k.
func (t *Tracker) TopExpenseCategories(k core.MonthKey) []core.CategoryAmount {
	return RankCategories(CategoryTotals(t.state.Transactions, core.Expense, InMonth(k)))
}

func (t *Tracker) Widgets() Widgets { return ComputeWidgets(t.state, t.clock.Today()) }

func (t *Tracker) Insights(year int) (Insights, bool) { return t.advisor.Insights(year) }

func (t *Tracker) Charts() ChartSeries { return Charts(t.state, t.clock.Today()) }

func (t *Tracker) ExportRows() []core.ExportRow {
	return TransactionRows(t.state.Transactions, t.categories)
}

func (t *Tracker) SummaryRows(year int) []core.SummaryRow { return YearlyRows(t.state, year) }

func (t *Tracker) Counts() core.Counts { return t.state.Counts() }

// Snapshot returns a deep copy of the current state.
func (t *Tracker) Snapshot() *core.State { return t.state.Clone() }

// Backup and restore

// Backup renders the whole ledger as a portable JSON document.
func (t *Tracker) Backup() ([]byte, error) {
	return storage.MarshalBackup(t.state)
}

// Restore replaces the ledger with the contents of a backup document.
// Unreadable parts fall back to defaults the same way loading does, so the
// only possible error is a failed flush.
func (t *Tracker) Restore(ctx context.Context, doc []byte) error {
	restored := t.norm.UnmarshalBackup(ctx, doc)
	return t.mutate(ctx, "restore", func() error {
		t.state.Replace(restored)
		t.reserveIDs()
		return nil
	})
}

// Clear wipes every collection and restores the default categories.
func (t *Tracker) Clear(ctx context.Context) error {
	return t.mutate(ctx, "clear", func() error {
		t.state.Replace(core.NewState())
		return nil
	})
}
