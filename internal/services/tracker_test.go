package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

type flakyStore struct {
	*storage.MemoryStore
	fail  bool
	saves int
}

func (s *flakyStore) Save(ctx context.Context, key, value string) error {
	if s.fail {
		return errors.New("disk full")
	}
	s.saves++
	return s.MemoryStore.Save(ctx, key, value)
}

func (s *flakyStore) SaveAll(ctx context.Context, values map[string]string) error {
	if s.fail {
		return errors.New("disk full")
	}
	s.saves++
	return s.MemoryStore.SaveAll(ctx, values)
}

type recordedChange struct {
	op       string
	revision int64
}

type recordingNotifier struct {
	changes []recordedChange
	err     error
}

func (n *recordingNotifier) NotifyLedgerChanged(_ context.Context, op string, revision int64, _ core.Counts) error {
	n.changes = append(n.changes, recordedChange{op, revision})
	return n.err
}

func newTestTracker(t *testing.T, store storage.Store, today core.Date) (*Tracker, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	tr := OpenTracker(context.Background(), TrackerConfig{
		Store:    store,
		Clock:    core.FixedClock(today),
		IDs:      &core.SequentialIDs{},
		Notifier: n,
		Logger:   log.Discard(),
	})
	return tr, n
}

func TestTracker_PersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(nil)
	today := core.NewDate(2024, 3, 10)
	tr, n := newTestTracker(t, store, today)

	tx, err := tr.AddTransaction(ctx, TransactionInput{Type: core.Income, Category: "salary", Amount: core.Cents(500000), Date: today})
	require.NoError(t, err)
	_, err = tr.AddCategory(ctx, "Rent", "🏠")
	require.NoError(t, err)
	require.NoError(t, tr.SetGoal(ctx, core.Cents(100000)))

	assert.Equal(t, []recordedChange{{"add_transaction", 1}, {"add_category", 2}, {"set_goal", 3}}, n.changes)

	reloaded, _ := newTestTracker(t, store, today)
	got, ok := reloaded.Transaction(tx.ID)
	require.True(t, ok)
	assert.Equal(t, tx, got)
	assert.Equal(t, "🏠 Rent", reloaded.CategoryLabel("rent"))
	goal, ok := reloaded.Goal()
	require.True(t, ok)
	assert.Equal(t, core.Cents(100000), goal)
}

func TestTracker_RollsBackWhenFlushFails(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: storage.NewMemoryStore(nil)}
	today := core.NewDate(2024, 3, 10)
	tr, n := newTestTracker(t, store, today)

	_, err := tr.AddTransaction(ctx, TransactionInput{Type: core.Expense, Category: "food", Amount: core.Cents(100), Date: today})
	require.NoError(t, err)
	before := tr.Snapshot()

	store.fail = true
	_, err = tr.AddTransaction(ctx, TransactionInput{Type: core.Expense, Category: "food", Amount: core.Cents(200), Date: today})
	require.Error(t, err)
	_, err = tr.RemoveCategory(ctx, "food")
	require.Error(t, err)

	assert.Equal(t, before, tr.Snapshot())
	assert.Len(t, n.changes, 1, "failed flushes must not be announced")
	assert.Equal(t, int64(1), tr.Revision())
}

func TestTracker_ValidationErrorsLeaveStateAlone(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: storage.NewMemoryStore(nil)}
	tr, _ := newTestTracker(t, store, core.NewDate(2024, 3, 10))

	_, err := tr.AddTransaction(ctx, TransactionInput{Type: core.Expense, Category: "ghost", Amount: core.Cents(100), Date: core.NewDate(2024, 3, 1)})
	assert.True(t, core.IsValidation(err))
	assert.True(t, core.IsNotFound(tr.RemoveTransaction(ctx, "nope")))
	assert.True(t, core.IsValidation(tr.SetGoal(ctx, core.Money{})))
	assert.Zero(t, store.saves)
	assert.Empty(t, tr.Transactions())
}

func TestTracker_EmiFlow(t *testing.T) {
	ctx := context.Background()
	today := core.NewDate(2024, 3, 10)
	tr, _ := newTestTracker(t, storage.NewMemoryStore(nil), today)

	e, err := tr.AddEmi(ctx, EmiInput{Title: "Car", Amount: core.Cents(50000), DueDate: today.AddDays(2)})
	require.NoError(t, err)
	st, err := tr.EmiStatus(e.ID)
	require.NoError(t, err)
	assert.Equal(t, EmiStatus{Kind: EmiDueSoon, Days: 2}, st)

	_, err = tr.MarkEmiPaid(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, tr.Transactions(), 1)
	assert.Equal(t, e.ID, tr.Transactions()[0].EmiID)
	assert.Equal(t, EmiPaid, tr.Emis()[0].Status.Kind)

	_, err = tr.MarkEmiUnpaid(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, tr.Transactions())

	require.NoError(t, tr.DeleteEmi(ctx, e.ID))
	assert.Empty(t, tr.Emis())
}

func TestTracker_MaterializeDue(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: storage.NewMemoryStore(nil)}
	tr, n := newTestTracker(t, store, core.NewDate(2024, 4, 10))

	_, _, err := tr.AddRecurring(ctx, TemplateInput{Type: core.Expense, Category: "utilities", Amount: core.Cents(10000), StartDate: core.NewDate(2024, 1, 15), Interval: core.Monthly})
	require.NoError(t, err)

	created, err := tr.MaterializeDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, core.NewDate(2024, 3, 15), tr.Templates()[0].LastGenerated)

	saves := store.saves
	created, err = tr.MaterializeDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, saves, store.saves, "an idle run should not write")
	assert.Len(t, n.changes, 2)
}

func TestTracker_BackupRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	today := core.NewDate(2024, 3, 10)
	src, _ := newTestTracker(t, storage.NewMemoryStore(nil), today)

	_, err := src.AddCategory(ctx, "Kids School", "🎒")
	require.NoError(t, err)
	_, err = src.AddTransaction(ctx, TransactionInput{Type: core.Expense, Category: "kids-school", Amount: core.FromDecimal("12.34"), Date: today})
	require.NoError(t, err)
	e, err := src.AddEmi(ctx, EmiInput{Title: "Loan", Amount: core.Cents(2500), DueDate: today})
	require.NoError(t, err)
	_, err = src.MarkEmiPaid(ctx, e.ID)
	require.NoError(t, err)
	_, _, err = src.AddRecurring(ctx, TemplateInput{Type: core.Income, Category: "salary", Amount: core.Cents(1), StartDate: core.NewDate(2024, 3, 1), Interval: core.Weekly})
	require.NoError(t, err)
	_, err = src.AddNetWorth(ctx, NetWorthInput{Date: today, Assets: core.Cents(100), Liab: core.Cents(40)})
	require.NoError(t, err)
	require.NoError(t, src.SetGoal(ctx, core.Cents(99)))

	doc, err := src.Backup()
	require.NoError(t, err)

	dst, _ := newTestTracker(t, storage.NewMemoryStore(nil), today)
	require.NoError(t, dst.Restore(ctx, doc))
	assert.Equal(t, src.Snapshot(), dst.Snapshot())
}

func TestTracker_RestoreGarbageFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, storage.NewMemoryStore(nil), core.NewDate(2024, 3, 10))
	_, err := tr.AddTransaction(ctx, TransactionInput{Type: core.Income, Category: "salary", Amount: core.Cents(1), Date: core.NewDate(2024, 3, 1)})
	require.NoError(t, err)

	require.NoError(t, tr.Restore(ctx, []byte("definitely not json")))
	assert.Empty(t, tr.Transactions())
	assert.Equal(t, core.DefaultCategories(), tr.Categories())
}

func TestTracker_ClearAndNetWorth(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, storage.NewMemoryStore(nil), core.NewDate(2024, 3, 10))

	entry, err := tr.AddNetWorth(ctx, NetWorthInput{Date: core.NewDate(2024, 3, 1), Assets: core.Cents(1000), Liab: core.Cents(300)})
	require.NoError(t, err)
	_, err = tr.AddNetWorth(ctx, NetWorthInput{Date: core.NewDate(2024, 3, 1), Assets: core.Cents(-1)})
	assert.True(t, core.IsValidation(err))
	require.Len(t, tr.NetWorth(), 1)
	assert.Equal(t, core.Cents(700), tr.NetWorth()[0].Net)

	require.NoError(t, tr.RemoveNetWorth(ctx, entry.ID))
	assert.True(t, core.IsNotFound(tr.RemoveNetWorth(ctx, entry.ID)))

	require.NoError(t, tr.SetGoal(ctx, core.Cents(5)))
	require.NoError(t, tr.ClearGoal(ctx))
	_, ok := tr.Goal()
	assert.False(t, ok)

	_, err = tr.AddCategory(ctx, "Pets", "")
	require.NoError(t, err)
	require.NoError(t, tr.Clear(ctx))
	assert.Equal(t, core.Counts{Categories: len(core.DefaultCategories())}, tr.Counts())
}

func TestTracker_NotifierErrorDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	tr, n := newTestTracker(t, storage.NewMemoryStore(nil), core.NewDate(2024, 3, 10))
	n.err = errors.New("broker down")

	_, err := tr.AddCategory(ctx, "Travel", "")
	require.NoError(t, err)
	assert.Len(t, tr.Categories(), len(core.DefaultCategories())+1)
}

func TestTracker_ViewRunningBalance(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t, storage.NewMemoryStore(nil), core.NewDate(2024, 3, 10))
	for _, in := range []TransactionInput{
		{Type: core.Income, Category: "salary", Amount: core.Cents(1000), Date: core.NewDate(2024, 3, 1)},
		{Type: core.Expense, Category: "food", Amount: core.Cents(300), Date: core.NewDate(2024, 3, 2)},
	} {
		_, err := tr.AddTransaction(ctx, in)
		require.NoError(t, err)
	}
	rows := tr.View(ViewOptions{Filter: FilterAll, Sort: SortByDate})
	require.Len(t, rows, 2)
	assert.Equal(t, core.Cents(1000), rows[0].Balance)
	assert.Equal(t, core.Cents(700), rows[1].Balance)

	rows = tr.View(ViewOptions{Filter: FilterExpense, Sort: SortByDate})
	require.Len(t, rows, 1)
	assert.Equal(t, core.Cents(-300), rows[0].Balance)
}

func TestTracker_SequentialIDsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(nil)
	today := core.NewDate(2024, 3, 10)

	var added []string
	for range 3 {
		tr, _ := newTestTracker(t, store, today)
		tx, err := tr.AddTransaction(ctx, TransactionInput{Type: core.Expense, Category: "food", Amount: core.Cents(100), Date: today})
		require.NoError(t, err)
		added = append(added, tx.ID)
	}
	assert.Equal(t, []string{"txn_1", "txn_2", "txn_3"}, added)

	tr, _ := newTestTracker(t, store, today)
	assert.Equal(t, added, txnIDs(tr.Transactions()))
}

func TestTracker_RestoreReservesIDs(t *testing.T) {
	ctx := context.Background()
	today := core.NewDate(2024, 3, 10)
	src, _ := newTestTracker(t, storage.NewMemoryStore(nil), today)
	for range 2 {
		_, err := src.AddTransaction(ctx, TransactionInput{Type: core.Income, Category: "salary", Amount: core.Cents(100), Date: today})
		require.NoError(t, err)
	}
	doc, err := src.Backup()
	require.NoError(t, err)

	dst, _ := newTestTracker(t, storage.NewMemoryStore(nil), today)
	require.NoError(t, dst.Restore(ctx, doc))
	tx, err := dst.AddTransaction(ctx, TransactionInput{Type: core.Income, Category: "salary", Amount: core.Cents(100), Date: today})
	require.NoError(t, err)
	assert.Equal(t, "txn_3", tx.ID)
}

func TestTracker_RemovingEmiPaymentUnpaysEmi(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(nil)
	today := core.NewDate(2024, 3, 10)
	tr, _ := newTestTracker(t, store, today)

	e, err := tr.AddEmi(ctx, EmiInput{Title: "Laptop", Amount: core.Cents(25000), DueDate: today})
	require.NoError(t, err)
	_, err = tr.MarkEmiPaid(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, tr.Transactions(), 1)

	require.NoError(t, tr.RemoveTransaction(ctx, tr.Transactions()[0].ID))
	assert.Empty(t, tr.Transactions())
	assert.False(t, tr.Emis()[0].Emi.Paid)
	assertEmiLinks(t, tr.Snapshot())

	reopened, _ := newTestTracker(t, store, today)
	assert.Empty(t, reopened.Transactions(), "a removed payment must stay removed")
	assert.False(t, reopened.Emis()[0].Emi.Paid)
}
