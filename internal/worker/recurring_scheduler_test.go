package worker

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

func TestRecurringSchedulerRunOnce(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(nil)

	// the template is created "in the past" by another process
	past := services.OpenTracker(ctx, services.TrackerConfig{
		Store: store, Clock: core.FixedClock(core.NewDate(2024, 1, 1)),
		IDs: &core.SequentialIDs{}, Logger: log.Discard(),
	})
	if _, _, err := past.AddRecurring(ctx, services.TemplateInput{
		Type: core.Expense, Category: "utilities", Amount: core.Cents(4000),
		StartDate: core.NewDate(2024, 1, 1), Interval: core.Weekly,
	}); err != nil {
		t.Fatalf("AddRecurring: %v", err)
	}

	now := services.NewTracker(services.TrackerConfig{
		Store: store, Clock: core.FixedClock(core.NewDate(2024, 1, 22)), Logger: log.Discard(),
	})
	s := NewRecurringScheduler(now, time.UTC)

	n, err := s.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 3 {
		t.Errorf("RunOnce() booked %d, want 3 (Jan 8, 15, 22)", n)
	}

	n, err = s.RunOnce(ctx)
	if err != nil || n != 0 {
		t.Errorf("second RunOnce() = %d, %v; want 0, nil", n, err)
	}
	if got := len(now.Transactions()); got != 4 {
		t.Errorf("transactions = %d, want seed plus 3", got)
	}
}

func TestRecurringSchedulerSchedule(t *testing.T) {
	tracker := services.NewTracker(services.TrackerConfig{Logger: log.Discard()})
	s := NewRecurringScheduler(tracker, time.UTC)

	if _, err := s.Schedule(context.Background(), "not a spec"); err == nil {
		t.Error("Schedule() should reject an invalid spec")
	}
	id, err := s.Schedule(context.Background(), "@daily")
	if err != nil {
		t.Fatalf("Schedule(@daily): %v", err)
	}

	s.Start()
	defer s.Stop()
	next := s.Next(id)
	if next.IsZero() || next.Hour() != 0 || next.Minute() != 0 {
		t.Errorf("Next() = %v, want the coming midnight", next)
	}
}
