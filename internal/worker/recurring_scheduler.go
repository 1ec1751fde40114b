package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"fintrack/internal/log"
	"fintrack/internal/services"
)

// RecurringScheduler materializes due recurring transactions on a cron
// schedule. Runs never overlap.
type RecurringScheduler struct {
	tracker *services.Tracker
	cron    *cron.Cron
	logger  *log.Logger

	mu sync.Mutex
}

func NewRecurringScheduler(tracker *services.Tracker, loc *time.Location) *RecurringScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &RecurringScheduler{
		tracker: tracker,
		cron:    cron.New(cron.WithLocation(loc)),
		logger:  log.ForComponent(log.ComponentRecurring),
	}
}

// Schedule registers the materialization job on a standard five-field cron
// spec or a descriptor such as "@daily".
func (s *RecurringScheduler) Schedule(ctx context.Context, spec string) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Scheduled materialization failed", log.FieldError, err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("schedule %q: %w", spec, err)
	}
	return id, nil
}

// RunOnce reloads the ledger and books every due occurrence up to today.
func (s *RecurringScheduler) RunOnce(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// the CLI may have written since the last run
	s.tracker.Load(ctx)

	n, err := s.tracker.MaterializeDue(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "Recurring materialization complete",
		log.FieldOperation, log.OpMaterialize,
		log.FieldCount, n)
	return n, nil
}

func (s *RecurringScheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running job to finish.
func (s *RecurringScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Next reports when the job registered as id fires next.
func (s *RecurringScheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}
