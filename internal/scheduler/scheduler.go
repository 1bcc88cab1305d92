// Package scheduler runs periodic ledger maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/nonprofit_ledger/internal/core/ports/services"
	"github.com/SscSPs/nonprofit_ledger/internal/middleware"
)

// DefaultIntegritySchedule runs the integrity check daily at 02:00 UTC.
const DefaultIntegritySchedule = "0 0 2 * * *"

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron      *cron.Cron
	reporting portssvc.ReportingService
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a scheduler that checks ledger integrity on schedule, a
// six-field cron spec with seconds.
func New(reporting portssvc.ReportingService, schedule string, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)
	s := &Scheduler{
		cron:      c,
		reporting: reporting,
		logger:    logger.With(slog.String("component", "scheduler")),
		now:       func() time.Time { return time.Now().UTC() },
	}
	if _, err := c.AddFunc(schedule, s.CheckIntegrity); err != nil {
		return nil, fmt.Errorf("invalid integrity check schedule %q: %w", schedule, err)
	}
	return s, nil
}

// CheckIntegrity runs one all-entity trial balance as of today.
func (s *Scheduler) CheckIntegrity() {
	ctx := middleware.WithLogger(context.Background(), s.logger)
	report, err := s.reporting.CheckIntegrity(ctx, domain.DateOf(s.now()))
	if err != nil {
		s.logger.Error("Integrity check job failed", slog.String("error", err.Error()))
		return
	}
	if !report.Balanced() {
		s.logger.Error("Integrity check job found an unbalanced ledger",
			slog.String("total_debits", domain.FormatAmount(report.TotalDebits)),
			slog.String("total_credits", domain.FormatAmount(report.TotalCredits)))
	}
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.logger.Info("Starting cron scheduler...", slog.Int("jobs", s.Entries()))
	s.cron.Start()
}

// Stop gracefully stops the cron scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler stopped")
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
