// Package scheduler runs the periodic reindex that keeps the search index
// consistent with the primary store.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/boiar/job-search-project/internal/domain"
)

// JobLister loads the jobs to reindex.
type JobLister interface {
	List(ctx context.Context) ([]domain.Job, error)
}

// Reindexer rewrites the full corpus into the search index.
type Reindexer interface {
	Reindex(ctx context.Context, jobs []domain.Job) error
}

// Scheduler wraps robfig/cron and manages the reindex loop.
type Scheduler struct {
	cron      *cron.Cron
	jobs      JobLister
	reindexer Reindexer
	spec      string
	logger    *zap.Logger
}

// New creates a Scheduler that fires every intervalHours hours.
func New(jobs JobLister, reindexer Reindexer, intervalHours int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		jobs:      jobs,
		reindexer: reindexer,
		spec:      fmt.Sprintf("@every %dh", intervalHours),
		logger:    logger,
	}
}

// Start registers the reindex job and starts the scheduler. One reindex runs
// immediately so a fresh deployment serves results without waiting for the
// first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runReindex(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Reindex scheduler started", zap.String("spec", s.spec))

	go s.runReindex(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("Reindex scheduler stopped")
}

func (s *Scheduler) runReindex(ctx context.Context) {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		s.logger.Error("Reindex aborted: failed to load jobs", zap.Error(err))
		return
	}

	if len(jobs) == 0 {
		s.logger.Info("Reindex skipped: no jobs in the store")
		return
	}

	if err := s.reindexer.Reindex(ctx, jobs); err != nil {
		s.logger.Error("Reindex failed", zap.Error(err))
		return
	}

	s.logger.Info("Reindex complete", zap.Int("jobs", len(jobs)))
}
