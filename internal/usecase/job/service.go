package job

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/boiar/job-search-project/internal/domain"
)

// CreateInput carries the fields of a new job posting.
type CreateInput struct {
	Title       string
	Description string
	Location    string
	CompanyName string
	WorkType    string
	Industry    string
	CompanySize string
	Experience  string
	SalaryMin   *float64
	SalaryMax   *float64
	Skills      []string
}

// Service manages job records and keeps the search index in step with the
// primary store.
type Service struct {
	store   Store
	indexer Indexer
	logger  *zap.Logger
}

// New creates a job service.
func New(store Store, indexer Indexer, logger *zap.Logger) *Service {
	return &Service{store: store, indexer: indexer, logger: logger}
}

// Create validates and stores a new job, then indexes it. An indexing
// failure does not roll back the stored record; the next reindex pass
// repairs the gap.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Job, error) {
	j, err := domain.NewJob(
		in.Title, in.Description, in.Location, in.CompanyName, in.WorkType,
		in.Industry, in.CompanySize, in.Experience,
		in.SalaryMin, in.SalaryMax, in.Skills,
	)
	if err != nil {
		return domain.Job{}, err
	}

	if err := s.store.Create(ctx, &j); err != nil {
		return domain.Job{}, fmt.Errorf("store job: %w", err)
	}

	if err := s.indexer.Index(ctx, j); err != nil {
		s.logger.Warn("Failed to index new job",
			zap.String("job_id", j.ID),
			zap.Error(err),
		)
	}

	return j, nil
}

// Get returns one job by id.
func (s *Service) Get(ctx context.Context, id string) (domain.Job, error) {
	return s.store.Get(ctx, id)
}

// List returns all job records, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Job, error) {
	jobs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return jobs, nil
}
