package job

import (
	"context"

	"github.com/boiar/job-search-project/internal/domain"
)

// Store defines the primary-store contract for job records.
type Store interface {
	Create(ctx context.Context, j *domain.Job) error
	Get(ctx context.Context, id string) (domain.Job, error)
	List(ctx context.Context) ([]domain.Job, error)
}

// Indexer pushes job documents into the search index.
type Indexer interface {
	Index(ctx context.Context, j domain.Job) error
}
