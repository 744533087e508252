package search

import (
	"context"
	"encoding/json"

	"github.com/boiar/job-search-project/internal/domain/search/aggs"
	"github.com/boiar/job-search-project/internal/domain/search/query"
	"github.com/boiar/job-search-project/internal/domain/search/result"
)

// Repository defines the backend contract for search operations.
type Repository interface {
	Execute(ctx context.Context, q query.Compiled) ([]result.Hit, error)
	Aggregate(ctx context.Context, spec aggs.Spec) (map[string]json.RawMessage, error)
}

// AnalyticsCache stores flattened analytics between requests. Implementations
// degrade to misses on failure; Put never reports errors.
type AnalyticsCache interface {
	Get(ctx context.Context) (map[string][]aggs.Entry, bool)
	Put(ctx context.Context, analytics map[string][]aggs.Entry)
}
