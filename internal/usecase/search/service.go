package search

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/boiar/job-search-project/internal/domain/search/aggs"
	"github.com/boiar/job-search-project/internal/domain/search/filter"
	"github.com/boiar/job-search-project/internal/domain/search/query"
	"github.com/boiar/job-search-project/internal/domain/search/result"
)

// Service handles job search and analytics.
type Service struct {
	repo          Repository
	cache         AnalyticsCache
	searchesTotal *prometheus.CounterVec
}

// New creates a search service. cache and searchesTotal may be nil.
func New(repo Repository, cache AnalyticsCache, searchesTotal *prometheus.CounterVec) *Service {
	return &Service{repo: repo, cache: cache, searchesTotal: searchesTotal}
}

// Search compiles the filter model into a boolean query, executes it, and
// projects the hits into client records. Zero results is a normal outcome.
func (s *Service) Search(ctx context.Context, m filter.Model) ([]result.Record, error) {
	hits, err := s.repo.Execute(ctx, query.Compile(m))
	if err != nil {
		s.incSearches("error")
		return nil, err
	}
	s.incSearches("ok")
	return result.Project(hits), nil
}

// Analytics returns the five fixed analytics buckets, served from the cache
// when a fresh entry exists.
func (s *Service) Analytics(ctx context.Context) (map[string][]aggs.Entry, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx); ok {
			return cached, nil
		}
	}

	spec := aggs.BuildSpec()
	raw, err := s.repo.Aggregate(ctx, spec)
	if err != nil {
		return nil, err
	}

	analytics := aggs.Flatten(spec, raw)
	if s.cache != nil {
		s.cache.Put(ctx, analytics)
	}
	return analytics, nil
}

func (s *Service) incSearches(outcome string) {
	if s.searchesTotal != nil {
		s.searchesTotal.WithLabelValues(outcome).Inc()
	}
}
