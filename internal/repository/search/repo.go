// Package search executes compiled queries and aggregation specs against
// the Elasticsearch backend and converts its responses into domain hits.
package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boiar/job-search-project/internal/db/elastic"
	"github.com/boiar/job-search-project/internal/domain"
	"github.com/boiar/job-search-project/internal/domain/search/aggs"
	"github.com/boiar/job-search-project/internal/domain/search/query"
	"github.com/boiar/job-search-project/internal/domain/search/result"
)

// ResultLimit is the fixed result cap submitted with every search.
const ResultLimit = 50

// highlightFields are requested with every search; the projector
// substitutes the snippets into the display values.
var highlightFields = []string{"title", "description", "skills.name"}

// backend is the consumer interface over the Elasticsearch client.
type backend interface {
	Search(ctx context.Context, index string, body any) (*elastic.SearchResponse, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	backend backend
	index   string
}

// New creates a search repository bound to one index.
func New(b backend, index string) *Repo {
	return &Repo{backend: b, index: index}
}

// Execute runs a compiled query with the fixed cap and highlight request.
// Backend failures wrap domain.ErrSearchFailed and are never retried here.
func (r *Repo) Execute(ctx context.Context, q query.Compiled) ([]result.Hit, error) {
	fields := make(query.M, len(highlightFields))
	for _, f := range highlightFields {
		fields[f] = query.M{}
	}

	body := query.M{
		"size":      ResultLimit,
		"query":     q.Root(),
		"highlight": query.M{"fields": fields},
	}

	resp, err := r.backend.Search(ctx, r.index, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}

	hits := make([]result.Hit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		var doc domain.JobDocument
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			return nil, fmt.Errorf("%w: decode hit %s: %w", domain.ErrSearchFailed, h.ID, err)
		}
		if doc.Skills == nil {
			doc.Skills = []domain.Skill{}
		}
		hits = append(hits, result.Hit{ID: h.ID, Document: doc, Highlight: h.Highlight})
	}
	return hits, nil
}

// Aggregate runs an aggregation spec (size 0: buckets only) and returns
// the raw named aggregations for the domain layer to flatten.
func (r *Repo) Aggregate(ctx context.Context, spec aggs.Spec) (map[string]json.RawMessage, error) {
	body := query.M{
		"size":             0,
		"runtime_mappings": runtimeMappings(spec.Derived()),
		"aggs":             bucketRequests(spec.Buckets()),
	}

	resp, err := r.backend.Search(ctx, r.index, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}
	return resp.Aggregations, nil
}

// runtimeMappings renders the declarative derivations into the backend's
// scripted runtime fields.
func runtimeMappings(derived []aggs.Derivation) query.M {
	out := make(query.M, len(derived))
	for _, d := range derived {
		out[d.Name()] = query.M{
			"type":   "keyword",
			"script": query.M{"source": derivationScript(d)},
		}
	}
	return out
}

// derivationScript emits one token per nested sub-document property, or
// the scalar field verbatim. Missing and null values emit nothing.
func derivationScript(d aggs.Derivation) string {
	switch d.Kind() {
	case aggs.DeriveNested:
		return fmt.Sprintf(
			"if (params._source.containsKey('%[1]s') && params._source.%[1]s != null) {"+
				" for (def item : params._source.%[1]s) {"+
				" if (item.containsKey('%[2]s') && item.%[2]s != null) { emit(item.%[2]s); }"+
				" } }",
			d.Path(), d.Property(),
		)
	case aggs.DeriveScalar:
		return fmt.Sprintf(
			"if (params._source.containsKey('%[1]s') && params._source.%[1]s != null) {"+
				" emit(params._source.%[1]s); }",
			d.Field(),
		)
	default:
		return ""
	}
}

func bucketRequests(buckets []aggs.Bucket) query.M {
	out := make(query.M, len(buckets))
	for _, b := range buckets {
		out[b.Name()] = query.M{
			"terms": query.M{"field": b.Field(), "size": b.Size()},
		}
	}
	return out
}
