// Package index keeps the search backend's corpus consistent with the
// primary job store. It owns the index mapping: skills must be nested
// objects or the nested skills query stops binding matches to a single
// skill entry.
package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/boiar/job-search-project/internal/db/elastic"
	"github.com/boiar/job-search-project/internal/domain"
)

// Mapping is the index schema for job documents.
const Mapping = `{
	"mappings": {
		"properties": {
			"title":        {"type": "text"},
			"description":  {"type": "text"},
			"location":     {"type": "text"},
			"company_name": {"type": "keyword"},
			"work_type":    {"type": "keyword"},
			"industry":     {"type": "keyword"},
			"company_size": {"type": "keyword"},
			"experience":   {"type": "keyword"},
			"salary_min":   {"type": "double"},
			"salary_max":   {"type": "double"},
			"skills": {
				"type": "nested",
				"properties": {
					"name": {"type": "text"}
				}
			}
		}
	}
}`

// backend is the consumer interface over the Elasticsearch client.
type backend interface {
	IndexDocument(ctx context.Context, index, id string, doc any) error
	BulkIndex(ctx context.Context, index string, docs []elastic.BulkDoc) error
	EnsureIndex(ctx context.Context, index, mapping string) error
}

// Writer writes job documents into the search index.
type Writer struct {
	backend   backend
	index     string
	chunkSize int
	logger    *zap.Logger
}

// New creates an index writer.
func New(b backend, index string, chunkSize int, logger *zap.Logger) *Writer {
	if chunkSize <= 0 {
		chunkSize = 100
	}
	return &Writer{backend: b, index: index, chunkSize: chunkSize, logger: logger}
}

// EnsureIndex creates the index with the nested-skills mapping if needed.
func (w *Writer) EnsureIndex(ctx context.Context) error {
	if err := w.backend.EnsureIndex(ctx, w.index, Mapping); err != nil {
		return fmt.Errorf("ensure index %s: %w", w.index, err)
	}
	return nil
}

// Index writes one job's document.
func (w *Writer) Index(ctx context.Context, j domain.Job) error {
	if err := w.backend.IndexDocument(ctx, w.index, j.ID, j.Document()); err != nil {
		return fmt.Errorf("index job %s: %w", j.ID, err)
	}
	return nil
}

// Reindex bulk-writes all given jobs in chunks.
func (w *Writer) Reindex(ctx context.Context, jobs []domain.Job) error {
	for start := 0; start < len(jobs); start += w.chunkSize {
		end := start + w.chunkSize
		if end > len(jobs) {
			end = len(jobs)
		}

		chunk := make([]elastic.BulkDoc, 0, end-start)
		for _, j := range jobs[start:end] {
			chunk = append(chunk, elastic.BulkDoc{ID: j.ID, Doc: j.Document()})
		}

		if err := w.backend.BulkIndex(ctx, w.index, chunk); err != nil {
			return fmt.Errorf("reindex chunk %d-%d: %w", start, end, err)
		}
		w.logger.Debug("indexed chunk",
			zap.Int("from", start),
			zap.Int("to", end),
			zap.Int("total", len(jobs)),
		)
	}
	return nil
}
