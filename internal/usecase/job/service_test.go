package job

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/boiar/job-search-project/internal/domain"
)

// --- Mocks ---

type mockStore struct {
	createErr error
	getJob    domain.Job
	getErr    error
	listJobs  []domain.Job
	listErr   error
	created   []domain.Job
}

func (m *mockStore) Create(_ context.Context, j *domain.Job) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, *j)
	return nil
}

func (m *mockStore) Get(_ context.Context, _ string) (domain.Job, error) {
	return m.getJob, m.getErr
}

func (m *mockStore) List(_ context.Context) ([]domain.Job, error) {
	return m.listJobs, m.listErr
}

type mockIndexer struct {
	err     error
	indexed []domain.Job
}

func (m *mockIndexer) Index(_ context.Context, j domain.Job) error {
	if m.err != nil {
		return m.err
	}
	m.indexed = append(m.indexed, j)
	return nil
}

func validInput() CreateInput {
	return CreateInput{
		Title:       "Backend Engineer",
		Description: "Build services",
		Location:    "Berlin",
		CompanyName: "Acme",
		WorkType:    domain.WorkTypeRemote,
		Skills:      []string{"Go", "PostgreSQL"},
	}
}

// --- Tests ---

func TestCreate_StoresAndIndexes(t *testing.T) {
	store := &mockStore{}
	idx := &mockIndexer{}
	svc := New(store, idx, zap.NewNop())

	j, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.ID == "" {
		t.Error("expected generated id")
	}
	if len(store.created) != 1 {
		t.Fatalf("expected 1 stored job, got %d", len(store.created))
	}
	if len(idx.indexed) != 1 {
		t.Fatalf("expected 1 indexed job, got %d", len(idx.indexed))
	}
	if idx.indexed[0].ID != j.ID {
		t.Error("indexed job differs from stored job")
	}
}

func TestCreate_InvalidJobRejected(t *testing.T) {
	store := &mockStore{}
	svc := New(store, &mockIndexer{}, zap.NewNop())

	in := validInput()
	in.WorkType = "freelance"

	_, err := svc.Create(context.Background(), in)
	if !errors.Is(err, domain.ErrInvalidJob) {
		t.Fatalf("expected ErrInvalidJob, got %v", err)
	}
	if len(store.created) != 0 {
		t.Error("invalid job must not reach the store")
	}
}

func TestCreate_StoreErrorPropagates(t *testing.T) {
	store := &mockStore{createErr: errors.New("insert failed")}
	idx := &mockIndexer{}
	svc := New(store, idx, zap.NewNop())

	_, err := svc.Create(context.Background(), validInput())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(idx.indexed) != 0 {
		t.Error("job must not be indexed when the store rejects it")
	}
}

func TestCreate_IndexFailureDoesNotFailCreate(t *testing.T) {
	store := &mockStore{}
	idx := &mockIndexer{err: errors.New("index unavailable")}
	svc := New(store, idx, zap.NewNop())

	j, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.ID == "" {
		t.Error("expected stored job despite index failure")
	}
}

func TestGet_NotFound(t *testing.T) {
	store := &mockStore{getErr: domain.ErrNotFound}
	svc := New(store, &mockIndexer{}, zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_NilBecomesEmpty(t *testing.T) {
	svc := New(&mockStore{}, &mockIndexer{}, zap.NewNop())

	jobs, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jobs == nil {
		t.Fatal("expected empty slice, got nil")
	}
}
