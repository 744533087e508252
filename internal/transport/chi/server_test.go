package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/boiar/job-search-project/internal/domain"
	"github.com/boiar/job-search-project/internal/domain/search/aggs"
	"github.com/boiar/job-search-project/internal/domain/search/query"
	"github.com/boiar/job-search-project/internal/domain/search/result"
	healthuc "github.com/boiar/job-search-project/internal/usecase/health"
	jobuc "github.com/boiar/job-search-project/internal/usecase/job"
	searchuc "github.com/boiar/job-search-project/internal/usecase/search"
)

// --- Mocks ---

type mockSearchRepo struct {
	hits      []result.Hit
	execErr   error
	raw       map[string]json.RawMessage
	aggErr    error
	lastQuery query.Compiled
}

func (m *mockSearchRepo) Execute(_ context.Context, q query.Compiled) ([]result.Hit, error) {
	m.lastQuery = q
	return m.hits, m.execErr
}

func (m *mockSearchRepo) Aggregate(_ context.Context, _ aggs.Spec) (map[string]json.RawMessage, error) {
	return m.raw, m.aggErr
}

type mockJobStore struct {
	jobs    []domain.Job
	getErr  error
	created []domain.Job
}

func (m *mockJobStore) Create(_ context.Context, j *domain.Job) error {
	m.created = append(m.created, *j)
	return nil
}

func (m *mockJobStore) Get(_ context.Context, id string) (domain.Job, error) {
	if m.getErr != nil {
		return domain.Job{}, m.getErr
	}
	for _, j := range m.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return domain.Job{}, domain.ErrNotFound
}

func (m *mockJobStore) List(_ context.Context) ([]domain.Job, error) {
	return m.jobs, nil
}

type mockIndexer struct{}

func (m *mockIndexer) Index(_ context.Context, _ domain.Job) error { return nil }

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type testServer struct {
	searchRepo *mockSearchRepo
	jobStore   *mockJobStore
	dbPing     *mockPinger
	esPing     *mockPinger
	router     *gochi.Mux
}

func newTestServer() *testServer {
	ts := &testServer{
		searchRepo: &mockSearchRepo{raw: map[string]json.RawMessage{}},
		jobStore:   &mockJobStore{},
		dbPing:     &mockPinger{},
		esPing:     &mockPinger{},
	}

	logger := zap.NewNop()
	srv := NewServer(
		searchuc.New(ts.searchRepo, nil, nil),
		jobuc.New(ts.jobStore, &mockIndexer{}, logger),
		healthuc.New(ts.dbPing, ts.esPing, nil),
		logger,
	)

	ts.router = gochi.NewRouter()
	srv.Routes(ts.router)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestSearchJobs_ReturnsProjectedHits(t *testing.T) {
	ts := newTestServer()
	ts.searchRepo.hits = []result.Hit{
		{ID: "a", Document: domain.JobDocument{Title: "Go Developer", Skills: []domain.Skill{{Name: "Go"}}}},
	}

	rec := ts.do(t, http.MethodPost, "/api/v1/jobs/search", `{"searchQuery":"developer","skills":["Go"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Items[0].Title != "Go Developer" {
		t.Errorf("title = %q", resp.Items[0].Title)
	}
	// full text + skills
	if got := len(ts.searchRepo.lastQuery.Clauses()); got != 2 {
		t.Errorf("compiled clauses = %d, want 2", got)
	}
}

func TestSearchJobs_EmptyBodyIsUnfilteredSearch(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/api/v1/jobs/search", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !ts.searchRepo.lastQuery.IsEmpty() {
		t.Error("expected empty compiled query for empty body")
	}
}

func TestSearchJobs_MalformedBodyRejected(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/api/v1/jobs/search", "{broken")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSearchJobs_BackendFailureIsBadGateway(t *testing.T) {
	ts := newTestServer()
	ts.searchRepo.execErr = domain.ErrSearchFailed

	rec := ts.do(t, http.MethodPost, "/api/v1/jobs/search", `{}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != codeSearchFailed {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestSearchJobs_MalformedSalaryRangeIsIgnored(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/api/v1/jobs/search", `{"salary_range":"abc-120000"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !ts.searchRepo.lastQuery.IsEmpty() {
		t.Error("malformed salary range must compile to no clauses")
	}
}

func TestJobAnalytics_ReturnsFiveBuckets(t *testing.T) {
	ts := newTestServer()
	ts.searchRepo.raw = map[string]json.RawMessage{
		"top_skills": json.RawMessage(`{"buckets":[{"key":"Go","doc_count":4}]}`),
	}

	rec := ts.do(t, http.MethodGet, "/api/v1/jobs/analytics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp map[string][]aggs.Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 5 {
		t.Fatalf("buckets = %d, want 5", len(resp))
	}
	if len(resp["top_skills"]) != 1 || resp["top_skills"][0].Key != "Go" {
		t.Errorf("top_skills = %v", resp["top_skills"])
	}
}

func TestJobAnalytics_BackendFailureIsBadGateway(t *testing.T) {
	ts := newTestServer()
	ts.searchRepo.aggErr = domain.ErrSearchFailed

	rec := ts.do(t, http.MethodGet, "/api/v1/jobs/analytics", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateJob_Valid(t *testing.T) {
	ts := newTestServer()

	body := `{
		"title": "Backend Engineer",
		"description": "Build services",
		"location": "Berlin",
		"company_name": "Acme",
		"work_type": "remote",
		"skills": ["Go"]
	}`
	rec := ts.do(t, http.MethodPost, "/api/v1/jobs", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/api/v1/jobs/") {
		t.Errorf("Location = %q", loc)
	}
	if len(ts.jobStore.created) != 1 {
		t.Fatalf("created = %d", len(ts.jobStore.created))
	}
}

func TestCreateJob_InvalidWorkType(t *testing.T) {
	ts := newTestServer()

	body := `{
		"title": "Backend Engineer",
		"description": "Build services",
		"location": "Berlin",
		"company_name": "Acme",
		"work_type": "freelance"
	}`
	rec := ts.do(t, http.MethodPost, "/api/v1/jobs", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != codeValidationFailed {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/api/v1/jobs/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListJobs_Empty(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/api/v1/jobs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestHealthCheck_Degraded(t *testing.T) {
	ts := newTestServer()
	ts.dbPing.err = context.DeadlineExceeded

	rec := ts.do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHealthCheck_OK(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
