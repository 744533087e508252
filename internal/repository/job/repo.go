// Package job stores job records in Postgres, the primary store the search
// index is derived from.
package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boiar/job-search-project/internal/domain"
)

// Repo implements usecase/job.Store over pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a job repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// NewPool creates and verifies a pgxpool connection pool.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id           UUID PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL,
	location     TEXT NOT NULL,
	company_name TEXT NOT NULL,
	work_type    TEXT NOT NULL,
	industry     TEXT NOT NULL DEFAULT '',
	company_size TEXT NOT NULL DEFAULT '',
	experience   TEXT NOT NULL DEFAULT '',
	salary_min   DOUBLE PRECISION,
	salary_max   DOUBLE PRECISION,
	skills       TEXT[] NOT NULL DEFAULT '{}',
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the jobs table if it does not exist.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure jobs schema: %w", err)
	}
	return nil
}

// Create inserts a job record.
func (r *Repo) Create(ctx context.Context, j *domain.Job) error {
	const q = `
		INSERT INTO jobs (
			id, title, description, location, company_name, work_type,
			industry, company_size, experience, salary_min, salary_max,
			skills, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

	_, err := r.pool.Exec(ctx, q,
		j.ID, j.Title, j.Description, j.Location, j.CompanyName, j.WorkType,
		j.Industry, j.CompanySize, j.Experience, j.SalaryMin, j.SalaryMax,
		j.Skills, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job %s: %w", j.ID, err)
	}
	return nil
}

// Get returns one job by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Job, error) {
	const q = selectColumns + ` WHERE id = $1`

	row := r.pool.QueryRow(ctx, q, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
		}
		return domain.Job{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return j, nil
}

// List returns all job records, newest first.
func (r *Repo) List(ctx context.Context) ([]domain.Job, error) {
	const q = selectColumns + ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

const selectColumns = `
	SELECT id, title, description, location, company_name, work_type,
	       industry, company_size, experience, salary_min, salary_max,
	       skills, created_at, updated_at
	FROM jobs`

func scanJob(row pgx.Row) (domain.Job, error) {
	var j domain.Job
	err := row.Scan(
		&j.ID, &j.Title, &j.Description, &j.Location, &j.CompanyName,
		&j.WorkType, &j.Industry, &j.CompanySize, &j.Experience,
		&j.SalaryMin, &j.SalaryMax, &j.Skills, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return domain.Job{}, err
	}
	if j.Skills == nil {
		j.Skills = []string{}
	}
	return j, nil
}
