// Command loadjobs seeds the primary store and the search index from a JSON
// file of job postings.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/boiar/job-search-project/internal/config"
	"github.com/boiar/job-search-project/internal/db/elastic"
	"github.com/boiar/job-search-project/internal/domain"
	logpkg "github.com/boiar/job-search-project/internal/logger"
	indexrepo "github.com/boiar/job-search-project/internal/repository/index"
	jobrepo "github.com/boiar/job-search-project/internal/repository/job"
)

// seedJob mirrors one entry of the seed file.
type seedJob struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	CompanyName string   `json:"company_name"`
	WorkType    string   `json:"work_type"`
	Industry    string   `json:"industry"`
	CompanySize string   `json:"company_size"`
	Experience  string   `json:"experience"`
	SalaryMin   *float64 `json:"salary_min"`
	SalaryMax   *float64 `json:"salary_max"`
	Skills      []string `json:"skills"`
}

func main() {
	file := flag.String("file", "seed/jobs.json", "path to the seed JSON file")
	flag.Parse()

	env := config.GetEnv()
	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	data, err := os.ReadFile(*file)
	if err != nil {
		logger.Fatal("Failed to read seed file", zap.String("file", *file), zap.Error(err))
	}

	var seeds []seedJob
	if err := json.Unmarshal(data, &seeds); err != nil {
		logger.Fatal("Failed to parse seed file", zap.Error(err))
	}

	ctx := context.Background()

	es, err := elastic.NewClient(elastic.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create Elasticsearch client", zap.Error(err))
	}

	pool, err := jobrepo.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()

	store := jobrepo.New(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to ensure jobs schema", zap.Error(err))
	}

	writer := indexrepo.New(es, cfg.Elasticsearch.Index, cfg.Indexer.BulkChunkSize, logger)
	if err := writer.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure search index", zap.Error(err))
	}

	jobs := make([]domain.Job, 0, len(seeds))
	skipped := 0
	for i, s := range seeds {
		j, err := domain.NewJob(
			s.Title, s.Description, s.Location, s.CompanyName, s.WorkType,
			s.Industry, s.CompanySize, s.Experience,
			s.SalaryMin, s.SalaryMax, s.Skills,
		)
		if err != nil {
			logger.Warn("Skipping invalid seed entry", zap.Int("index", i), zap.Error(err))
			skipped++
			continue
		}

		if err := store.Create(ctx, &j); err != nil {
			logger.Fatal("Failed to store seed job", zap.String("title", j.Title), zap.Error(err))
		}
		jobs = append(jobs, j)
	}

	if err := writer.Reindex(ctx, jobs); err != nil {
		logger.Fatal("Failed to index seed jobs", zap.Error(err))
	}

	logger.Info("Seed complete",
		zap.Int("loaded", len(jobs)),
		zap.Int("skipped", skipped),
	)
}
