package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"reviewhub/internal/adapters/dataforseo"
	"reviewhub/internal/adapters/observability"
	redisad "reviewhub/internal/adapters/redis"
	"reviewhub/internal/app"
	"reviewhub/internal/domain"
	"reviewhub/internal/shared"
	mysqlrepo "reviewhub/internal/storage/mysql"
)

// loadJobs reads the batch of import requests to run from the jobs file.
func loadJobs(path string) ([]domain.ImportRequest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var jobs []domain.ImportRequest
	if err := json.Unmarshal(b, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	jobs, err := loadJobs(cfg.JobsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.JobsFile).Msg("load jobs failed")
	}
	log.Info().
		Str("base", cfg.SeoBase).
		Int("workers", cfg.Workers).
		Int("jobs", len(jobs)).
		Msg("importer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	fetch, err := dataforseo.New(cfg.SeoBase, cfg.SeoLogin, cfg.SeoPassword, cfg.FetchRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize fetch client")
	}
	svc := app.NewImportService(fetch, repo, cache, cfg.CacheTTL)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, job := range jobs {
		job := job

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(req domain.ImportRequest) {
			defer wg.Done()
			defer sem.Release(1)

			res := svc.ImportReviews(ctx, req)
			if !res.Success {
				log.Warn().
					Str("tenant", req.TenantID).
					Str("platform", string(req.Platform)).
					Str("error", res.Error).
					Msg("import failed")
				return
			}
			log.Info().
				Str("tenant", req.TenantID).
				Str("platform", string(req.Platform)).
				Int("imported", res.ImportedCount).
				Int("skipped", res.SkippedCount).
				Int("fetched", res.TotalFetched).
				Float64("cost", res.Cost).
				Int("errors", len(res.Errors)).
				Msg("import ok")
		}(job)
	}

	wg.Wait()
	log.Info().Msg("import batch completed")
}
