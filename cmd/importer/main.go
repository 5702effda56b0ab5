package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"review_mirror/internal/adapters/fetch"
	"review_mirror/internal/adapters/observability"
	redisad "review_mirror/internal/adapters/redis"
	"review_mirror/internal/app"
	"review_mirror/internal/dataset"
	"review_mirror/internal/domain"
	"review_mirror/internal/shared"
	mysqlrepo "review_mirror/internal/storage/mysql"
)

// importer copies a CSV dataset (DATA_PATH, DATA_URL, or the first
// argument) into the MySQL reviews table.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	var src dataset.Source = dataset.FileSource{Path: cfg.DataPath}
	switch {
	case len(os.Args) > 1:
		src = dataset.FileSource{Path: os.Args[1]}
	case cfg.DataSource == "http":
		src = dataset.HTTPSource{URL: cfg.DataURL, Fetcher: fetch.New(cfg.FetchRPS)}
	}

	log.Info().
		Str("source", src.Key()).
		Int("workers", cfg.ImportWorkers).
		Int("batch", cfg.ImportBatch).
		Msg("importer starting")

	rs, err := src.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("source", src.Key()).Msg("dataset load failed")
	}
	log.Info().Int("rows", len(rs)).Str("fingerprint", dataset.Fingerprint(rs)).Msg("dataset parsed")

	db, err := shared.OpenDB(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("mysql unavailable")
	}
	defer db.Close()

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}

	imp := app.NewImportService(mysqlrepo.New(db), cache, cfg.ImportBatch, cfg.ImportWorkers)
	res, err := imp.Import(ctx, rs)
	if err != nil {
		log.Fatal().Err(err).Int("batches", res.Batches).Msg("import failed")
	}
	log.Info().
		Int("rows", res.Rows).
		Int("batches", res.Batches).
		Dur("took", res.Took).
		Msg("import completed")

	// a running API memoizes the mysql dataset until it reloads
	if cfg.ReloadURL == "" {
		log.Warn().Msg("RELOAD_URL not set; a running API keeps serving the previous rows until POST /v1/dataset/reload")
		return
	}
	if err := fetch.New(cfg.FetchRPS).Post(ctx, cfg.ReloadURL); err != nil {
		log.Error().Err(err).Str("url", cfg.ReloadURL).Msg("api reload failed")
		os.Exit(1)
	}
	log.Info().Str("url", cfg.ReloadURL).Msg("api reloaded")
}
