package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "review_mirror/internal/adapters/http_server"
	"review_mirror/internal/adapters/observability"
	redisad "review_mirror/internal/adapters/redis"
	"review_mirror/internal/app"
	"review_mirror/internal/dataset"
	"review_mirror/internal/domain"
	"review_mirror/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	src, closeSrc, err := shared.OpenSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.DataSource).Msg("dataset source setup failed")
	}
	defer closeSrc()

	// redis is optional; without it every view is computed per request
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		pctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(pctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, running without view cache")
			_ = rc.Close()
		} else {
			cache = rc
			defer rc.Close()
		}
		cancel()
	}

	store := dataset.NewStore()
	q := app.NewQueryService(store, src, cache, app.Options{
		DefaultPlaces:        cfg.DefaultPlaces,
		KeywordsPerSentiment: cfg.KeywordsPerSentiment,
		TopKeywords:          cfg.TopKeywords,
		RespectFilter:        cfg.RespectFilter,
		CacheTTL:             cfg.CacheTTL,
	})

	// warm the store
	if p, err := q.Places(context.Background()); err != nil {
		log.Error().Err(err).Str("source", src.Key()).Msg("initial dataset load failed")
	} else {
		log.Info().Int("places", len(p.Places)).Int("reviews", p.Reviews).Msg("dataset ready")
	}

	// http
	srv := server.New(30 * time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(sctx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("source", src.Key()).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
