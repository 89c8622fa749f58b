package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	anthropicad "storelens/internal/adapters/anthropic"
	server "storelens/internal/adapters/http_server"
	"storelens/internal/adapters/observability"
	"storelens/internal/adapters/places"
	redisad "storelens/internal/adapters/redis"
	"storelens/internal/app"
	"storelens/internal/shared"
	mysqlrepo "storelens/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	placesCl, err := places.New(cfg.PlacesBase, cfg.PlacesKey, cfg.PlacesLang, cfg.PlacesRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize places client")
	}
	gen, err := anthropicad.New(cfg.AnthropicKey, cfg.AnthropicModel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize anthropic client")
	}

	source := app.NewReviewSource(placesCl, cache, cfg.CacheFreshness)
	analyzer := app.NewAnalyzer(gen)
	a := app.NewAnalysisService(source, analyzer, repo, cache, cfg.SampleMax, cfg.BatchDelay)
	q := app.NewQueryService(repo, cache, cfg.QueryCacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{A: a, Q: q, Places: placesCl})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
