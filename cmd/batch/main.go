package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	anthropicad "storelens/internal/adapters/anthropic"
	"storelens/internal/adapters/observability"
	"storelens/internal/adapters/places"
	redisad "storelens/internal/adapters/redis"
	"storelens/internal/app"
	"storelens/internal/shared"
	mysqlrepo "storelens/internal/storage/mysql"
)

// Batch mode analyzes a list of places sequentially, one model call at a
// time, pacing between calls to respect the provider's rate limit.
func main() {
	var (
		file  = flag.String("places", "", "file with one place id per line (# comments allowed)")
		owner = flag.String("owner", "batch", "owner id recorded on created store rows")
	)
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	targets, err := readTargets(*file, flag.Args(), *owner)
	if err != nil {
		log.Fatal().Err(err).Msg("reading place ids failed")
	}
	if len(targets) == 0 {
		log.Fatal().Msg("no place ids given; use -places FILE or positional args")
	}

	log.Info().
		Int("targets", len(targets)).
		Dur("pace", cfg.BatchDelay).
		Msg("batch analysis starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

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
	svc := app.NewAnalysisService(source, app.NewAnalyzer(gen), repo, cache, cfg.SampleMax, cfg.BatchDelay)

	results := svc.BatchAnalyze(ctx, targets)
	log.Info().
		Int("ok", len(results)).
		Int("failed", len(targets)-len(results)).
		Msg("batch analysis completed")
}

func readTargets(file string, args []string, owner string) ([]app.BatchTarget, error) {
	ids := append([]string{}, args...)
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			ids = append(ids, line)
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
	}
	targets := make([]app.BatchTarget, 0, len(ids))
	for _, id := range ids {
		targets = append(targets, app.BatchTarget{PlaceID: id, OwnerID: owner})
	}
	return targets, nil
}
