package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	"trip-planner/internal/adapters/cache"
	"trip-planner/internal/adapters/repositories"
	"trip-planner/internal/api"
	"trip-planner/internal/config"
	"trip-planner/internal/metrics"
	"trip-planner/internal/platform/db"
	"trip-planner/internal/platform/logging"
	"trip-planner/internal/ports"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis) behind ports and starts the HTTP server.
func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load .env")
	}
	logging.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func run(ctx context.Context) error {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	dialect, err := repositories.DialectFor(dbCfg.Driver)
	if err != nil {
		return err
	}

	if dbCfg.Driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(dbCfg.DSN), 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}

	conn, err := db.Open(ctx, dbCfg.Driver, dbCfg.DSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(ctx, conn, dialect, config.Get("SEED_PATH", "")); err != nil {
		return err
	}

	var repo ports.RoutePointRepository = repositories.NewSQLRoutePointRepository(conn, dialect)

	if addr := config.Get("REDIS_ADDR", ""); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.Get("REDIS_PASSWORD", ""),
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis %s: %w", addr, err)
		}

		repo = cache.NewRouteListCache(repo, client, config.GetDuration("CACHE_TTL", 5*time.Minute))
		log.Info().Str("addr", addr).Msg("Route list cache enabled")
	}

	m := metrics.New()
	m.StartDBStatsCollector(conn, 15*time.Second)
	defer m.Shutdown()

	limiter := api.NewRateLimiter(config.GetInt("RATE_LIMIT_RPS", 20))
	defer limiter.Stop()

	router := api.NewRouter(api.RouterConfig{
		Repo:    repo,
		Metrics: m,
		Limiter: limiter,
		DB:      conn,
	})

	port := config.Get("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("driver", dbCfg.Driver).Msg("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect repositories.Dialect, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if seedPath == "" {
		return nil
	}

	if err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
