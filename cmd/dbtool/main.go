package main

import (
	"context"
	"trip-planner/internal/adapters/repositories"
	"trip-planner/internal/config"
	"trip-planner/internal/platform/db"
	"trip-planner/internal/platform/logging"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// dbtool initializes the schema and seeds route points without serving.
func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load .env")
	}
	logging.Setup()

	ctx := context.Background()

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	dialect, err := repositories.DialectFor(dbCfg.Driver)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	conn, err := db.Open(ctx, dbCfg.Driver, dbCfg.DSN)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	defer conn.Close()

	log.Info().Str("driver", dbCfg.Driver).Msg("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatal().Err(err).Msg("schema initialization failed")
	}
	log.Info().Msg("Schema ready.")

	seedPath := config.Get("SEED_PATH", "data/seeds/route_points.json")
	log.Info().Str("path", seedPath).Msg("Seeding database...")
	if err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Msg("Seeding complete.")
}
