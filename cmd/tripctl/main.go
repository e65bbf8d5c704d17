package main

import (
	"os"
	"trip-planner/internal/config"
	"trip-planner/internal/platform/logging"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load .env")
	}
	logging.Setup()

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}
