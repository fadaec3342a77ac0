package main

import (
	"kumbam/config"
	"kumbam/helper"
	"kumbam/shared/logger"
	"os"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	cfg := config.Get()

	logger.Setup(cfg)

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action (up/down/drop/step-up) is required")
	}

	action, err := helper.ParseAction(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Str("action", os.Args[1]).Msg("invalid migration action")
	}

	if err := helper.Run(cfg, action); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}
