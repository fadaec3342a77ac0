package main

import (
	"kumbam/config"
	"kumbam/di"
	"kumbam/helper"
	"kumbam/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title						Kumbam API
// @version					1.0
// @description				Banquet hall bookings and UPI payments.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @securityDefinitions.apikey	ApiKeyAuth
// @in							header
// @name						X-API-Key
func main() {
	cfg := config.Get()

	logger.Setup(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Run(cfg, helper.ActionUp); err != nil {
			log.Fatal().Err(err).Msg("auto migration failed")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
