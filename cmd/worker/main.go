package main

import (
	"context"
	"errors"
	"kumbam/config"
	"kumbam/di"
	"kumbam/shared/logger"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	receipt := di.InitializeReceiptWorker()

	log.Info().Str("topic", cfg.Kafka.PaymentTopic).Msg("receipt worker started")

	if err := receipt.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("receipt worker stopped")

		return
	}

	log.Info().Msg("receipt worker stopped")
}
