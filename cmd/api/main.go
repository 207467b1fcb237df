package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/openbid/auction-exchange-backend/internal/api/rest"
	"github.com/openbid/auction-exchange-backend/internal/infrastructure/config"
	"github.com/openbid/auction-exchange-backend/internal/infrastructure/database"
	"github.com/openbid/auction-exchange-backend/internal/infrastructure/repository"
	"github.com/openbid/auction-exchange-backend/internal/service/marketplace"
)

func main() {
	migrateFirst := flag.Bool("migrate", false, "Run database migrations before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if *migrateFirst {
		if err := database.MigrateUp(cfg.Database.URL); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
		logger.Info("migrations applied")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	defer pool.Close()

	service := marketplace.NewService(
		repository.NewAuctionRepository(pool),
		clockwork.NewRealClock(),
		logger)
	handler := rest.NewHandler(service, logger)
	server := rest.NewServer(cfg.Server, handler.Routes(), logger)

	logger.Info("starting auction exchange",
		zap.String("environment", cfg.Environment))

	if err := server.Run(ctx); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	if cfg.Environment == "development" {
		zapCfg := zap.NewDevelopmentConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(level)
		return zapCfg.Build()
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
