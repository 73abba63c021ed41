package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/turnover-analytics/internal/adapters/repository/postgres"
	"github.com/ogurasousui/turnover-analytics/internal/core/analytics"
	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
	"github.com/ogurasousui/turnover-analytics/internal/platform/app"
	"github.com/ogurasousui/turnover-analytics/internal/platform/config"
	pg "github.com/ogurasousui/turnover-analytics/internal/platform/db/postgres"
	"github.com/ogurasousui/turnover-analytics/internal/platform/logging"
	"github.com/ogurasousui/turnover-analytics/internal/platform/server"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logCloser.Close()

	dbPool, err := pg.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize database pool")
	}
	defer dbPool.Close()

	rosterRepo := postgres.NewRosterRepository(dbPool)
	txManager := pg.NewTransactionManager(dbPool)
	rosterSvc, err := app.NewRosterService(cfg.Roster, rosterRepo, txManager)
	if err != nil {
		logger.WithError(err).Fatal("failed to build roster service")
	}

	batch, err := rosterSvc.Reload(ctx)
	switch {
	case errors.Is(err, roster.ErrSnapshotNotFound):
		logger.Warn("no roster snapshot persisted yet; queries fail until one is imported")
	case err != nil:
		logger.WithError(err).Fatal("failed to load roster snapshot")
	default:
		logger.WithFields(logrus.Fields{
			"snapshot_id": batch.ID,
			"source":      batch.Source,
			"records":     batch.Len(),
			"skipped":     batch.Diagnostics.Skipped,
		}).Info("roster snapshot loaded")
	}

	analyticsSvc := analytics.NewService(rosterSvc)
	grpcServer := server.New(cfg.Server.ListenAddr, analyticsSvc,
		grpc.ChainUnaryInterceptor(logging.UnaryServerInterceptor(logger)),
	)

	logger.Infof("gRPC server listening on %s", cfg.Server.ListenAddr)

	if err := grpcServer.Run(ctx); err != nil {
		logger.WithError(err).Fatal("server stopped with error")
	}
}
