package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-ojt/internal/messaging/kafka/producer"
	"go-ojt/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker hosts the outbox publisher plus the periodic maintenance jobs:
// rolling on-leave flags over at midnight, purging expired custom schedules
// and trimming delivered outbox rows.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}
	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	reg := buildRegistry(sqlDB, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(ctx, reg.OutboxRepo, kafkaWriter, logger, 3*time.Second)
	go runMaintenance(ctx, reg, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

func runMaintenance(ctx context.Context, reg Registry, logger *zap.Logger) {
	log := logger.Named("maintenance")
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	// Run once on startup so a restarted worker does not wait an hour to
	// catch up on flag rollover.
	sweep(ctx, reg, log)

	for {
		select {
		case <-ctx.Done():
			log.Info("maintenance stopped")
			return
		case <-ticker.C:
			sweep(ctx, reg, log)
		}
	}
}

func sweep(ctx context.Context, reg Registry, log *zap.Logger) {
	if n, err := reg.LeaveService.RefreshAllOnLeaveFlags(ctx); err != nil {
		log.Error("refresh on-leave flags failed", zap.Error(err))
	} else {
		log.Debug("on-leave flags refreshed", zap.Int("users", n))
	}

	if n, err := reg.ScheduleService.PurgeExpired(ctx); err != nil {
		log.Error("purge expired schedules failed", zap.Error(err))
	} else if n > 0 {
		log.Info("expired schedules purged", zap.Int64("deleted", n))
	}

	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	if n, err := reg.OutboxRepo.DeleteSentBefore(ctx, cutoff); err != nil {
		log.Error("trim sent outbox events failed", zap.Error(err))
	} else if n > 0 {
		log.Info("sent outbox events trimmed", zap.Int64("deleted", n))
	}
}
