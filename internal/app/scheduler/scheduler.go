// Package scheduler запускает периодический пересчёт уведомлений всех пользователей.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/peptide-tracker/internal/config"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	alertservices "github.com/magabrotheeeer/peptide-tracker/internal/services/alerts"
	schedulerservices "github.com/magabrotheeeer/peptide-tracker/internal/services/scheduler"
	"github.com/magabrotheeeer/peptide-tracker/internal/storage/repository"
)

const (
	dbReadyAttempts = 10
	dbReadyDelay    = 3 * time.Second
)

// App представляет приложение планировщика.
type App struct {
	schedulerService *schedulerservices.SchedulerService
	db               *repository.Storage
	conn             *amqp.Connection
	ch               *amqp.Channel
	spec             string
	logger           *slog.Logger
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	for i := 0; i < dbReadyAttempts; i++ {
		if err := db.CheckDatabaseReady(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dbReadyDelay):
		}
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if _, err := cron.ParseStandard(cfg.AlertsCron); err != nil {
		return nil, fmt.Errorf("invalid alerts cron %q: %w", cfg.AlertsCron, err)
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ, rabbitmq.GetNotificationQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err := waitForDB(ctx, db); err != nil {
		_ = db.Close()
		closeResources(ch, conn, logger)
		return nil, err
	}

	publisher := rabbitmq.NewPublisher(ch, rabbitmq.ExchangeNotifications, rabbitmq.RoutingKeyAlert)
	alertService := alertservices.NewAlertService(db, publisher, logger)

	return &App{
		schedulerService: schedulerservices.NewSchedulerService(db, alertService, logger),
		db:               db,
		conn:             conn,
		ch:               ch,
		spec:             cfg.AlertsCron,
		logger:           logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run запускает cron-задачу пересчёта уведомлений и ждёт отмены ctx.
// Очередной запуск пропускается, пока не завершён предыдущий.
func (a *App) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(a.spec, func() { a.schedulerService.SweepAlerts(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule alerts sweep: %w", err)
	}
	c.Start()
	a.logger.Info("scheduler started", slog.String("cron", a.spec))

	<-ctx.Done()

	a.logger.Info("shutting down scheduler service")
	<-c.Stop().Done()

	closeResources(a.ch, a.conn, a.logger)
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	return nil
}
