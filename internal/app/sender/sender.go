// Package sender запускает потребителя очереди писем об уведомлениях.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/peptide-tracker/internal/config"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/smtp"
	senderservices "github.com/magabrotheeeer/peptide-tracker/internal/services/sender"
)

// App представляет приложение отправки писем.
type App struct {
	workers       int
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservices.SenderService
	logger        *slog.Logger
}

// New подключается к брокеру и готовит SMTP-транспорт.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)

	return &App{
		workers:       cfg.RabbitPrefetch,
		conn:          conn,
		ch:            ch,
		senderService: senderservices.NewSenderService(transport, logger),
		logger:        logger,
	}, nil
}

// Run потребляет очередь уведомлений до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.QueueAlerts, a.workers, a.senderService.SendAlertEmail)
	if err != nil {
		a.logger.Error("failed to start consumer", slog.String("queue", rabbitmq.QueueAlerts), sl.Err(err))
		return err
	}
	a.logger.Info("sender started", slog.String("queue", rabbitmq.QueueAlerts))

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
