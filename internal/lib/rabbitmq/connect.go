// Package rabbitmq содержит подключение к RabbitMQ, объявление обменника
// и очередей уведомлений, публикацию и потребление JSON-сообщений.
package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/peptide-tracker/internal/config"
)

// maxRetryDelay ограничивает рост паузы между попытками подключения.
const maxRetryDelay = 30 * time.Second

// Connect подключается к брокеру cfg.RabbitURL не более cfg.RabbitRetries раз.
// Пауза между попытками начинается с cfg.RabbitDelay и удваивается.
func Connect(ctx context.Context, cfg config.RabbitMQ) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	if cfg.RabbitRetries < 1 {
		return nil, fmt.Errorf("%s: retries must be positive, got %d", op, cfg.RabbitRetries)
	}

	delay := cfg.RabbitDelay
	for attempt := 1; ; attempt++ {
		conn, err := amqp.Dial(cfg.RabbitURL)
		if err == nil {
			return conn, nil
		}
		if attempt == cfg.RabbitRetries {
			return nil, fmt.Errorf("%s: giving up after %d attempts: %w", op, attempt, err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(delay):
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

// SetupChannel открывает канал с prefetch из cfg и объявляет топологию уведомлений:
// durable direct-обменник и привязанные к нему durable очереди.
func SetupChannel(conn *amqp.Connection, cfg config.RabbitMQ, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := declareTopology(ch, cfg.RabbitPrefetch, queues); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ch, nil
}

func declareTopology(ch *amqp.Channel, prefetch int, queues []QueueConfig) error {
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos %d: %w", prefetch, err)
	}

	const (
		durable    = true
		autoDelete = false
		internal   = false
		exclusive  = false
		noWait     = false
	)
	if err := ch.ExchangeDeclare(ExchangeNotifications, amqp.ExchangeDirect, durable, autoDelete, internal, noWait, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", ExchangeNotifications, err)
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, durable, autoDelete, exclusive, noWait, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, ExchangeNotifications, noWait, nil); err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", q.QueueName, q.RoutingKey, err)
		}
	}
	return nil
}
