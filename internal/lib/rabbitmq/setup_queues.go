package rabbitmq

const (
	// ExchangeNotifications — direct-обменник для всех уведомлений.
	ExchangeNotifications = "notifications"
	// QueueAlerts — очередь e-mail рассылки уведомлений о дозах.
	QueueAlerts = "notifications.alerts"
	// RoutingKeyAlert — ключ маршрутизации уведомлений о дозах.
	RoutingKeyAlert = "alert"
)

// QueueConfig описывает очередь и ключ, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые объявляют планировщик и отправитель.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueAlerts, RoutingKey: RoutingKeyAlert},
	}
}
