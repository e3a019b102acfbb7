package rabbitmq

// QueueConfig связывает очередь с ключом маршрутизации обменника notifications.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Ключи маршрутизации уведомлений.
const (
	RoutingKeyVerification = "verification"
	RoutingKeyExpiring     = "expiring"
)

// GetNotificationQueues возвращает очереди уведомлений платформы.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.verification", RoutingKey: RoutingKeyVerification},
		{QueueName: "notifications.expiring", RoutingKey: RoutingKeyExpiring},
	}
}
