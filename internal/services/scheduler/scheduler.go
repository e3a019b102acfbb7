// Package services содержит периодическую задачу поиска истекающих подписок.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/tenderbridge/tender-bridge/internal/lib/sl"
	"github.com/tenderbridge/tender-bridge/internal/models"
	"github.com/tenderbridge/tender-bridge/internal/rabbitmq"
)

// SubscriptionRepository описывает контракт выборки подписок, истекающих завтра.
type SubscriptionRepository interface {
	FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]*models.ExpiryNotice, error)
}

// SchedulerService периодически ищет истекающие подписки и публикует уведомления в очередь.
type SchedulerService struct {
	repo SubscriptionRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo SubscriptionRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// FindExpiringSubscriptionsDueTomorrow запускает поиск сразу и затем каждые 12 часов.
func (s *SchedulerService) FindExpiringSubscriptionsDueTomorrow(ctx context.Context, channel *amqp.Channel) {
	s.runFindExpiringSubscriptionsDueTomorrow(ctx, channel)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runFindExpiringSubscriptionsDueTomorrow(ctx, channel)
		}
	}
}

func (s *SchedulerService) runFindExpiringSubscriptionsDueTomorrow(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting service to find subscriptions expiring tomorrow")
	notices, err := s.repo.FindSubscriptionsExpiringTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	if len(notices) == 0 {
		s.log.Info("no expiring subscriptions found")
		return
	}
	s.log.Info("found expiring subscriptions", "count", len(notices))
	for _, notice := range notices {
		err = rabbitmq.PublishMessage(channel, "notifications", rabbitmq.RoutingKeyExpiring, notice)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}
