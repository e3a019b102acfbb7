// Package services содержит логику бизнес-уровня для оплаты подписок.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tenderbridge/tender-bridge/internal/billing"
	"github.com/tenderbridge/tender-bridge/internal/models"
)

// Ошибки бизнес-логики платежей.
var (
	ErrUnknownPlan    = errors.New("unknown subscription plan")
	ErrUnknownPayment = errors.New("payment not found")
)

// subscriptionTerm — срок подписки, оплачиваемый одним платежом.
const subscriptionTerm = 30 * 24 * time.Hour

// Стоимость тарифов в копейках.
var planPrices = map[models.PlanTier]int64{
	models.PlanBasic:        490_00,
	models.PlanProfessional: 1490_00,
	models.PlanEnterprise:   4990_00,
}

// PaymentRepository описывает контракт для работы с платежами и подписками в базе данных.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment models.Payment) (int, error)
	GetPaymentByProviderID(ctx context.Context, providerPaymentID string) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, providerPaymentID, status string) error
	ListPaymentsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Payment, error)
	UpdateSubscription(ctx context.Context, userUID string, sub models.Subscription) error
}

// Provider описывает контракт платёжного провайдера.
type Provider interface {
	CreatePayment(req billing.CreatePaymentRequest) (*billing.CreatePaymentResponse, error)
}

// PaymentService создаёт платежи за подписку и обрабатывает вебхуки провайдера.
type PaymentService struct {
	repo     PaymentRepository
	provider Provider
	log      *slog.Logger
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(repo PaymentRepository, provider Provider, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:     repo,
		provider: provider,
		log:      log,
	}
}

// Checkout создаёт платёж у провайдера и сохраняет его в статусе pending.
// Возвращает URL, на который нужно отправить пользователя для подтверждения.
func (s *PaymentService) Checkout(ctx context.Context, userUID string, plan models.PlanTier) (string, error) {
	const op = "services.payment.Checkout"

	price, ok := planPrices[plan]
	if !ok {
		return "", ErrUnknownPlan
	}

	resp, err := s.provider.CreatePayment(billing.CreatePaymentRequest{
		Amount:      billing.Amount{Value: price, Currency: "RUB"},
		Description: fmt.Sprintf("Subscription plan %q for 30 days", plan),
		Capture:     true,
		Metadata: map[string]string{
			"user_uid": userUID,
			"plan":     string(plan),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.repo.CreatePayment(ctx, models.Payment{
		UserUID:           userUID,
		ProviderPaymentID: resp.ID,
		Amount:            price,
		Currency:          "RUB",
		Plan:              plan,
		Status:            models.PaymentStatusPending,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return resp.Confirmation.ConfirmationURL, nil
}

// ProcessWebhook применяет событие провайдера: успешный платёж активирует подписку
// на оплаченный тариф, отменённый платёж только меняет статус записи.
func (s *PaymentService) ProcessWebhook(ctx context.Context, event billing.WebhookEvent) error {
	const op = "services.payment.ProcessWebhook"

	payment, err := s.repo.GetPaymentByProviderID(ctx, event.Object.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if payment == nil {
		return ErrUnknownPayment
	}

	switch event.Event {
	case billing.EventPaymentSucceeded:
		if err := s.repo.UpdatePaymentStatus(ctx, event.Object.ID, models.PaymentStatusSucceeded); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		expiresAt := time.Now().Add(subscriptionTerm)
		sub := models.Subscription{
			Plan:      payment.Plan,
			IsActive:  true,
			ExpiresAt: &expiresAt,
		}
		if err := s.repo.UpdateSubscription(ctx, payment.UserUID, sub); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("subscription activated",
			slog.String("user_uid", payment.UserUID),
			slog.String("plan", string(payment.Plan)))
		return nil
	case billing.EventPaymentCanceled:
		if err := s.repo.UpdatePaymentStatus(ctx, event.Object.ID, models.PaymentStatusCanceled); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	default:
		return fmt.Errorf("%s: unsupported event %q", op, event.Event)
	}
}

// List возвращает страницу платежей пользователя.
func (s *PaymentService) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Payment, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListPaymentsByUser(ctx, userUID, limit, offset)
}
