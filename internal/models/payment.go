package models

import "time"

// Статусы платежа у платёжного провайдера.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusCanceled  = "canceled"
)

// Payment представляет платёж за подписку на платформу.
type Payment struct {
	ID                int       `json:"id"`
	UserUID           string    `json:"user_uid"`
	ProviderPaymentID string    `json:"provider_payment_id"`
	Amount            int64     `json:"amount"`
	Currency          string    `json:"currency"`
	Plan              PlanTier  `json:"plan"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

// VerificationEmail — сообщение очереди уведомлений с данными для
// письма подтверждения электронной почты.
type VerificationEmail struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// ExpiryNotice — сообщение очереди уведомлений о скором истечении подписки.
type ExpiryNotice struct {
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Plan      PlanTier  `json:"plan"`
	ExpiresAt time.Time `json:"expires_at"`
}
