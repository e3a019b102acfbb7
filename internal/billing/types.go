// Package billing реализует HTTP-клиент платёжного провайдера
// и типы его запросов, ответов и вебхуков.
package billing

import "time"

// Amount — сумма платежа в представлении провайдера.
type Amount struct {
	Value    int64  `json:"value"`
	Currency string `json:"currency"`
}

// CreatePaymentRequest — запрос на создание платежа за подписку.
type CreatePaymentRequest struct {
	Amount      Amount            `json:"amount"`
	Description string            `json:"description"`
	Capture     bool              `json:"capture"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// CreatePaymentResponse — ответ провайдера на создание платежа.
type CreatePaymentResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Amount       Amount `json:"amount"`
	Confirmation struct {
		ConfirmationURL string `json:"confirmation_url"`
	} `json:"confirmation"`
	CreatedAt time.Time `json:"created_at"`
}

// WebhookEvent — событие, присылаемое провайдером на webhook-endpoint.
type WebhookEvent struct {
	Event  string `json:"event"` // payment.succeeded или payment.canceled
	Object struct {
		ID       string            `json:"id"`
		Status   string            `json:"status"`
		Amount   Amount            `json:"amount"`
		Metadata map[string]string `json:"metadata,omitempty"`
	} `json:"object"`
}

// События вебхуков провайдера.
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentCanceled  = "payment.canceled"
)
