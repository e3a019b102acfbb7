// Package paymentwebhook реализует HTTP-обработчик вебхуков платёжного провайдера.
//
// Подлинность события проверяется HMAC-подписью тела запроса
// в заголовке X-Api-Signature.
package paymentwebhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/tenderbridge/tender-bridge/internal/billing"
	"github.com/tenderbridge/tender-bridge/internal/lib/sl"
)

// Service описывает интерфейс обработки событий провайдера.
type Service interface {
	ProcessWebhook(ctx context.Context, event billing.WebhookEvent) error
}

// Handler управляет вебхуками платёжного провайдера.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string
}

// New создает новый Handler с переданными логгером, сервисом и секретом подписи.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

func (h *Handler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ServeHTTP godoc
// @Summary Вебхук платёжного провайдера
// @Description Принимает события payment.succeeded и payment.canceled, активирует подписку после успешной оплаты.
// @Tags Billing
// @Accept  json
// @Success 200 "Событие обработано"
// @Failure 400 "Некорректное тело запроса"
// @Failure 401 "Невалидная подпись"
// @Failure 500 "Ошибка обработки события"
// @Router /billing/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !h.verifySignature(body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var event billing.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Event {
	case billing.EventPaymentSucceeded, billing.EventPaymentCanceled:
		if err := h.service.ProcessWebhook(r.Context(), event); err != nil {
			log.Error("failed to process webhook event", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	default:
		log.Info("ignored webhook event", slog.String("event", event.Event))
	}

	log.Info("webhook processed successfully",
		slog.String("event", event.Event),
		slog.String("payment_id", event.Object.ID))
	w.WriteHeader(http.StatusOK)
}
