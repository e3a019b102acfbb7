package paymentwebhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tenderbridge/tender-bridge/internal/billing"
)

// MockService реализует интерфейс paymentwebhook.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ProcessWebhook(ctx context.Context, event billing.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

const testSecret = "webhook-secret"

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	succeededBody := []byte(`{"event":"payment.succeeded","object":{"id":"pay-123","status":"succeeded","amount":{"value":"1490.00","currency":"RUB"},"metadata":{"user_uid":"uid-1","plan":"professional"}}}`)

	tests := []struct {
		name           string
		body           []byte
		signature      string
		setupMock      func(*MockService)
		expectedStatus int
	}{
		{
			name:      "успешное событие оплаты",
			body:      succeededBody,
			signature: signBody(succeededBody),
			setupMock: func(m *MockService) {
				m.On("ProcessWebhook", mock.Anything, mock.AnythingOfType("billing.WebhookEvent")).
					Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "отсутствует подпись",
			body:           succeededBody,
			signature:      "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "неверная подпись",
			body:           succeededBody,
			signature:      signBody([]byte("tampered body")),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "некорректный JSON с валидной подписью",
			body:           []byte("not a json"),
			signature:      signBody([]byte("not a json")),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "неизвестное событие игнорируется",
			body:           []byte(`{"event":"payment.waiting_for_capture","object":{"id":"pay-123"}}`),
			signature:      signBody([]byte(`{"event":"payment.waiting_for_capture","object":{"id":"pay-123"}}`)),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "ошибка обработки события",
			body:      succeededBody,
			signature: signBody(succeededBody),
			setupMock: func(m *MockService) {
				m.On("ProcessWebhook", mock.Anything, mock.AnythingOfType("billing.WebhookEvent")).
					Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, testSecret)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook", bytes.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.signature != "" {
				req.Header.Set("X-Api-Signature", tt.signature)
			}
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
