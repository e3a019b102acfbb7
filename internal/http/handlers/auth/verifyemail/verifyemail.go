// Package verifyemail реализует HTTP-обработчик подтверждения электронной почты
// по одноразовому токену из письма.
package verifyemail

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tenderbridge/tender-bridge/internal/http/response"
	"github.com/tenderbridge/tender-bridge/internal/lib/sl"
)

// Service описывает интерфейс подтверждения почты.
type Service interface {
	VerifyEmail(ctx context.Context, token string) error
}

// Handler управляет HTTP-запросами на подтверждение почты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подтвердить электронную почту
// @Description Гасит одноразовый токен из письма и отмечает почту подтвержденной.
// @Tags Auth
// @Produce  json
// @Param token query string true "Токен подтверждения"
// @Success 200 {object} response.Response "Почта подтверждена"
// @Failure 400 {object} response.Response "Токен не передан"
// @Failure 422 {object} response.Response "Токен невалиден или истек"
// @Router /auth/verify-email [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verifyemail"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := r.URL.Query().Get("token")
	if token == "" {
		log.Error("verification token is missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("verification token is required"))
		return
	}

	if err := h.service.VerifyEmail(r.Context(), token); err != nil {
		log.Error("failed to verify email", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("invalid or expired verification token"))
		return
	}

	log.Info("email verified")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "email verified successfully",
	}))
}
