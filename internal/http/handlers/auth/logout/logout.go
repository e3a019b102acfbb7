// Package logout реализует HTTP-обработчик выхода из системы.
//
// Предъявленный refresh-токен проверяется middleware VerifyRefreshToken,
// обработчик отзывает его, завершая сессию.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tenderbridge/tender-bridge/internal/http/middlewarectx"
	"github.com/tenderbridge/tender-bridge/internal/http/response"
	"github.com/tenderbridge/tender-bridge/internal/lib/sl"
	"github.com/tenderbridge/tender-bridge/internal/models"
)

// Service описывает интерфейс завершения сессии.
type Service interface {
	Logout(ctx context.Context, user *models.User, token string) error
}

// Handler управляет HTTP-запросами на выход.
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
// @Summary Выйти из системы
// @Description Отзывает предъявленный refresh-токен.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Success 200 {object} response.Response "Сессия завершена"
// @Failure 401 {object} response.Response "Невалидный или отозванный refresh-токен"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, token, ok := middlewarectx.RefreshFromContext(r.Context())
	if !ok {
		log.Error("refresh data not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid or expired refresh token"))
		return
	}

	if err := h.service.Logout(r.Context(), user, token); err != nil {
		log.Error("failed to revoke refresh token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to logout"))
		return
	}

	log.Info("user logged out", slog.String("user_uid", user.UID))
	render.JSON(w, r, response.OK())
}
