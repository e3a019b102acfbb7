// Package refresh реализует HTTP-обработчик ротации пары токенов.
//
// Предъявленный refresh-токен уже проверен middleware VerifyRefreshToken:
// пользователь и строка токена лежат в контексте запроса. Обработчик
// отзывает старый токен и выдает новую пару.
package refresh

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

// Service описывает интерфейс ротации пары токенов.
type Service interface {
	Rotate(ctx context.Context, user *models.User, oldToken string) (access, refresh string, err error)
}

// Handler управляет HTTP-запросами на обновление токенов.
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
// @Summary Обновить пару токенов
// @Description Отзывает предъявленный refresh-токен и выдает новую пару access/refresh.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Success 200 {object} response.Response "Новая пара токенов"
// @Failure 401 {object} response.Response "Невалидный или отозванный refresh-токен"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /auth/refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, oldToken, ok := middlewarectx.RefreshFromContext(r.Context())
	if !ok {
		log.Error("refresh data not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid or expired refresh token"))
		return
	}

	access, refresh, err := h.service.Rotate(r.Context(), user, oldToken)
	if err != nil {
		log.Error("failed to rotate tokens", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to refresh tokens"))
		return
	}

	log.Info("tokens rotated", slog.String("user_uid", user.UID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
	}))
}
