// Package me реализует HTTP-обработчик профиля текущего пользователя.
// Пользователь уже положен в контекст middleware Authenticate.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tenderbridge/tender-bridge/internal/http/middlewarectx"
	"github.com/tenderbridge/tender-bridge/internal/http/response"
)

// Handler управляет HTTP-запросами профиля.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает данные пользователя из access-токена.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Профиль"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user_uid":       user.UID,
		"email":          user.Email,
		"username":       user.Username,
		"role":           user.Role,
		"permissions":    user.Permissions.List(),
		"plan":           user.Subscription.Plan,
		"plan_active":    user.Subscription.IsActive,
		"plan_expires":   user.Subscription.ExpiresAt,
		"email_verified": user.EmailVerified,
	}))
}
