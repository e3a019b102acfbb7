package middlewarectx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tenderbridge/tender-bridge/internal/http/response"
	jwtlib "github.com/tenderbridge/tender-bridge/internal/lib/jwt"
	"github.com/tenderbridge/tender-bridge/internal/lib/sl"
	"github.com/tenderbridge/tender-bridge/internal/models"
)

// RefreshTokenProvider описывает доступ к пользователям и их спискам
// refresh-токенов для верификации обновления сессии.
type RefreshTokenProvider interface {
	// GetUser возвращает пользователя по UID или ошибку, если не найден.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// FindRefreshToken возвращает запись токена из списка пользователя.
	FindRefreshToken(ctx context.Context, userUID, token string) (*models.RefreshToken, error)
}

// refreshRequest — тело запроса обновления сессии.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// VerifyRefreshToken возвращает middleware, проверяющий refresh-токен из тела запроса.
//
// Токен должен иметь корректную подпись, разрешаться в существующего пользователя
// и присутствовать в его списке токенов с активным признаком — так отозванный
// токен нельзя использовать повторно. Любое несоответствие возвращает единое
// сообщение, не раскрывая, какая именно проверка не прошла. На успехе пользователь
// и строка токена кладутся в контекст для ротации в обработчике.
func VerifyRefreshToken(log *slog.Logger, tokens jwtlib.Maker, store RefreshTokenProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.VerifyRefreshToken"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			reject := func() {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired refresh token"))
			}

			var req refreshRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
				log.Error("failed to decode refresh token from body")
				reject()
				return
			}

			claims, err := tokens.ParseRefreshToken(req.RefreshToken)
			if err != nil {
				log.Error("refresh token rejected", sl.Err(err))
				reject()
				return
			}

			user, err := store.GetUser(r.Context(), claims.UserUID)
			if err != nil || user == nil || !user.IsActive {
				// err может быть nil: деактивированный пользователь приходит без ошибки
				log.Error("refresh token user unavailable", slog.String("user_uid", claims.UserUID))
				reject()
				return
			}

			stored, err := store.FindRefreshToken(r.Context(), user.UID, req.RefreshToken)
			if err != nil || stored == nil || !stored.IsActive {
				log.Error("refresh token not in active list", slog.String("user_uid", user.UID))
				reject()
				return
			}

			ctx := context.WithValue(r.Context(), RefreshUserKey, user)
			ctx = context.WithValue(ctx, RefreshTokenKey, req.RefreshToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
