package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tenderbridge/tender-bridge/internal/http/response"
	jwtlib "github.com/tenderbridge/tender-bridge/internal/lib/jwt"
	"github.com/tenderbridge/tender-bridge/internal/lib/sl"
	"github.com/tenderbridge/tender-bridge/internal/models"
)

// UserProvider описывает доступ к пользователям для цепочки аутентификации.
type UserProvider interface {
	// GetUser возвращает пользователя по UID или ошибку, если не найден.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// TouchLastActivity обновляет время последней активности пользователя.
	TouchLastActivity(ctx context.Context, userUID string) error
}

// Authenticate возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Токен разрешается в активного пользователя; пользователь и его UID кладутся
// в контекст запроса. Пользователь с неподтверждённой почтой допускается только
// к читающим методам. На каждом успешном проходе обновляется время последней
// активности пользователя; ошибка этого обновления не прерывает запрос.
func Authenticate(log *slog.Logger, tokens jwtlib.Maker, users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Authenticate"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := tokens.ParseAccessToken(tokenStr)
			if err != nil {
				if errors.Is(err, jwtlib.ErrTokenExpired) {
					log.Error("token expired")
					w.WriteHeader(http.StatusUnauthorized)
					render.JSON(w, r, response.Error("token expired"))
					return
				}
				log.Error("invalid token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid token"))
				return
			}

			user, err := users.GetUser(r.Context(), claims.UserUID)
			if err != nil || user == nil {
				// err может быть nil, если хранилище вернуло nil без ошибки
				log.Error("token user not found", slog.String("user_uid", claims.UserUID))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid token"))
				return
			}
			if !user.IsActive {
				log.Error("account deactivated", slog.String("user_uid", user.UID))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("account deactivated"))
				return
			}
			if !user.EmailVerified && isMutating(r.Method) {
				log.Error("email not verified for mutating request",
					slog.String("user_uid", user.UID), slog.String("method", r.Method))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("email verification required"))
				return
			}

			if err := users.TouchLastActivity(r.Context(), user.UID); err != nil {
				log.Warn("failed to touch last activity", sl.Err(err))
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			ctx = context.WithValue(ctx, UserUIDKey, user.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthenticateOptional возвращает опциональный вариант аутентификации:
// он никогда не отклоняет запрос. Если токен валиден и пользователь активен,
// в контекст кладётся сокращённый профиль; иначе запрос продолжается анонимно.
func AuthenticateOptional(log *slog.Logger, tokens jwtlib.Maker, users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthenticateOptional"

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := tokens.ParseAccessToken(tokenStr)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			user, err := users.GetUser(r.Context(), claims.UserUID)
			if err != nil || user == nil || !user.IsActive {
				next.ServeHTTP(w, r)
				return
			}

			log.Debug("optional authentication attached user",
				slog.String("op", op), slog.String("user_uid", user.UID))
			info := &models.UserInfo{
				UID:      user.UID,
				Username: user.Username,
				Role:     user.Role,
			}
			ctx := context.WithValue(r.Context(), UserInfoKey, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// isMutating сообщает, изменяет ли HTTP-метод состояние сервера.
func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
