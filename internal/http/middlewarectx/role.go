package middlewarectx

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tenderbridge/tender-bridge/internal/http/response"
	"github.com/tenderbridge/tender-bridge/internal/models"
)

// RequireRoles возвращает middleware, допускающий только пользователей,
// чья роль входит в список allowed. Должен стоять после Authenticate.
// Пустой или некорректный список ролей обнаруживается на старте приложения.
func RequireRoles(log *slog.Logger, allowed ...models.Role) func(http.Handler) http.Handler {
	if len(allowed) == 0 {
		panic("role config: empty allowed roles")
	}
	for _, role := range allowed {
		if !role.Valid() {
			panic(fmt.Sprintf("role config: unknown role %q", role))
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRoles"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			for _, role := range allowed {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Error("insufficient role", slog.String("user_uid", user.UID),
				slog.String("current_role", string(user.Role)))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.RoleError("insufficient role", allowed, user.Role))
		})
	}
}

// RequirePermissions возвращает middleware, допускающий только пользователей,
// обладающих всеми перечисленными правами. Должен стоять после Authenticate.
func RequirePermissions(log *slog.Logger, perms ...string) func(http.Handler) http.Handler {
	if len(perms) == 0 {
		panic("permission config: empty required permissions")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequirePermissions"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if missing := user.Permissions.Missing(perms); len(missing) > 0 {
				log.Error("missing permissions", slog.String("user_uid", user.UID),
					slog.Any("missing", missing))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.PermissionError("missing permissions", missing))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
