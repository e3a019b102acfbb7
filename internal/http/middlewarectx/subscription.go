package middlewarectx

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tenderbridge/tender-bridge/internal/http/response"
	"github.com/tenderbridge/tender-bridge/internal/models"
)

// PlanConfig — конфигурация проверки подписки, задаваемая при регистрации маршрута.
type PlanConfig struct {
	// RequiredPlan — минимальный тарифный план для доступа к маршруту.
	RequiredPlan models.PlanTier
}

// Validate проверяет конфигурацию. Вызывается один раз при регистрации маршрута.
func (c PlanConfig) Validate() error {
	if !c.RequiredPlan.Valid() {
		return fmt.Errorf("plan config: unknown plan tier %q", c.RequiredPlan)
	}
	return nil
}

// RequireSubscription возвращает middleware, допускающий только пользователей
// с активной, не истёкшей подпиской и тарифным планом не ниже требуемого.
// Должен стоять после Authenticate. Некорректная конфигурация обнаруживается
// на старте приложения, а не на каждом запросе.
func RequireSubscription(log *slog.Logger, cfg PlanConfig) func(http.Handler) http.Handler {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireSubscription"
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

			sub := user.Subscription
			if !sub.IsActive || !sub.Plan.Valid() {
				log.Error("no active subscription", slog.String("user_uid", user.UID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("no active subscription"))
				return
			}
			if sub.ExpiresAt != nil && sub.ExpiresAt.Before(time.Now()) {
				log.Error("subscription expired", slog.String("user_uid", user.UID),
					slog.Time("expires_at", *sub.ExpiresAt))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("subscription expired"))
				return
			}
			if !sub.Plan.AtLeast(cfg.RequiredPlan) {
				log.Error("plan tier insufficient", slog.String("user_uid", user.UID),
					slog.String("current_plan", string(sub.Plan)),
					slog.String("required_plan", string(cfg.RequiredPlan)))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.PlanError("plan tier insufficient", sub.Plan, cfg.RequiredPlan))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
