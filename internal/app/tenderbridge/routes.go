// Package tenderbridge собирает HTTP-приложение платформы: зависимости,
// цепочки middleware и маршруты.
package tenderbridge

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/tenderbridge/tender-bridge/internal/config"
	"github.com/tenderbridge/tender-bridge/internal/http/handlers/auth/login"
	"github.com/tenderbridge/tender-bridge/internal/http/handlers/auth/logout"
	"github.com/tenderbridge/tender-bridge/internal/http/handlers/auth/me"
	"github.com/tenderbridge/tender-bridge/internal/http/handlers/auth/refresh"
	"github.com/tenderbridge/tender-bridge/internal/http/handlers/auth/register"
	"github.com/tenderbridge/tender-bridge/internal/http/handlers/auth/verifyemail"
	"github.com/tenderbridge/tender-bridge/internal/http/handlers/health"
	"github.com/tenderbridge/tender-bridge/internal/http/handlers/payment/checkout"
	"github.com/tenderbridge/tender-bridge/internal/http/handlers/payment/paymentlist"
	"github.com/tenderbridge/tender-bridge/internal/http/handlers/payment/paymentwebhook"
	proposalcreate "github.com/tenderbridge/tender-bridge/internal/http/handlers/proposal/create"
	proposallist "github.com/tenderbridge/tender-bridge/internal/http/handlers/proposal/list"
	proposalread "github.com/tenderbridge/tender-bridge/internal/http/handlers/proposal/read"
	"github.com/tenderbridge/tender-bridge/internal/http/handlers/proposal/updatestatus"
	tendercreate "github.com/tenderbridge/tender-bridge/internal/http/handlers/tender/create"
	tenderlist "github.com/tenderbridge/tender-bridge/internal/http/handlers/tender/list"
	tenderread "github.com/tenderbridge/tender-bridge/internal/http/handlers/tender/read"
	tenderremove "github.com/tenderbridge/tender-bridge/internal/http/handlers/tender/remove"
	tenderupdate "github.com/tenderbridge/tender-bridge/internal/http/handlers/tender/update"
	"github.com/tenderbridge/tender-bridge/internal/http/middlewarectx"
	jwtlib "github.com/tenderbridge/tender-bridge/internal/lib/jwt"
	"github.com/tenderbridge/tender-bridge/internal/models"
	authservice "github.com/tenderbridge/tender-bridge/internal/services/auth"
	paymentservice "github.com/tenderbridge/tender-bridge/internal/services/payment"
	proposalservice "github.com/tenderbridge/tender-bridge/internal/services/proposal"
	tenderservice "github.com/tenderbridge/tender-bridge/internal/services/tender"
	"github.com/tenderbridge/tender-bridge/internal/storage/repository"
)

// Services объединяет сервисы бизнес-логики, обслуживаемые маршрутами.
type Services struct {
	Auth     *authservice.AuthService
	Tender   *tenderservice.TenderService
	Proposal *proposalservice.ProposalService
	Payment  *paymentservice.PaymentService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	cfg *config.Config,
	tokens jwtlib.Maker,
	db *repository.Storage,
	services Services,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	attemptStore := middlewarectx.NewMemoryAttemptStore()
	limiterCfg := middlewarectx.LimiterConfig{
		MaxAttempts: cfg.AttemptLimiter.MaxAttempts,
		Window:      cfg.AttemptLimiter.Window,
	}
	apiLimiter := rate.NewLimiter(rate.Limit(50), 100)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, services.Auth).ServeHTTP)
		r.Get("/auth/verify-email", verifyemail.New(logger, services.Auth).ServeHTTP)

		// Вход защищён ограничителем попыток по паре IP+почта
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AttemptLimit(logger, attemptStore, limiterCfg))
			r.Post("/auth/login", login.New(logger, services.Auth).ServeHTTP)
		})

		// Операции с refresh-токеном
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.VerifyRefreshToken(logger, tokens, db))
			r.Post("/auth/refresh", refresh.New(logger, services.Auth).ServeHTTP)
			r.Post("/auth/logout", logout.New(logger, services.Auth).ServeHTTP)
		})

		// Список тендеров виден и анонимным пользователям
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthenticateOptional(logger, tokens, db))
			r.Get("/tenders", tenderlist.New(logger, services.Tender).ServeHTTP)
			r.Get("/tenders/{id}", tenderread.New(logger, services.Tender).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.Authenticate(logger, tokens, db))
			r.Use(middlewarectx.RateLimit(logger, apiLimiter))

			r.Get("/auth/me", me.New(logger).ServeHTTP)

			r.Get("/proposals", proposallist.New(logger, services.Proposal).ServeHTTP)
			r.Get("/proposals/{id}", proposalread.New(logger, services.Proposal).ServeHTTP)

			// Генерация заявок доступна с тарифа professional
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireSubscription(logger, middlewarectx.PlanConfig{
					RequiredPlan: models.PlanProfessional,
				}))
				r.Post("/proposals", proposalcreate.New(logger, services.Proposal).ServeHTTP)
			})

			// Администрирование тендеров и заявок
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, models.RoleAdmin))
				r.Post("/tenders", tendercreate.New(logger, services.Tender).ServeHTTP)
				r.Put("/tenders/{id}", tenderupdate.New(logger, services.Tender).ServeHTTP)
				r.Delete("/tenders/{id}", tenderremove.New(logger, services.Tender).ServeHTTP)
				r.Patch("/proposals/{id}/status", updatestatus.New(logger, services.Proposal).ServeHTTP)
			})

			r.Post("/billing/checkout", checkout.New(logger, services.Payment).ServeHTTP)
			r.Get("/billing/payments", paymentlist.New(logger, services.Payment).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации, подпись проверяется обработчиком)
		r.Post("/billing/webhook", paymentwebhook.New(logger, services.Payment, cfg.Billing.WebhookSecret).ServeHTTP)
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
