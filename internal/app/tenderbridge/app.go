package tenderbridge

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/tenderbridge/tender-bridge/internal/aiprovider"
	"github.com/tenderbridge/tender-bridge/internal/billing"
	"github.com/tenderbridge/tender-bridge/internal/cache"
	"github.com/tenderbridge/tender-bridge/internal/config"
	jwtlib "github.com/tenderbridge/tender-bridge/internal/lib/jwt"
	"github.com/tenderbridge/tender-bridge/internal/migrations"
	"github.com/tenderbridge/tender-bridge/internal/models"
	"github.com/tenderbridge/tender-bridge/internal/rabbitmq"
	authservice "github.com/tenderbridge/tender-bridge/internal/services/auth"
	paymentservice "github.com/tenderbridge/tender-bridge/internal/services/payment"
	proposalservice "github.com/tenderbridge/tender-bridge/internal/services/proposal"
	tenderservice "github.com/tenderbridge/tender-bridge/internal/services/tender"
	"github.com/tenderbridge/tender-bridge/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер платформы и его зависимости.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	rabbitmq *amqp.Connection
}

// queueNotifier публикует уведомления в обменник notifications.
type queueNotifier struct {
	ch *amqp.Channel
}

func (n queueNotifier) PublishVerificationEmail(msg models.VerificationEmail) error {
	return rabbitmq.PublishMessage(n.ch, "notifications", rabbitmq.RoutingKeyVerification, msg)
}

// New собирает приложение: хранилище, миграции, кэш, очередь,
// клиентов внешних сервисов и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.RabbitMQConnection, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	rabbitChannel, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetNotificationQueues())
	if err != nil {
		return nil, err
	}

	tokens := jwtlib.NewMaker(
		cfg.Tokens.AccessSecretKey,
		cfg.Tokens.RefreshSecretKey,
		cfg.Tokens.AccessTTL,
		cfg.Tokens.RefreshTTL,
	)
	billingClient := billing.NewClient(cfg.Billing.ShopID, cfg.Billing.SecretKey)
	aiClient := aiprovider.NewClient(cfg.AIProvider.APIKey, cfg.AIProvider.Model)

	services := Services{
		Auth:     authservice.NewAuthService(db, tokens, queueNotifier{ch: rabbitChannel}, logger),
		Tender:   tenderservice.NewTenderService(db, cacheRedis, logger),
		Proposal: proposalservice.NewProposalService(db, aiClient, logger),
		Payment:  paymentservice.NewPaymentService(db, billingClient, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, tokens, db, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		rabbitmq: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		a.rabbitmq.Close()
		return err
	}
}
