// Package checkout реализует HTTP-обработчик создания платежа за подписку.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/tenderbridge/tender-bridge/internal/http/middlewarectx"
	"github.com/tenderbridge/tender-bridge/internal/http/response"
	"github.com/tenderbridge/tender-bridge/internal/lib/sl"
	"github.com/tenderbridge/tender-bridge/internal/models"
	payment "github.com/tenderbridge/tender-bridge/internal/services/payment"
)

// Request — входные данные для создания платежа.
type Request struct {
	Plan string `json:"plan" validate:"required,oneof=basic professional enterprise"`
}

// Service описывает интерфейс создания платежа за подписку.
type Service interface {
	Checkout(ctx context.Context, userUID string, plan models.PlanTier) (string, error)
}

// Handler управляет HTTP-запросами на оплату подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оплатить подписку
// @Description Создает платеж у провайдера и возвращает URL подтверждения оплаты.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param request body Request true "Тариф подписки"
// @Success 200 {object} response.Response "URL подтверждения оплаты"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Security BearerAuth
// @Router /billing/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.checkout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := middlewarectx.UserUIDFromContext(r.Context())
	if !ok {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	plan, err := models.ParsePlanTier(req.Plan)
	if err != nil {
		log.Error("invalid plan tier", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("unknown subscription plan"))
		return
	}

	confirmationURL, err := h.service.Checkout(r.Context(), userUID, plan)
	if err != nil {
		if errors.Is(err, payment.ErrUnknownPlan) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("unknown subscription plan"))
			return
		}
		log.Error("failed to create payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create payment"))
		return
	}

	log.Info("payment created", slog.String("user_uid", userUID), slog.String("plan", req.Plan))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"confirmation_url": confirmationURL,
	}))
}
