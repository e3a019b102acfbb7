// Package create реализует HTTP-обработчик создания заявки на тендер.
//
// Операция доступна по тарифу professional и выше: в цепочке перед
// обработчиком стоят Authenticate и RequireSubscription. Текст заявки
// генерируется AI-провайдером из краткого описания участника.
package create

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
	proposal "github.com/tenderbridge/tender-bridge/internal/services/proposal"
)

// Service описывает интерфейс бизнес-логики создания заявки.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyProposal) (int, error)
}

// Handler управляет HTTP-запросами на создание заявки.
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
// @Summary Создать заявку на тендер
// @Description Генерирует текст заявки по краткому описанию и сохраняет её в статусе draft. Требуется тариф professional или выше.
// @Tags Proposals
// @Accept  json
// @Produce  json
// @Param request body models.DummyProposal true "Тендер и краткое описание предложения"
// @Success 200 {object} response.Response "ID созданной заявки"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 403 {object} response.Response "Недостаточный тариф"
// @Failure 409 {object} response.Response "Тендер закрыт для заявок"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Security BearerAuth
// @Router /proposals [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proposal.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyProposal
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Int("tender_id", req.TenderID))

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

	id, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		if errors.Is(err, proposal.ErrTenderNotOpen) {
			log.Info("tender is not open", slog.Int("tender_id", req.TenderID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("tender is not open for proposals"))
			return
		}
		log.Error("failed to create proposal", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create proposal"))
		return
	}

	log.Info("proposal created", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
