// Package updatestatus реализует HTTP-обработчик смены статуса заявки.
//
// Доступ только администраторам: в цепочке перед обработчиком стоят
// Authenticate и RequireRoles(admin).
package updatestatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/tenderbridge/tender-bridge/internal/http/response"
	"github.com/tenderbridge/tender-bridge/internal/lib/sl"
	"github.com/tenderbridge/tender-bridge/internal/models"
)

// Service описывает интерфейс смены статуса заявки.
type Service interface {
	UpdateStatus(ctx context.Context, id int, status string) (int64, error)
}

// Handler управляет HTTP-запросами на смену статуса заявки.
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
// @Summary Сменить статус заявки
// @Description Переводит заявку в статус submitted, accepted или rejected. Доступно только администраторам.
// @Tags Proposals
// @Accept  json
// @Produce  json
// @Param id path int true "ID заявки"
// @Param request body models.DummyProposalStatus true "Новый статус"
// @Success 200 {object} response.Response "Количество обновленных записей"
// @Failure 400 {object} response.Response "Некорректный запрос"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 403 {object} response.Response "Недостаточно прав"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Security BearerAuth
// @Router /proposals/{id}/status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proposal.updatestatus"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("invalid proposal id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid proposal id"))
		return
	}

	var req models.DummyProposalStatus
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

	affected, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		log.Error("failed to update proposal status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update proposal status"))
		return
	}

	log.Info("proposal status updated", slog.Int("id", id), slog.String("status", req.Status))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"updated": affected,
	}))
}
