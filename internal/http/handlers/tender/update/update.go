// Package update реализует HTTP-обработчик обновления тендера.
//
// Доступ только администраторам: в цепочке перед обработчиком стоят
// Authenticate и RequireRoles(admin).
package update

import (
	"context"
	"encoding/json"
	"errors"
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
	tender "github.com/tenderbridge/tender-bridge/internal/services/tender"
)

// Service описывает интерфейс бизнес-логики обновления тендера.
type Service interface {
	Update(ctx context.Context, req models.DummyTender, id int) (int64, error)
}

// Handler управляет HTTP-запросами на обновление тендера.
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
// @Summary Обновить тендер
// @Description Перезаписывает тендер по идентификатору. Доступно только администраторам.
// @Tags Tenders
// @Accept  json
// @Produce  json
// @Param id path int true "ID тендера"
// @Param request body models.DummyTender true "Новые данные тендера"
// @Success 200 {object} response.Response "Количество обновленных записей"
// @Failure 400 {object} response.Response "Некорректный запрос"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 403 {object} response.Response "Недостаточно прав"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Security BearerAuth
// @Router /tenders/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tender.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("invalid tender id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid tender id"))
		return
	}

	var req models.DummyTender
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

	affected, err := h.service.Update(r.Context(), req, id)
	if err != nil {
		if errors.Is(err, tender.ErrInvalidDeadline) || errors.Is(err, tender.ErrDeadlinePassed) {
			log.Error("invalid deadline", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to update tender", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update tender"))
		return
	}

	log.Info("tender updated", slog.Int("id", id), slog.Int64("affected", affected))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"updated": affected,
	}))
}
