// Package read реализует HTTP-обработчик чтения тендера по идентификатору.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tenderbridge/tender-bridge/internal/http/response"
	"github.com/tenderbridge/tender-bridge/internal/lib/sl"
	"github.com/tenderbridge/tender-bridge/internal/models"
)

// Service описывает интерфейс чтения тендера.
type Service interface {
	Read(ctx context.Context, id int) (*models.Tender, error)
}

// Handler управляет HTTP-запросами на чтение тендера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить тендер
// @Description Возвращает тендер по идентификатору.
// @Tags Tenders
// @Produce  json
// @Param id path int true "ID тендера"
// @Success 200 {object} response.Response "Данные тендера"
// @Failure 400 {object} response.Response "Некорректный идентификатор"
// @Failure 500 {object} response.Response "Тендер не найден или ошибка сервера"
// @Router /tenders/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tender.read"
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

	tender, err := h.service.Read(r.Context(), id)
	if err != nil {
		log.Error("failed to read tender", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read tender"))
		return
	}

	render.JSON(w, r, response.OKWithData(tender))
}
