// Package list реализует HTTP-обработчик списка тендеров с фильтрацией и пагинацией.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tenderbridge/tender-bridge/internal/http/response"
	"github.com/tenderbridge/tender-bridge/internal/lib/sl"
	"github.com/tenderbridge/tender-bridge/internal/models"
)

// Service описывает интерфейс получения списка тендеров.
type Service interface {
	List(ctx context.Context, filter models.TenderFilter) ([]*models.Tender, error)
}

// Handler управляет HTTP-запросами на список тендеров.
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
// @Summary Список тендеров
// @Description Возвращает страницу тендеров с фильтрами по категории и статусу.
// @Tags Tenders
// @Produce  json
// @Param category query string false "Категория"
// @Param status query string false "Статус: open, closed, awarded"
// @Param limit query int false "Размер страницы (по умолчанию 20, максимум 100)"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список тендеров"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /tenders [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tender.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	filter := models.TenderFilter{
		Category: query.Get("category"),
		Status:   query.Get("status"),
		Limit:    limit,
		Offset:   offset,
	}

	tenders, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list tenders", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list tenders"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"tenders": tenders,
		"count":   len(tenders),
	}))
}
