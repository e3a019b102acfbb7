// Package remove реализует HTTP-обработчик удаления тендера.
//
// Доступ только администраторам: в цепочке перед обработчиком стоят
// Authenticate и RequireRoles(admin).
package remove

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
)

// Service описывает интерфейс удаления тендера.
type Service interface {
	Remove(ctx context.Context, id int) (int64, error)
}

// Handler управляет HTTP-запросами на удаление тендера.
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
// @Summary Удалить тендер
// @Description Удаляет тендер по идентификатору. Доступно только администраторам.
// @Tags Tenders
// @Produce  json
// @Param id path int true "ID тендера"
// @Success 200 {object} response.Response "Количество удаленных записей"
// @Failure 400 {object} response.Response "Некорректный идентификатор"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 403 {object} response.Response "Недостаточно прав"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Security BearerAuth
// @Router /tenders/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tender.remove"
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

	affected, err := h.service.Remove(r.Context(), id)
	if err != nil {
		log.Error("failed to remove tender", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove tender"))
		return
	}

	log.Info("tender removed", slog.Int("id", id), slog.Int64("affected", affected))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted": affected,
	}))
}
