// Package read реализует HTTP-обработчик чтения заявки.
// Чужие заявки доступны только администратору.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/tenderbridge/tender-bridge/internal/http/middlewarectx"
	"github.com/tenderbridge/tender-bridge/internal/http/response"
	"github.com/tenderbridge/tender-bridge/internal/lib/sl"
	"github.com/tenderbridge/tender-bridge/internal/models"
	proposal "github.com/tenderbridge/tender-bridge/internal/services/proposal"
)

// Service описывает интерфейс чтения заявки.
type Service interface {
	Read(ctx context.Context, id int, userUID string, role models.Role) (*models.Proposal, error)
}

// Handler управляет HTTP-запросами на чтение заявки.
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
// @Summary Получить заявку
// @Description Возвращает заявку по идентификатору. Чужие заявки доступны только администратору.
// @Tags Proposals
// @Produce  json
// @Param id path int true "ID заявки"
// @Success 200 {object} response.Response "Данные заявки"
// @Failure 400 {object} response.Response "Некорректный идентификатор"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 403 {object} response.Response "Заявка принадлежит другому пользователю"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Security BearerAuth
// @Router /proposals/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proposal.read"
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

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	prop, err := h.service.Read(r.Context(), id, user.UID, user.Role)
	if err != nil {
		if errors.Is(err, proposal.ErrNotOwner) {
			log.Info("access to foreign proposal denied", slog.Int("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("proposal belongs to another user"))
			return
		}
		log.Error("failed to read proposal", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read proposal"))
		return
	}

	render.JSON(w, r, response.OKWithData(prop))
}
