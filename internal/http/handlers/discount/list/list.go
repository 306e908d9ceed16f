// Package list реализует HTTP-обработчик получения списка скидок.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/license-backoffice/internal/http/response"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// Handler обрабатывает запросы на получение списка скидок.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики скидок
}

// Service описывает интерфейс бизнес-логики чтения списка скидок.
type Service interface {
	List(ctx context.Context) ([]*models.Discount, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список скидок
// @Description Возвращает все скидки, включая истекшие.
// @Tags Discounts
// @Produce  json
// @Success 200 {object} map[string]any "Список скидок"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /discounts [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.discount.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	discounts, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list discounts", sl.Err(err))
		w.WriteHeader(response.CodeFromError(err))
		render.JSON(w, r, response.Error("could not list discounts"))
		return
	}

	log.Info("success to list discounts", slog.Int("count", len(discounts)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"discounts": discounts,
	}))
}
