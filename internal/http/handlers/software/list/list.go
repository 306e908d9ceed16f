// Package list реализует HTTP-обработчик получения каталога продуктов
// с необязательным фильтром по категории.
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

// Handler обрабатывает запросы на получение каталога продуктов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики каталога
}

// Service описывает интерфейс бизнес-логики чтения каталога.
type Service interface {
	List(ctx context.Context, category string) ([]*models.Software, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Каталог продуктов
// @Description Возвращает все продукты, при непустом параметре category — только её.
// @Tags Software
// @Produce  json
// @Param category query string false "Категория продуктов"
// @Success 200 {object} map[string]any "Список продуктов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /software [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.software.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	category := r.URL.Query().Get("category")

	software, err := h.service.List(r.Context(), category)
	if err != nil {
		log.Error("failed to list software", sl.Err(err))
		w.WriteHeader(response.CodeFromError(err))
		render.JSON(w, r, response.Error("could not list software"))
		return
	}

	log.Info("success to list software", slog.Int("count", len(software)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"software": software,
	}))
}
