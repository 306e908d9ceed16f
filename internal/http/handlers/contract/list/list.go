// Package list реализует HTTP-обработчик получения списка договоров.
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

// Handler обрабатывает запросы на получение списка договоров.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики договоров
}

// Service описывает интерфейс бизнес-логики чтения списка договоров.
type Service interface {
	List(ctx context.Context) ([]*models.ContractInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список договоров
// @Description Возвращает все договоры с именами сторон и состоянием оплаты.
// @Tags Contracts
// @Produce  json
// @Success 200 {object} map[string]any "Список договоров"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /contracts [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contract.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	contracts, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list contracts", sl.Err(err))
		w.WriteHeader(response.CodeFromError(err))
		render.JSON(w, r, response.Error("could not list contracts"))
		return
	}

	log.Info("success to list contracts", slog.Int("count", len(contracts)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"contracts": contracts,
	}))
}
