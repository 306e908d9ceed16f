// Package calculate реализует HTTP-обработчик расчета выручки.
//
// Параметры приходят в строке запроса: type (Current или Predicted),
// currency (код валюты, база — PLN) и необязательный software_id.
package calculate

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/license-backoffice/internal/http/response"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/currency"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// Handler обрабатывает запросы на расчет выручки.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики выручки
}

// Service описывает интерфейс бизнес-логики расчета выручки.
type Service interface {
	Calculate(ctx context.Context, query models.RevenueQuery) (*models.RevenueReport, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Рассчитать выручку
// @Description Считает текущую или прогнозируемую выручку с пересчетом из PLN в запрошенную валюту.
// @Tags Revenue
// @Produce  json
// @Param type query string true "Тип расчета: Current или Predicted"
// @Param currency query string false "Код валюты (по умолчанию PLN)"
// @Param software_id query int false "Фильтр по продукту"
// @Success 200 {object} map[string]any "Отчет о выручке"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /revenue [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.revenue.calculate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := models.RevenueQuery{
		RevenueType: r.URL.Query().Get("type"),
		Currency:    r.URL.Query().Get("currency"),
	}
	if query.Currency == "" {
		query.Currency = currency.BaseCurrency
	}
	if raw := r.URL.Query().Get("software_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			log.Error("failed to decode software_id from query", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode software_id from query"))
			return
		}
		query.SoftwareID = &id
	}

	report, err := h.service.Calculate(r.Context(), query)
	if err != nil {
		log.Error("failed to calculate revenue", sl.Err(err))
		w.WriteHeader(response.CodeFromError(err))
		render.JSON(w, r, response.Error("could not calculate revenue"))
		return
	}

	log.Info("success to calculate revenue",
		slog.String("type", report.CalculationType),
		slog.String("currency", report.Currency))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"report": report,
	}))
}
