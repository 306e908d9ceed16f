// Package create реализует HTTP-обработчик проведения платежа по договору.
//
// Handler принимает JSON-запрос с данными платежа, валидирует их и делегирует
// проведение сервису платежей. Проведение атомарно: при полном погашении
// договор подписывается, при истекшем сроке — отменяется, и это единственный
// отказ с побочным эффектом.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/license-backoffice/internal/http/response"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// Handler управляет HTTP-запросами на проведение платежей.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики платежей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики проведения платежа.
type Service interface {
	Create(ctx context.Context, req models.DummyPayment) (*models.SettlementResult, error)
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
// @Summary Провести платеж
// @Description Проводит платеж по договору. При полном погашении договор подписывается, при просроченном сроке — отменяется.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyPayment true "Данные платежа"
// @Success 200 {object} map[string]any "Платеж проведен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, сумма или способ оплаты"
// @Failure 404 {object} response.ErrorResponse "Договор не найден"
// @Failure 409 {object} response.ErrorResponse "Договор отменен, подписан или платеж превышает остаток"
// @Failure 422 {object} response.ErrorResponse "Срок оплаты истек, договор отменен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payments [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPayment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Int("contract_id", req.ContractID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	result, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to settle payment", sl.Err(err))
		w.WriteHeader(response.CodeFromError(err))
		render.JSON(w, r, response.Error("could not settle payment"))
		return
	}

	log.Info("success to settle payment", slog.Int("payment_id", result.Payment.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"result": result,
	}))
}
