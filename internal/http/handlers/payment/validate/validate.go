// Package validate реализует HTTP-обработчик пробной проверки платежа.
//
// Проверка выполняется по тем же правилам, что и проведение, но ничего не
// записывает: истекший срок здесь не отменяет договор. Возвращается
// структурированный вердикт с остатком по договору.
package validate

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

// Handler управляет HTTP-запросами на пробную проверку платежей.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики платежей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики пробной проверки платежа.
type Service interface {
	Validate(ctx context.Context, req models.DummyValidatePayment) (*models.PaymentVerdict, error)
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
// @Summary Проверить платеж
// @Description Пробная проверка платежа без записи. Возвращает вердикт и остаток по договору.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyValidatePayment true "Данные проверяемого платежа"
// @Success 200 {object} map[string]any "Вердикт проверки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payments/validate [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.validate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyValidatePayment
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

	verdict, err := h.service.Validate(r.Context(), req)
	if err != nil {
		log.Error("failed to validate payment", sl.Err(err))
		w.WriteHeader(response.CodeFromError(err))
		render.JSON(w, r, response.Error("could not validate payment"))
		return
	}

	log.Info("success to validate payment", slog.Bool("is_valid", verdict.IsValid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"verdict": verdict,
	}))
}
