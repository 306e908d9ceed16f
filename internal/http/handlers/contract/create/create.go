// Package create реализует HTTP-обработчик заключения договора.
//
// Handler принимает JSON-запрос с данными договора, валидирует их, вызывает
// движок договоров (проверки окна дат, состояния клиента, конфликтов и расчет
// цены выполняются в нем) и возвращает созданный договор с итоговой ценой.
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

// Handler управляет HTTP-запросами на заключение договоров.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики договоров
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики заключения договора.
type Service interface {
	Create(ctx context.Context, req models.DummyContract) (*models.ContractInfo, error)
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
// @Summary Заключить договор
// @Description Создает договор с рассчитанной ценой: базовая стоимость лицензии плюс поддержка, минус лучшая действующая скидка.
// @Tags Contracts
// @Accept  json
// @Produce  json
// @Param request body models.DummyContract true "Данные нового договора"
// @Success 200 {object} map[string]any "Успешное заключение договора"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или даты"
// @Failure 404 {object} response.ErrorResponse "Клиент или продукт не найден"
// @Failure 409 {object} response.ErrorResponse "Конфликтующий договор или удаленный клиент"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /contracts [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contract.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyContract
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	contract, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create contract", sl.Err(err))
		w.WriteHeader(response.CodeFromError(err))
		render.JSON(w, r, response.Error("could not create contract"))
		return
	}

	log.Info("success to create contract", slog.Int("id", contract.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"contract": contract,
	}))
}
