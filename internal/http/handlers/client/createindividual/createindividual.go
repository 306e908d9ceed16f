// Package createindividual реализует HTTP-обработчик регистрации клиента-физлица.
//
// Handler принимает JSON-запрос с данными клиента, валидирует их (включая
// формат номера PESEL), вызывает бизнес-логику создания клиента и возвращает
// карточку созданного клиента в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package createindividual

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

// Handler управляет HTTP-запросами на регистрацию клиентов-физлиц.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики реестра клиентов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания клиента-физлица.
type Service interface {
	CreateIndividual(ctx context.Context, req models.DummyIndividualClient) (*models.ClientInfo, error)
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
// @Summary Зарегистрировать клиента-физлицо
// @Description Создает нового клиента-физлицо. Номер PESEL должен быть уникален.
// @Tags Clients
// @Accept  json
// @Produce  json
// @Param request body models.DummyIndividualClient true "Данные нового клиента"
// @Success 200 {object} map[string]any "Успешное создание клиента"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "PESEL уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /clients/individual [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.createindividual"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyIndividualClient
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded")

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	client, err := h.service.CreateIndividual(r.Context(), req)
	if err != nil {
		log.Error("failed to create individual client", sl.Err(err))
		w.WriteHeader(response.CodeFromError(err))
		render.JSON(w, r, response.Error("could not create client"))
		return
	}

	log.Info("success to create individual client", slog.Int("id", client.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"client": client,
	}))
}
