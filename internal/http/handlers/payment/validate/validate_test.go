package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// MockService реализует интерфейс validate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Validate(ctx context.Context, req models.DummyValidatePayment) (*models.PaymentVerdict, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentVerdict), args.Error(1)
}

func TestValidateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "валидный платеж",
			requestBody: models.DummyValidatePayment{ContractID: 1, Amount: 200},
			setupMock: func(m *MockService) {
				m.On("Validate", mock.Anything, mock.AnythingOfType("models.DummyValidatePayment")).
					Return(&models.PaymentVerdict{
						IsValid:          true,
						Message:          "payment is valid",
						RemainingBalance: decimal.NewFromInt(1000),
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"is_valid":true`,
		},
		{
			name:        "отклоненный платеж возвращает 200 с вердиктом",
			requestBody: models.DummyValidatePayment{ContractID: 1, Amount: 5000},
			setupMock: func(m *MockService) {
				m.On("Validate", mock.Anything, mock.AnythingOfType("models.DummyValidatePayment")).
					Return(&models.PaymentVerdict{
						IsValid: false,
						Message: "payment amount exceeds remaining balance",
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"is_valid":false`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "ошибка валидации",
			requestBody:    models.DummyValidatePayment{Amount: 100},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field ContractID is a required field`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: models.DummyValidatePayment{ContractID: 1, Amount: 100},
			setupMock: func(m *MockService) {
				m.On("Validate", mock.Anything, mock.AnythingOfType("models.DummyValidatePayment")).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not validate payment"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/payments/validate", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
