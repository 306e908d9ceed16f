package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/errs"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) SettlePayment(ctx context.Context, contractID int, amount decimal.Decimal, method string, now time.Time) (*models.SettlementResult, error) {
	args := m.Called(ctx, contractID, amount, method, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SettlementResult), args.Error(1)
}
func (m *RepoMock) GetContractBalance(ctx context.Context, contractID int) (*models.ContractBalance, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContractBalance), args.Error(1)
}
func (m *RepoMock) ListPaymentsForContract(ctx context.Context, contractID int) ([]*models.Payment, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var fixedNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo *RepoMock) *PaymentService {
	svc := NewPaymentService(repo, newNoopLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func openContract(price int64) models.Contract {
	return models.Contract{
		ID:      1,
		Price:   decimal.NewFromInt(price),
		EndDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestPaymentService_Create(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		req        models.DummyPayment
		wantErr    error
		wantPaid   bool
	}{
		{
			name: "успешное проведение платежа",
			setupMocks: func(r *RepoMock) {
				r.On("SettlePayment", mock.Anything, 1,
					mock.MatchedBy(func(a decimal.Decimal) bool { return a.Equal(decimal.NewFromInt(800)) }),
					"Credit Card", fixedNow).
					Return(&models.SettlementResult{
						Payment:          models.Payment{ID: 11, ContractID: 1, Amount: decimal.NewFromInt(800)},
						RemainingBalance: decimal.NewFromInt(1200),
					}, nil).Once()
			},
			req:     models.DummyPayment{ContractID: 1, Amount: 800, PaymentMethod: "Credit Card"},
			wantErr: nil,
		},
		{
			name: "второй платеж закрывает договор",
			setupMocks: func(r *RepoMock) {
				r.On("SettlePayment", mock.Anything, 1, mock.Anything, "Bank Transfer", fixedNow).
					Return(&models.SettlementResult{
						Payment:           models.Payment{ID: 12, ContractID: 1, Amount: decimal.NewFromInt(1200)},
						ContractFullyPaid: true,
						RemainingBalance:  decimal.Zero,
					}, nil).Once()
			},
			req:      models.DummyPayment{ContractID: 1, Amount: 1200, PaymentMethod: "Bank Transfer"},
			wantErr:  nil,
			wantPaid: true,
		},
		{
			name:       "отрицательная сумма отклоняется без обращения к базе",
			setupMocks: func(_ *RepoMock) {},
			req:        models.DummyPayment{ContractID: 1, Amount: -5, PaymentMethod: "Cash"},
			wantErr:    errs.ErrInvalidArgument,
		},
		{
			name:       "недопустимый способ оплаты",
			setupMocks: func(_ *RepoMock) {},
			req:        models.DummyPayment{ContractID: 1, Amount: 100, PaymentMethod: "Bitcoin"},
			wantErr:    errs.ErrInvalidArgument,
		},
		{
			name: "просроченный срок отменяет договор",
			setupMocks: func(r *RepoMock) {
				r.On("SettlePayment", mock.Anything, 1, mock.Anything, "Cash", fixedNow).
					Return(nil, errs.ErrDeadlineExceeded).Once()
			},
			req:     models.DummyPayment{ContractID: 1, Amount: 100, PaymentMethod: "Cash"},
			wantErr: errs.ErrDeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := newTestService(repo)
			tt.setupMocks(repo)

			result, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantPaid, result.ContractFullyPaid)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestPaymentService_Validate(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(r *RepoMock)
		req         models.DummyValidatePayment
		wantValid   bool
		wantMessage string
	}{
		{
			name: "договор не найден",
			setupMocks: func(r *RepoMock) {
				r.On("GetContractBalance", mock.Anything, 99).Return(nil, errs.ErrNotFound).Once()
			},
			req:         models.DummyValidatePayment{ContractID: 99, Amount: 100},
			wantValid:   false,
			wantMessage: "contract not found",
		},
		{
			name: "отмененный договор",
			setupMocks: func(r *RepoMock) {
				c := openContract(2000)
				c.IsCancelled = true
				r.On("GetContractBalance", mock.Anything, 1).
					Return(&models.ContractBalance{Contract: c, TotalPaid: decimal.Zero}, nil).Once()
			},
			req:         models.DummyValidatePayment{ContractID: 1, Amount: 100},
			wantValid:   false,
			wantMessage: "contract is cancelled",
		},
		{
			name: "подписанный договор",
			setupMocks: func(r *RepoMock) {
				c := openContract(2000)
				c.IsSigned = true
				r.On("GetContractBalance", mock.Anything, 1).
					Return(&models.ContractBalance{Contract: c, TotalPaid: decimal.NewFromInt(2000)}, nil).Once()
			},
			req:         models.DummyValidatePayment{ContractID: 1, Amount: 100},
			wantValid:   false,
			wantMessage: "contract is already signed",
		},
		{
			name: "истекший срок ничего не отменяет",
			setupMocks: func(r *RepoMock) {
				c := openContract(2000)
				c.EndDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
				r.On("GetContractBalance", mock.Anything, 1).
					Return(&models.ContractBalance{Contract: c, TotalPaid: decimal.Zero}, nil).Once()
			},
			req:         models.DummyValidatePayment{ContractID: 1, Amount: 100},
			wantValid:   false,
			wantMessage: "payment deadline exceeded",
		},
		{
			name: "сумма превышает остаток",
			setupMocks: func(r *RepoMock) {
				r.On("GetContractBalance", mock.Anything, 1).
					Return(&models.ContractBalance{Contract: openContract(2000), TotalPaid: decimal.NewFromInt(1500)}, nil).Once()
			},
			req:         models.DummyValidatePayment{ContractID: 1, Amount: 600},
			wantValid:   false,
			wantMessage: "payment amount exceeds remaining balance",
		},
		{
			name: "валидный платеж",
			setupMocks: func(r *RepoMock) {
				r.On("GetContractBalance", mock.Anything, 1).
					Return(&models.ContractBalance{Contract: openContract(2000), TotalPaid: decimal.NewFromInt(800)}, nil).Once()
			},
			req:         models.DummyValidatePayment{ContractID: 1, Amount: 200},
			wantValid:   true,
			wantMessage: "payment is valid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := newTestService(repo)
			tt.setupMocks(repo)

			verdict, err := svc.Validate(context.Background(), tt.req)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantValid, verdict.IsValid)
			assert.Equal(t, tt.wantMessage, verdict.Message)
			repo.AssertExpectations(t)
		})
	}
}

func TestPaymentService_Validate_CompletionFlag(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	repo.On("GetContractBalance", mock.Anything, 1).
		Return(&models.ContractBalance{Contract: openContract(2000), TotalPaid: decimal.NewFromInt(800)}, nil).Once()

	verdict, err := svc.Validate(context.Background(), models.DummyValidatePayment{ContractID: 1, Amount: 1200})
	assert.NoError(t, err)
	assert.True(t, verdict.IsValid)
	assert.True(t, verdict.WouldCompletePaym)
	assert.True(t, verdict.RemainingBalance.IsZero())
	repo.AssertExpectations(t)
}

func TestPaymentService_ListForContract(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	repo.On("GetContractBalance", mock.Anything, 1).
		Return(&models.ContractBalance{Contract: openContract(2000), TotalPaid: decimal.Zero}, nil).Once()
	repo.On("ListPaymentsForContract", mock.Anything, 1).
		Return([]*models.Payment{{ID: 1, ContractID: 1}}, nil).Once()

	payments, err := svc.ListForContract(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, payments, 1)

	repo.On("GetContractBalance", mock.Anything, 99).Return(nil, errs.ErrNotFound).Once()
	_, err = svc.ListForContract(context.Background(), 99)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	repo.On("GetContractBalance", mock.Anything, 2).Return(nil, errors.New("db down")).Once()
	_, err = svc.ListForContract(context.Background(), 2)
	assert.Error(t, err)
	repo.AssertExpectations(t)
}
