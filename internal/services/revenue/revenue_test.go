package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/currency"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/errs"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) SumSignedContracts(ctx context.Context, softwareID *int) (decimal.Decimal, error) {
	args := m.Called(ctx, softwareID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *RepoMock) SumUnsignedActiveContracts(ctx context.Context, softwareID *int, now time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, softwareID, now)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var fixedNow = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

func newTestService(repo *RepoMock) *RevenueService {
	svc := NewRevenueService(repo, currency.NewStaticTable(), newNoopLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestRevenueService_Calculate(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		query      models.RevenueQuery
		wantAmount string
	}{
		{
			name: "текущая выручка в базовой валюте",
			setupMocks: func(r *RepoMock) {
				r.On("SumSignedContracts", mock.Anything, (*int)(nil)).
					Return(decimal.NewFromInt(10000), nil).Once()
			},
			query:      models.RevenueQuery{RevenueType: models.RevenueCurrent, Currency: "PLN"},
			wantAmount: "10000",
		},
		{
			name: "текущая выручка в долларах",
			setupMocks: func(r *RepoMock) {
				r.On("SumSignedContracts", mock.Anything, (*int)(nil)).
					Return(decimal.NewFromInt(10000), nil).Once()
			},
			query:      models.RevenueQuery{RevenueType: models.RevenueCurrent, Currency: "USD"},
			wantAmount: "2500",
		},
		{
			name: "прогноз добавляет неподписанные договоры",
			setupMocks: func(r *RepoMock) {
				r.On("SumSignedContracts", mock.Anything, (*int)(nil)).
					Return(decimal.NewFromInt(10000), nil).Once()
				r.On("SumUnsignedActiveContracts", mock.Anything, (*int)(nil), fixedNow).
					Return(decimal.NewFromInt(4000), nil).Once()
			},
			query:      models.RevenueQuery{RevenueType: models.RevenuePredicted, Currency: "PLN"},
			wantAmount: "14000",
		},
		{
			name: "неизвестная валюта идет по курсу 1",
			setupMocks: func(r *RepoMock) {
				r.On("SumSignedContracts", mock.Anything, (*int)(nil)).
					Return(decimal.NewFromInt(500), nil).Once()
			},
			query:      models.RevenueQuery{RevenueType: models.RevenueCurrent, Currency: "JPY"},
			wantAmount: "500",
		},
		{
			name: "пересчет в евро округляется до двух знаков",
			setupMocks: func(r *RepoMock) {
				r.On("SumSignedContracts", mock.Anything, (*int)(nil)).
					Return(decimal.NewFromFloat(333.33), nil).Once()
			},
			query:      models.RevenueQuery{RevenueType: models.RevenueCurrent, Currency: "EUR"},
			wantAmount: "76.67",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := newTestService(repo)
			tt.setupMocks(repo)

			report, err := svc.Calculate(context.Background(), tt.query)
			assert.NoError(t, err)

			want, _ := decimal.NewFromString(tt.wantAmount)
			assert.True(t, report.Amount.Equal(want), "amount = %s, want %s", report.Amount, want)
			assert.Equal(t, tt.query.Currency, report.Currency)
			repo.AssertExpectations(t)
		})
	}
}

func TestRevenueService_Calculate_UnknownType(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	_, err := svc.Calculate(context.Background(), models.RevenueQuery{RevenueType: "Quarterly", Currency: "PLN"})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	repo.AssertExpectations(t)
}

func TestRevenueService_Calculate_SoftwareFilter(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	softwareID := 7
	repo.On("SumSignedContracts", mock.Anything, &softwareID).
		Return(decimal.NewFromInt(1000), nil).Once()
	repo.On("SumUnsignedActiveContracts", mock.Anything, &softwareID, fixedNow).
		Return(decimal.NewFromInt(200), nil).Once()

	report, err := svc.Calculate(context.Background(), models.RevenueQuery{
		RevenueType: models.RevenuePredicted,
		Currency:    "GBP",
		SoftwareID:  &softwareID,
	})
	assert.NoError(t, err)
	assert.True(t, report.Amount.Equal(decimal.NewFromInt(240)))
	repo.AssertExpectations(t)
}
