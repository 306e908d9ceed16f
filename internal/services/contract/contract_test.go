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

func (m *RepoMock) CreateContract(ctx context.Context, c models.Contract) (int, error) {
	args := m.Called(ctx, c)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) HasActiveContract(ctx context.Context, clientID, softwareID int, now time.Time) (bool, error) {
	args := m.Called(ctx, clientID, softwareID, now)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) GetContractInfo(ctx context.Context, id int) (*models.ContractInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContractInfo), args.Error(1)
}
func (m *RepoMock) ListContractInfos(ctx context.Context) ([]*models.ContractInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ContractInfo), args.Error(1)
}
func (m *RepoMock) RemoveContract(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CancelExpiredContracts(ctx context.Context, now time.Time) ([]int, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}
func (m *RepoMock) GetSoftwareByID(ctx context.Context, id int) (*models.Software, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Software), args.Error(1)
}
func (m *RepoMock) GetClientByID(ctx context.Context, id int) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}
func (m *RepoMock) BestContractDiscount(ctx context.Context, softwareID int, now time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, softwareID, now)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type OracleMock struct{ mock.Mock }

func (m *OracleMock) IsReturning(ctx context.Context, clientID int) (bool, error) {
	args := m.Called(ctx, clientID)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *RepoMock, oracle *OracleMock) *ContractService {
	svc := NewContractService(repo, oracle, newNoopLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func validRequest() models.DummyContract {
	return models.DummyContract{
		ClientID:               1,
		SoftwareID:             2,
		SoftwareVersion:        "4.2",
		StartDate:              "2025-06-05",
		EndDate:                "2025-06-15",
		AdditionalSupportYears: 0,
	}
}

func activeClient() *models.Client {
	return &models.Client{
		ID:   1,
		Type: models.ClientTypeIndividual,
		Individual: &models.IndividualData{
			FirstName: "Jan",
			LastName:  "Kowalski",
			PESEL:     "12345678901",
		},
	}
}

func TestContractService_Create_DateWindow(t *testing.T) {
	tests := []struct {
		name      string
		startDate string
		endDate   string
		wantErr   error
	}{
		{
			name:      "окно ровно 3 дня проходит",
			startDate: "2025-06-05",
			endDate:   "2025-06-08",
			wantErr:   nil,
		},
		{
			name:      "окно ровно 30 дней проходит",
			startDate: "2025-06-05",
			endDate:   "2025-07-05",
			wantErr:   nil,
		},
		{
			name:      "окно 2 дня отклоняется",
			startDate: "2025-06-05",
			endDate:   "2025-06-07",
			wantErr:   errs.ErrInvalidRange,
		},
		{
			name:      "окно 31 день отклоняется",
			startDate: "2025-06-05",
			endDate:   "2025-07-06",
			wantErr:   errs.ErrInvalidRange,
		},
		{
			name:      "дата начала в прошлом отклоняется",
			startDate: "2025-05-20",
			endDate:   "2025-05-30",
			wantErr:   errs.ErrInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			oracle := new(OracleMock)
			svc := newTestService(repo, oracle)

			if tt.wantErr == nil {
				repo.On("GetSoftwareByID", mock.Anything, 2).Return(&models.Software{
					ID: 2, Name: "AccountingPro", AnnualLicenseCost: decimal.NewFromInt(1000),
				}, nil).Once()
				repo.On("GetClientByID", mock.Anything, 1).Return(activeClient(), nil).Once()
				repo.On("HasActiveContract", mock.Anything, 1, 2, fixedNow).Return(false, nil).Once()
				repo.On("BestContractDiscount", mock.Anything, 2, fixedNow).Return(decimal.Zero, nil).Once()
				oracle.On("IsReturning", mock.Anything, 1).Return(false, nil).Once()
				repo.On("CreateContract", mock.Anything, mock.Anything).Return(10, nil).Once()
				repo.On("GetContractInfo", mock.Anything, 10).Return(&models.ContractInfo{ID: 10}, nil).Once()
			}

			req := validRequest()
			req.StartDate = tt.startDate
			req.EndDate = tt.endDate

			_, err := svc.Create(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestContractService_Create_Pricing(t *testing.T) {
	tests := []struct {
		name         string
		annualCost   decimal.Decimal
		supportYears int
		bestDiscount decimal.Decimal
		returning    bool
		wantPrice    string
	}{
		{
			name:         "без скидок, два года поддержки",
			annualCost:   decimal.NewFromInt(5000),
			supportYears: 2,
			bestDiscount: decimal.Zero,
			returning:    false,
			wantPrice:    "7000",
		},
		{
			name:         "только надбавка возвращающегося клиента",
			annualCost:   decimal.NewFromInt(1000),
			supportYears: 0,
			bestDiscount: decimal.Zero,
			returning:    true,
			wantPrice:    "950",
		},
		{
			name:         "берется максимальная скидка плюс 5",
			annualCost:   decimal.NewFromInt(2000),
			supportYears: 1,
			bestDiscount: decimal.NewFromInt(20),
			returning:    true,
			wantPrice:    "2250",
		},
		{
			name:         "итоговая скидка не превышает 100",
			annualCost:   decimal.NewFromInt(3000),
			supportYears: 0,
			bestDiscount: decimal.NewFromInt(98),
			returning:    true,
			wantPrice:    "0",
		},
		{
			name:         "дробная цена округляется до двух знаков",
			annualCost:   decimal.NewFromFloat(999.99),
			supportYears: 0,
			bestDiscount: decimal.NewFromInt(33),
			returning:    false,
			wantPrice:    "669.99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			oracle := new(OracleMock)
			svc := newTestService(repo, oracle)

			repo.On("GetSoftwareByID", mock.Anything, 2).Return(&models.Software{
				ID: 2, Name: "AccountingPro", AnnualLicenseCost: tt.annualCost,
			}, nil).Once()
			repo.On("GetClientByID", mock.Anything, 1).Return(activeClient(), nil).Once()
			repo.On("HasActiveContract", mock.Anything, 1, 2, fixedNow).Return(false, nil).Once()
			repo.On("BestContractDiscount", mock.Anything, 2, fixedNow).Return(tt.bestDiscount, nil).Once()
			oracle.On("IsReturning", mock.Anything, 1).Return(tt.returning, nil).Once()

			want, _ := decimal.NewFromString(tt.wantPrice)
			repo.On("CreateContract", mock.Anything, mock.MatchedBy(func(c models.Contract) bool {
				return c.Price.Equal(want)
			})).Return(10, nil).Once()
			repo.On("GetContractInfo", mock.Anything, 10).Return(&models.ContractInfo{ID: 10, Price: want}, nil).Once()

			req := validRequest()
			req.AdditionalSupportYears = tt.supportYears

			info, err := svc.Create(context.Background(), req)
			assert.NoError(t, err)
			assert.True(t, info.Price.Equal(want), "price = %s, want %s", info.Price, want)
			repo.AssertExpectations(t)
			oracle.AssertExpectations(t)
		})
	}
}

func TestContractService_Create_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, o *OracleMock)
		mutate     func(req *models.DummyContract)
		wantErr    error
	}{
		{
			name:       "кривая дата начала",
			setupMocks: func(_ *RepoMock, _ *OracleMock) {},
			mutate:     func(req *models.DummyContract) { req.StartDate = "not-a-date" },
			wantErr:    errs.ErrInvalidArgument,
		},
		{
			name:       "слишком много лет поддержки",
			setupMocks: func(_ *RepoMock, _ *OracleMock) {},
			mutate:     func(req *models.DummyContract) { req.AdditionalSupportYears = 4 },
			wantErr:    errs.ErrInvalidRange,
		},
		{
			name: "продукт не найден",
			setupMocks: func(r *RepoMock, _ *OracleMock) {
				r.On("GetSoftwareByID", mock.Anything, 2).Return(nil, errs.ErrNotFound).Once()
			},
			mutate:  func(_ *models.DummyContract) {},
			wantErr: errs.ErrNotFound,
		},
		{
			name: "клиент удален",
			setupMocks: func(r *RepoMock, _ *OracleMock) {
				r.On("GetSoftwareByID", mock.Anything, 2).Return(&models.Software{
					ID: 2, AnnualLicenseCost: decimal.NewFromInt(1000),
				}, nil).Once()
				deleted := activeClient()
				deleted.IsDeleted = true
				r.On("GetClientByID", mock.Anything, 1).Return(deleted, nil).Once()
			},
			mutate:  func(_ *models.DummyContract) {},
			wantErr: errs.ErrInvalidState,
		},
		{
			name: "уже есть активный договор на этот продукт",
			setupMocks: func(r *RepoMock, _ *OracleMock) {
				r.On("GetSoftwareByID", mock.Anything, 2).Return(&models.Software{
					ID: 2, AnnualLicenseCost: decimal.NewFromInt(1000),
				}, nil).Once()
				r.On("GetClientByID", mock.Anything, 1).Return(activeClient(), nil).Once()
				r.On("HasActiveContract", mock.Anything, 1, 2, fixedNow).Return(true, nil).Once()
			},
			mutate:  func(_ *models.DummyContract) {},
			wantErr: errs.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			oracle := new(OracleMock)
			svc := newTestService(repo, oracle)
			tt.setupMocks(repo, oracle)

			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertExpectations(t)
		})
	}
}

func TestContractService_Remove(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo, new(OracleMock))

	repo.On("RemoveContract", mock.Anything, 5).Return(1, nil).Once()
	count, err := svc.Remove(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	repo.On("RemoveContract", mock.Anything, 6).Return(0, nil).Once()
	_, err = svc.Remove(context.Background(), 6)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestContractService_CancelExpired(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo, new(OracleMock))

	repo.On("CancelExpiredContracts", mock.Anything, fixedNow).Return([]int{3, 7}, nil).Once()
	ids, err := svc.CancelExpired(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []int{3, 7}, ids)

	repo.On("CancelExpiredContracts", mock.Anything, fixedNow).Return(nil, errors.New("db down")).Once()
	_, err = svc.CancelExpired(context.Background())
	assert.Error(t, err)
	repo.AssertExpectations(t)
}
