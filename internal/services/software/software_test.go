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

func (m *RepoMock) CreateSoftware(ctx context.Context, sw models.Software) (int, error) {
	args := m.Called(ctx, sw)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) SoftwareNameExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) GetSoftwareByID(ctx context.Context, id int) (*models.Software, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Software), args.Error(1)
}
func (m *RepoMock) ListSoftware(ctx context.Context, category string) ([]*models.Software, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Software), args.Error(1)
}
func (m *RepoMock) UpdateSoftware(ctx context.Context, id int, sw models.Software) (int, error) {
	args := m.Called(ctx, id, sw)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CountActiveContracts(ctx context.Context, softwareID int) (int, error) {
	args := m.Called(ctx, softwareID)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) DeleteSoftware(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func softwareRequest() models.DummySoftware {
	return models.DummySoftware{
		Name:              "AccountingPro",
		Description:       "Бухгалтерия для малого бизнеса",
		CurrentVersion:    "4.2",
		Category:          "Finance",
		AnnualLicenseCost: 5000,
	}
}

func TestSoftwareService_Create(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "успешное создание",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("SoftwareNameExists", mock.Anything, "AccountingPro").Return(false, nil).Once()
				r.On("CreateSoftware", mock.Anything, mock.MatchedBy(func(sw models.Software) bool {
					return sw.Name == "AccountingPro" &&
						sw.AnnualLicenseCost.Equal(decimal.NewFromInt(5000))
				})).Return(42, nil).Once()
				c.On("Set", "software:42", mock.Anything, time.Hour).Return(nil).Once()
			},
			wantErr: nil,
		},
		{
			name: "повторное имя отклоняется",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("SoftwareNameExists", mock.Anything, "AccountingPro").Return(true, nil).Once()
			},
			wantErr: errs.ErrConflict,
		},
		{
			name: "ошибка кеша не ломает создание",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("SoftwareNameExists", mock.Anything, "AccountingPro").Return(false, nil).Once()
				r.On("CreateSoftware", mock.Anything, mock.Anything).Return(7, nil).Once()
				c.On("Set", "software:7", mock.Anything, time.Hour).Return(errors.New("redis down")).Once()
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := NewSoftwareService(repo, cache, newNoopLogger())
			tt.setupMocks(repo, cache)

			sw, err := svc.Create(context.Background(), softwareRequest())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, sw.ID)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestSoftwareService_Read(t *testing.T) {
	t.Run("попадание в кеш не трогает базу", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewSoftwareService(repo, cache, newNoopLogger())

		cache.On("Get", "software:1", mock.Anything).Return(true, nil).Once()

		_, err := svc.Read(context.Background(), 1)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("промах кеша идет в базу и кеширует", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewSoftwareService(repo, cache, newNoopLogger())

		cache.On("Get", "software:1", mock.Anything).Return(false, nil).Once()
		repo.On("GetSoftwareByID", mock.Anything, 1).Return(&models.Software{
			ID: 1, Name: "AccountingPro",
		}, nil).Once()
		cache.On("Set", "software:1", mock.Anything, time.Hour).Return(nil).Once()

		sw, err := svc.Read(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, "AccountingPro", sw.Name)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})
}

func TestSoftwareService_Update(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewSoftwareService(repo, cache, newNoopLogger())

	newCost := 6500.0
	repo.On("GetSoftwareByID", mock.Anything, 1).Return(&models.Software{
		ID: 1, Name: "AccountingPro", Description: "old", CurrentVersion: "4.2",
		AnnualLicenseCost: decimal.NewFromInt(5000),
	}, nil).Once()
	repo.On("UpdateSoftware", mock.Anything, 1, mock.MatchedBy(func(sw models.Software) bool {
		return sw.CurrentVersion == "5.0" &&
			sw.Description == "old" &&
			sw.AnnualLicenseCost.Equal(decimal.NewFromFloat(6500))
	})).Return(1, nil).Once()
	cache.On("Invalidate", "software:1").Return(nil).Once()

	sw, err := svc.Update(context.Background(), 1, models.DummyUpdateSoftware{
		CurrentVersion:    "5.0",
		AnnualLicenseCost: &newCost,
	})
	assert.NoError(t, err)
	assert.Equal(t, "5.0", sw.CurrentVersion)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSoftwareService_Delete(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "успешное удаление",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CountActiveContracts", mock.Anything, 1).Return(0, nil).Once()
				r.On("DeleteSoftware", mock.Anything, 1).Return(1, nil).Once()
				c.On("Invalidate", "software:1").Return(nil).Once()
			},
			wantErr: nil,
		},
		{
			name: "активные договоры блокируют удаление",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("CountActiveContracts", mock.Anything, 1).Return(2, nil).Once()
			},
			wantErr: errs.ErrInvalidState,
		},
		{
			name: "несуществующий продукт",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("CountActiveContracts", mock.Anything, 1).Return(0, nil).Once()
				r.On("DeleteSoftware", mock.Anything, 1).Return(0, nil).Once()
			},
			wantErr: errs.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := NewSoftwareService(repo, cache, newNoopLogger())
			tt.setupMocks(repo, cache)

			err := svc.Delete(context.Background(), 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}
