package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/errs"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateDiscount(ctx context.Context, d models.Discount) (int, error) {
	args := m.Called(ctx, d)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListDiscounts(ctx context.Context) ([]*models.Discount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Discount), args.Error(1)
}
func (m *RepoMock) GetSoftwareByID(ctx context.Context, id int) (*models.Software, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Software), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func discountRequest() models.DummyDiscount {
	return models.DummyDiscount{
		Name:           "Summer Sale",
		Percentage:     15,
		StartDate:      "2025-06-01",
		EndDate:        "2025-08-31",
		IsForContracts: true,
	}
}

func TestDiscountService_Create(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		mutate     func(req *models.DummyDiscount)
		wantErr    error
	}{
		{
			name: "успешное создание общей скидки",
			setupMocks: func(r *RepoMock) {
				r.On("CreateDiscount", mock.Anything, mock.MatchedBy(func(d models.Discount) bool {
					return d.Name == "Summer Sale" && d.SoftwareID == nil
				})).Return(1, nil).Once()
			},
			mutate:  func(_ *models.DummyDiscount) {},
			wantErr: nil,
		},
		{
			name: "скидка на конкретный продукт",
			setupMocks: func(r *RepoMock) {
				r.On("GetSoftwareByID", mock.Anything, 7).
					Return(&models.Software{ID: 7, Name: "AccountingPro"}, nil).Once()
				r.On("CreateDiscount", mock.Anything, mock.MatchedBy(func(d models.Discount) bool {
					return d.SoftwareID != nil && *d.SoftwareID == 7
				})).Return(2, nil).Once()
			},
			mutate: func(req *models.DummyDiscount) {
				id := 7
				req.SoftwareID = &id
			},
			wantErr: nil,
		},
		{
			name: "несуществующий продукт отклоняется",
			setupMocks: func(r *RepoMock) {
				r.On("GetSoftwareByID", mock.Anything, 99).
					Return(nil, errs.ErrNotFound).Once()
			},
			mutate: func(req *models.DummyDiscount) {
				id := 99
				req.SoftwareID = &id
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name:       "некорректная дата начала",
			setupMocks: func(_ *RepoMock) {},
			mutate: func(req *models.DummyDiscount) {
				req.StartDate = "01.06.2025"
			},
			wantErr: errs.ErrInvalidArgument,
		},
		{
			name:       "окончание раньше начала",
			setupMocks: func(_ *RepoMock) {},
			mutate: func(req *models.DummyDiscount) {
				req.EndDate = "2025-05-01"
			},
			wantErr: errs.ErrInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := NewDiscountService(repo, newNoopLogger())
			tt.setupMocks(repo)

			req := discountRequest()
			tt.mutate(&req)

			discount, err := svc.Create(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, discount.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestDiscountService_List(t *testing.T) {
	repo := new(RepoMock)
	svc := NewDiscountService(repo, newNoopLogger())

	repo.On("ListDiscounts", mock.Anything).
		Return([]*models.Discount{{ID: 1, Name: "Summer Sale"}}, nil).Once()

	discounts, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, discounts, 1)
	repo.AssertExpectations(t)
}
