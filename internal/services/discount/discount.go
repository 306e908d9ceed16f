// Package services содержит бизнес-логику управления скидками.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/errs"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// DiscountRepository определяет методы для работы со скидками в хранилище.
type DiscountRepository interface {
	CreateDiscount(ctx context.Context, d models.Discount) (int, error)
	ListDiscounts(ctx context.Context) ([]*models.Discount, error)
	GetSoftwareByID(ctx context.Context, id int) (*models.Software, error)
}

// DiscountService реализует бизнес-логику скидок.
type DiscountService struct {
	repo DiscountRepository
	log  *slog.Logger
}

// NewDiscountService создает новый экземпляр DiscountService.
func NewDiscountService(repo DiscountRepository, log *slog.Logger) *DiscountService {
	return &DiscountService{
		repo: repo,
		log:  log,
	}
}

// Create создает новую скидку. Скидка без software_id действует на все
// продукты, с software_id — только на указанный.
func (s *DiscountService) Create(ctx context.Context, req models.DummyDiscount) (*models.Discount, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date", errs.ErrInvalidArgument)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date", errs.ErrInvalidArgument)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date must not precede start date", errs.ErrInvalidRange)
	}

	if req.SoftwareID != nil {
		if _, err := s.repo.GetSoftwareByID(ctx, *req.SoftwareID); err != nil {
			return nil, fmt.Errorf("software %d: %w", *req.SoftwareID, err)
		}
	}

	discount := models.Discount{
		Name:           req.Name,
		Percentage:     decimal.NewFromFloat(req.Percentage),
		StartDate:      startDate,
		EndDate:        endDate,
		IsForContracts: req.IsForContracts,
		SoftwareID:     req.SoftwareID,
	}
	id, err := s.repo.CreateDiscount(ctx, discount)
	if err != nil {
		return nil, err
	}
	discount.ID = id
	s.log.Info("created new discount",
		slog.Int("id", id),
		slog.String("percentage", discount.Percentage.StringFixed(2)))
	return &discount, nil
}

// List возвращает все скидки.
func (s *DiscountService) List(ctx context.Context) ([]*models.Discount, error) {
	return s.repo.ListDiscounts(ctx)
}
