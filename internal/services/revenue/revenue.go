// Package services содержит бизнес-логику отчетов о выручке.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/currency"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/errs"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/money"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// RevenueRepository определяет агрегирующие запросы по договорам.
type RevenueRepository interface {
	// SumSignedContracts возвращает сумму цен подписанных неотмененных договоров.
	SumSignedContracts(ctx context.Context, softwareID *int) (decimal.Decimal, error)
	// SumUnsignedActiveContracts возвращает сумму цен еще оплачиваемых договоров.
	SumUnsignedActiveContracts(ctx context.Context, softwareID *int, now time.Time) (decimal.Decimal, error)
}

// RevenueService считает текущую и прогнозируемую выручку с пересчетом валюты.
type RevenueService struct {
	repo  RevenueRepository
	rates currency.RateProvider
	log   *slog.Logger
	now   func() time.Time
}

// NewRevenueService создает новый экземпляр RevenueService.
func NewRevenueService(repo RevenueRepository, rates currency.RateProvider, log *slog.Logger) *RevenueService {
	return &RevenueService{
		repo:  repo,
		rates: rates,
		log:   log,
		now:   time.Now,
	}
}

// Calculate считает выручку по запросу.
//
// Current — сумма цен подписанных неотмененных договоров.
// Predicted — Current плюс цены неподписанных неотмененных договоров
// с еще не истекшим сроком оплаты. Итог умножается на курс запрошенной
// валюты и округляется до двух знаков.
func (s *RevenueService) Calculate(ctx context.Context, query models.RevenueQuery) (*models.RevenueReport, error) {
	if query.RevenueType != models.RevenueCurrent && query.RevenueType != models.RevenuePredicted {
		return nil, fmt.Errorf("%w: unknown revenue type %q", errs.ErrInvalidArgument, query.RevenueType)
	}

	total, err := s.repo.SumSignedContracts(ctx, query.SoftwareID)
	if err != nil {
		return nil, err
	}
	if query.RevenueType == models.RevenuePredicted {
		unsigned, err := s.repo.SumUnsignedActiveContracts(ctx, query.SoftwareID, s.now())
		if err != nil {
			return nil, err
		}
		total = total.Add(unsigned)
	}

	rate := s.rates.Rate(query.Currency)
	return &models.RevenueReport{
		Amount:          money.Round2(total.Mul(rate)),
		Currency:        query.Currency,
		CalculationType: query.RevenueType,
	}, nil
}
