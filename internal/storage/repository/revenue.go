package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SumSignedContracts возвращает сумму цен подписанных неотмененных договоров,
// опционально отфильтрованных по продукту.
func (s *Storage) SumSignedContracts(ctx context.Context, softwareID *int) (decimal.Decimal, error) {
	const op = "storage.SumSignedContracts"
	select {
	case <-ctx.Done():
		return decimal.Zero, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(price), 0)
			  FROM contracts
			  WHERE is_signed AND NOT is_cancelled
			    AND ($1::int IS NULL OR software_id = $1)`
	var sum decimal.Decimal
	if err := s.DB.QueryRowContext(ctx, query, softwareID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	return sum, nil
}

// SumUnsignedActiveContracts возвращает сумму цен неподписанных неотмененных
// договоров с еще не истекшим сроком оплаты, опционально по продукту.
func (s *Storage) SumUnsignedActiveContracts(ctx context.Context, softwareID *int, now time.Time) (decimal.Decimal, error) {
	const op = "storage.SumUnsignedActiveContracts"
	select {
	case <-ctx.Done():
		return decimal.Zero, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(price), 0)
			  FROM contracts
			  WHERE NOT is_signed AND NOT is_cancelled AND end_date > $2
			    AND ($1::int IS NULL OR software_id = $1)`
	var sum decimal.Decimal
	if err := s.DB.QueryRowContext(ctx, query, softwareID, now).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	return sum, nil
}
