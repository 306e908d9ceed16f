package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// CreateDiscount сохраняет новую скидку и возвращает её ID.
func (s *Storage) CreateDiscount(ctx context.Context, d models.Discount) (int, error) {
	const op = "storage.CreateDiscount"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO discounts (name, percentage, start_date, end_date, is_for_contracts, software_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		d.Name, d.Percentage, d.StartDate, d.EndDate, d.IsForContracts, d.SoftwareID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListDiscounts возвращает все скидки.
func (s *Storage) ListDiscounts(ctx context.Context) ([]*models.Discount, error) {
	const op = "storage.ListDiscounts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, percentage, start_date, end_date, is_for_contracts, software_id
			  FROM discounts ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var discounts []*models.Discount
	for rows.Next() {
		var d models.Discount
		if err := rows.Scan(&d.ID, &d.Name, &d.Percentage, &d.StartDate, &d.EndDate,
			&d.IsForContracts, &d.SoftwareID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		discounts = append(discounts, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return discounts, nil
}

// BestContractDiscount возвращает максимальный процент среди скидок на договоры,
// действующих в момент now для данного продукта (включая глобальные скидки).
// Если подходящих скидок нет, возвращает ноль.
func (s *Storage) BestContractDiscount(ctx context.Context, softwareID int, now time.Time) (decimal.Decimal, error) {
	const op = "storage.BestContractDiscount"
	select {
	case <-ctx.Done():
		return decimal.Zero, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(MAX(percentage), 0)
			  FROM discounts
			  WHERE is_for_contracts
			    AND (software_id IS NULL OR software_id = $1)
			    AND start_date <= $2 AND end_date >= $2`
	var best decimal.Decimal
	if err := s.DB.QueryRowContext(ctx, query, softwareID, now).Scan(&best); err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	return best, nil
}
