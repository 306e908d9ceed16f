package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/errs"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// CreateSoftware сохраняет новый программный продукт и возвращает его ID.
func (s *Storage) CreateSoftware(ctx context.Context, sw models.Software) (int, error) {
	const op = "storage.CreateSoftware"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO software (name, description, current_version, category, annual_license_cost)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sw.Name, sw.Description, sw.CurrentVersion, sw.Category, sw.AnnualLicenseCost).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// SoftwareNameExists проверяет, занято ли имя продукта без учета регистра.
func (s *Storage) SoftwareNameExists(ctx context.Context, name string) (bool, error) {
	const op = "storage.SoftwareNameExists"
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM software WHERE LOWER(name) = LOWER($1))`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

const softwareColumns = `id, name, description, current_version, category, annual_license_cost`

func scanSoftware(row interface{ Scan(...any) error }) (*models.Software, error) {
	var sw models.Software
	if err := row.Scan(&sw.ID, &sw.Name, &sw.Description, &sw.CurrentVersion,
		&sw.Category, &sw.AnnualLicenseCost); err != nil {
		return nil, err
	}
	return &sw, nil
}

// GetSoftwareByID возвращает продукт по ID.
func (s *Storage) GetSoftwareByID(ctx context.Context, id int) (*models.Software, error) {
	const op = "storage.GetSoftwareByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + softwareColumns + ` FROM software WHERE id = $1`
	sw, err := scanSoftware(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sw, nil
}

// ListSoftware возвращает все продукты, при непустой категории — только её
// (без учета регистра).
func (s *Storage) ListSoftware(ctx context.Context, category string) ([]*models.Software, error) {
	const op = "storage.ListSoftware"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + softwareColumns + ` FROM software
			  WHERE $1 = '' OR LOWER(category) = LOWER($1)
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var list []*models.Software
	for rows.Next() {
		sw, err := scanSoftware(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		list = append(list, sw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// UpdateSoftware частично обновляет продукт. Возвращает количество строк.
func (s *Storage) UpdateSoftware(ctx context.Context, id int, sw models.Software) (int, error) {
	const op = "storage.UpdateSoftware"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE software
			  SET description = $2, current_version = $3, annual_license_cost = $4
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id, sw.Description, sw.CurrentVersion, sw.AnnualLicenseCost)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CountActiveContracts возвращает количество неотмененных договоров на продукт.
func (s *Storage) CountActiveContracts(ctx context.Context, softwareID int) (int, error) {
	const op = "storage.CountActiveContracts"
	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contracts WHERE software_id = $1 AND NOT is_cancelled`,
		softwareID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// DeleteSoftware удаляет продукт. Возвращает количество удаленных строк.
func (s *Storage) DeleteSoftware(ctx context.Context, id int) (int, error) {
	const op = "storage.DeleteSoftware"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM software WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
