package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/errs"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// CreateContract сохраняет новый договор и возвращает его ID.
func (s *Storage) CreateContract(ctx context.Context, c models.Contract) (int, error) {
	const op = "storage.CreateContract"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO contracts (client_id, software_id, software_version, start_date,
			      end_date, price, additional_support_years, is_signed, is_cancelled, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, FALSE, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		c.ClientID, c.SoftwareID, c.SoftwareVersion, c.StartDate, c.EndDate,
		c.Price, c.AdditionalSupportYears, c.CreatedAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// HasActiveContract проверяет, есть ли у клиента конфликтующий договор на тот же
// продукт: не отмененный и при этом либо неподписанный, либо еще не истекший.
func (s *Storage) HasActiveContract(ctx context.Context, clientID, softwareID int, now time.Time) (bool, error) {
	const op = "storage.HasActiveContract"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS(
			  SELECT 1 FROM contracts
			  WHERE client_id = $1 AND software_id = $2
			    AND NOT is_cancelled
			    AND (NOT is_signed OR end_date >= $3))`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, clientID, softwareID, now).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

const contractInfoQuery = `
	SELECT c.id,
	       CASE cl.type WHEN 'individual' THEN cl.first_name || ' ' || cl.last_name
	            ELSE cl.company_name END,
	       sw.name, c.software_version, c.start_date, c.end_date, c.price,
	       c.is_signed, c.is_cancelled,
	       COALESCE(SUM(p.amount), 0)
	FROM contracts c
	JOIN clients cl ON cl.id = c.client_id
	JOIN software sw ON sw.id = c.software_id
	LEFT JOIN payments p ON p.contract_id = c.id`

func scanContractInfo(row interface{ Scan(...any) error }) (*models.ContractInfo, error) {
	var info models.ContractInfo
	if err := row.Scan(&info.ID, &info.ClientName, &info.SoftwareName, &info.SoftwareVersion,
		&info.StartDate, &info.EndDate, &info.Price, &info.IsSigned, &info.IsCancelled,
		&info.TotalPaid); err != nil {
		return nil, err
	}
	info.RemainingAmount = info.Price.Sub(info.TotalPaid)
	return &info, nil
}

// GetContractInfo возвращает договор по ID вместе с именем клиента,
// названием продукта и состоянием оплаты.
func (s *Storage) GetContractInfo(ctx context.Context, id int) (*models.ContractInfo, error) {
	const op = "storage.GetContractInfo"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := contractInfoQuery + `
	WHERE c.id = $1
	GROUP BY c.id, cl.type, cl.first_name, cl.last_name, cl.company_name, sw.name`
	info, err := scanContractInfo(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return info, nil
}

// ListContractInfos возвращает все договоры с именами сторон и оплатой.
func (s *Storage) ListContractInfos(ctx context.Context) ([]*models.ContractInfo, error) {
	const op = "storage.ListContractInfos"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := contractInfoQuery + `
	GROUP BY c.id, cl.type, cl.first_name, cl.last_name, cl.company_name, sw.name
	ORDER BY c.id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var infos []*models.ContractInfo
	for rows.Next() {
		info, err := scanContractInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return infos, nil
}

// RemoveContract жестко удаляет договор; платежи удаляются каскадно.
// Возвращает количество удаленных строк.
func (s *Storage) RemoveContract(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveContract"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CancelExpiredContracts отменяет все неподписанные неотмененные договоры,
// чей крайний срок оплаты уже прошел, и возвращает их ID. Повторный запуск
// без новых просрочек возвращает пустой список.
func (s *Storage) CancelExpiredContracts(ctx context.Context, now time.Time) ([]int, error) {
	const op = "storage.CancelExpiredContracts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE contracts
			  SET is_cancelled = TRUE
			  WHERE NOT is_signed AND NOT is_cancelled AND end_date < $1
			  RETURNING id`
	rows, err := s.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}

// GetCancelledContractEvent собирает данные для уведомления клиента
// об отмене договора.
func (s *Storage) GetCancelledContractEvent(ctx context.Context, contractID int) (*models.CancelledContractEvent, error) {
	const op = "storage.GetCancelledContractEvent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id,
			      CASE cl.type WHEN 'individual' THEN cl.first_name || ' ' || cl.last_name
			           ELSE cl.company_name END,
			      cl.email, sw.name
			  FROM contracts c
			  JOIN clients cl ON cl.id = c.client_id
			  JOIN software sw ON sw.id = c.software_id
			  WHERE c.id = $1`
	var ev models.CancelledContractEvent
	err := s.DB.QueryRowContext(ctx, query, contractID).Scan(
		&ev.ContractID, &ev.ClientName, &ev.ClientEmail, &ev.SoftwareName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ev, nil
}
