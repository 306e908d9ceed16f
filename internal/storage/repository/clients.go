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

// CreateIndividualClient сохраняет нового клиента-физлицо и возвращает его ID.
func (s *Storage) CreateIndividualClient(ctx context.Context, c models.Client) (int, error) {
	const op = "storage.CreateIndividualClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO clients (type, first_name, last_name, pesel, address, email, phone, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		models.ClientTypeIndividual, c.Individual.FirstName, c.Individual.LastName,
		c.Individual.PESEL, c.Address, c.Email, c.Phone, c.CreatedAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CreateCompanyClient сохраняет нового клиента-компанию и возвращает его ID.
func (s *Storage) CreateCompanyClient(ctx context.Context, c models.Client) (int, error) {
	const op = "storage.CreateCompanyClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO clients (type, company_name, krs, address, email, phone, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		models.ClientTypeCompany, c.Company.CompanyName, c.Company.KRS,
		c.Address, c.Email, c.Phone, c.CreatedAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// PESELExists проверяет, занят ли номер PESEL.
func (s *Storage) PESELExists(ctx context.Context, pesel string) (bool, error) {
	const op = "storage.PESELExists"
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM clients WHERE pesel = $1)`, pesel).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// KRSExists проверяет, занят ли номер KRS.
func (s *Storage) KRSExists(ctx context.Context, krs string) (bool, error) {
	const op = "storage.KRSExists"
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM clients WHERE krs = $1)`, krs).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

func scanClient(row interface{ Scan(...any) error }) (*models.Client, error) {
	var (
		c                     models.Client
		firstName, lastName   sql.NullString
		pesel                 sql.NullString
		companyName, krs      sql.NullString
		createdAt             time.Time
	)
	if err := row.Scan(&c.ID, &c.Type, &firstName, &lastName, &pesel,
		&companyName, &krs, &c.Address, &c.Email, &c.Phone, &createdAt, &c.IsDeleted); err != nil {
		return nil, err
	}
	c.CreatedAt = createdAt
	switch c.Type {
	case models.ClientTypeIndividual:
		c.Individual = &models.IndividualData{
			FirstName: firstName.String,
			LastName:  lastName.String,
			PESEL:     pesel.String,
		}
	case models.ClientTypeCompany:
		c.Company = &models.CompanyData{
			CompanyName: companyName.String,
			KRS:         krs.String,
		}
	}
	return &c, nil
}

const clientColumns = `id, type, first_name, last_name, pesel, company_name, krs,
			      address, email, phone, created_at, is_deleted`

// GetClientByID возвращает клиента по ID, включая удаленных.
func (s *Storage) GetClientByID(ctx context.Context, id int) (*models.Client, error) {
	const op = "storage.GetClientByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	c, err := scanClient(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ListClients возвращает всех неудаленных клиентов.
func (s *Storage) ListClients(ctx context.Context) ([]*models.Client, error) {
	const op = "storage.ListClients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + clientColumns + ` FROM clients WHERE NOT is_deleted ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return clients, nil
}

// UpdateClient обновляет контактные данные клиента. Идентификационные номера
// не затрагиваются. Возвращает количество обновленных строк.
func (s *Storage) UpdateClient(ctx context.Context, id int, c models.Client) (int, error) {
	const op = "storage.UpdateClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var firstName, lastName, companyName any
	if c.Individual != nil {
		firstName, lastName = c.Individual.FirstName, c.Individual.LastName
	}
	if c.Company != nil {
		companyName = c.Company.CompanyName
	}

	query := `UPDATE clients
			  SET first_name = COALESCE($2, first_name),
			      last_name = COALESCE($3, last_name),
			      company_name = COALESCE($4, company_name),
			      address = $5, email = $6, phone = $7
			  WHERE id = $1 AND NOT is_deleted`
	result, err := s.DB.ExecContext(ctx, query, id, firstName, lastName, companyName,
		c.Address, c.Email, c.Phone)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SoftDeleteClient помечает клиента удаленным и необратимо затирает
// персональные поля сентинелом. Возвращает количество затронутых строк.
func (s *Storage) SoftDeleteClient(ctx context.Context, id int) (int, error) {
	const op = "storage.SoftDeleteClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE clients
			  SET is_deleted = TRUE,
			      first_name = CASE WHEN type = 'individual' THEN $2 ELSE first_name END,
			      last_name = CASE WHEN type = 'individual' THEN $2 ELSE last_name END,
			      company_name = CASE WHEN type = 'company' THEN $2 ELSE company_name END,
			      address = $2, email = $2, phone = $2
			  WHERE id = $1 AND NOT is_deleted`
	result, err := s.DB.ExecContext(ctx, query, id, models.DeletedSentinel)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// IsReturningClient сообщает, есть ли у клиента хотя бы один подписанный договор.
func (s *Storage) IsReturningClient(ctx context.Context, clientID int) (bool, error) {
	const op = "storage.IsReturningClient"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM contracts WHERE client_id = $1 AND is_signed)`,
		clientID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
