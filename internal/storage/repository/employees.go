package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/errs"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// RegisterEmployee сохраняет нового сотрудника и возвращает его uid.
func (s *Storage) RegisterEmployee(ctx context.Context, e models.Employee) (string, error) {
	const op = "storage.RegisterEmployee"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO employees (uid, email, username, password_hash, role, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid`
	var newUID string
	if err := s.DB.QueryRowContext(ctx, query,
		e.UID, e.Email, e.Username, e.PasswordHash, e.Role, e.CreatedAt).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetEmployeeByUsername возвращает сотрудника по имени пользователя.
func (s *Storage) GetEmployeeByUsername(ctx context.Context, username string) (*models.Employee, error) {
	const op = "storage.GetEmployeeByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, created_at
			  FROM employees
			  WHERE username = $1`
	e := &models.Employee{}
	err := s.DB.QueryRowContext(ctx, query, username).Scan(
		&e.UID, &e.Email, &e.Username, &e.PasswordHash, &e.Role, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}
