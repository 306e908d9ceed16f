package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/errs"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/money"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// SettlePayment проводит платеж по договору в одной транзакции.
//
// Строка договора блокируется через SELECT ... FOR UPDATE, после чего все
// инварианты перепроверяются уже под блокировкой: договор существует, не
// отменен, не подписан, срок оплаты не истек, сумма не превышает остаток.
// Если срок истек, договор отменяется, отмена фиксируется и возвращается
// errs.ErrDeadlineExceeded — это единственный путь отказа с побочным
// эффектом. Любой другой отказ откатывает транзакцию целиком.
//
// Когда накопленные платежи достигают цены в пределах допуска 0.01,
// договор помечается подписанным в той же транзакции.
func (s *Storage) SettlePayment(ctx context.Context, contractID int, amount decimal.Decimal, method string, now time.Time) (*models.SettlementResult, error) {
	const op = "storage.SettlePayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		price       decimal.Decimal
		endDate     time.Time
		isSigned    bool
		isCancelled bool
	)
	err = tx.QueryRowContext(ctx,
		`SELECT price, end_date, is_signed, is_cancelled FROM contracts WHERE id = $1 FOR UPDATE`,
		contractID).Scan(&price, &endDate, &isSigned, &isCancelled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: contract %d: %w", op, contractID, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if isCancelled {
		return nil, fmt.Errorf("%s: %w: contract is cancelled", op, errs.ErrInvalidState)
	}
	if isSigned {
		return nil, fmt.Errorf("%s: %w: contract is already signed", op, errs.ErrInvalidState)
	}

	if now.After(endDate) {
		if _, err := tx.ExecContext(ctx,
			`UPDATE contracts SET is_cancelled = TRUE WHERE id = $1`, contractID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: %w", op, errs.ErrDeadlineExceeded)
	}

	var totalPaid decimal.Decimal
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE contract_id = $1`,
		contractID).Scan(&totalPaid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	remaining := price.Sub(totalPaid)
	if amount.GreaterThan(remaining) {
		return nil, fmt.Errorf("%s: %w: payment amount exceeds remaining balance", op, errs.ErrInvalidState)
	}

	var paymentID int
	err = tx.QueryRowContext(ctx,
		`INSERT INTO payments (contract_id, amount, payment_date, payment_method)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		contractID, amount, now, method).Scan(&paymentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	newTotal := totalPaid.Add(amount)
	fullyPaid := money.IsSettled(price, newTotal)
	if fullyPaid {
		if _, err := tx.ExecContext(ctx,
			`UPDATE contracts SET is_signed = TRUE WHERE id = $1`, contractID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	newRemaining := price.Sub(newTotal)
	if fullyPaid {
		newRemaining = decimal.Zero
	}
	return &models.SettlementResult{
		Payment: models.Payment{
			ID:            paymentID,
			ContractID:    contractID,
			Amount:        amount,
			PaymentDate:   now,
			PaymentMethod: method,
		},
		ContractFullyPaid: fullyPaid,
		RemainingBalance:  newRemaining,
	}, nil
}

// GetContractBalance возвращает договор вместе с суммой проведенных платежей.
func (s *Storage) GetContractBalance(ctx context.Context, contractID int) (*models.ContractBalance, error) {
	const op = "storage.GetContractBalance"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.client_id, c.software_id, c.software_version, c.start_date,
			      c.end_date, c.price, c.additional_support_years, c.is_signed,
			      c.is_cancelled, c.created_at,
			      COALESCE(SUM(p.amount), 0)
			  FROM contracts c
			  LEFT JOIN payments p ON p.contract_id = c.id
			  WHERE c.id = $1
			  GROUP BY c.id`
	var cb models.ContractBalance
	err := s.DB.QueryRowContext(ctx, query, contractID).Scan(
		&cb.Contract.ID, &cb.Contract.ClientID, &cb.Contract.SoftwareID,
		&cb.Contract.SoftwareVersion, &cb.Contract.StartDate, &cb.Contract.EndDate,
		&cb.Contract.Price, &cb.Contract.AdditionalSupportYears, &cb.Contract.IsSigned,
		&cb.Contract.IsCancelled, &cb.Contract.CreatedAt, &cb.TotalPaid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: contract %d: %w", op, contractID, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cb, nil
}

// ListPaymentsForContract возвращает все платежи по договору.
// Порядок по id, что совпадает с порядком создания, но не гарантируется контрактом.
func (s *Storage) ListPaymentsForContract(ctx context.Context, contractID int) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsForContract"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, contract_id, amount, payment_date, payment_method
			  FROM payments
			  WHERE contract_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, contractID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.ContractID, &p.Amount, &p.PaymentDate, &p.PaymentMethod); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}
