// Package services содержит бизнес-логику платежей: проведение платежа
// с контролем остатка и крайнего срока, пробную проверку без записи
// и выдачу истории платежей по договору.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/errs"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/money"
	"github.com/magabrotheeeer/license-backoffice/internal/metrics"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// PaymentRepository определяет методы для работы с платежами в хранилище.
type PaymentRepository interface {
	// SettlePayment проводит платеж в одной транзакции с блокировкой договора.
	SettlePayment(ctx context.Context, contractID int, amount decimal.Decimal, method string, now time.Time) (*models.SettlementResult, error)
	// GetContractBalance возвращает договор с суммой проведенных платежей.
	GetContractBalance(ctx context.Context, contractID int) (*models.ContractBalance, error)
	// ListPaymentsForContract возвращает все платежи по договору.
	ListPaymentsForContract(ctx context.Context, contractID int) ([]*models.Payment, error)
}

// PaymentService реализует бизнес-логику платежей.
type PaymentService struct {
	repo PaymentRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(repo PaymentRepository, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Create проводит платеж по договору.
//
// Проверки аргументов (сумма, способ оплаты) выполняются до обращения
// к хранилищу; остальные инварианты перепроверяются внутри транзакции
// проведения. Единственный путь отказа с побочным эффектом — истекший
// крайний срок: договор отменяется, отмена фиксируется, платеж не создается.
func (s *PaymentService) Create(ctx context.Context, req models.DummyPayment) (*models.SettlementResult, error) {
	amount := decimal.NewFromFloat(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", errs.ErrInvalidArgument)
	}
	if !models.IsAllowedPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: payment method %q is not allowed", errs.ErrInvalidArgument, req.PaymentMethod)
	}

	result, err := s.repo.SettlePayment(ctx, req.ContractID, amount, req.PaymentMethod, s.now())
	if err != nil {
		if errors.Is(err, errs.ErrDeadlineExceeded) {
			metrics.ContractsCancelled.Inc()
			s.log.Warn("contract auto-cancelled on late payment attempt",
				slog.Int("contract_id", req.ContractID))
		}
		return nil, err
	}

	metrics.PaymentsSettled.Inc()
	if result.ContractFullyPaid {
		metrics.ContractsSigned.Inc()
		s.log.Info("contract fully paid and signed", slog.Int("contract_id", req.ContractID))
	}
	s.log.Info("settled payment",
		slog.Int("payment_id", result.Payment.ID),
		slog.String("amount", result.Payment.Amount.StringFixed(2)))
	return result, nil
}

// Validate выполняет пробную проверку платежа без записи в базу.
// Правила те же, что и при проведении, но истекший срок здесь ничего
// не отменяет — операция строго читающая.
func (s *PaymentService) Validate(ctx context.Context, req models.DummyValidatePayment) (*models.PaymentVerdict, error) {
	amount := decimal.NewFromFloat(req.Amount)

	cb, err := s.repo.GetContractBalance(ctx, req.ContractID)
	if errors.Is(err, errs.ErrNotFound) {
		return &models.PaymentVerdict{IsValid: false, Message: "contract not found"}, nil
	}
	if err != nil {
		return nil, err
	}

	remaining := cb.Contract.Price.Sub(cb.TotalPaid)
	verdict := &models.PaymentVerdict{RemainingBalance: remaining}

	switch {
	case cb.Contract.IsCancelled:
		verdict.Message = "contract is cancelled"
	case cb.Contract.IsSigned:
		verdict.Message = "contract is already signed"
	case s.now().After(cb.Contract.EndDate):
		verdict.Message = "payment deadline exceeded"
	case !amount.IsPositive():
		verdict.Message = "payment amount must be positive"
	case amount.GreaterThan(remaining):
		verdict.Message = "payment amount exceeds remaining balance"
	default:
		verdict.IsValid = true
		verdict.Message = "payment is valid"
		verdict.RemainingBalance = remaining.Sub(amount)
		verdict.WouldCompletePaym = money.IsSettled(cb.Contract.Price, cb.TotalPaid.Add(amount))
	}
	return verdict, nil
}

// ListForContract возвращает все платежи по договору.
func (s *PaymentService) ListForContract(ctx context.Context, contractID int) ([]*models.Payment, error) {
	if _, err := s.repo.GetContractBalance(ctx, contractID); err != nil {
		return nil, err
	}
	return s.repo.ListPaymentsForContract(ctx, contractID)
}
