// Package services содержит бизнес-логику договоров: валидацию запроса,
// расчет цены со скидками и отмену просроченных договоров.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/errs"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/money"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// ContractRepository определяет методы для работы с договорами в хранилище.
type ContractRepository interface {
	// CreateContract добавляет новый договор и возвращает его ID.
	CreateContract(ctx context.Context, c models.Contract) (int, error)
	// HasActiveContract проверяет наличие конфликтующего договора на пару клиент+ПО.
	HasActiveContract(ctx context.Context, clientID, softwareID int, now time.Time) (bool, error)
	// GetContractInfo возвращает договор с именами сторон и оплатой.
	GetContractInfo(ctx context.Context, id int) (*models.ContractInfo, error)
	// ListContractInfos возвращает все договоры.
	ListContractInfos(ctx context.Context) ([]*models.ContractInfo, error)
	// RemoveContract жестко удаляет договор, возвращает количество строк.
	RemoveContract(ctx context.Context, id int) (int, error)
	// CancelExpiredContracts отменяет просроченные неподписанные договоры.
	CancelExpiredContracts(ctx context.Context, now time.Time) ([]int, error)
	// GetSoftwareByID возвращает продукт по ID.
	GetSoftwareByID(ctx context.Context, id int) (*models.Software, error)
	// GetClientByID возвращает клиента по ID.
	GetClientByID(ctx context.Context, id int) (*models.Client, error)
	// BestContractDiscount возвращает максимальный действующий процент скидки.
	BestContractDiscount(ctx context.Context, softwareID int, now time.Time) (decimal.Decimal, error)
}

// ReturningClientOracle отвечает на вопрос, является ли клиент возвращающимся.
// В боевой конфигурации это реестр клиентов, сверяющийся с историей
// подписанных договоров.
type ReturningClientOracle interface {
	IsReturning(ctx context.Context, clientID int) (bool, error)
}

// ContractService реализует бизнес-логику договоров.
type ContractService struct {
	repo   ContractRepository
	oracle ReturningClientOracle
	log    *slog.Logger
	now    func() time.Time
}

// NewContractService создает новый экземпляр ContractService.
func NewContractService(repo ContractRepository, oracle ReturningClientOracle, log *slog.Logger) *ContractService {
	return &ContractService{
		repo:   repo,
		oracle: oracle,
		log:    log,
		now:    time.Now,
	}
}

// Create валидирует запрос, считает итоговую цену и сохраняет договор.
//
// Порядок проверок фиксирован: окно дат, дата начала, годы поддержки,
// существование продукта, существование и состояние клиента, отсутствие
// конфликтующего договора. Каждая проверка дает свой класс ошибки.
func (s *ContractService) Create(ctx context.Context, req models.DummyContract) (*models.ContractInfo, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date", errs.ErrInvalidArgument)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date", errs.ErrInvalidArgument)
	}
	now := s.now()

	days := int(endDate.Sub(startDate).Hours() / 24)
	if days < models.MinContractDays || days > models.MaxContractDays {
		return nil, fmt.Errorf("%w: contract duration must be between %d and %d days",
			errs.ErrInvalidRange, models.MinContractDays, models.MaxContractDays)
	}
	today := now.UTC().Truncate(24 * time.Hour)
	if startDate.Before(today) {
		return nil, fmt.Errorf("%w: start date must not be in the past", errs.ErrInvalidRange)
	}
	if req.AdditionalSupportYears < 0 || req.AdditionalSupportYears > models.MaxSupportYears {
		return nil, fmt.Errorf("%w: additional support years must be between 0 and %d",
			errs.ErrInvalidRange, models.MaxSupportYears)
	}

	software, err := s.repo.GetSoftwareByID(ctx, req.SoftwareID)
	if err != nil {
		return nil, fmt.Errorf("software %d: %w", req.SoftwareID, err)
	}
	client, err := s.repo.GetClientByID(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("client %d: %w", req.ClientID, err)
	}
	if client.IsDeleted {
		return nil, fmt.Errorf("%w: client is deleted", errs.ErrInvalidState)
	}

	hasActive, err := s.repo.HasActiveContract(ctx, req.ClientID, req.SoftwareID, now)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, fmt.Errorf("%w: client already has an active contract for this software",
			errs.ErrConflict)
	}

	price, err := s.calculatePrice(ctx, software, req.ClientID, req.AdditionalSupportYears, now)
	if err != nil {
		return nil, err
	}

	contract := models.Contract{
		ClientID:               req.ClientID,
		SoftwareID:             req.SoftwareID,
		SoftwareVersion:        req.SoftwareVersion,
		StartDate:              startDate,
		EndDate:                endDate,
		Price:                  price,
		AdditionalSupportYears: req.AdditionalSupportYears,
		CreatedAt:              now,
	}
	id, err := s.repo.CreateContract(ctx, contract)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new contract",
		slog.Int("id", id),
		slog.String("price", price.StringFixed(2)))

	return s.repo.GetContractInfo(ctx, id)
}

// calculatePrice считает итоговую цену договора.
//
// Базовая цена: годовая стоимость лицензии плюс 1000 за каждый год
// дополнительной поддержки. Из действующих скидок берется максимальная,
// возвращающийся клиент получает еще 5 процентных пунктов сверху,
// итоговая скидка не превышает 100%.
func (s *ContractService) calculatePrice(ctx context.Context, software *models.Software, clientID, supportYears int, now time.Time) (decimal.Decimal, error) {
	basePrice := software.AnnualLicenseCost.Add(
		decimal.NewFromInt(int64(supportYears) * models.SupportYearCost))

	bestDiscount, err := s.repo.BestContractDiscount(ctx, software.ID, now)
	if err != nil {
		return decimal.Zero, err
	}

	returning, err := s.oracle.IsReturning(ctx, clientID)
	if err != nil {
		return decimal.Zero, err
	}
	if returning {
		bestDiscount = bestDiscount.Add(decimal.NewFromInt(models.ReturningClientPct))
	}

	hundred := decimal.NewFromInt(100)
	if bestDiscount.GreaterThan(hundred) {
		bestDiscount = hundred
	}

	return money.ApplyDiscount(basePrice, bestDiscount), nil
}

// List возвращает все договоры.
func (s *ContractService) List(ctx context.Context) ([]*models.ContractInfo, error) {
	return s.repo.ListContractInfos(ctx)
}

// Read возвращает договор по ID.
func (s *ContractService) Read(ctx context.Context, id int) (*models.ContractInfo, error) {
	return s.repo.GetContractInfo(ctx, id)
}

// Remove жестко удаляет договор вместе с платежами.
func (s *ContractService) Remove(ctx context.Context, id int) (int, error) {
	count, err := s.repo.RemoveContract(ctx, id)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, fmt.Errorf("contract %d: %w", id, errs.ErrNotFound)
	}
	s.log.Info("removed contract", slog.Int("id", id))
	return count, nil
}

// CancelExpired отменяет все просроченные неподписанные договоры и возвращает
// их ID. Операция идемпотентна: повторный запуск без новых просрочек — no-op.
func (s *ContractService) CancelExpired(ctx context.Context) ([]int, error) {
	ids, err := s.repo.CancelExpiredContracts(ctx, s.now())
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		s.log.Info("cancelled expired contracts", slog.Int("count", len(ids)))
	}
	return ids, nil
}
