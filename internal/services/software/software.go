// Package services содержит бизнес-логику каталога программных продуктов,
// включая кеширование карточек продуктов в Redis. Каталог читается часто
// и меняется редко, поэтому кешировать его безопасно.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/errs"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// SoftwareRepository определяет методы для работы с продуктами в хранилище.
type SoftwareRepository interface {
	CreateSoftware(ctx context.Context, sw models.Software) (int, error)
	SoftwareNameExists(ctx context.Context, name string) (bool, error)
	GetSoftwareByID(ctx context.Context, id int) (*models.Software, error)
	ListSoftware(ctx context.Context, category string) ([]*models.Software, error)
	UpdateSoftware(ctx context.Context, id int, sw models.Software) (int, error)
	CountActiveContracts(ctx context.Context, softwareID int) (int, error)
	DeleteSoftware(ctx context.Context, id int) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// SoftwareService реализует бизнес-логику каталога продуктов.
type SoftwareService struct {
	repo  SoftwareRepository
	cache Cache
	log   *slog.Logger
}

// NewSoftwareService создает новый экземпляр SoftwareService.
func NewSoftwareService(repo SoftwareRepository, cache Cache, log *slog.Logger) *SoftwareService {
	return &SoftwareService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(id int) string {
	return fmt.Sprintf("software:%d", id)
}

// Create создает новый продукт. Имя уникально без учета регистра.
func (s *SoftwareService) Create(ctx context.Context, req models.DummySoftware) (*models.Software, error) {
	taken, err := s.repo.SoftwareNameExists(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: software with name %q already exists", errs.ErrConflict, req.Name)
	}

	sw := models.Software{
		Name:              req.Name,
		Description:       req.Description,
		CurrentVersion:    req.CurrentVersion,
		Category:          req.Category,
		AnnualLicenseCost: decimal.NewFromFloat(req.AnnualLicenseCost),
	}
	id, err := s.repo.CreateSoftware(ctx, sw)
	if err != nil {
		return nil, err
	}
	sw.ID = id
	s.log.Info("created new software", slog.Int("id", id), slog.String("name", sw.Name))

	if err := s.cache.Set(cacheKey(id), sw, time.Hour); err != nil {
		s.log.Warn("failed to cache software", slog.String("key", cacheKey(id)), slog.Any("err", err))
	}
	return &sw, nil
}

// Read возвращает продукт по ID, используя кеш или репозиторий.
func (s *SoftwareService) Read(ctx context.Context, id int) (*models.Software, error) {
	var result *models.Software
	found, err := s.cache.Get(cacheKey(id), &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetSoftwareByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey(id), result, time.Hour); err != nil {
		s.log.Warn("failed to cache software", slog.String("key", cacheKey(id)), slog.Any("err", err))
	}
	return result, nil
}

// List возвращает продукты, при непустой категории — только её.
func (s *SoftwareService) List(ctx context.Context, category string) ([]*models.Software, error) {
	return s.repo.ListSoftware(ctx, category)
}

// Update частично обновляет продукт и инвалидирует кеш.
func (s *SoftwareService) Update(ctx context.Context, id int, req models.DummyUpdateSoftware) (*models.Software, error) {
	existing, err := s.repo.GetSoftwareByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		existing.Description = req.Description
	}
	if req.CurrentVersion != "" {
		existing.CurrentVersion = req.CurrentVersion
	}
	if req.AnnualLicenseCost != nil {
		existing.AnnualLicenseCost = decimal.NewFromFloat(*req.AnnualLicenseCost)
	}

	if _, err := s.repo.UpdateSoftware(ctx, id, *existing); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey(id)), slog.Any("err", err))
	}
	s.log.Info("updated software", slog.Int("id", id))
	return existing, nil
}

// Delete удаляет продукт, если на него нет неотмененных договоров.
func (s *SoftwareService) Delete(ctx context.Context, id int) error {
	active, err := s.repo.CountActiveContracts(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return fmt.Errorf("%w: cannot delete software with active contracts", errs.ErrInvalidState)
	}

	count, err := s.repo.DeleteSoftware(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("software %d: %w", id, errs.ErrNotFound)
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey(id)), slog.Any("err", err))
	}
	s.log.Info("deleted software", slog.Int("id", id))
	return nil
}
