// Package services содержит бизнес-логику реестра клиентов:
// создание обеих разновидностей, обновление контактных данных,
// необратимое мягкое удаление и ответ на вопрос о возвращающемся клиенте.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/errs"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// ClientRepository определяет методы для работы с клиентами в хранилище.
type ClientRepository interface {
	CreateIndividualClient(ctx context.Context, c models.Client) (int, error)
	CreateCompanyClient(ctx context.Context, c models.Client) (int, error)
	PESELExists(ctx context.Context, pesel string) (bool, error)
	KRSExists(ctx context.Context, krs string) (bool, error)
	GetClientByID(ctx context.Context, id int) (*models.Client, error)
	ListClients(ctx context.Context) ([]*models.Client, error)
	UpdateClient(ctx context.Context, id int, c models.Client) (int, error)
	SoftDeleteClient(ctx context.Context, id int) (int, error)
	IsReturningClient(ctx context.Context, clientID int) (bool, error)
}

// ClientService реализует бизнес-логику реестра клиентов.
type ClientService struct {
	repo ClientRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewClientService создает новый экземпляр ClientService.
func NewClientService(repo ClientRepository, log *slog.Logger) *ClientService {
	return &ClientService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

func toInfo(c *models.Client) *models.ClientInfo {
	return &models.ClientInfo{
		ID:      c.ID,
		Type:    string(c.Type),
		Name:    c.DisplayName(),
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
	}
}

// CreateIndividual создает клиента-физлицо. Номер PESEL уникален.
func (s *ClientService) CreateIndividual(ctx context.Context, req models.DummyIndividualClient) (*models.ClientInfo, error) {
	taken, err := s.repo.PESELExists(ctx, req.PESEL)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: PESEL is already registered", errs.ErrConflict)
	}

	client := models.Client{
		Type:    models.ClientTypeIndividual,
		Address: req.Address,
		Email:   req.Email,
		Phone:   req.Phone,
		Individual: &models.IndividualData{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			PESEL:     req.PESEL,
		},
		CreatedAt: s.now(),
	}
	id, err := s.repo.CreateIndividualClient(ctx, client)
	if err != nil {
		return nil, err
	}
	client.ID = id
	s.log.Info("created individual client", slog.Int("id", id))
	return toInfo(&client), nil
}

// CreateCompany создает клиента-компанию. Номер KRS уникален.
func (s *ClientService) CreateCompany(ctx context.Context, req models.DummyCompanyClient) (*models.ClientInfo, error) {
	taken, err := s.repo.KRSExists(ctx, req.KRS)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: KRS number is already registered", errs.ErrConflict)
	}

	client := models.Client{
		Type:    models.ClientTypeCompany,
		Address: req.Address,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: &models.CompanyData{
			CompanyName: req.CompanyName,
			KRS:         req.KRS,
		},
		CreatedAt: s.now(),
	}
	id, err := s.repo.CreateCompanyClient(ctx, client)
	if err != nil {
		return nil, err
	}
	client.ID = id
	s.log.Info("created company client", slog.Int("id", id))
	return toInfo(&client), nil
}

// List возвращает всех неудаленных клиентов.
func (s *ClientService) List(ctx context.Context) ([]*models.ClientInfo, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]*models.ClientInfo, 0, len(clients))
	for _, c := range clients {
		infos = append(infos, toInfo(c))
	}
	return infos, nil
}

// Read возвращает клиента по ID. Удаленный клиент неотличим от отсутствующего.
func (s *ClientService) Read(ctx context.Context, id int) (*models.ClientInfo, error) {
	c, err := s.repo.GetClientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsDeleted {
		return nil, fmt.Errorf("client %d: %w", id, errs.ErrNotFound)
	}
	return toInfo(c), nil
}

// Update частично обновляет контактные данные клиента.
// Идентификационные номера (PESEL, KRS) неизменяемы.
func (s *ClientService) Update(ctx context.Context, id int, req models.DummyUpdateClient) (*models.ClientInfo, error) {
	existing, err := s.repo.GetClientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.IsDeleted {
		return nil, fmt.Errorf("client %d: %w", id, errs.ErrNotFound)
	}

	if req.Address != "" {
		existing.Address = req.Address
	}
	if req.Email != "" {
		existing.Email = req.Email
	}
	if req.Phone != "" {
		existing.Phone = req.Phone
	}
	switch existing.Type {
	case models.ClientTypeIndividual:
		if req.FirstName != "" {
			existing.Individual.FirstName = req.FirstName
		}
		if req.LastName != "" {
			existing.Individual.LastName = req.LastName
		}
	case models.ClientTypeCompany:
		if req.CompanyName != "" {
			existing.Company.CompanyName = req.CompanyName
		}
	}

	if _, err := s.repo.UpdateClient(ctx, id, *existing); err != nil {
		return nil, err
	}
	s.log.Info("updated client", slog.Int("id", id))
	return toInfo(existing), nil
}

// Delete необратимо удаляет клиента: ставит флаг и затирает персональные
// данные сентинелом. Обе разновидности клиентов удаляются одинаково.
func (s *ClientService) Delete(ctx context.Context, id int) error {
	count, err := s.repo.SoftDeleteClient(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("client %d: %w", id, errs.ErrNotFound)
	}
	s.log.Info("deleted client, personal data scrubbed", slog.Int("id", id))
	return nil
}

// IsReturning сообщает, есть ли у клиента хотя бы один подписанный договор.
// Используется движком договоров при расчете скидки.
func (s *ClientService) IsReturning(ctx context.Context, clientID int) (bool, error) {
	return s.repo.IsReturningClient(ctx, clientID)
}
