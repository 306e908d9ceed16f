// Package services содержит бизнес-логику регистрации и аутентификации
// сотрудников back-office.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/errs"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/jwt"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/password"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// EmployeeRepository определяет методы для работы с сотрудниками в хранилище.
type EmployeeRepository interface {
	RegisterEmployee(ctx context.Context, e models.Employee) (string, error)
	GetEmployeeByUsername(ctx context.Context, username string) (*models.Employee, error)
}

// AuthService реализует регистрацию, вход и проверку токенов сотрудников.
type AuthService struct {
	repo  EmployeeRepository
	maker jwt.Maker
	log   *slog.Logger
	now   func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(repo EmployeeRepository, maker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		repo:  repo,
		maker: maker,
		log:   log,
		now:   time.Now,
	}
}

// Register создает нового сотрудника с ролью user и хешированным паролем.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	if _, err := s.repo.GetEmployeeByUsername(ctx, req.Username); err == nil {
		return "", fmt.Errorf("%w: username %q is taken", errs.ErrConflict, req.Username)
	}

	hash, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	employee := models.Employee{
		UID:          uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         "user",
		CreatedAt:    s.now(),
	}
	uid, err := s.repo.RegisterEmployee(ctx, employee)
	if err != nil {
		return "", err
	}
	s.log.Info("registered new employee", slog.String("username", req.Username))
	return uid, nil
}

// Login проверяет пароль и выдает JWT токен.
func (s *AuthService) Login(ctx context.Context, req models.DummyLogin) (string, error) {
	employee, err := s.repo.GetEmployeeByUsername(ctx, req.Username)
	if err != nil {
		return "", fmt.Errorf("%w: invalid credentials", errs.ErrInvalidArgument)
	}
	if err := password.CompareHash(req.Password, employee.PasswordHash); err != nil {
		return "", fmt.Errorf("%w: invalid credentials", errs.ErrInvalidArgument)
	}

	token, err := s.maker.GenerateToken(employee.Username, employee.Role, employee.UID)
	if err != nil {
		return "", err
	}
	s.log.Info("employee logged in", slog.String("username", employee.Username))
	return token, nil
}

// ValidateToken проверяет токен и возвращает его claims.
func (s *AuthService) ValidateToken(tokenStr string) (*jwt.CustomClaims, error) {
	return s.maker.ParseToken(tokenStr)
}
