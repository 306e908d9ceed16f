// Package backoffice собирает основное HTTP-приложение: хранилище, миграции,
// кеш, сервисы и маршруты.
package backoffice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/license-backoffice/internal/cache"
	"github.com/magabrotheeeer/license-backoffice/internal/config"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/currency"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/jwt"
	"github.com/magabrotheeeer/license-backoffice/internal/migrations"
	authservice "github.com/magabrotheeeer/license-backoffice/internal/services/auth"
	clientservice "github.com/magabrotheeeer/license-backoffice/internal/services/client"
	contractservice "github.com/magabrotheeeer/license-backoffice/internal/services/contract"
	discountservice "github.com/magabrotheeeer/license-backoffice/internal/services/discount"
	paymentservice "github.com/magabrotheeeer/license-backoffice/internal/services/payment"
	revenueservice "github.com/magabrotheeeer/license-backoffice/internal/services/revenue"
	softwareservice "github.com/magabrotheeeer/license-backoffice/internal/services/software"
	"github.com/magabrotheeeer/license-backoffice/internal/storage/repository"
)

// App — основное HTTP-приложение back-office.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New собирает приложение: подключает PostgreSQL и Redis, применяет миграции,
// создает сервисы и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, maker, logger)
	clientService := clientservice.NewClientService(db, logger)
	softwareService := softwareservice.NewSoftwareService(db, cacheRedis, logger)
	discountService := discountservice.NewDiscountService(db, logger)
	contractService := contractservice.NewContractService(db, clientService, logger)
	paymentService := paymentservice.NewPaymentService(db, logger)
	revenueService := revenueservice.NewRevenueService(db, currency.NewStaticTable(), logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:     authService,
		Client:   clientService,
		Software: softwareService,
		Discount: discountService,
		Contract: contractService,
		Payment:  paymentService,
		Revenue:  revenueService,
		CheckDB:  func() error { return repository.CheckDatabaseReady(db) },
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
