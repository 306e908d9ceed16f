// Package backoffice предоставляет маршруты для основного приложения.
package backoffice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/license-backoffice/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/license-backoffice/internal/http/handlers/auth/register"
	clientcreatecompany "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/client/createcompany"
	clientcreateindividual "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/client/createindividual"
	clientlist "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/client/list"
	clientread "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/client/read"
	clientremove "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/client/remove"
	clientupdate "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/client/update"
	contractcreate "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/contract/create"
	contractlist "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/contract/list"
	contractread "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/contract/read"
	contractremove "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/contract/remove"
	discountcreate "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/discount/create"
	discountlist "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/discount/list"
	"github.com/magabrotheeeer/license-backoffice/internal/http/handlers/health"
	paymentcreate "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/payment/create"
	paymentlist "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/payment/list"
	paymentvalidate "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/payment/validate"
	revenuecalculate "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/revenue/calculate"
	softwarecreate "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/software/create"
	softwarelist "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/software/list"
	softwareread "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/software/read"
	softwareremove "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/software/remove"
	softwareupdate "github.com/magabrotheeeer/license-backoffice/internal/http/handlers/software/update"
	"github.com/magabrotheeeer/license-backoffice/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/license-backoffice/internal/services/auth"
	clientservice "github.com/magabrotheeeer/license-backoffice/internal/services/client"
	contractservice "github.com/magabrotheeeer/license-backoffice/internal/services/contract"
	discountservice "github.com/magabrotheeeer/license-backoffice/internal/services/discount"
	paymentservice "github.com/magabrotheeeer/license-backoffice/internal/services/payment"
	revenueservice "github.com/magabrotheeeer/license-backoffice/internal/services/revenue"
	softwareservice "github.com/magabrotheeeer/license-backoffice/internal/services/software"
)

// Services — сервисы, необходимые маршрутам приложения.
type Services struct {
	Auth     *authservice.AuthService
	Client   *clientservice.ClientService
	Software *softwareservice.SoftwareService
	Discount *discountservice.DiscountService
	Contract *contractservice.ContractService
	Payment  *paymentservice.PaymentService
	Revenue  *revenueservice.RevenueService
	CheckDB  func() error
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/health", health.New(logger, s.CheckDB).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/clients/individual", clientcreateindividual.New(logger, s.Client).ServeHTTP)
			r.Post("/clients/company", clientcreatecompany.New(logger, s.Client).ServeHTTP)
			r.Get("/clients", clientlist.New(logger, s.Client).ServeHTTP)
			r.Get("/clients/{id}", clientread.New(logger, s.Client).ServeHTTP)
			r.Put("/clients/{id}", clientupdate.New(logger, s.Client).ServeHTTP)
			r.Delete("/clients/{id}", clientremove.New(logger, s.Client).ServeHTTP)

			r.Post("/software", softwarecreate.New(logger, s.Software).ServeHTTP)
			r.Get("/software", softwarelist.New(logger, s.Software).ServeHTTP)
			r.Get("/software/{id}", softwareread.New(logger, s.Software).ServeHTTP)
			r.Put("/software/{id}", softwareupdate.New(logger, s.Software).ServeHTTP)
			r.Delete("/software/{id}", softwareremove.New(logger, s.Software).ServeHTTP)

			r.Post("/discounts", discountcreate.New(logger, s.Discount).ServeHTTP)
			r.Get("/discounts", discountlist.New(logger, s.Discount).ServeHTTP)

			r.Post("/contracts", contractcreate.New(logger, s.Contract).ServeHTTP)
			r.Get("/contracts", contractlist.New(logger, s.Contract).ServeHTTP)
			r.Get("/contracts/{id}", contractread.New(logger, s.Contract).ServeHTTP)
			r.Delete("/contracts/{id}", contractremove.New(logger, s.Contract).ServeHTTP)
			r.Get("/contracts/{id}/payments", paymentlist.New(logger, s.Payment).ServeHTTP)

			r.Post("/payments", paymentcreate.New(logger, s.Payment).ServeHTTP)
			r.Post("/payments/validate", paymentvalidate.New(logger, s.Payment).ServeHTTP)

			r.Get("/revenue", revenuecalculate.New(logger, s.Revenue).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
