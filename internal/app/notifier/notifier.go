// Package notifier собирает приложение отправки писем об отмене договоров.
package notifier

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/license-backoffice/internal/config"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/smtp"
	notifierservice "github.com/magabrotheeeer/license-backoffice/internal/services/notifier"
)

// App — приложение отправки уведомлений клиентам.
type App struct {
	conn            *amqp.Connection
	ch              *amqp.Channel
	notifierService *notifierservice.NotifierService
	logger          *slog.Logger
}

// New создает новый экземпляр приложения уведомлений.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.URL, cfg.RetriesAMQP, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetContractQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTPConnection, logger)
	notifierService := notifierservice.NewNotifierService(transport, logger)

	return &App{
		conn:            conn,
		ch:              ch,
		notifierService: notifierService,
		logger:          logger,
	}, nil
}

// Run запускает потребителя очереди отмен и ждет остановки.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, "contract.cancelled", a.notifierService.SendContractCancelled)
	if err != nil {
		a.logger.Error("failed to start contract.cancelled consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
