// Package services содержит фоновый процесс отмены просроченных договоров.
// По таймеру он отменяет все неподписанные договоры с истекшим сроком оплаты
// и публикует событие отмены для каждого из них.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/license-backoffice/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/license-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/license-backoffice/internal/metrics"
	"github.com/magabrotheeeer/license-backoffice/internal/models"
)

// ContractCanceller отменяет просроченные договоры и возвращает их ID.
type ContractCanceller interface {
	CancelExpired(ctx context.Context) ([]int, error)
}

// EventSource собирает данные для уведомления об отмене договора.
type EventSource interface {
	GetCancelledContractEvent(ctx context.Context, contractID int) (*models.CancelledContractEvent, error)
}

// SweeperService периодически отменяет просроченные договоры.
type SweeperService struct {
	canceller ContractCanceller
	events    EventSource
	ch        *amqp.Channel
	log       *slog.Logger
	interval  time.Duration
}

// NewSweeperService создает новый экземпляр SweeperService.
func NewSweeperService(canceller ContractCanceller, events EventSource,
	ch *amqp.Channel, log *slog.Logger, interval time.Duration) *SweeperService {
	return &SweeperService{
		canceller: canceller,
		events:    events,
		ch:        ch,
		log:       log,
		interval:  interval,
	}
}

// Run запускает цикл отмены. Первый проход выполняется сразу,
// дальше — по таймеру до отмены контекста.
func (s *SweeperService) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return
		}
	}
}

func (s *SweeperService) sweep(ctx context.Context) {
	ids, err := s.canceller.CancelExpired(ctx)
	if err != nil {
		s.log.Error("failed to cancel expired contracts", sl.Err(err))
		return
	}
	if len(ids) == 0 {
		return
	}
	s.log.Info("cancelled expired contracts", slog.Int("count", len(ids)))

	for _, id := range ids {
		metrics.ContractsCancelled.Inc()
		event, err := s.events.GetCancelledContractEvent(ctx, id)
		if err != nil {
			s.log.Error("failed to build cancellation event",
				slog.Int("contract_id", id), sl.Err(err))
			continue
		}
		if err := rabbitmq.PublishMessage(s.ch, rabbitmq.Exchange, "cancelled", event); err != nil {
			s.log.Error("failed to publish cancellation event",
				slog.Int("contract_id", id), sl.Err(err))
			continue
		}
		s.log.Info("published cancellation event", slog.Int("contract_id", id))
	}
}
