// Package metrics определяет бизнес-метрики Prometheus.
// Сами метрики отдаются промежуточным обработчиком promhttp на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentsSettled — количество успешно проведенных платежей.
	PaymentsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backoffice_payments_settled_total",
		Help: "Number of successfully settled payments.",
	})

	// ContractsSigned — количество договоров, перешедших в подписанные.
	ContractsSigned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backoffice_contracts_signed_total",
		Help: "Number of contracts that became fully paid and signed.",
	})

	// ContractsCancelled — количество договоров, отмененных по просрочке.
	ContractsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backoffice_contracts_cancelled_total",
		Help: "Number of contracts auto-cancelled after the payment deadline.",
	})
)
