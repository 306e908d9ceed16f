package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ограничения договора: окно оплаты в днях и годы дополнительной поддержки.
const (
	MinContractDays    = 3
	MaxContractDays    = 30
	MaxSupportYears    = 3
	SupportYearCost    = 1000 // доплата за каждый год поддержки
	ReturningClientPct = 5    // надбавка к скидке для возвращающегося клиента
)

// Contract — договор на лицензию. Цена вычисляется при создании и далее
// неизменна. IsSigned и IsCancelled никогда не равны true одновременно.
type Contract struct {
	ID                     int
	ClientID               int
	SoftwareID             int
	SoftwareVersion        string
	StartDate              time.Time
	EndDate                time.Time // крайний срок оплаты
	Price                  decimal.Decimal
	AdditionalSupportYears int // 0–3
	IsSigned               bool
	IsCancelled            bool
	CreatedAt              time.Time
}

// DummyContract используется для приёма данных нового договора из JSON-запроса.
// Даты приходят строками в формате 2006-01-02.
type DummyContract struct {
	ClientID               int    `json:"client_id" validate:"required,gt=0"`
	SoftwareID             int    `json:"software_id" validate:"required,gt=0"`
	SoftwareVersion        string `json:"software_version" validate:"required,max=20"`
	StartDate              string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate                string `json:"end_date" validate:"required,datetime=2006-01-02"`
	AdditionalSupportYears int    `json:"additional_support_years" validate:"gte=0"`
}

// ContractInfo — представление договора для ответов API, обогащенное
// именем клиента, названием продукта и состоянием оплаты.
type ContractInfo struct {
	ID              int             `json:"id"`
	ClientName      string          `json:"client_name"`
	SoftwareName    string          `json:"software_name"`
	SoftwareVersion string          `json:"software_version"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	Price           decimal.Decimal `json:"price"`
	IsSigned        bool            `json:"is_signed"`
	IsCancelled     bool            `json:"is_cancelled"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// CancelledContractEvent — событие отмены договора, публикуемое в RabbitMQ
// для уведомления клиента.
type CancelledContractEvent struct {
	ContractID   int    `json:"contract_id"`
	ClientName   string `json:"client_name"`
	ClientEmail  string `json:"client_email"`
	SoftwareName string `json:"software_name"`
}
