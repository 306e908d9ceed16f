package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount — временная процентная скидка. Окно действия [StartDate, EndDate]
// включительно. SoftwareID == nil означает скидку на все продукты.
type Discount struct {
	ID             int
	Name           string
	Percentage     decimal.Decimal // 0–100
	StartDate      time.Time
	EndDate        time.Time
	IsForContracts bool
	SoftwareID     *int
}

// DummyDiscount используется для приёма данных скидки из JSON-запроса.
// Даты приходят строками в формате 2006-01-02.
type DummyDiscount struct {
	Name           string  `json:"name" validate:"required,max=100"`
	Percentage     float64 `json:"percentage" validate:"gte=0,lte=100"`
	StartDate      string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	IsForContracts bool    `json:"is_for_contracts"`
	SoftwareID     *int    `json:"software_id,omitempty"`
}
