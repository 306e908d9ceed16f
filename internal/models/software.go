package models

import "github.com/shopspring/decimal"

// Software — лицензируемый программный продукт.
// Имя глобально уникально без учета регистра.
type Software struct {
	ID                int
	Name              string
	Description       string
	CurrentVersion    string
	Category          string
	AnnualLicenseCost decimal.Decimal // годовая стоимость лицензии, >= 0
}

// DummySoftware используется для приёма данных нового продукта из JSON-запроса.
type DummySoftware struct {
	Name              string  `json:"name" validate:"required,max=100"`
	Description       string  `json:"description" validate:"required,max=500"`
	CurrentVersion    string  `json:"current_version" validate:"required,max=20"`
	Category          string  `json:"category" validate:"required,max=50"`
	AnnualLicenseCost float64 `json:"annual_license_cost" validate:"gte=0"`
}

// DummyUpdateSoftware — частичное обновление продукта. Имя не меняется.
type DummyUpdateSoftware struct {
	Description       string   `json:"description,omitempty" validate:"omitempty,max=500"`
	CurrentVersion    string   `json:"current_version,omitempty" validate:"omitempty,max=20"`
	AnnualLicenseCost *float64 `json:"annual_license_cost,omitempty" validate:"omitempty,gte=0"`
}
