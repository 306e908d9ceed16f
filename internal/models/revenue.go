package models

import "github.com/shopspring/decimal"

// Типы расчета выручки.
const (
	// RevenueCurrent — сумма цен подписанных неотмененных договоров.
	RevenueCurrent = "Current"
	// RevenuePredicted — текущая выручка плюс цены еще оплачиваемых договоров.
	RevenuePredicted = "Predicted"
)

// RevenueQuery — параметры расчета выручки.
type RevenueQuery struct {
	SoftwareID  *int
	Currency    string
	RevenueType string
}

// RevenueReport — итог расчета выручки в запрошенной валюте.
type RevenueReport struct {
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	CalculationType string          `json:"calculation_type"`
}
