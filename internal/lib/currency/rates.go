// Package currency реализует поставщика валютных курсов для отчетов о выручке.
//
// Базовая валюта системы — PLN. Таблица курсов статична и иллюстративна:
// боевой поставщик курсов подставляется через интерфейс RateProvider,
// а поведение "неизвестная валюта — курс 1.0" сохраняется как контракт.
package currency

import "github.com/shopspring/decimal"

// BaseCurrency — валюта, в которой хранятся все цены и платежи.
const BaseCurrency = "PLN"

// RateProvider возвращает курс пересчета из базовой валюты в указанную.
type RateProvider interface {
	Rate(currency string) decimal.Decimal
}

// StaticTable — фиксированная таблица курсов относительно PLN.
type StaticTable struct {
	rates map[string]decimal.Decimal
}

// NewStaticTable создает таблицу с зафиксированными курсами USD, EUR и GBP.
func NewStaticTable() *StaticTable {
	return &StaticTable{
		rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromFloat(0.25),
			"EUR": decimal.NewFromFloat(0.23),
			"GBP": decimal.NewFromFloat(0.20),
		},
	}
}

// Rate возвращает курс для валюты, для неизвестной валюты — 1.0.
func (t *StaticTable) Rate(currency string) decimal.Decimal {
	if rate, ok := t.rates[currency]; ok {
		return rate
	}
	return decimal.NewFromInt(1)
}
