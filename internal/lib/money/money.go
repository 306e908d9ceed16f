// Package money содержит помощники для денежной арифметики.
//
// Все цены, суммы платежей и выручка считаются в decimal.Decimal и
// округляются до двух знаков по правилу "half away from zero" —
// это единственное правило округления в системе.
package money

import "github.com/shopspring/decimal"

// Tolerance — допуск при сравнении накопленных платежей с ценой договора.
// Договор считается полностью оплаченным, если остаток не превышает 0.01.
var Tolerance = decimal.NewFromFloat(0.01)

// Round2 округляет сумму до двух знаков после запятой.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ApplyDiscount возвращает base * (1 - percent/100), округленную до двух знаков.
func ApplyDiscount(base, percent decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	factor := hundred.Sub(percent).Div(hundred)
	return Round2(base.Mul(factor))
}

// IsSettled сообщает, покрывает ли paid цену price в пределах допуска.
func IsSettled(price, paid decimal.Decimal) bool {
	return price.Sub(paid).Abs().LessThanOrEqual(Tolerance) || paid.GreaterThan(price)
}
