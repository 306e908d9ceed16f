package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethods — допустимые способы оплаты.
var PaymentMethods = []string{"Credit Card", "Bank Transfer", "Cash", "Check", "Wire Transfer"}

// IsAllowedPaymentMethod сообщает, входит ли способ оплаты в допустимый список.
func IsAllowedPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// Payment — платеж по договору. После создания не изменяется и не удаляется
// (кроме каскадного удаления вместе с договором).
type Payment struct {
	ID            int
	ContractID    int
	Amount        decimal.Decimal // > 0
	PaymentDate   time.Time
	PaymentMethod string
}

// DummyPayment используется для приёма данных платежа из JSON-запроса.
type DummyPayment struct {
	ContractID    int     `json:"contract_id" validate:"required,gt=0"`
	Amount        float64 `json:"amount" validate:"required"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
}

// DummyValidatePayment используется для пробной проверки платежа без записи.
type DummyValidatePayment struct {
	ContractID int     `json:"contract_id" validate:"required,gt=0"`
	Amount     float64 `json:"amount" validate:"required"`
}

// SettlementResult — итог проведения платежа: сам платеж и производные поля.
type SettlementResult struct {
	Payment           Payment         `json:"payment"`
	ContractFullyPaid bool            `json:"contract_fully_paid"`
	RemainingBalance  decimal.Decimal `json:"remaining_balance"`
}

// PaymentVerdict — структурированный вердикт пробной проверки платежа.
type PaymentVerdict struct {
	IsValid           bool            `json:"is_valid"`
	Message           string          `json:"message"`
	RemainingBalance  decimal.Decimal `json:"remaining_balance"`
	WouldCompletePaym bool            `json:"would_complete_payment"`
}

// ContractBalance — договор вместе с суммой уже проведенных платежей.
// Используется пробной проверкой платежа.
type ContractBalance struct {
	Contract  Contract
	TotalPaid decimal.Decimal
}
