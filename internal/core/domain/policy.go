package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is the clearing rail a sale was paid through.
type PaymentMethod string

const (
	// MethodInstant clears immediately (instant-payment rails).
	MethodInstant PaymentMethod = "instant"
	// MethodCard clears through the card network with delayed settlement.
	MethodCard PaymentMethod = "card"
	// MethodSlip is a bank-slip payment with short delayed clearing.
	MethodSlip PaymentMethod = "slip"
)

// ValidMethod reports whether m is a known payment method.
func ValidMethod(m PaymentMethod) bool {
	switch m {
	case MethodInstant, MethodCard, MethodSlip:
		return true
	}
	return false
}

// RiskLevel classifies a sale's fraud risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RetentionPolicy drives how much of a seller's net proceeds is held and
// for how long, keyed on (method, risk level). Only active policies apply.
type RetentionPolicy struct {
	ID         uuid.UUID       `json:"id"`
	Method     PaymentMethod   `json:"method"`
	RiskLevel  RiskLevel       `json:"risk_level"`
	Percentage decimal.Decimal `json:"percentage"` // 0..100 of the net amount
	HoldDays   int             `json:"hold_days"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
}

// DefaultHoldDays is the method-specific fallback when no active policy
// exists: instant rails release immediately, delayed-clearing rails hold
// the full net until cleared.
func DefaultHoldDays(m PaymentMethod) int {
	switch m {
	case MethodCard:
		return 30
	case MethodSlip:
		return 2
	default:
		return 0
	}
}

// RetentionDecision is the calculator's output for one sale.
type RetentionDecision struct {
	RetentionAmount   decimal.Decimal `json:"retention_amount"`
	AvailableIn       time.Time       `json:"available_in"`
	PercentageApplied decimal.Decimal `json:"percentage_applied"`
}
