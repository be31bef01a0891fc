package service

import (
	"context"

	"ledger-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ThresholdRiskEvaluator is the built-in ports.RiskEvaluator: a static
// amount-threshold classification. Deployments with a real scoring engine
// swap in their own implementation behind the same port.
type ThresholdRiskEvaluator struct {
	mediumAbove decimal.Decimal
	highAbove   decimal.Decimal
}

// NewThresholdRiskEvaluator creates a threshold-based evaluator. Amounts up
// to mediumAbove score low, up to highAbove medium, above that high.
func NewThresholdRiskEvaluator(mediumAbove, highAbove decimal.Decimal) *ThresholdRiskEvaluator {
	return &ThresholdRiskEvaluator{mediumAbove: mediumAbove, highAbove: highAbove}
}

// Evaluate classifies a sale by amount.
func (e *ThresholdRiskEvaluator) Evaluate(_ context.Context, _ uuid.UUID, _ domain.PaymentMethod, amount decimal.Decimal) (domain.RiskLevel, error) {
	switch {
	case amount.GreaterThan(e.highAbove):
		return domain.RiskHigh, nil
	case amount.GreaterThan(e.mediumAbove):
		return domain.RiskMedium, nil
	default:
		return domain.RiskLow, nil
	}
}
