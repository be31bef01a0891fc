package postgres

import (
	"context"
	"errors"
	"fmt"

	"ledger-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// PolicyRepo implements ports.PolicyRepository.
type PolicyRepo struct {
	pool Pool
}

// NewPolicyRepo creates a new PolicyRepo.
func NewPolicyRepo(pool Pool) *PolicyRepo {
	return &PolicyRepo{pool: pool}
}

// Create inserts a retention policy.
func (r *PolicyRepo) Create(ctx context.Context, p *domain.RetentionPolicy) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO retention_policies (id, method, risk_level, percentage, hold_days, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Method, p.RiskLevel, p.Percentage, p.HoldDays, p.Active, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert retention policy: %w", err)
	}
	return nil
}

// GetActive fetches the newest active policy for (method, risk level), or
// nil when none exists; callers then fall back to method defaults.
func (r *PolicyRepo) GetActive(ctx context.Context, method domain.PaymentMethod, risk domain.RiskLevel) (*domain.RetentionPolicy, error) {
	p := &domain.RetentionPolicy{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, method, risk_level, percentage, hold_days, active, created_at
		FROM retention_policies
		WHERE method = $1 AND risk_level = $2 AND active = true
		ORDER BY created_at DESC LIMIT 1`,
		method, risk,
	).Scan(&p.ID, &p.Method, &p.RiskLevel, &p.Percentage, &p.HoldDays, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active retention policy: %w", err)
	}
	return p, nil
}
