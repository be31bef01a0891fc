package postgres

import (
	"context"
	"fmt"

	"ledger-gateway/internal/core/domain"
)

// AuditRepo implements ports.AuditRepository: durable records of what the
// scheduled jobs found and did.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Create inserts an audit event.
func (r *AuditRepo) Create(ctx context.Context, ev *domain.AuditEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_events (id, kind, date_key, detail, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		ev.ID, ev.Kind, ev.DateKey, ev.Detail, ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByDate fetches a date's audit events, newest first.
func (r *AuditRepo) ListByDate(ctx context.Context, dateKey string) ([]domain.AuditEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, kind, date_key, detail, created_at FROM audit_events
		WHERE date_key = $1 ORDER BY created_at DESC`, dateKey)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		ev := domain.AuditEvent{}
		if err := rows.Scan(&ev.ID, &ev.Kind, &ev.DateKey, &ev.Detail, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
