package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEventKind tags durable audit records written by the batch jobs.
type AuditEventKind string

const (
	AuditKindIntegrityCheck    AuditEventKind = "integrity_check"
	AuditKindReconciliation    AuditEventKind = "reconciliation"
	AuditKindSnapshotLock      AuditEventKind = "snapshot_lock"
	AuditKindSettlementRelease AuditEventKind = "settlement_release"
	AuditKindSettlementConfirm AuditEventKind = "settlement_confirm"
	AuditKindSnapshotExport    AuditEventKind = "snapshot_export"
	AuditKindAdminAction       AuditEventKind = "admin_action"
)

// AuditEvent records a finding or action of a scheduled job. Findings are
// reports, not exceptions: they are persisted even when nothing is acted on
// automatically.
type AuditEvent struct {
	ID        uuid.UUID      `json:"id"`
	Kind      AuditEventKind `json:"kind"`
	DateKey   string         `json:"date_key"`
	Detail    []byte         `json:"detail"` // JSON document
	CreatedAt time.Time      `json:"created_at"`
}
