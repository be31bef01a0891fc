package handler

import (
	"encoding/json"
	"time"

	"ledger-gateway/internal/adapter/http/dto"
	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"
	"ledger-gateway/pkg/apperror"
	"ledger-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminHandler exposes the operational batch jobs over HTTP. Every endpoint
// here is role-gated and audited; the same jobs are runnable from ledgerctl.
type AdminHandler struct {
	closer     ports.BatchCloser
	auditor    ports.IntegrityAuditor
	reconciler ports.Reconciler
	settlement ports.SettlementEngine
	reserve    ports.ReserveCalculator
	exporter   ports.SnapshotExporter
	auditRepo  ports.AuditRepository
	exportDir  string
	cutoffDays int
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	closer ports.BatchCloser,
	auditor ports.IntegrityAuditor,
	reconciler ports.Reconciler,
	settlement ports.SettlementEngine,
	reserve ports.ReserveCalculator,
	exporter ports.SnapshotExporter,
	auditRepo ports.AuditRepository,
	exportDir string,
	cutoffDays int,
) *AdminHandler {
	return &AdminHandler{
		closer:     closer,
		auditor:    auditor,
		reconciler: reconciler,
		settlement: settlement,
		reserve:    reserve,
		exporter:   exporter,
		auditRepo:  auditRepo,
		exportDir:  exportDir,
		cutoffDays: cutoffDays,
	}
}

// bindDateKey binds a {date_key} body and parses it.
func bindDateKey(c *gin.Context) (string, time.Time, bool) {
	var req dto.DateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return "", time.Time{}, false
	}
	day, err := domain.ParseDateKey(req.DateKey)
	if err != nil {
		response.Error(c, apperror.Validation("date_key must be YYYY-MM-DD"))
		return "", time.Time{}, false
	}
	return req.DateKey, day, true
}

// CloseDay handles POST /api/v1/admin/close.
func (h *AdminHandler) CloseDay(c *gin.Context) {
	dateKey, day, ok := bindDateKey(c)
	if !ok {
		return
	}

	batch, noop, err := h.closer.CloseDailyBatch(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{
		"date_key": dateKey,
		"batch_id": batch.BatchID.String(),
		"noop":     noop,
	})
}

// RunIntegrityCheck handles POST /api/v1/admin/integrity-check.
func (h *AdminHandler) RunIntegrityCheck(c *gin.Context) {
	_, day, ok := bindDateKey(c)
	if !ok {
		return
	}

	report, err := h.auditor.RunIntegrityCheck(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// ReconcileFile handles POST /api/v1/admin/reconcile with an inline
// statement.
func (h *AdminHandler) ReconcileFile(c *gin.Context) {
	var req dto.ReconcileFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	statement := make([]ports.StatementRow, 0, len(req.Statement))
	for _, row := range req.Statement {
		balance, err := decimal.NewFromString(row.Balance)
		if err != nil {
			response.Error(c, apperror.ErrInvalidAmount())
			return
		}
		statement = append(statement, ports.StatementRow{
			Account: domain.Account(row.Account),
			Balance: balance,
		})
	}

	result, err := h.reconciler.Reconcile(c.Request.Context(), req.DateKey, statement)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// ReconcileRemote handles POST /api/v1/admin/reconcile/remote, pulling the
// statement from the configured bank feed.
func (h *AdminHandler) ReconcileRemote(c *gin.Context) {
	dateKey, _, ok := bindDateKey(c)
	if !ok {
		return
	}

	result, err := h.reconciler.ReconcileRemote(c.Request.Context(), dateKey)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// SettleDayPlusOne handles POST /api/v1/admin/settlements/d1.
func (h *AdminHandler) SettleDayPlusOne(c *gin.Context) {
	dateKey, _, ok := bindDateKey(c)
	if !ok {
		return
	}

	report, err := h.settlement.ReleaseDayPlusOne(c.Request.Context(), dateKey)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// SettleDayPlusTwo handles POST /api/v1/admin/settlements/d2. Only cashouts
// older than the configured cutoff are checked against the transfer feed.
func (h *AdminHandler) SettleDayPlusTwo(c *gin.Context) {
	cutoff := time.Now().UTC().AddDate(0, 0, -h.cutoffDays)

	report, err := h.settlement.ConfirmDayPlusTwo(c.Request.Context(), cutoff)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// SweepRetention handles POST /api/v1/admin/sweep, releasing matured
// retention holds back to seller wallets.
func (h *AdminHandler) SweepRetention(c *gin.Context) {
	report, err := h.reserve.ReleaseMaturedFunds(c.Request.Context(), time.Now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// ExportSnapshots handles POST /api/v1/admin/exports.
func (h *AdminHandler) ExportSnapshots(c *gin.Context) {
	dateKey, _, ok := bindDateKey(c)
	if !ok {
		return
	}

	result, err := h.exporter.ExportSnapshots(c.Request.Context(), dateKey, h.exportDir)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// ListAuditEvents handles GET /api/v1/admin/audit-events?date_key=...
func (h *AdminHandler) ListAuditEvents(c *gin.Context) {
	dateKey := c.Query("date_key")
	if _, err := domain.ParseDateKey(dateKey); err != nil {
		response.Error(c, apperror.Validation("date_key must be YYYY-MM-DD"))
		return
	}

	events, err := h.auditRepo.ListByDate(c.Request.Context(), dateKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.AuditEventResponse, 0, len(events))
	for _, ev := range events {
		var detail any
		if err := json.Unmarshal(ev.Detail, &detail); err != nil {
			detail = string(ev.Detail)
		}
		out = append(out, dto.AuditEventResponse{
			ID:        ev.ID.String(),
			Kind:      string(ev.Kind),
			DateKey:   ev.DateKey,
			Detail:    detail,
			CreatedAt: ev.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	response.OK(c, out)
}
