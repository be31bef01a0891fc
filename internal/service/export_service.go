package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"
	"ledger-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ExportServiceImpl implements ports.SnapshotExporter: one JSON-lines file
// per day plus a sibling .sha256 file, so a tampered export is detectable
// without the database.
type ExportServiceImpl struct {
	snapshotRepo ports.SnapshotRepository
	auditRepo    ports.AuditRepository
	log          zerolog.Logger
}

// NewExportService creates a new ExportServiceImpl.
func NewExportService(snapshotRepo ports.SnapshotRepository, auditRepo ports.AuditRepository, log zerolog.Logger) *ExportServiceImpl {
	return &ExportServiceImpl{
		snapshotRepo: snapshotRepo,
		auditRepo:    auditRepo,
		log:          log,
	}
}

// ExportSnapshots writes the day's snapshots to <dir>/<dateKey>.jsonl and
// the content hash to <dir>/<dateKey>.jsonl.sha256.
func (s *ExportServiceImpl) ExportSnapshots(ctx context.Context, dateKey string, dir string) (*ports.ExportResult, error) {
	snapshots, err := s.snapshotRepo.ListByDate(ctx, dateKey)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list snapshots: %w", err))
	}
	if len(snapshots) == 0 {
		return nil, apperror.ErrNotFound(fmt.Sprintf("snapshots for %s", dateKey))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create export dir: %w", err))
	}

	var content []byte
	for _, snap := range snapshots {
		line, err := json.Marshal(snap)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("marshal snapshot: %w", err))
		}
		content = append(content, line...)
		content = append(content, '\n')
	}

	sum := sha256.Sum256(content)
	contentHash := hex.EncodeToString(sum[:])

	path := filepath.Join(dir, dateKey+".jsonl")
	hashPath := path + ".sha256"

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("write export: %w", err))
	}
	if err := os.WriteFile(hashPath, []byte(contentHash+"  "+filepath.Base(path)+"\n"), 0o644); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("write export hash: %w", err))
	}

	result := &ports.ExportResult{
		Path:        path,
		HashPath:    hashPath,
		ContentHash: contentHash,
		Rows:        len(snapshots),
	}

	s.persistResult(ctx, dateKey, result)

	s.log.Info().
		Str("date_key", dateKey).
		Str("path", path).
		Int("rows", result.Rows).
		Msg("snapshots exported")

	return result, nil
}

func (s *ExportServiceImpl) persistResult(ctx context.Context, dateKey string, result *ports.ExportResult) {
	detail, err := json.Marshal(result)
	if err != nil {
		s.log.Error().Err(err).Str("date_key", dateKey).Msg("failed to marshal export result")
		return
	}
	ev := &domain.AuditEvent{
		ID:        uuid.New(),
		Kind:      domain.AuditKindSnapshotExport,
		DateKey:   dateKey,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.auditRepo.Create(ctx, ev); err != nil {
		s.log.Error().Err(err).Str("date_key", dateKey).Msg("failed to persist export record")
	}
}
