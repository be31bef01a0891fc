package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ledger-gateway/internal/core/ports"
)

// FileStatementSource implements ports.StatementSource from local JSON
// files, one per date ("<dir>/<date>.json"). Used by the CLI to reconcile
// against a statement dropped by an upstream export instead of the live
// bank API.
type FileStatementSource struct {
	dir string
}

// NewFileStatementSource creates a file-backed statement source.
func NewFileStatementSource(dir string) *FileStatementSource {
	return &FileStatementSource{dir: dir}
}

// FetchStatement reads and parses the statement file for one date.
func (s *FileStatementSource) FetchStatement(_ context.Context, dateKey string) ([]ports.StatementRow, error) {
	path := filepath.Join(s.dir, dateKey+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read statement file %s: %w", path, err)
	}

	var rows []ports.StatementRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse statement file %s: %w", path, err)
	}
	return rows, nil
}
