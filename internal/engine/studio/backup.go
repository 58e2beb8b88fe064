package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_factory/internal/engine"
	"github.com/anatolykoptev/go_factory/internal/store"
)

// BackupImportInput is the input for backup_import. Backup is the full
// snapshot JSON as produced by backup_export.
type BackupImportInput struct {
	Backup json.RawMessage `json:"backup"`
}

// BackupExportResult is the output for backup_export: the snapshot plus a
// per-collection record count.
type BackupExportResult struct {
	Backup *store.Backup  `json:"backup"`
	Counts map[string]int `json:"counts"`
}

// BackupImportResult is the output for backup_import.
type BackupImportResult struct {
	Counts  map[string]int `json:"counts"`
	Message string         `json:"message"`
}

// ClearAllResult is the output for backup_clear_all.
type ClearAllResult struct {
	Message string `json:"message"`
}

// ExportBackup snapshots all content collections. Settings, including the
// sealed credential, are never exported.
func ExportBackup(ctx context.Context) (*BackupExportResult, error) {
	b, err := engine.Cfg.Store.ExportAll(ctx)
	if err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	counts := make(map[string]int, len(b.Collections))
	for col, recs := range b.Collections {
		counts[col] = len(recs)
	}
	return &BackupExportResult{Backup: b, Counts: counts}, nil
}

// ImportBackup replaces local content with a backup snapshot. Each
// collection is replaced atomically; the import across collections is not,
// so a failure can leave earlier collections replaced and later ones intact.
func ImportBackup(ctx context.Context, data json.RawMessage) (*BackupImportResult, error) {
	if len(data) == 0 {
		return nil, errors.New("backup_import: backup payload is required")
	}
	var b store.Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("backup_import: malformed backup: %w", err)
	}
	if len(b.Collections) == 0 {
		return nil, errors.New("backup_import: backup contains no collections")
	}
	err := engine.TrackOperation(ctx, "backup_import", func(ctx context.Context) error {
		return engine.Cfg.Store.ImportAll(ctx, &b)
	})
	if err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	counts := make(map[string]int, len(b.Collections))
	total := 0
	for col, recs := range b.Collections {
		counts[col] = len(recs)
		total += len(recs)
	}
	return &BackupImportResult{
		Counts:  counts,
		Message: fmt.Sprintf("%d records imported with fresh ids", total),
	}, nil
}

// ClearAllData wipes every collection and all settings, credential included.
func ClearAllData(ctx context.Context) (*ClearAllResult, error) {
	if err := engine.Cfg.Store.ClearAll(ctx); err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	engine.Cfg.Gateway.SetCredential("")
	engine.Cfg.Gateway.SetModel("")
	return &ClearAllResult{Message: "All data cleared, including settings"}, nil
}
