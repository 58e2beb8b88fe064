package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// BackupVersion is stamped into every export snapshot.
const BackupVersion = "1.0"

// Backup is a portable snapshot of the content collections. Settings are
// never included so a shared backup cannot leak the stored credential.
type Backup struct {
	Version     string                       `json:"version"`
	ExportDate  string                       `json:"exportDate"`
	Collections map[string][]json.RawMessage `json:"collections"`
}

// ExportAll snapshots every content collection in insertion order.
func (s *Store) ExportAll(ctx context.Context) (*Backup, error) {
	b := &Backup{
		Version:     BackupVersion,
		ExportDate:  time.Now().UTC().Format(time.RFC3339),
		Collections: make(map[string][]json.RawMessage, len(ContentCollections)),
	}
	for _, col := range ContentCollections {
		recs, err := s.GetAll(ctx, col)
		if err != nil {
			return nil, err
		}
		if recs == nil {
			recs = []json.RawMessage{}
		}
		b.Collections[col] = recs
	}
	return b, nil
}

// ImportAll replaces the contents of each collection named in the backup.
// Each collection is replaced in a single transaction (clear plus re-insert),
// and every imported record is assigned a fresh identity; ids inside the
// backup are ignored. The import as a whole is NOT atomic: a failure on a
// later collection leaves earlier ones already replaced.
func (s *Store) ImportAll(ctx context.Context, b *Backup) error {
	for _, col := range ContentCollections {
		recs, ok := b.Collections[col]
		if !ok {
			continue
		}
		if err := s.replaceCollection(ctx, col, recs); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) replaceCollection(ctx context.Context, col string, recs []json.RawMessage) error {
	table, err := s.table(col)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(col, "import", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %q`, table)); err != nil {
		return storeErr(col, "import", err)
	}
	for _, rec := range recs {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(rec, &fields); err != nil {
			return storeErr(col, "import", fmt.Errorf("malformed record: %w", err))
		}
		delete(fields, "id")
		if _, err := insertTx(ctx, tx, table, fields); err != nil {
			return storeErr(col, "import", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storeErr(col, "import", err)
	}
	return nil
}

// ClearAll wipes every content collection and all settings, including the
// stored credential.
func (s *Store) ClearAll(ctx context.Context) error {
	for _, col := range ContentCollections {
		if err := s.Clear(ctx, col); err != nil {
			return err
		}
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings`); err != nil {
		return storeErr("settings", "clearAll", err)
	}
	return nil
}
