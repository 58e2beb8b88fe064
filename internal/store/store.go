// Package store provides the local object store for go_factory: a set of
// independent named collections persisted in SQLite, each with an
// autoincrement integer identity and optional secondary indices on record
// fields. Records are stored as JSON documents; indices are SQLite expression
// indexes over json_extract, so they are maintained inside the same
// transaction as every mutation.
//
// Cross-record integrity is deliberately not enforced: channelId/scriptId
// fields are soft references and a missing target is "unknown", not an error.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Collection names used by go_factory.
const (
	Channels  = "channels"
	Scripts   = "scripts"
	Analytics = "analytics"
	Trends    = "trends"
	Hooks     = "hooks"
)

// ContentCollections are the collections covered by export/import. Settings
// are excluded: a backup must not carry the encrypted credential.
var ContentCollections = []string{Channels, Scripts, Analytics, Trends, Hooks}

// Spec declares one collection and the record fields to index.
type Spec struct {
	Name    string
	Indexes []string
}

// DefaultSpecs mirrors the original schema: scripts are queryable by owning
// channel, status and format; analytics by script.
var DefaultSpecs = []Spec{
	{Name: Channels},
	{Name: Scripts, Indexes: []string{"channelId", "status", "format"}},
	{Name: Analytics, Indexes: []string{"scriptId"}},
	{Name: Trends},
	{Name: Hooks},
}

// ErrUnknownCollection marks access to a collection that was never declared.
// This is a programming error, not a runtime condition.
var ErrUnknownCollection = errors.New("unknown collection")

// StoreError wraps a driver-level failure with the collection and operation
// that triggered it. Callers do not retry store operations.
type StoreError struct {
	Collection string
	Op         string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(col, op string, err error) error {
	return &StoreError{Collection: col, Op: op, Err: err}
}

// Store is the SQLite-backed collection store. Safe for concurrent use; the
// underlying pool is capped at a single connection (SQLite single writer).
type Store struct {
	db    *sql.DB
	specs map[string]Spec
}

// Open opens (or creates) the store database at path and ensures the schema
// for the given collection specs.
func Open(path string, specs []Spec) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("store: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	s := &Store{db: db, specs: make(map[string]Spec, len(specs))}
	for _, spec := range specs {
		if err := s.initCollection(spec); err != nil {
			db.Close()
			return nil, err
		}
		s.specs[spec.Name] = spec
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init settings: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// initCollection creates one collection table and its expression indexes.
// AUTOINCREMENT keeps identities strictly increasing and never reused, even
// after deletion.
func (s *Store) initCollection(spec Spec) error {
	if _, err := s.db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		data TEXT NOT NULL
	)`, tableName(spec.Name))); err != nil {
		return fmt.Errorf("store: init %s: %w", spec.Name, err)
	}
	for _, field := range spec.Indexes {
		stmt := fmt.Sprintf(
			`CREATE INDEX IF NOT EXISTS %q ON %q (json_extract(data, '$.%s'))`,
			indexName(spec.Name, field), tableName(spec.Name), field,
		)
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("store: index %s.%s: %w", spec.Name, field, err)
		}
	}
	return nil
}

func tableName(col string) string { return "c_" + col }

func indexName(col, field string) string {
	return "idx_" + col + "_" + strings.ToLower(field)
}

func (s *Store) table(col string) (string, error) {
	spec, ok := s.specs[col]
	if !ok {
		return "", fmt.Errorf("store: %w: %q", ErrUnknownCollection, col)
	}
	return tableName(spec.Name), nil
}

// indexed reports whether field is a declared index on col.
func (s *Store) indexed(col, field string) bool {
	spec, ok := s.specs[col]
	if !ok {
		return false
	}
	for _, f := range spec.Indexes {
		if f == field {
			return true
		}
	}
	return false
}

// encode marshals rec into a JSON object with the identity field stripped,
// so a caller-supplied id can never override store-assigned identity.
func encode(rec any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("record is not a JSON object: %w", err)
	}
	delete(fields, "id")
	return fields, nil
}

func withID(fields map[string]json.RawMessage, id int64) ([]byte, error) {
	fields["id"] = json.RawMessage(fmt.Sprintf("%d", id))
	return json.Marshal(fields)
}

// Add inserts a new record and returns its store-assigned identity. Any id
// present on rec is ignored.
func (s *Store) Add(ctx context.Context, col string, rec any) (int64, error) {
	table, err := s.table(col)
	if err != nil {
		return 0, err
	}
	fields, err := encode(rec)
	if err != nil {
		return 0, storeErr(col, "add", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeErr(col, "add", err)
	}
	defer tx.Rollback() //nolint:errcheck

	id, err := insertTx(ctx, tx, table, fields)
	if err != nil {
		return 0, storeErr(col, "add", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, storeErr(col, "add", err)
	}
	return id, nil
}

// insertTx inserts fields as a new row and rewrites the stored document with
// the assigned id embedded, inside the caller's transaction.
func insertTx(ctx context.Context, tx *sql.Tx, table string, fields map[string]json.RawMessage) (int64, error) {
	placeholder, err := json.Marshal(fields)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %q (data) VALUES (?)`, table), string(placeholder))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	data, err := withID(fields, id)
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`UPDATE %q SET data = ? WHERE id = ?`, table), string(data), id); err != nil {
		return 0, err
	}
	return id, nil
}

// Put upserts a full record: if rec carries an id that exists, the stored
// document is replaced in place (last write wins); otherwise Put behaves like
// Add. Returns the record's identity either way.
func (s *Store) Put(ctx context.Context, col string, rec any) (int64, error) {
	table, err := s.table(col)
	if err != nil {
		return 0, err
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return 0, storeErr(col, "put", err)
	}
	var probe struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return 0, storeErr(col, "put", err)
	}

	if probe.ID > 0 {
		fields, err := encode(rec)
		if err != nil {
			return 0, storeErr(col, "put", err)
		}
		data, err := withID(fields, probe.ID)
		if err != nil {
			return 0, storeErr(col, "put", err)
		}
		res, err := s.db.ExecContext(ctx, fmt.Sprintf(`UPDATE %q SET data = ? WHERE id = ?`, table), string(data), probe.ID)
		if err != nil {
			return 0, storeErr(col, "put", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return probe.ID, nil
		}
		// Unknown id: fall through to insert with a fresh identity.
	}
	return s.Add(ctx, col, rec)
}

// Get returns the raw record with the given identity, or nil when absent.
// Absence is not an error.
func (s *Store) Get(ctx context.Context, col string, id int64) (json.RawMessage, error) {
	table, err := s.table(col)
	if err != nil {
		return nil, err
	}
	var data string
	err = s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT data FROM %q WHERE id = ?`, table), id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(col, "get", err)
	}
	return json.RawMessage(data), nil
}

// GetAll returns every record in insertion order.
func (s *Store) GetAll(ctx context.Context, col string) ([]json.RawMessage, error) {
	table, err := s.table(col)
	if err != nil {
		return nil, err
	}
	return s.selectData(ctx, col, "getAll",
		fmt.Sprintf(`SELECT data FROM %q ORDER BY id`, table))
}

// QueryByIndex returns records whose indexed field equals value, in insertion
// order. The field must be declared in the collection's Spec.
func (s *Store) QueryByIndex(ctx context.Context, col, field string, value any) ([]json.RawMessage, error) {
	table, err := s.table(col)
	if err != nil {
		return nil, err
	}
	if !s.indexed(col, field) {
		return nil, fmt.Errorf("store: no index %q on collection %q", field, col)
	}
	return s.selectData(ctx, col, "queryByIndex",
		fmt.Sprintf(`SELECT data FROM %q WHERE json_extract(data, '$.%s') = ? ORDER BY id`, table, field), value)
}

func (s *Store) selectData(ctx context.Context, col, op, query string, args ...any) ([]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(col, op, err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, storeErr(col, op, err)
		}
		out = append(out, json.RawMessage(data))
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(col, op, err)
	}
	return out, nil
}

// Remove deletes by identity. Deleting an absent id is not an error.
func (s *Store) Remove(ctx context.Context, col string, id int64) error {
	table, err := s.table(col)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %q WHERE id = ?`, table), id); err != nil {
		return storeErr(col, "remove", err)
	}
	return nil
}

// Clear empties one collection. The identity counter is not reset, so later
// inserts keep producing fresh ids.
func (s *Store) Clear(ctx context.Context, col string) error {
	table, err := s.table(col)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %q`, table)); err != nil {
		return storeErr(col, "clear", err)
	}
	return nil
}

// Count returns the number of records in a collection.
func (s *Store) Count(ctx context.Context, col string) (int, error) {
	table, err := s.table(col)
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %q`, table)).Scan(&n); err != nil {
		return 0, storeErr(col, "count", err)
	}
	return n, nil
}
