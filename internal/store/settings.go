package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
)

// GetSetting returns the value stored under key, or "" when the key is absent
// or the read fails. Settings reads never surface errors; callers treat ""
// as "not set". Failures are logged.
func (s *Store) GetSetting(ctx context.Context, key string) string {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return ""
	}
	if err != nil {
		slog.Warn("settings read failed", "key", key, "error", err)
		return ""
	}
	return value
}

// SetSetting upserts one key/value pair.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return storeErr("settings", "setSetting", err)
	}
	return nil
}

// RemoveSetting deletes one key. Absent keys are not an error.
func (s *Store) RemoveSetting(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return storeErr("settings", "removeSetting", err)
	}
	return nil
}
