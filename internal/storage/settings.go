package storage

import (
	"fmt"

	"github.com/vovakirdan/rule-runner/internal/config"
)

// Features overlays the stored toggles on defaults. Rows with names that
// are no longer known are ignored.
func (s *Store) Features(defaults config.Features) (config.Features, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return defaults, fmt.Errorf("storage: cannot query settings: %w", err)
	}
	defer rows.Close()

	f := defaults
	for rows.Next() {
		var (
			key   string
			value int
		)
		if err := rows.Scan(&key, &value); err != nil {
			return defaults, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		_ = f.Set(key, value != 0)
	}
	if err := rows.Err(); err != nil {
		return defaults, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return f, nil
}

// SetFeature persists one toggle. Unknown names are rejected with
// config.ErrUnknownFeature.
func (s *Store) SetFeature(key string, on bool) error {
	var probe config.Features
	if err := probe.Set(key, on); err != nil {
		return err
	}
	value := 0
	if on {
		value = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save setting %s: %w", key, err)
	}
	return nil
}
