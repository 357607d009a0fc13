package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/vovakirdan/rule-runner/internal/core"
)

// RunRecord is one finished run.
type RunRecord struct {
	ID        ulid.ULID
	Mode      string
	Seed      int64
	Score     int
	Coins     int
	Level     int
	Ticks     uint64
	Duration  float64
	CreatedAt time.Time
}

// Stats are the lifetime totals. Balance is what the shop can spend.
type Stats struct {
	TotalRuns  int
	TotalCoins int
	BestScore  int
	BestCoins  int
	Balance    int
}

// RecordRun stores a finished run and folds it into the lifetime stats in a
// single transaction, so each run is counted exactly once.
func (s *Store) RecordRun(out core.RunOutcome) (RunRecord, error) {
	created := s.now()
	rec := RunRecord{
		ID:        ulid.MustNew(ulid.Timestamp(created), ulid.DefaultEntropy()),
		Mode:      out.Mode,
		Seed:      out.Seed,
		Score:     int(out.Score),
		Coins:     out.Coins,
		Level:     out.Level,
		Ticks:     out.Ticks,
		Duration:  out.Duration,
		CreatedAt: created,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return RunRecord{}, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, mode, seed, score, coins, level, ticks, duration_secs, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.Mode, rec.Seed, rec.Score, rec.Coins, rec.Level,
		int64(rec.Ticks), rec.Duration, created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("storage: cannot save run: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE stats SET
			total_runs = total_runs + 1,
			total_coins = total_coins + ?,
			best_score = MAX(best_score, ?),
			best_coins = MAX(best_coins, ?),
			balance = balance + ?
		 WHERE id = 1`,
		rec.Coins, rec.Score, rec.Coins, rec.Coins,
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("storage: cannot update stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return RunRecord{}, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return rec, nil
}

// Stats returns the lifetime totals.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	err := s.db.QueryRow(
		`SELECT total_runs, total_coins, best_score, best_coins, balance FROM stats WHERE id = 1`,
	).Scan(&st.TotalRuns, &st.TotalCoins, &st.BestScore, &st.BestCoins, &st.Balance)
	if err != nil {
		return Stats{}, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	return st, nil
}

// TopRuns retrieves the best N runs of a mode, highest score first.
// An empty mode covers every mode.
func (s *Store) TopRuns(mode string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, mode, seed, score, coins, level, ticks, duration_secs, created_at
		 FROM runs
		 WHERE ? = '' OR mode = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		mode, mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// RecentRuns retrieves the latest N runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, mode, seed, score, coins, level, ticks, duration_secs, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// HighScore returns the best score of a mode, or 0 when it was never played.
func (s *Store) HighScore(mode string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM runs WHERE mode = ?", mode).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearRuns deletes the run history of a mode. Lifetime stats are kept.
func (s *Store) ClearRuns(mode string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE mode = ?", mode); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

func scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			r         RunRecord
			id        string
			ticks     int64
			createdAt any
		)
		if err := rows.Scan(&id, &r.Mode, &r.Seed, &r.Score, &r.Coins, &r.Level, &ticks, &r.Duration, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		parsed, err := ulid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("storage: bad run id %q: %w", id, err)
		}
		r.ID = parsed
		r.Ticks = uint64(ticks)
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}
