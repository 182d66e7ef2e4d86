// Package store handles the SQLite scorecard archive.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/crease/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so stored UTC timestamps order as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for archived innings.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS innings (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			team TEXT NOT NULL,
			balls_per_over INTEGER NOT NULL,
			total_runs INTEGER NOT NULL,
			wickets INTEGER NOT NULL,
			extras INTEGER NOT NULL,
			legal_balls INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS deliveries (
			innings_id INTEGER NOT NULL,
			over_no INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			PRIMARY KEY (innings_id, over_no, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_innings_ended_at ON innings(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_outcome ON deliveries(outcome);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertInnings stores a finished innings and its deliveries.
func (s *Store) InsertInnings(ctx context.Context, rec model.InningsRecord) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO innings (started_at, ended_at, team, balls_per_over, total_runs, wickets, extras, legal_balls)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.UTC().Format(timeLayout),
		rec.EndedAt.UTC().Format(timeLayout),
		rec.Team,
		rec.BallsPerOver,
		rec.TotalRuns,
		rec.Wickets,
		rec.Extras,
		rec.LegalBalls,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(rec.Deliveries) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO deliveries (innings_id, over_no, seq, outcome) VALUES (?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, d := range rec.Deliveries {
			if _, err = stmt.ExecContext(ctx, id, d.Over, d.Seq, d.Outcome); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListInnings returns archived innings filtered by history config, oldest first.
func (s *Store) ListInnings(ctx context.Context, cfg model.HistoryConfig) ([]model.InningsSummary, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Team != "" {
		clauses = append(clauses, "team = ?")
		args = append(args, cfg.Team)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, team, balls_per_over, total_runs, wickets, extras, legal_balls
		FROM innings
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.InningsSummary
	for rows.Next() {
		var sum model.InningsSummary
		var endedAt string
		if err := rows.Scan(&sum.InningsID, &endedAt, &sum.Team, &sum.BallsPerOver, &sum.TotalRuns, &sum.Wickets, &sum.Extras, &sum.LegalBalls); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, err
		}
		sum.EndedAt = parsed
		result = append(result, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(result) > cfg.Last {
		result = result[len(result)-cfg.Last:]
	}
	return result, nil
}

// ListOvers returns the archived overs of one innings as outcome tokens.
func (s *Store) ListOvers(ctx context.Context, inningsID int64) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT over_no, outcome FROM deliveries WHERE innings_id = ? ORDER BY over_no ASC, seq ASC`,
		inningsID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var overs [][]string
	for rows.Next() {
		var overNo int
		var outcome string
		if err := rows.Scan(&overNo, &outcome); err != nil {
			return nil, err
		}
		for len(overs) <= overNo {
			overs = append(overs, []string{})
		}
		overs[overNo] = append(overs[overNo], outcome)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return overs, nil
}

// ListOutcomeCounts aggregates outcome frequencies across innings.
func (s *Store) ListOutcomeCounts(ctx context.Context, inningsIDs []int64) ([]model.OutcomeAggregate, error) {
	if len(inningsIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(inningsIDs))
	args := make([]any, len(inningsIDs))
	for i, id := range inningsIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT outcome, COUNT(*) AS n
		FROM deliveries
		WHERE innings_id IN (%s)
		GROUP BY outcome`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.OutcomeAggregate
	for rows.Next() {
		var agg model.OutcomeAggregate
		if err := rows.Scan(&agg.Outcome, &agg.Count); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
