// Package store persists pricing runs in a local SQLite file.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/meenmo/swaplib/null"
	"github.com/meenmo/swaplib/utils"
)

// ErrNotFound is returned when a trade has no stored run.
var ErrNotFound = errors.New("no pricing run found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id               TEXT PRIMARY KEY,
    trade_id         TEXT    NOT NULL,
    reference_index  TEXT    NOT NULL,
    side             TEXT    NOT NULL,
    nominal          REAL    NOT NULL,
    fixed_rate       REAL    NOT NULL,
    spread           REAL    NOT NULL,
    evaluation_date  TEXT    NOT NULL,
    npv              REAL,
    fixed_leg_npv    REAL,
    floating_leg_npv REAL,
    fixed_leg_bps    REAL,
    floating_leg_bps REAL,
    fair_rate        REAL,
    fair_spread      REAL,
    created_at       INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_trade ON runs(trade_id, created_at DESC);
`

// Run is one priced snapshot of a trade. Rates and spreads are decimal;
// results the engine did not produce are null.
type Run struct {
	ID             string     `json:"id"`
	TradeID        string     `json:"trade_id"`
	Index          string     `json:"index"`
	Side           string     `json:"side"`
	Nominal        float64    `json:"nominal"`
	FixedRate      float64    `json:"fixed_rate"`
	Spread         float64    `json:"spread"`
	EvaluationDate time.Time  `json:"evaluation_date"`
	NPV            null.Float `json:"npv"`
	FixedLegNPV    null.Float `json:"fixed_leg_npv"`
	FloatingLegNPV null.Float `json:"floating_leg_npv"`
	FixedLegBPS    null.Float `json:"fixed_leg_bps"`
	FloatingLegBPS null.Float `json:"floating_leg_bps"`
	FairRate       null.Float `json:"fair_rate"`
	FairSpread     null.Float `json:"fair_spread"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Store is a SQLite-backed run history (pure Go, no cgo).
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dsn and applies the schema.
// Use ":memory:" for a throwaway store.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store.Open: open %q: %w", dsn, err)
	}
	db.SetMaxOpenConns(1) // single writer; also keeps ":memory:" on one connection
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.Open: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts r, assigning an ID and a creation time when missing.
func (s *Store) Save(ctx context.Context, r *Run) error {
	if r.TradeID == "" {
		return fmt.Errorf("store.Save: empty trade id")
	}
	if r.EvaluationDate.IsZero() {
		return fmt.Errorf("store.Save: %s: missing evaluation date", r.TradeID)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
			(id, trade_id, reference_index, side, nominal, fixed_rate, spread,
			 evaluation_date, npv, fixed_leg_npv, floating_leg_npv,
			 fixed_leg_bps, floating_leg_bps, fair_rate, fair_spread, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.TradeID, r.Index, r.Side, r.Nominal, r.FixedRate, r.Spread,
		utils.FormatDate(r.EvaluationDate), r.NPV, r.FixedLegNPV, r.FloatingLegNPV,
		r.FixedLegBPS, r.FloatingLegBPS, r.FairRate, r.FairSpread, r.CreatedAt.UnixNano(),
	); err != nil {
		return fmt.Errorf("store.Save: insert %s: %w", r.TradeID, err)
	}
	slog.Debug("pricing run saved", "id", r.ID, "trade", r.TradeID)
	return nil
}

const selectRuns = `
	SELECT id, trade_id, reference_index, side, nominal, fixed_rate, spread,
	       evaluation_date, npv, fixed_leg_npv, floating_leg_npv,
	       fixed_leg_bps, floating_leg_bps, fair_rate, fair_spread, created_at
	FROM runs`

// ListByTrade returns the runs of tradeID, newest first. A non-positive
// limit returns every run.
func (s *Store) ListByTrade(ctx context.Context, tradeID string, limit int) ([]Run, error) {
	runs, err := s.queryRuns(ctx,
		selectRuns+` WHERE trade_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		tradeID, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("store.ListByTrade: %w", err)
	}
	return runs, nil
}

// List returns the most recent runs across all trades.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	runs, err := s.queryRuns(ctx,
		selectRuns+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("store.List: %w", err)
	}
	return runs, nil
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return runs, nil
}

// Latest returns the newest run of tradeID or ErrNotFound.
func (s *Store) Latest(ctx context.Context, tradeID string) (Run, error) {
	runs, err := s.ListByTrade(ctx, tradeID, 1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, fmt.Errorf("store.Latest: %s: %w", tradeID, ErrNotFound)
	}
	return runs[0], nil
}

// Prune deletes runs created before cutoff and reports how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("store.Prune: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		r         Run
		evalDate  string
		createdAt int64
	)
	if err := rows.Scan(
		&r.ID, &r.TradeID, &r.Index, &r.Side, &r.Nominal, &r.FixedRate, &r.Spread,
		&evalDate, &r.NPV, &r.FixedLegNPV, &r.FloatingLegNPV,
		&r.FixedLegBPS, &r.FloatingLegBPS, &r.FairRate, &r.FairSpread, &createdAt,
	); err != nil {
		return Run{}, fmt.Errorf("scan row: %w", err)
	}
	d, err := utils.ParseDate(evalDate)
	if err != nil {
		return Run{}, fmt.Errorf("evaluation date: %w", err)
	}
	r.EvaluationDate = d
	r.CreatedAt = time.Unix(0, createdAt).UTC()
	return r, nil
}
