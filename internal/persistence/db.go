// Package persistence provides the SQLite narrative archive: one row per
// run, every log line each agent produced, and periodic metric snapshots.
package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/talgya/novelgen/internal/agents"
)

// DB wraps a SQLite connection for the narrative archive.
type DB struct {
	conn    *sqlx.DB
	entropy *ulid.MonotonicEntropy
}

// Run describes one archived simulation run.
type Run struct {
	ID        string    `db:"id" json:"id"`
	Seed      int64     `db:"seed" json:"seed"`
	Scale     int       `db:"scale" json:"scale"`
	Agents    int       `db:"agents" json:"agents"`
	Ticks     uint64    `db:"ticks" json:"ticks"`
	StartedAt time.Time `db:"started_at" json:"started_at"`
}

// Entry is an archived log line.
type Entry struct {
	RunID   string `db:"run_id" json:"run_id"`
	Tick    uint64 `db:"tick" json:"tick"`
	AgentID int    `db:"agent_id" json:"agent_id"`
	Agent   string `db:"agent" json:"agent"`
	Text    string `db:"text" json:"text"`
}

// Metric is one counter value in a snapshot.
type Metric struct {
	Name  string `db:"name" json:"name"`
	Value int    `db:"value" json:"value"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{
		conn:    conn,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		scale INTEGER NOT NULL,
		agents INTEGER NOT NULL,
		ticks INTEGER NOT NULL DEFAULT 0,
		started_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS narratives (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		agent_id INTEGER NOT NULL,
		agent TEXT NOT NULL,
		text TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS metrics (
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		name TEXT NOT NULL,
		value INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick, name)
	);

	CREATE INDEX IF NOT EXISTS idx_narratives_run_agent ON narratives(run_id, agent_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

func (db *DB) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), db.entropy).String()
}

// CreateRun registers a new run and returns it with a fresh ULID.
func (db *DB) CreateRun(ctx context.Context, seed int64, scale, agentCount int) (Run, error) {
	run := Run{
		ID:        db.newID(),
		Seed:      seed,
		Scale:     scale,
		Agents:    agentCount,
		StartedAt: time.Now().UTC(),
	}
	_, err := db.conn.NamedExecContext(ctx,
		`INSERT INTO runs (id, seed, scale, agents, ticks, started_at)
		 VALUES (:id, :seed, :scale, :agents, :ticks, :started_at)`, run)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	slog.Info("run registered", "run", run.ID, "seed", seed, "agents", agentCount)
	return run, nil
}

// FinishRun records how many ticks a run lasted.
func (db *DB) FinishRun(ctx context.Context, runID string, ticks uint64) error {
	res, err := db.conn.ExecContext(ctx, "UPDATE runs SET ticks = ? WHERE id = ?", ticks, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run: unknown run %q", runID)
	}
	return nil
}

// SaveNarrative appends log entries to a run.
func (db *DB) SaveNarrative(ctx context.Context, runID string, entries []agents.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx,
		"INSERT INTO narratives (run_id, tick, agent_id, agent, text) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, runID, e.Tick, int(e.AgentID), e.Agent, e.Text); err != nil {
			return fmt.Errorf("insert narrative at tick %d: %w", e.Tick, err)
		}
	}

	return tx.Commit()
}

// SaveMetrics stores a snapshot of the event counters at a tick.
func (db *DB) SaveMetrics(ctx context.Context, runID string, tick uint64, metrics map[string]int) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for name, value := range metrics {
		_, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO metrics (run_id, tick, name, value) VALUES (?, ?, ?, ?)",
			runID, tick, name, value,
		)
		if err != nil {
			return fmt.Errorf("insert metric %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// Runs lists archived runs, newest first.
func (db *DB) Runs(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.SelectContext(ctx, &runs,
		"SELECT id, seed, scale, agents, ticks, started_at FROM runs ORDER BY id DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// LatestRun returns the most recently created run.
func (db *DB) LatestRun(ctx context.Context) (Run, error) {
	var run Run
	err := db.conn.GetContext(ctx, &run,
		"SELECT id, seed, scale, agents, ticks, started_at FROM runs ORDER BY id DESC LIMIT 1")
	if err != nil {
		return Run{}, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

// GetRun returns the run with the given id.
func (db *DB) GetRun(ctx context.Context, runID string) (Run, error) {
	var run Run
	err := db.conn.GetContext(ctx, &run,
		"SELECT id, seed, scale, agents, ticks, started_at FROM runs WHERE id = ?", runID)
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	return run, nil
}

// Narrative returns one agent's archived story in tick order.
func (db *DB) Narrative(ctx context.Context, runID string, agentID int) ([]Entry, error) {
	var entries []Entry
	err := db.conn.SelectContext(ctx, &entries,
		`SELECT run_id, tick, agent_id, agent, text FROM narratives
		 WHERE run_id = ? AND agent_id = ? ORDER BY id`,
		runID, agentID,
	)
	return entries, err
}

// AllNarrative returns every archived line of a run in insertion order.
func (db *DB) AllNarrative(ctx context.Context, runID string) ([]Entry, error) {
	var entries []Entry
	err := db.conn.SelectContext(ctx, &entries,
		"SELECT run_id, tick, agent_id, agent, text FROM narratives WHERE run_id = ? ORDER BY id",
		runID,
	)
	return entries, err
}

// LatestMetrics returns the last metric snapshot of a run.
func (db *DB) LatestMetrics(ctx context.Context, runID string) ([]Metric, error) {
	var metrics []Metric
	err := db.conn.SelectContext(ctx, &metrics,
		`SELECT name, value FROM metrics
		 WHERE run_id = ? AND tick = (SELECT MAX(tick) FROM metrics WHERE run_id = ?)
		 ORDER BY name`,
		runID, runID,
	)
	return metrics, err
}
