package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/chaindemo/internal/flow"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeRunning  Outcome = "running"
	OutcomeDeployed Outcome = "deployed"
	OutcomeReset    Outcome = "reset"
)

// ErrRunNotFound is returned when no run matches an id or prefix.
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRun is returned when an id prefix matches several runs.
var ErrAmbiguousRun = errors.New("run id prefix is ambiguous")

// Run is one demo run from first action to deploy or reset.
type Run struct {
	ID         string
	Payload    string
	Network    string
	Prompt     string
	StartedAt  time.Time
	FinishedAt *time.Time
	FinalStep  string
	Outcome    Outcome
	TxHash     string
	EventCount int
}

// Duration is the wall time of a finished run, or zero while running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// EventRecord is a journaled flow event.
type EventRecord struct {
	ID     int64
	RunID  string
	Kind   flow.EventKind
	Step   string
	Detail string
	At     time.Time
}

// Stats summarizes the journal.
type Stats struct {
	Runs      int
	Deployed  int
	Reset     int
	Running   int
	AvgDeploy time.Duration // mean duration of deployed runs
}

const runColumns = `r.id, r.payload, r.network, r.prompt, r.started_at, r.finished_at,
	r.final_step, r.outcome, r.tx_hash,
	(SELECT COUNT(*) FROM run_events e WHERE e.run_id = r.id)`

func scanRun(scanner interface{ Scan(...any) error }) (Run, error) {
	var (
		run        Run
		startedAt  int64
		finishedAt sql.NullInt64
		outcome    string
	)
	err := scanner.Scan(&run.ID, &run.Payload, &run.Network, &run.Prompt, &startedAt, &finishedAt,
		&run.FinalStep, &outcome, &run.TxHash, &run.EventCount)
	if err != nil {
		return Run{}, err
	}
	run.StartedAt = time.UnixMilli(startedAt)
	if finishedAt.Valid {
		t := time.UnixMilli(finishedAt.Int64)
		run.FinishedAt = &t
	}
	run.Outcome = Outcome(outcome)
	return run, nil
}

// StartRun inserts a run. Starting an existing id is a no-op.
func (db *DB) StartRun(ctx context.Context, run Run) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO runs (id, payload, network, prompt, started_at, final_step, outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Payload, run.Network, run.Prompt, run.StartedAt.UnixMilli(),
		flow.StepIdle.String(), string(OutcomeRunning),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// AppendEvent journals one event and moves the run's step along.
func (db *DB) AppendEvent(ctx context.Context, ev EventRecord) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO run_events (run_id, kind, step, detail, at) VALUES (?, ?, ?, ?, ?)`,
		ev.RunID, string(ev.Kind), ev.Step, ev.Detail, ev.At.UnixMilli(),
	); err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	if ev.Kind != flow.EventReset {
		if _, err := tx.ExecContext(ctx,
			`UPDATE runs SET final_step = ? WHERE id = ? AND outcome = ?`,
			ev.Step, ev.RunID, string(OutcomeRunning),
		); err != nil {
			return fmt.Errorf("updating run step: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing event: %w", err)
	}
	return nil
}

// FinishRun closes a running run. Finished runs are left untouched.
func (db *DB) FinishRun(ctx context.Context, id string, outcome Outcome, step, txHash string, at time.Time) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE runs SET outcome = ?, final_step = ?, tx_hash = ?, finished_at = ?
		 WHERE id = ? AND outcome = ?`,
		string(outcome), step, txHash, at.UnixMilli(), id, string(OutcomeRunning),
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

// ListRuns returns the newest runs first. limit <= 0 returns all of them.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs r ORDER BY r.started_at DESC, r.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun finds a run by full id or unique prefix. An exact id match wins
// over any number of longer ids sharing it as a prefix.
func (db *DB) GetRun(ctx context.Context, idOrPrefix string) (Run, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs r WHERE r.id LIKE ? || '%' ESCAPE '\'
		ORDER BY (r.id = ?) DESC LIMIT 2`,
		escapeLike(idOrPrefix), idOrPrefix)
	if err != nil {
		return Run{}, fmt.Errorf("finding run: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var found []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, fmt.Errorf("scanning run: %w", err)
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}

	switch len(found) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return found[0], nil
	default:
		if found[0].ID == idOrPrefix {
			return found[0], nil
		}
		return Run{}, fmt.Errorf("%w: %s", ErrAmbiguousRun, idOrPrefix)
	}
}

// Events returns a run's events in the order they were recorded.
func (db *DB) Events(ctx context.Context, runID string) ([]EventRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, run_id, kind, step, detail, at FROM run_events WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []EventRecord
	for rows.Next() {
		var (
			ev   EventRecord
			kind string
			at   int64
		)
		if err := rows.Scan(&ev.ID, &ev.RunID, &kind, &ev.Step, &ev.Detail, &at); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		ev.Kind = flow.EventKind(kind)
		ev.At = time.UnixMilli(at)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Prune deletes all but the newest keep runs and returns how many went.
func (db *DB) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	return res.RowsAffected()
}

// Stats summarizes all runs in the journal.
func (db *DB) Stats(ctx context.Context) (Stats, error) {
	var (
		s   Stats
		avg sql.NullFloat64
	)
	err := db.conn.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COALESCE(SUM(outcome = 'deployed'), 0),
			COALESCE(SUM(outcome = 'reset'), 0),
			COALESCE(SUM(outcome = 'running'), 0),
			AVG(CASE WHEN outcome = 'deployed' THEN finished_at - started_at END)
		FROM runs`).Scan(&s.Runs, &s.Deployed, &s.Reset, &s.Running, &avg)
	if err != nil {
		return Stats{}, fmt.Errorf("reading stats: %w", err)
	}
	if avg.Valid {
		s.AvgDeploy = time.Duration(avg.Float64) * time.Millisecond
	}
	return s, nil
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
