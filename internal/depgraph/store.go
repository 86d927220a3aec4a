package depgraph

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ngaerrors "nga/internal/errors"
	"nga/internal/slogutil"
	"nga/internal/storage"
)

// ErrNoRuns is returned by LatestRun on an empty store.
var ErrNoRuns = errors.New("no analysis runs recorded")

// Run describes one persisted analysis run.
type Run struct {
	ID            string
	WorkspaceRoot string
	Fingerprint   string
	StartedAt     time.Time
	FinishedAt    time.Time
	Files         int
	Edges         int
	Cycles        int
}

// FileRecord is one analyzed file of a run.
type FileRecord struct {
	Path    string
	Project string
	Kind    string
}

// Snapshot is everything SaveRun persists for a run.
type Snapshot struct {
	Run    Run
	Files  []FileRecord
	Edges  []Edge
	Cycles [][]string
}

// SnapshotOf builds a snapshot of g. File and cycle counts on run are
// overwritten from the graph and the given files.
func SnapshotOf(run Run, g *Graph, files []FileRecord) Snapshot {
	edges := g.Edges()
	cycles := g.CircularDependencies()
	run.Files = len(files)
	run.Edges = len(edges)
	run.Cycles = len(cycles)
	return Snapshot{Run: run, Files: files, Edges: edges, Cycles: cycles}
}

// Store persists dependency graphs in SQLite so they can be queried after
// an analysis finished.
type Store struct {
	db     *storage.DB
	logger *slog.Logger
}

// OpenStore opens or creates the graph database at path.
func OpenStore(path string, logger *slog.Logger) (*Store, error) {
	db, err := storage.Open(path, logger)
	if err != nil {
		return nil, ngaerrors.NewNgaError(ngaerrors.StoreFailed, "cannot open graph store", err, nil).
			WithDetails(map[string]string{"path": path})
	}
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun writes a run and its graph in one transaction.
func (s *Store) SaveRun(ctx context.Context, snap Snapshot) error {
	const timeFormat = time.RFC3339Nano

	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		r := snap.Run
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO runs (run_id, workspace_root, fingerprint, started_at, finished_at, file_count, edge_count, cycle_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.WorkspaceRoot, r.Fingerprint,
			r.StartedAt.UTC().Format(timeFormat), r.FinishedAt.UTC().Format(timeFormat),
			r.Files, r.Edges, r.Cycles,
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		fileStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO files (run_id, path, project, kind) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer fileStmt.Close()
		for _, f := range snap.Files {
			if _, err := fileStmt.ExecContext(ctx, r.ID, f.Path, f.Project, f.Kind); err != nil {
				return fmt.Errorf("insert file %s: %w", f.Path, err)
			}
		}

		edgeStmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO edges (run_id, source, target) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer edgeStmt.Close()
		for _, e := range snap.Edges {
			if _, err := edgeStmt.ExecContext(ctx, r.ID, e.From, e.To); err != nil {
				return fmt.Errorf("insert edge %s -> %s: %w", e.From, e.To, err)
			}
		}

		cycleStmt, err := tx.PrepareContext(ctx, `INSERT INTO cycles (run_id, cycle_index, position, path) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer cycleStmt.Close()
		for i, cycle := range snap.Cycles {
			for pos, p := range cycle {
				if _, err := cycleStmt.ExecContext(ctx, r.ID, i, pos, p); err != nil {
					return fmt.Errorf("insert cycle %d: %w", i, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return ngaerrors.NewNgaError(ngaerrors.StoreFailed, "cannot save analysis run", err, nil)
	}

	s.logger.Debug("Saved analysis run",
		"run", snap.Run.ID,
		"files", len(snap.Files),
		"edges", len(snap.Edges),
		"cycles", len(snap.Cycles),
	)
	return nil
}

// LatestRun returns the most recently finished run, or ErrNoRuns.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	var (
		r                 Run
		started, finished string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, workspace_root, fingerprint, started_at, finished_at, file_count, edge_count, cycle_count
		FROM runs ORDER BY finished_at DESC, rowid DESC LIMIT 1`,
	).Scan(&r.ID, &r.WorkspaceRoot, &r.Fingerprint, &started, &finished, &r.Files, &r.Edges, &r.Cycles)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, ngaerrors.NewNgaError(ngaerrors.StoreFailed, "cannot read latest run", err, nil)
	}

	r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
	return &r, nil
}

// Dependencies returns the direct dependencies of file in run, sorted.
func (s *Store) Dependencies(ctx context.Context, runID, file string) ([]string, error) {
	return s.queryPaths(ctx, `
		SELECT target FROM edges WHERE run_id = ? AND source = ? ORDER BY target`,
		runID, file)
}

// Dependents returns the files in run that depend directly on file, sorted.
func (s *Store) Dependents(ctx context.Context, runID, file string) ([]string, error) {
	return s.queryPaths(ctx, `
		SELECT source FROM edges WHERE run_id = ? AND target = ? ORDER BY source`,
		runID, file)
}

// AllDependencies returns every file reachable from file in run, sorted.
// It agrees with Graph.AllDependencies on the same edges.
func (s *Store) AllDependencies(ctx context.Context, runID, file string) ([]string, error) {
	return s.queryPaths(ctx, `
		WITH RECURSIVE reach(path) AS (
			SELECT target FROM edges WHERE run_id = ?1 AND source = ?2
			UNION
			SELECT e.target FROM edges e JOIN reach r ON e.source = r.path
			WHERE e.run_id = ?1
		)
		SELECT path FROM reach ORDER BY path`,
		runID, file)
}

// AllDependents returns every file in run that reaches file, sorted.
func (s *Store) AllDependents(ctx context.Context, runID, file string) ([]string, error) {
	return s.queryPaths(ctx, `
		WITH RECURSIVE reach(path) AS (
			SELECT source FROM edges WHERE run_id = ?1 AND target = ?2
			UNION
			SELECT e.source FROM edges e JOIN reach r ON e.target = r.path
			WHERE e.run_id = ?1
		)
		SELECT path FROM reach ORDER BY path`,
		runID, file)
}

// Cycles returns the cycles recorded for run in discovery order.
func (s *Store) Cycles(ctx context.Context, runID string) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cycle_index, path FROM cycles WHERE run_id = ?
		ORDER BY cycle_index, position`, runID)
	if err != nil {
		return nil, ngaerrors.NewNgaError(ngaerrors.StoreFailed, "cannot query cycles", err, nil)
	}
	defer rows.Close()

	var (
		cycles [][]string
		last   = -1
	)
	for rows.Next() {
		var (
			idx  int
			path string
		)
		if err := rows.Scan(&idx, &path); err != nil {
			return nil, err
		}
		if idx != last {
			cycles = append(cycles, nil)
			last = idx
		}
		cycles[len(cycles)-1] = append(cycles[len(cycles)-1], path)
	}
	return cycles, rows.Err()
}

// Files returns the files recorded for run, sorted by path.
func (s *Store) Files(ctx context.Context, runID string) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, project, kind FROM files WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, ngaerrors.NewNgaError(ngaerrors.StoreFailed, "cannot query files", err, nil)
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.Path, &f.Project, &f.Kind); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *Store) queryPaths(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ngaerrors.NewNgaError(ngaerrors.StoreFailed, "graph query failed", err, nil)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
