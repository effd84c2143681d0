// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/uidecode/lib/analysis"
	"github.com/bureau-foundation/uidecode/lib/binhash"
	"github.com/bureau-foundation/uidecode/lib/clock"
	"github.com/bureau-foundation/uidecode/lib/codec"
	"github.com/bureau-foundation/uidecode/lib/compress"
	"github.com/bureau-foundation/uidecode/lib/sqlitepool"
)

// ErrNotFound is returned when a run or file record does not exist.
var ErrNotFound = errors.New("catalog: not found")

// schemaVersion is stamped into PRAGMA user_version. Bump it whenever
// the schema below changes incompatibly.
const schemaVersion = 1

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at  INTEGER NOT NULL,
		finished_at INTEGER,
		root        TEXT NOT NULL,
		forensic    INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS files (
		run_id         INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		path           TEXT NOT NULL,
		game           TEXT NOT NULL,
		kind           TEXT NOT NULL,
		version        INTEGER NOT NULL,
		full_version   TEXT NOT NULL,
		dialect        TEXT NOT NULL,
		status         TEXT NOT NULL,
		error_kind     TEXT NOT NULL DEFAULT '',
		error_message  TEXT NOT NULL DEFAULT '',
		failure_offset INTEGER NOT NULL DEFAULT 0,
		checkpoint     INTEGER NOT NULL DEFAULT 0,
		unparsed       INTEGER NOT NULL DEFAULT 0,
		fully_decoded  INTEGER NOT NULL DEFAULT 0,
		digest         BLOB NOT NULL,
		output         TEXT NOT NULL DEFAULT '',
		duration       INTEGER NOT NULL,
		reused         INTEGER NOT NULL DEFAULT 0,
		summary        BLOB,
		summary_tag    INTEGER NOT NULL DEFAULT 0,
		summary_size   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, path)
	);
	CREATE INDEX IF NOT EXISTS idx_files_path ON files(path, run_id);
	CREATE INDEX IF NOT EXISTS idx_files_version ON files(run_id, full_version);
`

// Status is the outcome of one file in a run.
type Status string

const (
	// StatusOK means the decoder consumed the file without error.
	StatusOK Status = "ok"
	// StatusFailed means the decoder stopped on a taxonomy error.
	StatusFailed Status = "failed"
	// StatusUnsupported means no grammar exists for the version and
	// the analyzer ran instead.
	StatusUnsupported Status = "unsupported"
	// StatusMalformed means the version header could not be read.
	StatusMalformed Status = "malformed"
	// StatusAnalyzed means the run was forensic and only the analyzer
	// ran.
	StatusAnalyzed Status = "analyzed"
)

// Statuses lists every Status in report column order.
var Statuses = []Status{StatusOK, StatusFailed, StatusUnsupported, StatusMalformed, StatusAnalyzed}

// Run is one batch invocation.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time // zero while the run is in progress
	Root       string
	Forensic   bool
	Files      int
}

// Finished reports whether FinishRun was called for the run.
func (r Run) Finished() bool { return !r.FinishedAt.IsZero() }

// File is the result of processing one input file within a run.
type File struct {
	RunID         int64
	Path          string
	Game          string
	Kind          string
	Version       int
	FullVersion   string
	Dialect       string
	Status        Status
	ErrorKind     string
	ErrorMessage  string
	FailureOffset int
	Checkpoint    int
	Unparsed      int
	FullyDecoded  bool
	Digest        binhash.Digest
	Output        string
	Duration      time.Duration

	// Reused is set when the record was carried over from an earlier
	// run because the input digest did not change.
	Reused bool

	// Summary is the CBOR-encoded analysis.Summary, present when the
	// analyzer ran. The catalog stores it compressed.
	Summary []byte
}

// DecodeSummary decodes the stored analyzer summary. It returns
// ErrNotFound when the file has none.
func (f File) DecodeSummary() (analysis.Summary, error) {
	var summary analysis.Summary
	if len(f.Summary) == 0 {
		return summary, fmt.Errorf("catalog: summary for %s: %w", f.Path, ErrNotFound)
	}
	if err := codec.Unmarshal(f.Summary, &summary); err != nil {
		return summary, fmt.Errorf("catalog: decoding summary for %s: %w", f.Path, err)
	}
	return summary, nil
}

// Config holds the parameters for opening a catalog.
type Config struct {
	// Path is the SQLite database file. The parent directory must
	// exist.
	Path string

	// PoolSize defaults to 4 if zero or negative.
	PoolSize int

	// SummaryCompression is applied to stored summaries. Summaries that
	// do not shrink are stored uncompressed.
	SummaryCompression compress.Tag

	// Clock stamps run start and finish times. Required.
	Clock clock.Clock

	// Logger receives operational messages. Required.
	Logger *slog.Logger
}

// Catalog records batch runs and per-file results in SQLite. It is
// safe for concurrent use; batch workers call Record in parallel.
type Catalog struct {
	pool        *sqlitepool.Pool
	clock       clock.Clock
	logger      *slog.Logger
	compression compress.Tag
}

// Open opens or creates the catalog database.
func Open(cfg Config) (*Catalog, error) {
	if cfg.Clock == nil {
		return nil, fmt.Errorf("catalog: Clock is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("catalog: Logger is required")
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:          cfg.Path,
		PoolSize:      poolSize,
		Logger:        cfg.Logger,
		Schema:        schema,
		SchemaVersion: schemaVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	return &Catalog{
		pool:        pool,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
		compression: cfg.SummaryCompression,
	}, nil
}

// Close closes the connection pool.
func (c *Catalog) Close() error {
	return c.pool.Close()
}

// BeginRun inserts a new run and returns it.
func (c *Catalog) BeginRun(ctx context.Context, root string, forensic bool) (Run, error) {
	run := Run{StartedAt: c.clock.Now(), Root: root, Forensic: forensic}
	err := c.pool.Do(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			`INSERT INTO runs (started_at, root, forensic) VALUES (?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{run.StartedAt.UnixNano(), root, forensic}})
		if err != nil {
			return err
		}
		run.ID = conn.LastInsertRowID()
		return nil
	})
	if err != nil {
		return Run{}, fmt.Errorf("catalog: begin run: %w", err)
	}
	c.logger.Info("run started", "run", run.ID, "root", root, "forensic", forensic)
	return run, nil
}

// FinishRun stamps the run's finish time.
func (c *Catalog) FinishRun(ctx context.Context, runID int64) error {
	finished := c.clock.Now()
	err := c.pool.Do(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			`UPDATE runs SET finished_at = ? WHERE id = ?`,
			&sqlitex.ExecOptions{Args: []any{finished.UnixNano(), runID}})
		if err != nil {
			return err
		}
		if conn.Changes() == 0 {
			return fmt.Errorf("run %d: %w", runID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("catalog: finish run: %w", err)
	}
	return nil
}

// Record stores one file result. A second record for the same run and
// path replaces the first.
func (c *Catalog) Record(ctx context.Context, file File) error {
	var summaryBlob any
	summaryTag, summarySize := compress.None, 0
	if len(file.Summary) > 0 {
		compressed, tag, err := compress.CompressAuto(file.Summary, c.compression)
		if err != nil {
			return fmt.Errorf("catalog: compressing summary for %s: %w", file.Path, err)
		}
		summaryBlob, summaryTag, summarySize = compressed, tag, len(file.Summary)
	}

	err := c.pool.Transaction(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `INSERT OR REPLACE INTO files
			(run_id, path, game, kind, version, full_version, dialect,
			 status, error_kind, error_message, failure_offset, checkpoint,
			 unparsed, fully_decoded, digest, output, duration, reused,
			 summary, summary_tag, summary_size)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{
				Args: []any{
					file.RunID,
					file.Path,
					file.Game,
					file.Kind,
					file.Version,
					file.FullVersion,
					file.Dialect,
					string(file.Status),
					file.ErrorKind,
					file.ErrorMessage,
					file.FailureOffset,
					file.Checkpoint,
					file.Unparsed,
					file.FullyDecoded,
					file.Digest[:],
					file.Output,
					file.Duration.Nanoseconds(),
					file.Reused,
					summaryBlob,
					int(summaryTag),
					summarySize,
				},
			})
	})
	if err != nil {
		return fmt.Errorf("catalog: recording %s: %w", file.Path, err)
	}
	return nil
}

const runColumns = `r.id, r.started_at, r.finished_at, r.root, r.forensic,
	(SELECT count(*) FROM files f WHERE f.run_id = r.id)`

// Run returns one run by id.
func (c *Catalog) Run(ctx context.Context, runID int64) (Run, error) {
	runs, err := c.queryRuns(ctx, `SELECT `+runColumns+` FROM runs r WHERE r.id = ?`, runID)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, fmt.Errorf("catalog: run %d: %w", runID, ErrNotFound)
	}
	return runs[0], nil
}

// LatestRun returns the most recently started run.
func (c *Catalog) LatestRun(ctx context.Context) (Run, error) {
	runs, err := c.Runs(ctx, 1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, fmt.Errorf("catalog: latest run: %w", ErrNotFound)
	}
	return runs[0], nil
}

// Runs returns up to limit runs, newest first. A non-positive limit
// returns all runs.
func (c *Catalog) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	return c.queryRuns(ctx, `SELECT `+runColumns+` FROM runs r ORDER BY r.id DESC LIMIT ?`, limit)
}

func (c *Catalog) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	var runs []Run
	err := c.pool.Do(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlite.Stmt) error {
				run := Run{
					ID:        stmt.ColumnInt64(0),
					StartedAt: time.Unix(0, stmt.ColumnInt64(1)),
					Root:      stmt.ColumnText(3),
					Forensic:  stmt.ColumnBool(4),
					Files:     stmt.ColumnInt(5),
				}
				if !stmt.ColumnIsNull(2) {
					run.FinishedAt = time.Unix(0, stmt.ColumnInt64(2))
				}
				runs = append(runs, run)
				return nil
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: query runs: %w", err)
	}
	return runs, nil
}

// Query selects file records within one run. Empty fields match
// everything.
type Query struct {
	RunID       int64 // Required.
	Status      Status
	Game        string
	FullVersion string
	Limit       int // Non-positive means no limit.
}

const fileColumns = `run_id, path, game, kind, version, full_version, dialect,
	status, error_kind, error_message, failure_offset, checkpoint, unparsed,
	fully_decoded, digest, output, duration, reused, summary, summary_tag,
	summary_size`

// Files returns the records matching query, ordered by path.
func (c *Catalog) Files(ctx context.Context, query Query) ([]File, error) {
	conditions := []string{"run_id = ?"}
	args := []any{query.RunID}
	if query.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(query.Status))
	}
	if query.Game != "" {
		conditions = append(conditions, "game = ?")
		args = append(args, query.Game)
	}
	if query.FullVersion != "" {
		conditions = append(conditions, "full_version = ?")
		args = append(args, query.FullVersion)
	}
	limit := query.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)

	sql := "SELECT " + fileColumns + " FROM files WHERE " +
		strings.Join(conditions, " AND ") + " ORDER BY path LIMIT ?"
	return c.queryFiles(ctx, sql, args...)
}

// File returns the record for path within a run.
func (c *Catalog) File(ctx context.Context, runID int64, path string) (File, error) {
	files, err := c.queryFiles(ctx,
		"SELECT "+fileColumns+" FROM files WHERE run_id = ? AND path = ?", runID, path)
	if err != nil {
		return File{}, err
	}
	if len(files) == 0 {
		return File{}, fmt.Errorf("catalog: %s in run %d: %w", path, runID, ErrNotFound)
	}
	return files[0], nil
}

// LastResult returns the newest record for path from any run before
// beforeRun. The batch runner uses it to skip inputs whose digest has
// not changed. found is false when no earlier run saw the path.
func (c *Catalog) LastResult(ctx context.Context, path string, beforeRun int64) (file File, found bool, err error) {
	files, err := c.queryFiles(ctx,
		"SELECT "+fileColumns+" FROM files WHERE path = ? AND run_id < ? ORDER BY run_id DESC LIMIT 1",
		path, beforeRun)
	if err != nil {
		return File{}, false, err
	}
	if len(files) == 0 {
		return File{}, false, nil
	}
	return files[0], true, nil
}

func (c *Catalog) queryFiles(ctx context.Context, query string, args ...any) ([]File, error) {
	var files []File
	err := c.pool.Do(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlite.Stmt) error {
				file, err := scanFile(stmt)
				if err != nil {
					return err
				}
				files = append(files, file)
				return nil
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: query files: %w", err)
	}
	return files, nil
}

func scanFile(stmt *sqlite.Stmt) (File, error) {
	// Columns follow fileColumns.
	file := File{
		RunID:         stmt.ColumnInt64(0),
		Path:          stmt.ColumnText(1),
		Game:          stmt.ColumnText(2),
		Kind:          stmt.ColumnText(3),
		Version:       stmt.ColumnInt(4),
		FullVersion:   stmt.ColumnText(5),
		Dialect:       stmt.ColumnText(6),
		Status:        Status(stmt.ColumnText(7)),
		ErrorKind:     stmt.ColumnText(8),
		ErrorMessage:  stmt.ColumnText(9),
		FailureOffset: stmt.ColumnInt(10),
		Checkpoint:    stmt.ColumnInt(11),
		Unparsed:      stmt.ColumnInt(12),
		FullyDecoded:  stmt.ColumnBool(13),
		Output:        stmt.ColumnText(15),
		Duration:      time.Duration(stmt.ColumnInt64(16)),
		Reused:        stmt.ColumnBool(17),
	}
	stmt.ColumnBytes(14, file.Digest[:])

	if !stmt.ColumnIsNull(18) {
		stored := make([]byte, stmt.ColumnLen(18))
		stmt.ColumnBytes(18, stored)
		tag := compress.Tag(stmt.ColumnInt(19))
		summary, err := compress.Decompress(stored, tag, stmt.ColumnInt(20))
		if err != nil {
			return file, fmt.Errorf("summary for %s: %w", file.Path, err)
		}
		file.Summary = summary
	}
	return file, nil
}
