// Package store persists clipboard history and statistics counters in a
// SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"github.com/suykerbuyk/reflow/internal/history"
	"github.com/suykerbuyk/reflow/internal/stats"
)

const schemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_meta (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS history (
	id            TEXT PRIMARY KEY,
	position      INTEGER NOT NULL,
	content       BLOB NOT NULL,
	compressed    INTEGER NOT NULL DEFAULT 0,
	source_id     TEXT NOT NULL DEFAULT '',
	source_name   TEXT NOT NULL DEFAULT '',
	first_copy    TEXT NOT NULL,
	last_copy     TEXT NOT NULL,
	copy_count    INTEGER NOT NULL DEFAULT 1,
	from_terminal INTEGER NOT NULL DEFAULT 0,
	mixed_source  INTEGER NOT NULL DEFAULT 0,
	pinned        INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS counters (
	scope         TEXT PRIMARY KEY,
	lines_joined  INTEGER NOT NULL DEFAULT 0,
	pastes        INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_history_position ON history(position);
`

const (
	scopeSession = "session"
	scopeAllTime = "all_time"
)

// DB is the reflow state database. It implements history.Store and
// stats.Store. Several processes may share one database file: every change
// reads the current rows and writes the result in a single transaction.
type DB struct {
	db       *sql.DB
	compress bool

	enc *zstd.Encoder
	dec *zstd.Decoder
}

var (
	_ history.Store = (*DB)(nil)
	_ stats.Store   = (*DB)(nil)
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// dsn builds the connection string for path. Transactions take the write
// lock when they begin, so two processes updating at once queue on
// busy_timeout instead of failing with SQLITE_BUSY halfway through.
func dsn(path string, params ...string) string {
	return "file:" + filepath.ToSlash(path) + "?" + strings.Join(params, "&")
}

// Open opens (or creates) the database at path, creating parent
// directories. An outdated schema is dropped and recreated. When compress is
// set, history content is written zstd-compressed; existing rows are read
// either way.
func Open(path string, compress bool) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(path, "_pragma=busy_timeout(5000)", "_txlock=immediate"))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite

	ver, err := currentSchemaVersion(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("check schema version: %w", err)
	}
	if ver != schemaVersion {
		if err := migrateSchema(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate schema: %w", err)
		}
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		_ = db.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &DB{db: db, compress: compress, enc: enc, dec: dec}, nil
}

// Close releases the database and codecs.
func (d *DB) Close() error {
	d.dec.Close()
	_ = d.enc.Close()
	return d.db.Close()
}

// Info describes a database found on disk.
type Info struct {
	SchemaVersion int
	Current       bool // schema matches this build; Items is only set then
	Items         int
}

// Inspect reads the schema version and item count of the database at path
// without creating, migrating or writing anything.
func Inspect(path string) (Info, error) {
	if _, err := os.Stat(path); err != nil {
		return Info{}, err
	}

	db, err := sql.Open("sqlite", dsn(path, "mode=ro", "_pragma=busy_timeout(5000)"))
	if err != nil {
		return Info{}, fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ver, err := currentSchemaVersion(db)
	if err != nil {
		return Info{}, fmt.Errorf("check schema version: %w", err)
	}
	info := Info{SchemaVersion: ver, Current: ver == schemaVersion}
	if !info.Current {
		return info, nil
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM history").Scan(&info.Items); err != nil {
		return Info{}, fmt.Errorf("count history: %w", err)
	}
	return info, nil
}

// currentSchemaVersion returns the schema version from schema_meta, or 0 if
// the table doesn't exist.
func currentSchemaVersion(db *sql.DB) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name='schema_meta'
	`).Scan(&count)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}

	var ver int
	err = db.QueryRow("SELECT version FROM schema_meta LIMIT 1").Scan(&ver)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return ver, err
}

// migrateSchema drops all tables and recreates the current schema. History
// is a short rolling buffer, so losing it on upgrade is acceptable.
func migrateSchema(db *sql.DB) error {
	return withTx(db, func(tx *sql.Tx) error {
		drops := []string{
			"DROP TABLE IF EXISTS history",
			"DROP TABLE IF EXISTS counters",
			"DROP TABLE IF EXISTS schema_meta",
		}
		for _, stmt := range drops {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("drop table: %w", err)
			}
		}

		if _, err := tx.Exec(schemaV1); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.Exec("INSERT INTO schema_meta (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("insert schema version: %w", err)
		}
		return nil
	})
}

// withTx runs fn in a transaction.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ---------------------------------------------------------------------------
// History
// ---------------------------------------------------------------------------

// ListItems returns the stored history in saved order.
func (d *DB) ListItems() ([]history.Item, error) {
	return d.listItems(d.db)
}

// UpdateItems hands fn the stored history and replaces it with fn's result.
// Reading and writing happen in one transaction, so a change made by another
// process in between is never overwritten. An error from fn leaves the
// stored history untouched.
func (d *DB) UpdateItems(fn func(items []history.Item) ([]history.Item, error)) error {
	return withTx(d.db, func(tx *sql.Tx) error {
		items, err := d.listItems(tx)
		if err != nil {
			return err
		}
		if items, err = fn(items); err != nil {
			return err
		}
		return d.saveItems(tx, items)
	})
}

func (d *DB) listItems(q querier) ([]history.Item, error) {
	rows, err := q.Query(`
		SELECT id, content, compressed, source_id, source_name, first_copy,
		       last_copy, copy_count, from_terminal, mixed_source, pinned
		FROM history
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []history.Item
	for rows.Next() {
		var (
			it                      history.Item
			content                 []byte
			compressed              int
			first, last             string
			fromTerm, mixed, pinned int
		)
		if err := rows.Scan(&it.ID, &content, &compressed, &it.SourceID, &it.SourceName,
			&first, &last, &it.CopyCount, &fromTerm, &mixed, &pinned); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}

		if compressed == 1 {
			content, err = d.dec.DecodeAll(content, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress item %s: %w", it.ID, err)
			}
		}
		it.Content = string(content)

		if it.FirstCopy, err = parseTime(first); err != nil {
			return nil, fmt.Errorf("item %s first_copy: %w", it.ID, err)
		}
		if it.LastCopy, err = parseTime(last); err != nil {
			return nil, fmt.Errorf("item %s last_copy: %w", it.ID, err)
		}
		it.FromTerminal = fromTerm == 1
		it.MixedSource = mixed == 1
		it.Pinned = pinned == 1

		out = append(out, it)
	}
	return out, rows.Err()
}

// saveItems replaces the stored history with items, in order.
func (d *DB) saveItems(tx *sql.Tx, items []history.Item) error {
	if _, err := tx.Exec("DELETE FROM history"); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO history (id, position, content, compressed, source_id,
			source_name, first_copy, last_copy, copy_count, from_terminal,
			mixed_source, pinned)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, it := range items {
		content := []byte(it.Content)
		compressed := 0
		if d.compress {
			content = d.enc.EncodeAll(content, nil)
			compressed = 1
		}
		if _, err := stmt.Exec(it.ID, i, content, compressed, it.SourceID,
			it.SourceName, formatTime(it.FirstCopy), formatTime(it.LastCopy),
			it.CopyCount, boolInt(it.FromTerminal), boolInt(it.MixedSource),
			boolInt(it.Pinned)); err != nil {
			return fmt.Errorf("insert item %s: %w", it.ID, err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Counters
// ---------------------------------------------------------------------------

// Counters returns the stored statistics; missing rows read as zero.
func (d *DB) Counters() (stats.Snapshot, error) {
	return counters(d.db)
}

// AddPaste increments both counter sets in place and returns the totals
// as stored, including pastes recorded by other processes.
func (d *DB) AddPaste(linesJoined int64) (stats.Snapshot, error) {
	var s stats.Snapshot
	err := withTx(d.db, func(tx *sql.Tx) error {
		for _, scope := range []string{scopeSession, scopeAllTime} {
			if _, err := tx.Exec(`
				INSERT INTO counters (scope, lines_joined, pastes) VALUES (?, ?, 1)
				ON CONFLICT(scope) DO UPDATE SET
					lines_joined = lines_joined + excluded.lines_joined,
					pastes = pastes + 1
			`, scope, linesJoined); err != nil {
				return fmt.Errorf("increment %s counters: %w", scope, err)
			}
		}
		var err error
		s, err = counters(tx)
		return err
	})
	return s, err
}

// ResetCounters zeroes the session counters, and the all-time ones too when
// allTime is set. It returns the totals as stored afterwards.
func (d *DB) ResetCounters(allTime bool) (stats.Snapshot, error) {
	scopes := []string{scopeSession}
	if allTime {
		scopes = append(scopes, scopeAllTime)
	}

	var s stats.Snapshot
	err := withTx(d.db, func(tx *sql.Tx) error {
		for _, scope := range scopes {
			if _, err := tx.Exec(
				"UPDATE counters SET lines_joined = 0, pastes = 0 WHERE scope = ?", scope,
			); err != nil {
				return fmt.Errorf("reset %s counters: %w", scope, err)
			}
		}
		var err error
		s, err = counters(tx)
		return err
	})
	return s, err
}

func counters(q querier) (stats.Snapshot, error) {
	rows, err := q.Query("SELECT scope, lines_joined, pastes FROM counters")
	if err != nil {
		return stats.Snapshot{}, fmt.Errorf("query counters: %w", err)
	}
	defer rows.Close()

	var s stats.Snapshot
	for rows.Next() {
		var scope string
		var c stats.Counters
		if err := rows.Scan(&scope, &c.LinesJoined, &c.Pastes); err != nil {
			return stats.Snapshot{}, fmt.Errorf("scan counters: %w", err)
		}
		switch scope {
		case scopeSession:
			s.Session = c
		case scopeAllTime:
			s.AllTime = c
		}
	}
	return s, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
