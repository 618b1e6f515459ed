package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Zuo-Peng/chat-analytics/internal/chat"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS exports (
    export_key TEXT PRIMARY KEY,
    source     TEXT NOT NULL,
    path       TEXT NOT NULL,
    channel    TEXT NOT NULL DEFAULT '',
    mtime      INTEGER NOT NULL DEFAULT 0,
    size       INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS messages (
    export_key TEXT NOT NULL,
    seq        INTEGER NOT NULL,
    ts         INTEGER NOT NULL,
    sender     TEXT NOT NULL,
    channel    TEXT NOT NULL,
    source     TEXT NOT NULL,
    content    TEXT NOT NULL,
    PRIMARY KEY (export_key, seq)
);

CREATE INDEX IF NOT EXISTS messages_ts ON messages(ts);

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// one connection keeps :memory: databases shared across queries
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	if err := d.migrateSchemaVersion(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

// schemaVersion should be bumped whenever parsing logic changes to force a
// full re-index.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() error {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if ver == schemaVersion {
		return nil
	}
	// zeroed mtime/size makes every export look changed
	if _, err := d.db.Exec("UPDATE exports SET mtime = 0, size = 0"); err != nil {
		return err
	}
	_, err = d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	return err
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

type ExportInfo struct {
	Mtime int64
	Size  int64
}

func (d *DB) GetExportInfo(key string) (*ExportInfo, error) {
	var info ExportInfo
	err := d.db.QueryRow(
		"SELECT mtime, size FROM exports WHERE export_key = ?", key,
	).Scan(&info.Mtime, &info.Size)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (d *DB) AllExportKeys() (map[string]struct{}, error) {
	rows, err := d.db.Query("SELECT export_key FROM exports")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys[k] = struct{}{}
	}
	return keys, rows.Err()
}

func (d *DB) DeleteExport(key string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE export_key = ?", key); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM exports WHERE export_key = ?", key); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) ExportCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM exports").Scan(&n)
	return n, err
}

func (d *DB) MessageCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}

// ChannelRow summarizes one channel of one source.
type ChannelRow struct {
	Source   chat.Source
	Channel  string
	Messages int
	First    time.Time
	Last     time.Time
}

func (d *DB) Channels() ([]ChannelRow, error) {
	rows, err := d.db.Query(`
		SELECT source, channel, COUNT(*), MIN(ts), MAX(ts)
		FROM messages GROUP BY source, channel ORDER BY source, channel`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChannelRow
	for rows.Next() {
		var c ChannelRow
		var first, last int64
		if err := rows.Scan(&c.Source, &c.Channel, &c.Messages, &first, &last); err != nil {
			return nil, err
		}
		c.First, c.Last = time.Unix(0, first).UTC(), time.Unix(0, last).UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

// Filter narrows LoadMessages. Zero fields match everything.
type Filter struct {
	Source  chat.Source
	Channel string
	Since   time.Time
}

func (f Filter) where() (string, []any) {
	var conds []string
	var args []any
	if f.Source != "" {
		conds = append(conds, "source = ?")
		args = append(args, string(f.Source))
	}
	if f.Channel != "" {
		conds = append(conds, "channel = ?")
		args = append(args, f.Channel)
	}
	if !f.Since.IsZero() {
		conds = append(conds, "ts >= ?")
		args = append(args, f.Since.UnixNano())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// LoadMessages returns the matching messages in timestamp order, in UTC.
func (d *DB) LoadMessages(f Filter) ([]chat.Message, error) {
	where, args := f.where()
	rows, err := d.db.Query(
		"SELECT ts, sender, channel, source, content FROM messages"+where+" ORDER BY ts, export_key, seq",
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		var ts int64
		if err := rows.Scan(&ts, &m.Sender, &m.Channel, &m.Source, &m.Content); err != nil {
			return nil, err
		}
		m.Timestamp = time.Unix(0, ts).UTC()
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
