// Package history keeps finalized transcripts in a local SQLite database so
// past dictations can be recalled.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
)

const (
	dbFilename = "history.db"
	schema     = `
CREATE TABLE IF NOT EXISTS transcripts (
    id TEXT PRIMARY KEY,
    session_id INTEGER NOT NULL,
    raw_text TEXT NOT NULL,
    final_text TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_transcripts_created_at ON transcripts(created_at DESC);
`
)

// DefaultDir resolves the per-user cache directory for the database.
func DefaultDir(appName string) string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.Getenv("HOME"), ".cache", appName)
	}
	return filepath.Join(dir, appName)
}

// DB implements ports.HistoryStore over SQLite.
type DB struct {
	conn *sql.DB
	path string
}

func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	path := filepath.Join(dir, dbFilename)
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &DB{conn: conn, path: path}, nil
}

func (db *DB) Append(record domain.TranscriptRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt == "" {
		record.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	const query = `INSERT INTO transcripts (id, session_id, raw_text, final_text, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := db.conn.Exec(query, record.ID, record.SessionID, record.Raw, record.Final, record.CreatedAt); err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	return nil
}

func (db *DB) Recent(limit int) ([]domain.TranscriptRecord, error) {
	query := `SELECT id, session_id, raw_text, final_text, created_at FROM transcripts ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	var records []domain.TranscriptRecord
	for rows.Next() {
		var r domain.TranscriptRecord
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Raw, &r.Final, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcripts: %w", err)
	}
	return records, nil
}

func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

func (db *DB) Path() string {
	return db.path
}
