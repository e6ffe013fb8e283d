package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/ports"
)

// SQLiteFileName is the database inside the config directory.
const SQLiteFileName = "history.db"

// SQLiteStore persists history in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT,
		timestamp TEXT,
		natural_language TEXT,
		generated_command TEXT,
		executed INTEGER,
		output TEXT,
		provider TEXT,
		exit_code INTEGER,
		success INTEGER
	);`)
	return err
}

// Append inserts a record and drops everything older than the newest limit rows.
func (s *SQLiteStore) Append(ctx context.Context, entry domain.HistoryEntry, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO history
		(uid, timestamp, natural_language, generated_command, executed, output, provider, exit_code, success)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.Format(time.RFC3339Nano),
		entry.NaturalLanguage,
		entry.GeneratedCommand,
		boolToInt(entry.Executed),
		entry.Output,
		string(entry.Provider),
		entry.ExitCode,
		boolToInt(entry.Success),
	); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY id DESC LIMIT ?)`, limit); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return tx.Commit()
}

// Records returns the newest limit entries, oldest first (all when limit <= 0).
func (s *SQLiteStore) Records(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT uid, timestamp, natural_language, generated_command, executed, output, provider, exit_code, success
		FROM history ORDER BY id DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryEntry
	for rows.Next() {
		var rec domain.HistoryEntry
		var ts, provider string
		var executed, success int
		if err := rows.Scan(&rec.ID, &ts, &rec.NaturalLanguage, &rec.GeneratedCommand, &executed, &rec.Output, &provider, &rec.ExitCode, &success); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Provider = domain.ProviderID(provider)
		rec.Executed = executed == 1
		rec.Success = success == 1
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "DELETE FROM history")
	return err
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
