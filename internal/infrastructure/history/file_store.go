package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/ports"
)

// JSONFileName is the history file inside the config directory.
const JSONFileName = "history.json"

// FileStore keeps history as a JSON array rewritten in full on every append.
type FileStore struct {
	path string
	log  ports.Logger
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string, log ports.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Append implements ports.HistoryRepository. An unreadable or corrupt log is
// replaced rather than blocking the new entry.
func (f *FileStore) Append(_ context.Context, entry domain.HistoryEntry, limit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		f.warn("discarding unreadable history", err)
		entries = nil
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entries = domain.TrimHistory(append(entries, entry), limit)

	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, domain.SecureFilePermissions)
}

// Records returns the newest limit entries, oldest first. A non-positive
// limit returns everything.
func (f *FileStore) Records(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			f.warn("history file is corrupt", err)
			return nil, nil
		}
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

// Clear removes the history file.
func (f *FileStore) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) read() ([]domain.HistoryEntry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var entries []domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (f *FileStore) warn(msg string, err error) {
	if f.log != nil {
		f.log.Warn(msg, map[string]interface{}{"path": f.path, "error": err.Error()})
	}
}

var _ ports.HistoryRepository = (*FileStore)(nil)
