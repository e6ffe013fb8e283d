package history

import (
	"path/filepath"
	"sync"

	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/ports"
)

// Factory selects the history backend named by the configuration.
type Factory struct {
	dir    string
	log    ports.Logger
	mu     sync.Mutex
	sqlite *SQLiteStore
}

// NewFactory builds stores under dir.
func NewFactory(dir string, log ports.Logger) *Factory {
	return &Factory{dir: dir, log: log}
}

// ForConfig implements ports.HistoryRepositoryFactory. A SQLite database that
// cannot be opened degrades to the JSON file.
func (f *Factory) ForConfig(cfg domain.Config) (ports.HistoryRepository, error) {
	if cfg.HistoryBackend != domain.HistoryBackendSQLite {
		return NewFileStore(filepath.Join(f.dir, JSONFileName), f.log), nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sqlite != nil {
		return f.sqlite, nil
	}
	store, err := NewSQLiteStore(filepath.Join(f.dir, SQLiteFileName))
	if err != nil {
		if f.log != nil {
			f.log.Warn("sqlite history unavailable, falling back to json", map[string]interface{}{"error": err.Error()})
		}
		return NewFileStore(filepath.Join(f.dir, JSONFileName), f.log), nil
	}
	f.sqlite = store
	return store, nil
}

// Close releases an opened database.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sqlite == nil {
		return nil
	}
	err := f.sqlite.Close()
	f.sqlite = nil
	return err
}

var _ ports.HistoryRepositoryFactory = (*Factory)(nil)
