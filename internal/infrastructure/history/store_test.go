package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/pkg/logger"
	"github.com/doeshing/baishi/internal/ports"
)

func newStores(t *testing.T) map[string]ports.HistoryRepository {
	t.Helper()
	dir := t.TempDir()
	sqliteStore, err := NewSQLiteStore(filepath.Join(dir, SQLiteFileName))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]ports.HistoryRepository{
		"json":   NewFileStore(filepath.Join(dir, JSONFileName), logger.NewNop()),
		"sqlite": sqliteStore,
	}
}

func TestAppendNeverExceedsLimit(t *testing.T) {
	ctx := context.Background()
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			const limit = 3
			for i := 0; i < 8; i++ {
				entry := domain.HistoryEntry{
					NaturalLanguage:  fmt.Sprintf("query %d", i),
					GeneratedCommand: fmt.Sprintf("echo %d", i),
					Executed:         i%2 == 0,
				}
				if err := store.Append(ctx, entry, limit); err != nil {
					t.Fatalf("Append() error = %v", err)
				}

				records, err := store.Records(ctx, 0)
				if err != nil {
					t.Fatalf("Records() error = %v", err)
				}
				if len(records) > limit {
					t.Fatalf("after %d appends got %d records, limit %d", i+1, len(records), limit)
				}
			}

			records, _ := store.Records(ctx, 0)
			for i, want := range []string{"query 5", "query 6", "query 7"} {
				if records[i].NaturalLanguage != want {
					t.Errorf("record %d = %s, want %s", i, records[i].NaturalLanguage, want)
				}
			}
			if !records[1].Executed || records[0].Executed {
				t.Errorf("executed flags not preserved: %+v", records)
			}
			if records[0].Timestamp.IsZero() {
				t.Error("timestamp not assigned")
			}
		})
	}
}

func TestRecordsLimitReturnsNewest(t *testing.T) {
	ctx := context.Background()
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				if err := store.Append(ctx, domain.HistoryEntry{NaturalLanguage: fmt.Sprintf("q%d", i)}, 100); err != nil {
					t.Fatal(err)
				}
			}
			records, err := store.Records(ctx, 2)
			if err != nil {
				t.Fatalf("Records() error = %v", err)
			}
			if len(records) != 2 || records[0].NaturalLanguage != "q3" || records[1].NaturalLanguage != "q4" {
				t.Errorf("unexpected records %+v", records)
			}
		})
	}
}

func TestClearEmptiesHistory(t *testing.T) {
	ctx := context.Background()
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Append(ctx, domain.HistoryEntry{NaturalLanguage: "x"}, 10); err != nil {
				t.Fatal(err)
			}
			if err := store.Clear(ctx); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			records, err := store.Records(ctx, 0)
			if err != nil {
				t.Fatalf("Records() error = %v", err)
			}
			if len(records) != 0 {
				t.Errorf("got %d records after clear", len(records))
			}
		})
	}
}

func TestFileStoreRecoversFromCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), JSONFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	store := NewFileStore(path, logger.NewNop())

	records, err := store.Records(ctx, 0)
	if err != nil || len(records) != 0 {
		t.Fatalf("Records() = %v, %v; want empty, nil", records, err)
	}
	if err := store.Append(ctx, domain.HistoryEntry{NaturalLanguage: "fresh"}, 10); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	records, _ = store.Records(ctx, 0)
	if len(records) != 1 || records[0].NaturalLanguage != "fresh" {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestFactorySelectsBackend(t *testing.T) {
	factory := NewFactory(t.TempDir(), logger.NewNop())
	defer factory.Close()

	jsonStore, err := factory.ForConfig(domain.Config{HistoryBackend: domain.HistoryBackendJSON})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := jsonStore.(*FileStore); !ok {
		t.Errorf("json backend returned %T", jsonStore)
	}

	sqliteStore, err := factory.ForConfig(domain.Config{HistoryBackend: domain.HistoryBackendSQLite})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := sqliteStore.(*SQLiteStore); !ok {
		t.Errorf("sqlite backend returned %T", sqliteStore)
	}
	again, _ := factory.ForConfig(domain.Config{HistoryBackend: domain.HistoryBackendSQLite})
	if again != sqliteStore {
		t.Error("sqlite store should be reused")
	}
}
