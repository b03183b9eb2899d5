package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
)

// HistoryRepository stores the score history series per (service, table) key.
type HistoryRepository interface {
	// Load returns the stored series for one key. Missing or corrupt
	// files yield an empty series rather than an error.
	Load(service, table string) ([]models.HistoryEntry, error)

	// Save replaces the stored series for one key.
	Save(service, table string, entries []models.HistoryEntry) error

	// LoadAll returns every table series recorded for a service, keyed by
	// table name. Corrupt files are skipped.
	LoadAll(service string) (map[string][]models.HistoryEntry, error)
}

// fileHistoryRepository keeps one JSON file per (service, table) key under
// a flat directory: <service>__<table>.json.
type fileHistoryRepository struct {
	dir    string
	logger *zap.Logger
}

// NewFileHistoryRepository creates a history repository rooted at dir.
// The directory is created on first write.
func NewFileHistoryRepository(dir string, logger *zap.Logger) HistoryRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fileHistoryRepository{
		dir:    dir,
		logger: logger.Named("history_repo"),
	}
}

var _ HistoryRepository = (*fileHistoryRepository)(nil)

func (r *fileHistoryRepository) Load(service, table string) ([]models.HistoryEntry, error) {
	path := filepath.Join(r.dir, historyFileName(service, table))

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []models.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", path, err)
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		// A torn or hand-edited file must not block future runs.
		r.logger.Warn("corrupt history file, starting fresh",
			zap.String("path", path),
			zap.Error(err))
		return []models.HistoryEntry{}, nil
	}
	return entries, nil
}

func (r *fileHistoryRepository) Save(service, table string, entries []models.HistoryEntry) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	path := filepath.Join(r.dir, historyFileName(service, table))
	return writeFileAtomic(path, data)
}

func (r *fileHistoryRepository) LoadAll(service string) (map[string][]models.HistoryEntry, error) {
	dirEntries, err := os.ReadDir(r.dir)
	if os.IsNotExist(err) {
		return map[string][]models.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	prefix := safeName(service) + "__"
	series := make(map[string][]models.HistoryEntry)
	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(r.dir, name))
		if err != nil {
			r.logger.Warn("unreadable history file, skipping",
				zap.String("file", name),
				zap.Error(err))
			continue
		}

		var entries []models.HistoryEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			r.logger.Warn("corrupt history file, skipping",
				zap.String("file", name),
				zap.Error(err))
			continue
		}

		table := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
		series[table] = entries
	}
	return series, nil
}

// historyFileName builds the flat per-key file name.
func historyFileName(service, table string) string {
	return safeName(service) + "__" + safeName(table) + ".json"
}

// safeName flattens path separators so a service or table name can never
// address a file outside the repository directory.
func safeName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	return strings.ReplaceAll(name, string(filepath.Separator), "_")
}

// writeFileAtomic writes via a temp file and rename, so readers never
// observe a partially written file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
