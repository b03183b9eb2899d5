package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// SnapshotRepository stores the last observed row-count snapshot per
// service for change detection.
type SnapshotRepository interface {
	// Load returns the previous snapshot. ok is false when no snapshot
	// has been taken yet; a corrupt snapshot counts as absent.
	Load(service string) (counts map[string]int64, ok bool, err error)

	// Save replaces the snapshot for a service.
	Save(service string, counts map[string]int64) error
}

// fileSnapshotRepository keeps one JSON file per service under a
// snapshots/ subdirectory, apart from the history series files.
type fileSnapshotRepository struct {
	dir    string
	logger *zap.Logger
}

// NewFileSnapshotRepository creates a snapshot repository under
// dir/snapshots. The directory is created on first write.
func NewFileSnapshotRepository(dir string, logger *zap.Logger) SnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fileSnapshotRepository{
		dir:    filepath.Join(dir, "snapshots"),
		logger: logger.Named("snapshot_repo"),
	}
}

var _ SnapshotRepository = (*fileSnapshotRepository)(nil)

func (r *fileSnapshotRepository) Load(service string) (map[string]int64, bool, error) {
	path := r.path(service)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var counts map[string]int64
	if err := json.Unmarshal(data, &counts); err != nil {
		r.logger.Warn("corrupt snapshot, treating as first check",
			zap.String("path", path),
			zap.Error(err))
		return nil, false, nil
	}
	return counts, true, nil
}

func (r *fileSnapshotRepository) Save(service string, counts map[string]int64) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	data, err := json.MarshalIndent(counts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return writeFileAtomic(r.path(service), data)
}

func (r *fileSnapshotRepository) path(service string) string {
	return filepath.Join(r.dir, safeName(service)+".json")
}
