package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // cgo-free SQLite driver

	"github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource"
)

// Adapter implements profiling operations for SQLite database files.
type Adapter struct {
	config *Config
	db     *sql.DB
	logger *zap.Logger
}

// NewAdapter opens a SQLite database file and verifies it is usable.
// The file must already exist: opening a missing path would silently
// create an empty database and hide typos in the configured path.
func NewAdapter(ctx context.Context, cfg *Config, logger *zap.Logger) (*Adapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, fmt.Errorf("database file: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Adapter{
		config: cfg,
		db:     db,
		logger: logger.Named("sqlite"),
	}, nil
}

// Dialect returns the canonical adapter type name.
func (a *Adapter) Dialect() string {
	return "sqlite"
}

// TestConnection verifies the database file is readable.
func (a *Adapter) TestConnection(ctx context.Context) error {
	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var result int
	if err := a.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}

	return nil
}

// Close releases the underlying connection pool.
func (a *Adapter) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// bareTable strips an optional main. schema prefix. SQLite has a single
// namespace for this adapter's purposes.
func bareTable(table string) string {
	if rest, ok := strings.CutPrefix(table, "main."); ok {
		return rest
	}
	return table
}

// quoteIdent double-quotes an identifier, escaping embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func tableRef(table string) string {
	return quoteIdent(bareTable(table))
}

func columnRef(column string) string {
	return quoteIdent(column)
}

var _ datasource.Adapter = (*Adapter)(nil)
