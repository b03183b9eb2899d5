package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource"
	"github.com/tablepulse-io/tablepulse-engine/pkg/config"
)

// defaultSchema is the schema PostgreSQL resolves unqualified names against.
const defaultSchema = "public"

// Adapter provides PostgreSQL connectivity and metric pushdown.
type Adapter struct {
	config *Config
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// buildConnectionString builds a PostgreSQL URL with proper escaping.
// All user-provided fields must be URL-escaped to handle special characters
// in passwords (e.g., @, /, #, ?) that would otherwise break URL parsing.
// When running in Docker, localhost is automatically resolved to
// host.docker.internal to reach databases running on the host machine.
func buildConnectionString(cfg *Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	host := config.ResolveHostForDocker(cfg.Host)

	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		host,
		cfg.Port,
		url.QueryEscape(cfg.Database),
		sslMode,
	)
}

// NewAdapter creates a PostgreSQL adapter with its own connection pool.
// If logger is nil, a no-op logger is used.
func NewAdapter(ctx context.Context, cfg *Config, logger *zap.Logger) (*Adapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pool, err := pgxpool.New(ctx, buildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &Adapter{
		config: cfg,
		pool:   pool,
		logger: logger.Named("postgres"),
	}, nil
}

// Dialect returns the canonical adapter type.
func (a *Adapter) Dialect() string {
	return "postgres"
}

// TestConnection verifies the database is reachable with valid credentials.
// It checks:
// 1. Server connectivity (ping)
// 2. Database access (simple query)
// 3. Correct database name (to prevent connecting to wrong/default database)
func (a *Adapter) TestConnection(ctx context.Context) error {
	if err := a.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var result int
	if err := a.pool.QueryRow(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}

	var currentDB string
	if err := a.pool.QueryRow(ctx, "SELECT current_database()").Scan(&currentDB); err != nil {
		return fmt.Errorf("failed to get current database name: %w", err)
	}

	if !strings.EqualFold(currentDB, a.config.Database) {
		return fmt.Errorf("connected to wrong database: expected %q but connected to %q", a.config.Database, currentDB)
	}

	return nil
}

// Close releases the connection pool.
func (a *Adapter) Close() error {
	if a.pool != nil {
		a.pool.Close()
	}
	return nil
}

// splitTable parses "name" or "schema.name" table references.
// An empty schema means the search_path default.
func splitTable(table string) (schemaName, tableName string) {
	if idx := strings.Index(table, "."); idx >= 0 {
		return table[:idx], table[idx+1:]
	}
	return "", table
}

// tableRef returns a safely quoted, optionally schema-qualified table reference.
func tableRef(table string) string {
	schemaName, tableName := splitTable(table)
	quoted := pgx.Identifier{tableName}.Sanitize()
	if schemaName == "" {
		return quoted
	}
	return pgx.Identifier{schemaName}.Sanitize() + "." + quoted
}

// columnRef returns a safely quoted column reference.
func columnRef(column string) string {
	return pgx.Identifier{column}.Sanitize()
}

// Ensure Adapter implements ConnectionTester at compile time.
var _ datasource.ConnectionTester = (*Adapter)(nil)
