package datasource

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/apperrors"
)

// AdapterInfo describes a registered adapter for API discovery.
type AdapterInfo struct {
	Type        string `json:"type"`         // "postgres", "mssql", "sqlite"
	DisplayName string `json:"display_name"` // "PostgreSQL", "Microsoft SQL Server"
	Description string `json:"description"`  // "Profile PostgreSQL 12+ databases"
}

// Registration contains info + factory for creating adapters.
type Registration struct {
	Info    AdapterInfo
	Factory func(ctx context.Context, config map[string]any, logger *zap.Logger) (Adapter, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Registration)
)

// aliases maps alternate spellings to canonical registry keys.
var aliases = map[string]string{
	"postgresql": "postgres",
	"pg":         "postgres",
	"sqlserver":  "mssql",
	"sqlite3":    "sqlite",
}

// CanonicalType lowercases a datasource type and resolves known aliases.
func CanonicalType(dsType string) string {
	t := strings.ToLower(strings.TrimSpace(dsType))
	if canonical, ok := aliases[t]; ok {
		return canonical
	}
	return t
}

// Register is called by each adapter's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Type] = reg
}

// RegisteredAdapters returns info for all registered adapters.
// Used by the API to report which datasource types are available.
func RegisteredAdapters() []AdapterInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]AdapterInfo, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	return result
}

// GetFactory returns the factory for a datasource type, resolving aliases.
// Returns nil if the type is not registered.
func GetFactory(dsType string) func(ctx context.Context, config map[string]any, logger *zap.Logger) (Adapter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if reg, ok := registry[CanonicalType(dsType)]; ok {
		return reg.Factory
	}
	return nil
}

// IsRegistered checks if an adapter type is available.
func IsRegistered(dsType string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[CanonicalType(dsType)]
	return ok
}

// Open resolves the adapter type and builds a connected adapter.
func Open(ctx context.Context, dsType string, config map[string]any, logger *zap.Logger) (Adapter, error) {
	factory := GetFactory(dsType)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrAdapterNotRegistered, dsType)
	}
	return factory(ctx, config, logger)
}
