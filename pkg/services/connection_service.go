package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource"
	"github.com/tablepulse-io/tablepulse-engine/pkg/apperrors"
	"github.com/tablepulse-io/tablepulse-engine/pkg/logging"
	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
	"github.com/tablepulse-io/tablepulse-engine/pkg/retry"
)

// ConnectionService owns the live datasource adapter for every registered
// service. Adapters are opened and verified once at registration and
// reused across profiling runs until the service is removed.
type ConnectionService interface {
	// Register opens and verifies an adapter under a new service name.
	// A duplicate name is rejected; remove the service first to rewire it.
	Register(ctx context.Context, serviceName, dsType string, config map[string]any) (*models.ConnectionInfo, error)

	// Adapter returns the live adapter for a registered service.
	Adapter(serviceName string) (datasource.Adapter, error)

	// List returns every registered connection ordered by service name.
	List() []models.ConnectionInfo

	// Remove closes and forgets a service's adapter.
	Remove(serviceName string) error

	// Close closes every adapter. Called once at shutdown.
	Close()
}

type connection struct {
	info    models.ConnectionInfo
	adapter datasource.Adapter
}

type connectionService struct {
	mu          sync.RWMutex
	connections map[string]*connection
	retryCfg    *retry.Config
	logger      *zap.Logger
}

// NewConnectionService creates an empty connection registry.
func NewConnectionService(logger *zap.Logger) ConnectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &connectionService{
		connections: make(map[string]*connection),
		retryCfg:    retry.DefaultConfig(),
		logger:      logger.Named("connections"),
	}
}

var _ ConnectionService = (*connectionService)(nil)

func (s *connectionService) Register(ctx context.Context, serviceName, dsType string, config map[string]any) (*models.ConnectionInfo, error) {
	if serviceName == "" {
		return nil, fmt.Errorf("service name must not be empty")
	}

	s.mu.RLock()
	_, exists := s.connections[serviceName]
	s.mu.RUnlock()
	if exists {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrServiceExists, serviceName)
	}

	adapter, err := datasource.Open(ctx, dsType, config, s.logger)
	if err != nil {
		return nil, fmt.Errorf("open %s adapter: %w", datasource.CanonicalType(dsType), err)
	}

	// Only transient failures are retried; bad credentials fail fast.
	if err := retry.DoIfRetryable(ctx, s.retryCfg, func() error {
		return adapter.TestConnection(ctx)
	}); err != nil {
		adapter.Close()
		s.logger.Warn("connection test failed",
			zap.String("service", serviceName),
			zap.String("type", datasource.CanonicalType(dsType)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("test connection for %q: %w", serviceName, err)
	}

	info := connectionInfo(serviceName, adapter.Dialect(), config)

	s.mu.Lock()
	if _, exists := s.connections[serviceName]; exists {
		s.mu.Unlock()
		adapter.Close()
		return nil, fmt.Errorf("%w: %q", apperrors.ErrServiceExists, serviceName)
	}
	s.connections[serviceName] = &connection{info: info, adapter: adapter}
	s.mu.Unlock()

	s.logger.Info("registered datasource",
		zap.String("service", serviceName),
		zap.String("type", adapter.Dialect()))
	return &info, nil
}

func (s *connectionService) Adapter(serviceName string) (datasource.Adapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conn, ok := s.connections[serviceName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrServiceNotFound, serviceName)
	}
	return conn.adapter, nil
}

func (s *connectionService) List() []models.ConnectionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]models.ConnectionInfo, 0, len(s.connections))
	for _, conn := range s.connections {
		infos = append(infos, conn.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ServiceName < infos[j].ServiceName
	})
	return infos
}

func (s *connectionService) Remove(serviceName string) error {
	s.mu.Lock()
	conn, ok := s.connections[serviceName]
	if ok {
		delete(s.connections, serviceName)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", apperrors.ErrServiceNotFound, serviceName)
	}

	if err := conn.adapter.Close(); err != nil {
		s.logger.Warn("closing adapter",
			zap.String("service", serviceName),
			zap.Error(err))
	}
	s.logger.Info("removed datasource", zap.String("service", serviceName))
	return nil
}

func (s *connectionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, conn := range s.connections {
		if err := conn.adapter.Close(); err != nil {
			s.logger.Warn("closing adapter",
				zap.String("service", name),
				zap.Error(err))
		}
	}
	s.connections = make(map[string]*connection)
}

// connectionInfo keeps only addressing fields from the raw config so
// credentials never leave this service.
func connectionInfo(serviceName, dsType string, config map[string]any) models.ConnectionInfo {
	info := models.ConnectionInfo{
		ServiceName: serviceName,
		Type:        dsType,
		Status:      "connected",
	}
	if host, ok := config["host"].(string); ok {
		info.Host = host
	}
	if db, ok := config["database"].(string); ok {
		info.Database = db
	}
	if path, ok := config["path"].(string); ok {
		info.Path = path
	}
	return info
}
