package sqlite

import (
	"context"

	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.AdapterInfo{
			Type:        "sqlite",
			DisplayName: "SQLite",
			Description: "Profile local SQLite database files",
		},
		Factory: func(ctx context.Context, config map[string]any, logger *zap.Logger) (datasource.Adapter, error) {
			cfg, err := FromMap(config)
			if err != nil {
				return nil, err
			}
			return NewAdapter(ctx, cfg, logger)
		},
	})
}
