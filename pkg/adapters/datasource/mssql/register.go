//go:build mssql || all_adapters

package mssql

import (
	"context"

	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.AdapterInfo{
			Type:        "mssql",
			DisplayName: "Microsoft SQL Server",
			Description: "Profile SQL Server 2017+ and Azure SQL Database",
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

// The full adapter surface only compiles with this build tag on.
var _ datasource.Adapter = (*Adapter)(nil)
