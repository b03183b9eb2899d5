//go:build postgres || all_adapters

package main

import (
	_ "github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource/postgres"
)
