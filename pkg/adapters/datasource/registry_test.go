package datasource

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/apperrors"
)

func TestCanonicalType(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"postgres", "postgres"},
		{"postgresql", "postgres"},
		{"PostgreSQL", "postgres"},
		{"pg", "postgres"},
		{"sqlserver", "mssql"},
		{"MSSQL", "mssql"},
		{"sqlite", "sqlite"},
		{"sqlite3", "sqlite"},
		{" sqlite ", "sqlite"},
		{"duckdb", "duckdb"},
	}

	for _, tt := range tests {
		if got := CanonicalType(tt.in); got != tt.expected {
			t.Errorf("CanonicalType(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestRegister_LookupResolvesAliases(t *testing.T) {
	Register(Registration{
		Info: AdapterInfo{Type: "fakedb", DisplayName: "FakeDB", Description: "test only"},
		Factory: func(ctx context.Context, config map[string]any, logger *zap.Logger) (Adapter, error) {
			return nil, errors.New("not a real adapter")
		},
	})

	if !IsRegistered("fakedb") {
		t.Error("expected fakedb to be registered")
	}
	if !IsRegistered("FAKEDB") {
		t.Error("expected lookup to be case-insensitive")
	}
	if GetFactory("fakedb") == nil {
		t.Error("expected non-nil factory for registered type")
	}
	if GetFactory("not-registered") != nil {
		t.Error("expected nil factory for unknown type")
	}

	found := false
	for _, info := range RegisteredAdapters() {
		if info.Type == "fakedb" {
			found = true
		}
	}
	if !found {
		t.Error("expected RegisteredAdapters to include fakedb")
	}
}

func TestOpen_UnknownTypeReturnsSentinel(t *testing.T) {
	_, err := Open(context.Background(), "oracle", nil, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for unregistered type")
	}
	if !errors.Is(err, apperrors.ErrAdapterNotRegistered) {
		t.Errorf("expected ErrAdapterNotRegistered, got %v", err)
	}
}
