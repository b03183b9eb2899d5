package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource"
	"github.com/tablepulse-io/tablepulse-engine/pkg/apperrors"
)

// registerStubType wires a throwaway adapter type into the registry.
// Each test registers a unique type name, so registrations never collide.
func registerStubType(t *testing.T, typeName string, factory func() (datasource.Adapter, error)) {
	t.Helper()
	datasource.Register(datasource.Registration{
		Info: datasource.AdapterInfo{Type: typeName, DisplayName: "Stub", Description: "test double"},
		Factory: func(context.Context, map[string]any, *zap.Logger) (datasource.Adapter, error) {
			return factory()
		},
	})
}

func TestConnectionService_RegisterAndList(t *testing.T) {
	adapter := &stubAdapter{dialect: "reg_ok"}
	registerStubType(t, "reg_ok", func() (datasource.Adapter, error) { return adapter, nil })

	svc := NewConnectionService(zap.NewNop())
	info, err := svc.Register(context.Background(), "orders-api", "reg_ok", map[string]any{
		"host":     "db.internal",
		"database": "orders",
		"password": "hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "orders-api", info.ServiceName)
	assert.Equal(t, "reg_ok", info.Type)
	assert.Equal(t, "db.internal", info.Host)
	assert.Equal(t, "orders", info.Database)
	assert.Equal(t, "connected", info.Status)

	got, err := svc.Adapter("orders-api")
	require.NoError(t, err)
	assert.Same(t, adapter, got.(*stubAdapter))

	list := svc.List()
	require.Len(t, list, 1)
	assert.Equal(t, "orders-api", list[0].ServiceName)
}

func TestConnectionService_RegisterUnknownType(t *testing.T) {
	svc := NewConnectionService(zap.NewNop())

	_, err := svc.Register(context.Background(), "svc", "no_such_type", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAdapterNotRegistered)
}

func TestConnectionService_RegisterDuplicateRejected(t *testing.T) {
	first := &stubAdapter{}
	second := &stubAdapter{}
	adapters := []*stubAdapter{first, second}
	registerStubType(t, "reg_dup", func() (datasource.Adapter, error) {
		a := adapters[0]
		adapters = adapters[1:]
		return a, nil
	})

	svc := NewConnectionService(zap.NewNop())
	_, err := svc.Register(context.Background(), "svc", "reg_dup", nil)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "svc", "reg_dup", nil)
	require.ErrorIs(t, err, apperrors.ErrServiceExists)

	assert.False(t, first.isClosed(), "the registered adapter must stay open")
	assert.False(t, second.isClosed(), "duplicate detected before opening a second adapter")

	got, err := svc.Adapter("svc")
	require.NoError(t, err)
	assert.Same(t, first, got.(*stubAdapter))
}

func TestConnectionService_RegisterFailedTestClosesAdapter(t *testing.T) {
	adapter := &stubAdapter{
		testConnectionFn: func(context.Context) error {
			return errors.New("password authentication failed")
		},
	}
	registerStubType(t, "reg_badauth", func() (datasource.Adapter, error) { return adapter, nil })

	svc := NewConnectionService(zap.NewNop())
	_, err := svc.Register(context.Background(), "svc", "reg_badauth", nil)
	require.Error(t, err)
	assert.True(t, adapter.isClosed(), "a failed registration must not leak the connection")

	_, err = svc.Adapter("svc")
	assert.ErrorIs(t, err, apperrors.ErrServiceNotFound)
}

func TestConnectionService_RegisterRetriesTransientFailure(t *testing.T) {
	attempts := 0
	adapter := &stubAdapter{
		testConnectionFn: func(context.Context) error {
			attempts++
			if attempts == 1 {
				return errors.New("dial tcp: connection refused")
			}
			return nil
		},
	}
	registerStubType(t, "reg_transient", func() (datasource.Adapter, error) { return adapter, nil })

	svc := NewConnectionService(zap.NewNop())
	_, err := svc.Register(context.Background(), "svc", "reg_transient", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestConnectionService_RegisterDoesNotRetryAuthFailure(t *testing.T) {
	attempts := 0
	adapter := &stubAdapter{
		testConnectionFn: func(context.Context) error {
			attempts++
			return errors.New("password authentication failed")
		},
	}
	registerStubType(t, "reg_nonretry", func() (datasource.Adapter, error) { return adapter, nil })

	svc := NewConnectionService(zap.NewNop())
	_, err := svc.Register(context.Background(), "svc", "reg_nonretry", nil)
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "permanent failures are not retried")
}

func TestConnectionService_RemoveClosesAdapter(t *testing.T) {
	adapter := &stubAdapter{}
	registerStubType(t, "reg_remove", func() (datasource.Adapter, error) { return adapter, nil })

	svc := NewConnectionService(zap.NewNop())
	_, err := svc.Register(context.Background(), "svc", "reg_remove", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Remove("svc"))
	assert.True(t, adapter.isClosed())

	err = svc.Remove("svc")
	assert.ErrorIs(t, err, apperrors.ErrServiceNotFound)
}

func TestConnectionService_ListSorted(t *testing.T) {
	registerStubType(t, "reg_sorted", func() (datasource.Adapter, error) { return &stubAdapter{}, nil })

	svc := NewConnectionService(zap.NewNop())
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := svc.Register(context.Background(), name, "reg_sorted", nil)
		require.NoError(t, err)
	}

	list := svc.List()
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].ServiceName)
	assert.Equal(t, "mid", list[1].ServiceName)
	assert.Equal(t, "zeta", list[2].ServiceName)
}

func TestConnectionService_CloseClosesAll(t *testing.T) {
	a := &stubAdapter{}
	b := &stubAdapter{}
	adapters := []*stubAdapter{a, b}
	registerStubType(t, "reg_closeall", func() (datasource.Adapter, error) {
		next := adapters[0]
		adapters = adapters[1:]
		return next, nil
	})

	svc := NewConnectionService(zap.NewNop())
	_, err := svc.Register(context.Background(), "one", "reg_closeall", nil)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "two", "reg_closeall", nil)
	require.NoError(t, err)

	svc.Close()
	assert.True(t, a.isClosed())
	assert.True(t, b.isClosed())
	assert.Empty(t, svc.List())
}
