package repositories

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
)

func profile(table string, score float64) *models.TableQualityProfile {
	return &models.TableQualityProfile{TableName: table, AggregateScore: score}
}

func TestProfileStore_PutGet(t *testing.T) {
	store := NewMemoryProfileStore()

	store.Put("svc", "orders", profile("orders", 91.5))

	got, ok := store.Get("svc", "orders")
	require.True(t, ok)
	assert.Equal(t, 91.5, got.AggregateScore)

	_, ok = store.Get("svc", "customers")
	assert.False(t, ok)
	_, ok = store.Get("other", "orders")
	assert.False(t, ok)
}

func TestProfileStore_PutReplaces(t *testing.T) {
	store := NewMemoryProfileStore()

	store.Put("svc", "orders", profile("orders", 60))
	store.Put("svc", "orders", profile("orders", 95))

	got, ok := store.Get("svc", "orders")
	require.True(t, ok)
	assert.Equal(t, 95.0, got.AggregateScore)
}

func TestProfileStore_ListOrderedByTable(t *testing.T) {
	store := NewMemoryProfileStore()

	store.Put("svc", "orders", profile("orders", 90))
	store.Put("svc", "customers", profile("customers", 80))
	store.Put("svc", "invoices", profile("invoices", 70))
	store.Put("other", "orders", profile("orders", 10))

	got := store.List("svc")
	require.Len(t, got, 3)
	assert.Equal(t, "customers", got[0].TableName)
	assert.Equal(t, "invoices", got[1].TableName)
	assert.Equal(t, "orders", got[2].TableName)
}

func TestProfileStore_ListUnknownService(t *testing.T) {
	store := NewMemoryProfileStore()
	assert.Empty(t, store.List("nobody"))
}

func TestProfileStore_ConcurrentPut(t *testing.T) {
	store := NewMemoryProfileStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			table := fmt.Sprintf("table_%02d", i)
			store.Put("svc", table, profile(table, float64(i)))
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.List("svc"), 20)
}
