package repositories

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
)

func entry(age time.Duration, score float64, grade string) models.HistoryEntry {
	return models.HistoryEntry{
		ProfiledAt: time.Now().UTC().Add(-age).Truncate(time.Second),
		Score:      score,
		Grade:      grade,
	}
}

func TestHistoryRepository_SaveLoadRoundTrip(t *testing.T) {
	repo := NewFileHistoryRepository(t.TempDir(), nil)

	want := []models.HistoryEntry{
		entry(2*time.Hour, 91.5, "A"),
		entry(time.Hour, 84.0, "B"),
	}
	require.NoError(t, repo.Save("orders-api", "orders", want))

	got, err := repo.Load("orders-api", "orders")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want[0].Score, got[0].Score)
	assert.Equal(t, want[1].Grade, got[1].Grade)
	assert.True(t, got[0].ProfiledAt.Equal(want[0].ProfiledAt))
}

func TestHistoryRepository_LoadMissingIsEmpty(t *testing.T) {
	repo := NewFileHistoryRepository(t.TempDir(), nil)

	got, err := repo.Load("nobody", "nothing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHistoryRepository_LoadCorruptIsEmpty(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileHistoryRepository(dir, nil)

	path := filepath.Join(dir, "svc__orders.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	got, err := repo.Load("svc", "orders")
	require.NoError(t, err, "a corrupt file must not block future runs")
	assert.Empty(t, got)
}

func TestHistoryRepository_SaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "history")
	repo := NewFileHistoryRepository(dir, nil)

	require.NoError(t, repo.Save("svc", "orders", []models.HistoryEntry{entry(0, 75, "C")}))

	_, err := os.Stat(filepath.Join(dir, "svc__orders.json"))
	require.NoError(t, err)
}

func TestHistoryRepository_ServiceNameFlattened(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileHistoryRepository(dir, nil)

	require.NoError(t, repo.Save("team/orders-api", "orders", []models.HistoryEntry{entry(0, 90, "A")}))

	_, err := os.Stat(filepath.Join(dir, "team_orders-api__orders.json"))
	require.NoError(t, err, "separators in the service name must not create subdirectories")

	got, err := repo.Load("team/orders-api", "orders")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestHistoryRepository_LoadAll(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileHistoryRepository(dir, nil)

	require.NoError(t, repo.Save("svc", "orders", []models.HistoryEntry{entry(0, 90, "A")}))
	require.NoError(t, repo.Save("svc", "customers", []models.HistoryEntry{entry(0, 70, "C")}))
	require.NoError(t, repo.Save("other", "orders", []models.HistoryEntry{entry(0, 50, "F")}))

	// A corrupt sibling file is skipped, not fatal.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "svc__broken.json"), []byte("]["), 0o644))

	series, err := repo.LoadAll("svc")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Contains(t, series, "orders")
	assert.Contains(t, series, "customers")
	assert.NotContains(t, series, "broken")
	assert.InDelta(t, 90.0, series["orders"][0].Score, 0.001)
}

func TestHistoryRepository_LoadAllMissingDir(t *testing.T) {
	repo := NewFileHistoryRepository(filepath.Join(t.TempDir(), "never-written"), nil)

	series, err := repo.LoadAll("svc")
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestHistoryRepository_SaveReplaces(t *testing.T) {
	repo := NewFileHistoryRepository(t.TempDir(), nil)

	require.NoError(t, repo.Save("svc", "orders", []models.HistoryEntry{entry(time.Hour, 90, "A")}))
	require.NoError(t, repo.Save("svc", "orders", []models.HistoryEntry{entry(0, 80, "B"), entry(0, 70, "C")}))

	got, err := repo.Load("svc", "orders")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 80.0, got[0].Score, 0.001)
}
