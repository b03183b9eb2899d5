package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounts(t *testing.T) {
	adapter := openFixture(t)
	ctx := context.Background()

	rows, err := adapter.RowCount(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(5), rows)

	nulls, err := adapter.NullCount(ctx, "orders", "status")
	require.NoError(t, err)
	assert.Equal(t, int64(1), nulls)

	distinct, err := adapter.DistinctCount(ctx, "orders", "status")
	require.NoError(t, err)
	assert.Equal(t, int64(3), distinct)
}

func TestTopValues(t *testing.T) {
	adapter := openFixture(t)

	top, err := adapter.TopValues(context.Background(), "orders", "status", 5)
	require.NoError(t, err)
	require.Len(t, top, 3)

	assert.Equal(t, "shipped", fmt.Sprintf("%v", top[0].Value))
	assert.Equal(t, int64(2), top[0].Count)
}

func TestTopValues_RespectsLimit(t *testing.T) {
	adapter := openFixture(t)

	top, err := adapter.TopValues(context.Background(), "orders", "status", 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "shipped", fmt.Sprintf("%v", top[0].Value))
}

func TestMinMax(t *testing.T) {
	adapter := openFixture(t)

	minVal, maxVal, err := adapter.MinMax(context.Background(), "orders", "amount")
	require.NoError(t, err)

	minF, ok := minVal.(float64)
	require.True(t, ok, "REAL column should scan as float64, got %T", minVal)
	maxF, ok := maxVal.(float64)
	require.True(t, ok, "REAL column should scan as float64, got %T", maxVal)

	assert.InDelta(t, 10.0, minF, 0.001)
	assert.InDelta(t, 40.0, maxF, 0.001)
}

func TestNumericAggregates(t *testing.T) {
	adapter := openFixture(t)
	ctx := context.Background()

	mean, err := adapter.Mean(ctx, "orders", "amount")
	require.NoError(t, err)
	require.NotNil(t, mean)
	assert.InDelta(t, 25.0, *mean, 0.001)

	variance, err := adapter.VarianceAroundMean(ctx, "orders", "amount", *mean)
	require.NoError(t, err)
	require.NotNil(t, variance)
	assert.InDelta(t, 125.0, *variance, 0.001)

	median, err := adapter.Median(ctx, "orders", "amount")
	require.NoError(t, err)
	require.NotNil(t, median)
	assert.InDelta(t, 25.0, *median, 0.001, "even count should average the two middle values")
}

func TestMedian_OddCount(t *testing.T) {
	adapter := openFixture(t)

	median, err := adapter.Median(context.Background(), "orders", "customer_id")
	require.NoError(t, err)
	require.NotNil(t, median)
	assert.InDelta(t, 2.0, *median, 0.001)
}

func TestMaxTimestamp(t *testing.T) {
	adapter := openFixture(t)

	ts, err := adapter.MaxTimestamp(context.Background(), "orders", "created_at")
	require.NoError(t, err)
	require.NotNil(t, ts)

	assert.Equal(t, time.UTC, ts.Location())
	age := time.Since(*ts)
	assert.Greater(t, age, time.Duration(0))
	assert.Less(t, age, time.Hour, "newest fixture row is 30 minutes old")
}

func TestEmptyTableAggregates(t *testing.T) {
	adapter := openEmptyFixture(t)
	ctx := context.Background()

	rows, err := adapter.RowCount(ctx, "orders")
	require.NoError(t, err)
	assert.Zero(t, rows)

	mean, err := adapter.Mean(ctx, "orders", "amount")
	require.NoError(t, err)
	assert.Nil(t, mean)

	median, err := adapter.Median(ctx, "orders", "amount")
	require.NoError(t, err)
	assert.Nil(t, median)

	minVal, maxVal, err := adapter.MinMax(ctx, "orders", "amount")
	require.NoError(t, err)
	assert.Nil(t, minVal)
	assert.Nil(t, maxVal)

	ts, err := adapter.MaxTimestamp(ctx, "orders", "created_at")
	require.NoError(t, err)
	assert.Nil(t, ts)

	top, err := adapter.TopValues(ctx, "orders", "status", 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}
