package duckdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regimelab/macrostate/internal/dataset"
)

func memoryStore(t *testing.T) *FeatureStore {
	t.Helper()
	client, err := NewClient(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewFeatureStore(client)
}

func featureTable(t *testing.T) *dataset.Table {
	t.Helper()
	index := []time.Time{
		time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	table, err := dataset.New(index).WithColumn("YC_SLOPE", []float64{1.0, 0.6, -0.5})
	require.NoError(t, err)
	table, err = table.WithColumn("VIX_Z", []float64{dataset.Missing(), 0.5, 2.1})
	require.NoError(t, err)
	return table
}

func TestFeatureStore_RoundTrip(t *testing.T) {
	store := memoryStore(t)
	ctx := context.Background()
	table := featureTable(t)

	require.NoError(t, store.WriteFeatures(ctx, "baseline_z", table, "run-1"))

	back, err := store.ReadFeatures(ctx, "baseline_z")
	require.NoError(t, err)

	// Column order, row order, and values survive; missing round-trips
	// through SQL NULL.
	assert.True(t, table.Equal(back))
}

func TestFeatureStore_ReplacesPreviousRun(t *testing.T) {
	store := memoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.WriteFeatures(ctx, "baseline_z", featureTable(t), "run-1"))

	smaller := featureTable(t).TruncateAsOf(time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.WriteFeatures(ctx, "baseline_z", smaller, "run-2"))

	back, err := store.ReadFeatures(ctx, "baseline_z")
	require.NoError(t, err)
	assert.Equal(t, 2, back.Len())

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "baseline_z", runs[0].Recipe)
}

func TestFeatureStore_SeparateTablesPerRecipe(t *testing.T) {
	store := memoryStore(t)
	ctx := context.Background()
	table := featureTable(t)

	require.NoError(t, store.WriteFeatures(ctx, "baseline_z", table, "run-1"))
	require.NoError(t, store.WriteFeatures(ctx, "changes_only", table, "run-2"))

	a, err := store.ReadFeatures(ctx, "baseline_z")
	require.NoError(t, err)
	b, err := store.ReadFeatures(ctx, "changes_only")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestFeatureStore_RejectsBadIdentifiers(t *testing.T) {
	store := memoryStore(t)
	ctx := context.Background()

	err := store.WriteFeatures(ctx, `bad"name`, featureTable(t), "run-1")
	require.Error(t, err)

	_, err = store.ReadFeatures(ctx, "")
	require.Error(t, err)
}
