// database/state_store_test.go
package database

import (
	"context"
	"testing"
	"time"

	"github.com/clearglobal/hdx-scraper/config"
	"github.com/clearglobal/hdx-scraper/models"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *StateStore {
	t.Helper()
	db, err := OpenDB(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStateStore(db, time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestLoadEmptySeedsDefault(t *testing.T) {
	store := openTestStore(t)

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.RunState{
		models.DefaultWatermarkKey: time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
	}, state)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	want := models.RunState{
		models.DefaultWatermarkKey: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
		"BEN":                      time.Date(2024, 3, 5, 10, 30, 0, 123000000, time.UTC),
		"KEN":                      time.Date(2023, 11, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)

	// Save replaces rather than merges.
	delete(want, "KEN")
	require.NoError(t, store.Save(ctx, want))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	require.NotContains(t, got, "KEN")
	require.Len(t, got, 2)
}

func TestOpenDBUnsupportedDriver(t *testing.T) {
	_, err := OpenDB(config.DatabaseConfig{Driver: "postgres"})
	require.ErrorContains(t, err, "unsupported")
}
