// services/change_detector_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/clearglobal/hdx-scraper/models"
	"github.com/stretchr/testify/require"
)

var defaultWatermark = time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDetectChangedLocations(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.locations = `{"data":[
		{"location_code":"KEN","date_creation":"2023-06-01"},
		{"location_code":"BEN","date_creation":"2024-05-01T08:00:00"},
		{"location_code":"FRA","date_creation":"2016-01-01"},
		{"location_code":"NGA","date_creation":"2020-02-02"}
	]}`
	state := models.RunState{
		models.DefaultWatermarkKey: defaultWatermark,
		"KEN":                      time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		"NGA":                      time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	detector := NewChangeDetector(fetcher, testBaseURL, []string{"location_code", "date_creation"})
	changed, err := detector.DetectChangedLocations(context.Background(), state)
	require.NoError(t, err)

	// KEN equals its watermark, FRA is older than DEFAULT.
	require.Equal(t, []string{"BEN", "NGA"}, changed)
	require.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), state["BEN"])
	require.Equal(t, time.Date(2020, 2, 2, 0, 0, 0, 0, time.UTC), state["NGA"])
	require.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), state["KEN"])
	require.NotContains(t, state, "FRA")
}

func TestDetectChangedLocationsRequestShape(t *testing.T) {
	fetcher := newFakeFetcher()
	detector := NewChangeDetector(fetcher, testBaseURL, []string{"location_code", "date_creation"})

	_, err := detector.DetectChangedLocations(context.Background(), models.RunState{})
	require.NoError(t, err)
	require.Len(t, fetcher.requests, 1)

	q, ok := fetcher.requests[0].Body.(locationQuery)
	require.True(t, ok)
	require.Equal(t, 500, q.PageSize)
	require.Equal(t, "published", q.Flag)
	require.Equal(t, [][]any{{"location_level", "=", 0}}, q.Conds)
	require.Equal(t, "location_code,date_creation", q.Fields)
}

func TestDetectChangedLocationsEmptyIndex(t *testing.T) {
	for _, body := range []string{`{}`, `{"data":null}`, `{"data":[]}`} {
		fetcher := newFakeFetcher()
		fetcher.locations = body
		state := models.RunState{models.DefaultWatermarkKey: defaultWatermark}

		changed, err := NewChangeDetector(fetcher, testBaseURL, nil).DetectChangedLocations(context.Background(), state)
		require.NoError(t, err, body)
		require.Empty(t, changed)
		require.Len(t, state, 1)
	}
}
