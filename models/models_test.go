// models/models_test.go
package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseRating(t *testing.T) {
	for label, want := range map[string]Rating{
		"very_high": RatingVeryHigh,
		"high":      RatingHigh,
		"moderate":  RatingModerate,
		"low":       RatingLow,
		"very_low":  RatingVeryLow,
	} {
		got, err := ParseRating(label)
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.Equal(t, label, got.String())
	}
	_, err := ParseRating("High")
	require.Error(t, err)
}

func TestRatingRankOrder(t *testing.T) {
	require.Equal(t, 0, RatingVeryHigh.Rank())
	require.Equal(t, 4, RatingVeryLow.Rank())
	require.Less(t, RatingHigh.Rank(), RatingLow.Rank())
	require.Empty(t, Rating(9).Methodology())
}

func TestRowUnmarshal(t *testing.T) {
	var row Row
	err := json.Unmarshal([]byte(`{
		"source": "IPUMS",
		"representivity_rating": "very_high",
		"datetime_published": "2013-12-31T00:00:00",
		"date_creation": "2024-05-01 08:00:00",
		"proportion": 0.250,
		"pcode": null
	}`), &row)
	require.NoError(t, err)
	require.Equal(t, "IPUMS", row.Source)
	require.Equal(t, "very_high", row.Rating)
	require.Equal(t, time.Date(2013, 12, 31, 0, 0, 0, 0, time.UTC), row.Published)
	require.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), row.Created)
	require.Equal(t, json.Number("0.250"), row.Values["proportion"])
	require.Nil(t, row.Values["pcode"])

	out, err := json.Marshal(row)
	require.NoError(t, err)
	require.Contains(t, string(out), `"proportion":0.250`)
}

func TestRowUnmarshalBadDate(t *testing.T) {
	var row Row
	require.Error(t, json.Unmarshal([]byte(`{"datetime_published":"31/12/2013"}`), &row))
	require.Error(t, json.Unmarshal([]byte(`{"datetime_published":20131231}`), &row))
}

func TestLocationUnmarshal(t *testing.T) {
	var page LocationPage
	require.NoError(t, json.Unmarshal([]byte(`{"data":[
		{"location_code":"BEN","location_id":24,"location_level":0,"location_name":"Benin","date_creation":"2024-05-01T08:00:00Z"},
		{"location_code":"KEN","date_creation":null}
	]}`), &page))
	require.Len(t, page.Data, 2)
	require.Equal(t, 24, page.Data[0].ID)
	require.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), page.Data[0].CreatedAt())
	require.True(t, page.Data[1].CreatedAt().IsZero())
}

func TestRunStateWatermark(t *testing.T) {
	def := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	ben := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	state := RunState{DefaultWatermarkKey: def, "BEN": ben}

	require.Equal(t, ben, state.Watermark("BEN"))
	require.Equal(t, def, state.Watermark("KEN"))

	prev := state.Clone()
	state["BEN"] = ben.AddDate(1, 0, 0)
	state["KEN"] = ben
	state.Restore(prev, "BEN")
	state.Restore(prev, "KEN")
	require.Equal(t, prev, state)
}

func TestTimePeriodString(t *testing.T) {
	p := TimePeriod{
		Start: time.Date(2013, 12, 31, 14, 0, 0, 0, time.UTC),
		End:   time.Date(2014, 2, 1, 9, 30, 0, 0, time.UTC),
	}
	require.Equal(t, "[2013-12-31T00:00:00 TO 2014-02-01T23:59:59]", p.String())
}

func TestDatasetValidate(t *testing.T) {
	d := Dataset{Name: "benin-languages", Title: "Benin: Languages"}
	require.Error(t, d.Validate())
	d.Resources = []Resource{{Name: "a.csv"}}
	require.NoError(t, d.Validate())
}

func TestDatasetMarshalJSON(t *testing.T) {
	d := Dataset{
		Name:        "benin-languages",
		Subnational: true,
		TimePeriod: TimePeriod{
			Start: time.Date(2013, 12, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2013, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		LastModified: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(d)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Equal(t, "1", out["subnational"])
	require.Equal(t, "[2013-12-01T00:00:00 TO 2013-12-31T23:59:59]", out["dataset_date"])
	require.Equal(t, "2024-05-01T08:00:00", out["last_modified"])

	d.LastModified = time.Time{}
	raw, err = json.Marshal(d)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "last_modified")
}
