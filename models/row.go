// models/row.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// JSON field names the pipeline itself reads from every row.
const (
	FieldSource    = "source"
	FieldPublished = "datetime_published"
	FieldCreated   = "date_creation"
	FieldRating    = "representivity_rating"
)

// Row is one observation for a country at one aggregation level. Values holds
// every field as received so configured headers can be passed through; JSON
// numbers are kept as json.Number to avoid reformatting them.
type Row struct {
	Source    string
	Published time.Time
	Created   time.Time
	Rating    string
	Values    map[string]any
}

func (r *Row) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	values := map[string]any{}
	if err := dec.Decode(&values); err != nil {
		return err
	}
	row := Row{Values: values}
	if v, ok := values[FieldSource].(string); ok {
		row.Source = v
	}
	if v, ok := values[FieldRating].(string); ok {
		row.Rating = v
	}
	var err error
	if row.Published, err = rowTime(values, FieldPublished); err != nil {
		return err
	}
	if row.Created, err = rowTime(values, FieldCreated); err != nil {
		return err
	}
	*r = row
	return nil
}

func (r Row) MarshalJSON() ([]byte, error) {
	if r.Values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Values)
}

func rowTime(values map[string]any, field string) (time.Time, error) {
	raw, ok := values[field]
	if !ok || raw == nil {
		return time.Time{}, nil
	}
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("field %s: expected string, got %T", field, raw)
	}
	if s == "" {
		return time.Time{}, nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %s: %w", field, err)
	}
	return t, nil
}

// RowPage is the envelope returned by the per-country endpoint.
type RowPage struct {
	Data []Row `json:"data"`
}
