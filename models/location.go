// models/location.go
package models

import "time"

// Location is one entry of the remote location index.
type Location struct {
	Code    string    `json:"location_code"`
	ID      int       `json:"location_id,omitempty"`
	Level   int       `json:"location_level,omitempty"`
	Name    string    `json:"location_name,omitempty"`
	Created Timestamp `json:"date_creation"`
}

// CreatedAt returns the creation timestamp, zero when the index omitted it.
func (l Location) CreatedAt() time.Time { return l.Created.Time }

// LocationPage is the envelope returned by the location index.
type LocationPage struct {
	Data []Location `json:"data"`
}
