// models/dataset.go
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Aggregate summarises every row fetched for one country.
type Aggregate struct {
	Earliest       time.Time
	Latest         time.Time
	LatestCreation time.Time
	Sources        map[string]struct{}
	Ratings        map[Rating]struct{}
	RowCount       int
}

// Sentinels for the time-span fold. Any real date replaces them.
var (
	LatestPossible   = time.Date(9990, time.January, 1, 0, 0, 0, 0, time.UTC)
	EarliestPossible = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
)

func NewAggregate() *Aggregate {
	return &Aggregate{
		Earliest:       LatestPossible,
		Latest:         EarliestPossible,
		LatestCreation: EarliestPossible,
		Sources:        map[string]struct{}{},
		Ratings:        map[Rating]struct{}{},
	}
}

// HasTimePeriod reports whether at least one publication date was folded in.
func (a *Aggregate) HasTimePeriod() bool {
	return !a.Earliest.Equal(LatestPossible) && !a.Latest.Equal(EarliestPossible)
}

// Resource is one tabular file of a dataset, one per aggregation level.
type Resource struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Format         string `json:"format"`
	ResourceType   string `json:"resource_type"`
	URLType        string `json:"url_type"`
	PCoded         bool   `json:"p_coded"`
	PreviewEnabled bool   `json:"dataset_preview_enabled"`
	Level          int    `json:"-"`
	Rows           []Row  `json:"-"`
}

// TimePeriod is the inclusive span of publication dates of a dataset.
type TimePeriod struct {
	Start time.Time
	End   time.Time
}

// String renders the catalog form, whole days from start of Start to end of
// End.
func (p TimePeriod) String() string {
	start := p.Start.UTC().Truncate(24 * time.Hour)
	end := p.End.UTC().Truncate(24 * time.Hour).Add(24*time.Hour - time.Second)
	return fmt.Sprintf("[%s TO %s]", start.Format("2006-01-02T15:04:05"), end.Format("2006-01-02T15:04:05"))
}

type Tag struct {
	Name         string `json:"name"`
	VocabularyID string `json:"vocabulary_id,omitempty"`
}

type Group struct {
	Name string `json:"name"`
}

// Dataset is the catalog record for one country.
type Dataset struct {
	Name             string     `json:"name"`
	Title            string     `json:"title"`
	CountryISO3      string     `json:"-"`
	CountryName      string     `json:"-"`
	Groups           []Group    `json:"groups"`
	Tags             []Tag      `json:"tags"`
	Subnational      bool       `json:"-"`
	TimePeriod       TimePeriod `json:"-"`
	Methodology      string     `json:"methodology"`
	MethodologyOther string     `json:"methodology_other,omitempty"`
	Notes            string     `json:"notes"`
	DatasetSource    string     `json:"dataset_source"`
	DatasetPreview   string     `json:"dataset_preview"`
	CustomViz        string     `json:"customviz,omitempty"`
	LicenseID        string     `json:"license_id,omitempty"`
	Maintainer       string     `json:"maintainer,omitempty"`
	OwnerOrg         string     `json:"owner_org,omitempty"`
	DataUpdateFreq   int        `json:"data_update_frequency,omitempty"`
	Caveats          string     `json:"caveats,omitempty"`
	PackageCreator   string     `json:"package_creator,omitempty"`
	Private          bool       `json:"private"`
	LastModified     time.Time  `json:"-"`
	Resources        []Resource `json:"resources"`
}

// MarshalJSON adds the catalog encodings of the subnational flag, the time
// period and the last data change. HDX expects "1"/"0", a bracketed range and
// a zone-less timestamp.
func (d Dataset) MarshalJSON() ([]byte, error) {
	type plain Dataset
	subnational := "0"
	if d.Subnational {
		subnational = "1"
	}
	var lastModified string
	if !d.LastModified.IsZero() {
		lastModified = d.LastModified.UTC().Format("2006-01-02T15:04:05")
	}
	return json.Marshal(struct {
		plain
		Subnational  string `json:"subnational"`
		DatasetDate  string `json:"dataset_date"`
		LastModified string `json:"last_modified,omitempty"`
	}{plain(d), subnational, d.TimePeriod.String(), lastModified})
}

// Validate checks the invariants a dataset must hold before publication.
func (d *Dataset) Validate() error {
	if d.Name == "" || d.Title == "" {
		return fmt.Errorf("dataset %q: missing name or title", d.CountryISO3)
	}
	if len(d.Resources) == 0 {
		return fmt.Errorf("dataset %s: no resources", d.Name)
	}
	return nil
}
