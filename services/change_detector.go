// services/change_detector.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/clearglobal/hdx-scraper/models"
	"github.com/clearglobal/hdx-scraper/scraper"
)

// PageSize is the row count requested per call; a shorter page ends paging.
const PageSize = 500

// ChangeDetector finds countries whose data changed since their watermark.
type ChangeDetector struct {
	fetcher scraper.Fetcher
	baseURL string
	fields  []string
}

func NewChangeDetector(fetcher scraper.Fetcher, baseURL string, fields []string) *ChangeDetector {
	return &ChangeDetector{fetcher: fetcher, baseURL: baseURL, fields: fields}
}

type locationQuery struct {
	PageSize int     `json:"page_size"`
	Conds    [][]any `json:"conds"`
	Flag     string  `json:"flag"`
	Fields   string  `json:"fields,omitempty"`
}

// DetectChangedLocations queries the published country index once and returns,
// in index order, the codes whose creation timestamp is strictly after their
// watermark. state is advanced in place for each returned code.
func (d *ChangeDetector) DetectChangedLocations(ctx context.Context, state models.RunState) ([]string, error) {
	query := locationQuery{
		PageSize: PageSize,
		Conds:    [][]any{{"location_level", "=", 0}},
		Flag:     "published",
		Fields:   strings.Join(d.fields, ","),
	}
	var page models.LocationPage
	err := d.fetcher.FetchJSON(ctx, scraper.Request{
		URL:       d.baseURL + "locations/",
		Body:      query,
		CacheFile: "locations.json",
	}, &page)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch location index: %w", err)
	}

	var changed []string
	for _, loc := range page.Data {
		if loc.Code == "" {
			continue
		}
		created := loc.CreatedAt()
		if !created.After(state.Watermark(loc.Code)) {
			continue
		}
		state[loc.Code] = created
		changed = append(changed, loc.Code)
	}
	slog.InfoContext(ctx, "detected changed locations", "indexed", len(page.Data), "changed", len(changed))
	return changed, nil
}
