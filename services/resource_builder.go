// services/resource_builder.go
package services

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/clearglobal/hdx-scraper/models"
	"github.com/clearglobal/hdx-scraper/scraper"
)

// AggregationLevels are the admin granularities fetched for every country.
var AggregationLevels = []int{0, 1, 2}

// ResourceBuilder pages through one country's rows at every aggregation level
// and turns them into resources plus an Aggregate.
type ResourceBuilder struct {
	fetcher scraper.Fetcher
	baseURL string
	headers []string
}

func NewResourceBuilder(fetcher scraper.Fetcher, baseURL string, headers []string) *ResourceBuilder {
	return &ResourceBuilder{fetcher: fetcher, baseURL: baseURL, headers: headers}
}

// BuildResult is what Build produces for one country.
type BuildResult struct {
	Resources []models.Resource
	Aggregate *models.Aggregate
}

// Pages yields successive pages for (iso3, level). It stops after the first
// page holding fewer than PageSize rows, or after the first error. Each call
// starts again from page 0.
func (b *ResourceBuilder) Pages(ctx context.Context, iso3 string, level int) iter.Seq2[[]models.Row, error] {
	return func(yield func([]models.Row, error) bool) {
		u := b.baseURL + "location/" + url.PathEscape(iso3)
		fields := strings.Join(b.headers, ", ")
		for page := 0; ; page++ {
			var body models.RowPage
			err := b.fetcher.FetchJSON(ctx, scraper.Request{
				URL: u,
				Query: url.Values{
					"aggregation": {strconv.Itoa(level)},
					"page_size":   {strconv.Itoa(PageSize)},
					"page":        {strconv.Itoa(page)},
					"fields":      {fields},
				},
				CacheFile: fmt.Sprintf("location_%s_adm%d_%d.json", iso3, level, page),
			}, &body)
			if err != nil {
				yield(nil, fmt.Errorf("failed to fetch %s admin%d page %d: %w", iso3, level, page, err))
				return
			}
			if !yield(body.Data, nil) || len(body.Data) < PageSize {
				return
			}
		}
	}
}

// FetchAll drains Pages for (iso3, level).
func (b *ResourceBuilder) FetchAll(ctx context.Context, iso3 string, level int) ([]models.Row, error) {
	var rows []models.Row
	for page, err := range b.Pages(ctx, iso3, level) {
		if err != nil {
			return nil, err
		}
		rows = append(rows, page...)
	}
	return rows, nil
}

// Build fetches all three levels for iso3 and emits one resource per level
// that has rows. countryName is used in resource descriptions. It returns
// ErrNoData when every level is empty.
func (b *ResourceBuilder) Build(ctx context.Context, iso3, countryName string) (*BuildResult, error) {
	agg := models.NewAggregate()
	result := &BuildResult{Aggregate: agg}
	for _, level := range AggregationLevels {
		rows, err := b.FetchAll(ctx, iso3, level)
		if err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "fetched rows", "country", iso3, "level", level, "rows", len(rows))
		if len(rows) == 0 {
			continue
		}
		if err := Fold(agg, rows); err != nil {
			return nil, fmt.Errorf("%s admin%d: %w", iso3, level, err)
		}
		result.Resources = append(result.Resources, NewResource(iso3, countryName, level, rows))
	}
	if len(result.Resources) == 0 {
		return nil, fmt.Errorf("%s: %w", iso3, ErrNoData)
	}
	return result, nil
}

// Fold merges rows into agg: publication span, latest creation, distinct
// sources and distinct ratings. Rows without a rating contribute none.
func Fold(agg *models.Aggregate, rows []models.Row) error {
	cleaned := map[string]string{}
	for _, row := range rows {
		agg.RowCount++
		if !row.Published.IsZero() {
			if row.Published.Before(agg.Earliest) {
				agg.Earliest = row.Published
			}
			if row.Published.After(agg.Latest) {
				agg.Latest = row.Published
			}
		}
		if row.Created.After(agg.LatestCreation) {
			agg.LatestCreation = row.Created
		}
		if row.Source != "" {
			source, ok := cleaned[row.Source]
			if !ok {
				source = scraper.PlainText(row.Source)
				cleaned[row.Source] = source
			}
			if source != "" {
				agg.Sources[source] = struct{}{}
			}
		}
		if row.Rating == "" {
			continue
		}
		rating, err := models.ParseRating(row.Rating)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownRating, row.Rating)
		}
		agg.Ratings[rating] = struct{}{}
	}
	return nil
}

// ResourceName is the CSV file name for one country and level.
func ResourceName(iso3 string, level int) string {
	return fmt.Sprintf("clearglobal_language_use_%s_admin%d.csv", iso3, level)
}

// NewResource describes the rows of one level. Levels above 0 are P-coded.
func NewResource(iso3, countryName string, level int, rows []models.Row) models.Resource {
	description := "Languages used in " + countryName
	if level != 0 {
		description += fmt.Sprintf(" by Admin %d", level)
	}
	return models.Resource{
		Name:         ResourceName(iso3, level),
		Description:  description,
		Format:       "csv",
		ResourceType: "file.upload",
		URLType:      "upload",
		PCoded:       level != 0,
		Level:        level,
		Rows:         rows,
	}
}
