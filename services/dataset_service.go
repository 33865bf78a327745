// services/dataset_service.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/clearglobal/hdx-scraper/config"
	"github.com/clearglobal/hdx-scraper/models"
	"github.com/clearglobal/hdx-scraper/utils"
)

// CountryNamer resolves a country code to its display name.
type CountryNamer interface {
	CountryName(iso3 string) (string, error)
}

// DatasetGenerator assembles the catalog dataset for one country.
type DatasetGenerator struct {
	builder   *ResourceBuilder
	countries CountryNamer
	notes     string
	vizURL    string
	static    config.DatasetStaticConfig
}

type DatasetOptions struct {
	// NotesTemplate may use {countryname} and {dataset_sources}.
	NotesTemplate string
	// VisualizationURL may use {countryname}; empty disables customviz.
	VisualizationURL string
	Static           config.DatasetStaticConfig
}

func NewDatasetGenerator(builder *ResourceBuilder, countries CountryNamer, opts DatasetOptions) *DatasetGenerator {
	return &DatasetGenerator{
		builder:   builder,
		countries: countries,
		notes:     opts.NotesTemplate,
		vizURL:    opts.VisualizationURL,
		static:    opts.Static,
	}
}

// GenerateDataset builds the dataset and resources for iso3. Errors wrap
// ErrUnknownCountry, ErrNoData, ErrNoRating, ErrUnknownRating or
// ErrNoTimePeriod for data conditions, and the fetch error otherwise.
func (g *DatasetGenerator) GenerateDataset(ctx context.Context, iso3 string) (*models.Dataset, error) {
	countryName, err := g.countries.CountryName(iso3)
	if err != nil {
		slog.ErrorContext(ctx, "couldn't find country, skipping", "country", iso3, "err", err)
		return nil, fmt.Errorf("%s: %w: %w", iso3, ErrUnknownCountry, err)
	}

	built, err := g.builder.Build(ctx, iso3, countryName)
	if err != nil {
		return nil, err
	}
	agg := built.Aggregate
	if !agg.HasTimePeriod() {
		return nil, fmt.Errorf("%s: %w", iso3, ErrNoTimePeriod)
	}
	methodology, err := DeriveMethodology(agg.Ratings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", iso3, err)
	}

	sources := SortedSources(agg)
	title := countryName + ": Languages"
	dataset := &models.Dataset{
		Name:             utils.Slugify(title),
		Title:            title,
		CountryISO3:      iso3,
		CountryName:      countryName,
		Groups:           []models.Group{{Name: strings.ToLower(iso3)}},
		Tags:             []models.Tag{{Name: "languages", VocabularyID: g.static.TagVocabularyID}},
		Subnational:      true,
		TimePeriod:       models.TimePeriod{Start: agg.Earliest, End: agg.Latest},
		Methodology:      methodology.Value,
		MethodologyOther: methodology.Other,
		Notes:            FormatTemplate(g.notes, countryName, strings.Join(sources, ", ")),
		DatasetSource:    strings.Join(sources, ", "),
		DatasetPreview:   "no_preview",
		LicenseID:        g.static.LicenseID,
		Maintainer:       g.static.Maintainer,
		OwnerOrg:         g.static.OwnerOrg,
		DataUpdateFreq:   g.static.DataUpdateFrequency,
		Caveats:          g.static.Caveats,
		PackageCreator:   g.static.PackageCreator,
		Private:          g.static.Private,
		Resources:        built.Resources,
	}
	if agg.LatestCreation.After(models.EarliestPossible) {
		dataset.LastModified = agg.LatestCreation
	}
	if g.vizURL != "" {
		dataset.CustomViz = FormatTemplate(g.vizURL, countryName, "")
	}
	if err := dataset.Validate(); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "generated dataset", "country", iso3, "name", dataset.Name,
		"resources", len(dataset.Resources), "rows", agg.RowCount, "methodology", dataset.Methodology)
	return dataset, nil
}

// SortedSources lists the distinct source labels alphabetically.
func SortedSources(agg *models.Aggregate) []string {
	sources := make([]string, 0, len(agg.Sources))
	for s := range agg.Sources {
		sources = append(sources, s)
	}
	slices.Sort(sources)
	return sources
}

// FormatTemplate fills the {countryname} and {dataset_sources} placeholders.
func FormatTemplate(tmpl, countryName, sources string) string {
	return strings.NewReplacer("{countryname}", countryName, "{dataset_sources}", sources).Replace(tmpl)
}
