// utils/countries.go
package utils

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrCountryNotFound is returned for identifiers that are not ISO 3166-1
// alpha-3 country codes.
var ErrCountryNotFound = errors.New("country not found")

// NormalizeISO3 upper-cases and trims a country code.
func NormalizeISO3(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CountryRegistry resolves ISO3 codes to catalog country names. Lookup order
// is configured overrides, then the catalog table, then CLDR English names.
type CountryRegistry struct {
	overrides map[string]string
	namer     display.Namer
}

func NewCountryRegistry(overrides map[string]string) *CountryRegistry {
	normalized := make(map[string]string, len(overrides))
	for code, name := range overrides {
		normalized[NormalizeISO3(code)] = name
	}
	return &CountryRegistry{overrides: normalized, namer: display.English.Regions()}
}

// CountryName returns the display name for iso3.
func (r *CountryRegistry) CountryName(iso3 string) (string, error) {
	code := NormalizeISO3(iso3)
	if name, ok := r.overrides[code]; ok {
		return name, nil
	}
	if name, ok := catalogCountryNames[code]; ok {
		return name, nil
	}
	if len(code) != 3 {
		return "", fmt.Errorf("%w: %q", ErrCountryNotFound, iso3)
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() || region.ISO3() != code {
		return "", fmt.Errorf("%w: %q", ErrCountryNotFound, iso3)
	}
	name := r.namer.Name(region)
	if name == "" {
		return "", fmt.Errorf("%w: %q", ErrCountryNotFound, iso3)
	}
	return name, nil
}
