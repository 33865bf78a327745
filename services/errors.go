// services/errors.go
package services

import "errors"

var (
	// ErrNoData means no aggregation level returned rows for the country.
	ErrNoData = errors.New("no data for any aggregation level")
	// ErrNoRating means rows existed but none carried a representivity rating.
	ErrNoRating = errors.New("no representivity rating")
	// ErrUnknownRating means a row carried a rating outside the fixed scale.
	ErrUnknownRating = errors.New("unknown representivity rating")
	// ErrNoTimePeriod means no row carried a publication date.
	ErrNoTimePeriod = errors.New("no publication dates")
	// ErrUnknownCountry means the location registry cannot name the country.
	ErrUnknownCountry = errors.New("unknown country")
)

// SkipReason classifies a per-country failure for logs and metrics.
func SkipReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownCountry):
		return "unknown_country"
	case errors.Is(err, ErrNoData):
		return "no_data"
	case errors.Is(err, ErrNoRating):
		return "no_rating"
	case errors.Is(err, ErrUnknownRating):
		return "unknown_rating"
	case errors.Is(err, ErrNoTimePeriod):
		return "no_time_period"
	case errors.Is(err, errPublish):
		return "publish"
	default:
		return "fetch"
	}
}

var errPublish = errors.New("publish failed")
