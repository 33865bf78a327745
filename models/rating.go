// models/rating.go
package models

import "fmt"

// Rating is the representativeness of the survey behind a row, ordered from
// census-equivalent (rank 0) to small-scale non-representative (rank 4).
type Rating int

const (
	RatingVeryHigh Rating = iota
	RatingHigh
	RatingModerate
	RatingLow
	RatingVeryLow
)

var ratingLabels = [...]string{
	RatingVeryHigh: "very_high",
	RatingHigh:     "high",
	RatingModerate: "moderate",
	RatingLow:      "low",
	RatingVeryLow:  "very_low",
}

var ratingMethodology = [...]string{
	RatingVeryHigh: "Census or census-equivalent data covering the whole population",
	RatingHigh:     "Representative survey at 95% confidence level and a 10% margin of error, or better",
	RatingModerate: "Representative survey, but less than 95% confidence level and/or greater than a 10% margin of error",
	RatingLow:      "Non-representative/indicative survey",
	RatingVeryLow:  "Small scale, non-representative survey",
}

// ParseRating maps an API label such as "very_high" to its Rating.
func ParseRating(label string) (Rating, error) {
	for r, l := range ratingLabels {
		if l == label {
			return Rating(r), nil
		}
	}
	return 0, fmt.Errorf("unknown representivity rating %q", label)
}

// Rank is the position of r in the total order; lower is more rigorous.
func (r Rating) Rank() int { return int(r) }

func (r Rating) Valid() bool { return r >= RatingVeryHigh && r <= RatingVeryLow }

func (r Rating) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rating(%d)", int(r))
	}
	return ratingLabels[r]
}

// Methodology is the catalog text describing how data with this rating was
// collected.
func (r Rating) Methodology() string {
	if !r.Valid() {
		return ""
	}
	return ratingMethodology[r]
}
