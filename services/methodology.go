// services/methodology.go
package services

import (
	"cmp"
	"slices"
	"strings"

	"github.com/clearglobal/hdx-scraper/models"
)

const (
	MethodologyCensus = "Census"
	MethodologyOther  = "Other"
)

// Methodology is the catalog methodology derived from the observed ratings.
type Methodology struct {
	Value string
	Other string
}

// DeriveMethodology orders the distinct ratings by rank, most rigorous first,
// and joins their texts with "; ". A narrative equal to the rank-0 text is
// recorded as Census; anything else as Other with the narrative attached.
func DeriveMethodology(ratings map[models.Rating]struct{}) (Methodology, error) {
	if len(ratings) == 0 {
		return Methodology{}, ErrNoRating
	}
	ordered := make([]models.Rating, 0, len(ratings))
	for r := range ratings {
		ordered = append(ordered, r)
	}
	slices.SortFunc(ordered, func(a, b models.Rating) int { return cmp.Compare(a.Rank(), b.Rank()) })

	texts := make([]string, len(ordered))
	for i, r := range ordered {
		texts[i] = r.Methodology()
	}
	narrative := strings.Join(texts, "; ")
	if narrative == models.RatingVeryHigh.Methodology() {
		return Methodology{Value: MethodologyCensus}, nil
	}
	return Methodology{Value: MethodologyOther, Other: narrative}, nil
}
