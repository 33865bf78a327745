// services/fakes_test.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/clearglobal/hdx-scraper/models"
	"github.com/clearglobal/hdx-scraper/scraper"
	"github.com/clearglobal/hdx-scraper/utils"
)

const testBaseURL = "https://api.test/"

var errTransport = errors.New("connection reset")

// noRating makes the fake omit representivity_rating values.
const noRating = "-"

// fakeFetcher serves the location index and per-country pages from memory.
type fakeFetcher struct {
	mu        sync.Mutex
	locations string
	// pages[iso3][level] lists the row count of each successive page.
	pages    map[string]map[int][]int
	ratings  map[string]string
	failISO3 string
	requests []scraper.Request
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string]map[int][]int{}, ratings: map[string]string{}}
}

func (f *fakeFetcher) setPages(iso3 string, level int, sizes ...int) {
	if f.pages[iso3] == nil {
		f.pages[iso3] = map[int][]int{}
	}
	f.pages[iso3][level] = sizes
}

func (f *fakeFetcher) FetchJSON(ctx context.Context, req scraper.Request, out any) error {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if req.URL == testBaseURL+"locations/" {
		body := f.locations
		if body == "" {
			body = `{}`
		}
		return json.Unmarshal([]byte(body), out)
	}

	iso3 := strings.TrimPrefix(req.URL, testBaseURL+"location/")
	if iso3 == f.failISO3 {
		return errTransport
	}
	var level, page int
	fmt.Sscan(req.Query.Get("aggregation"), &level)
	fmt.Sscan(req.Query.Get("page"), &page)

	sizes := f.pages[iso3][level]
	n := 0
	if page < len(sizes) {
		n = sizes[page]
	}
	rating := f.ratings[iso3]
	switch rating {
	case "":
		rating = "very_high"
	case noRating:
		rating = ""
	}
	rows := make([]map[string]any, n)
	for i := range rows {
		day := time.Date(2013, 12, 1+(page*PageSize+i)%28, 0, 0, 0, 0, time.UTC)
		rows[i] = map[string]any{
			"location_code":         iso3,
			"location_level":        level,
			"source":                "IPUMS International",
			"representivity_rating": rating,
			"datetime_published":    day.Format("2006-01-02"),
			"date_creation":         "2024-05-01T08:00:00",
			"language_name":         "Fon",
		}
	}
	raw, err := json.Marshal(map[string]any{"data": rows})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeFetcher) pageRequests() []scraper.Request {
	var out []scraper.Request
	for _, r := range f.requests {
		if r.Query != nil {
			out = append(out, r)
		}
	}
	return out
}

type fakeStore struct {
	state models.RunState
	saved models.RunState
	saves int
}

func (s *fakeStore) Load(ctx context.Context) (models.RunState, error) {
	return s.state.Clone(), nil
}

func (s *fakeStore) Save(ctx context.Context, state models.RunState) error {
	s.saved = state.Clone()
	s.saves++
	return nil
}

type fakePublisher struct {
	published []*models.Dataset
	fail      map[string]bool
	// afterPublish runs after each successful publication.
	afterPublish func()
}

func (p *fakePublisher) Publish(ctx context.Context, d *models.Dataset) error {
	if p.fail[d.CountryISO3] {
		return errors.New("catalog rejected dataset")
	}
	p.published = append(p.published, d)
	if p.afterPublish != nil {
		p.afterPublish()
	}
	return nil
}

func testRegistry() CountryNamer { return utils.NewCountryRegistry(nil) }
