package source

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/geo-event-ingest/internal/domain"
)

// snippetLen bounds the diagnostic excerpt logged for non-JSON bodies.
const snippetLen = 200

type gdeltResponse struct {
	Articles []gdeltArticle `json:"articles"`
}

// gdeltArticle keeps latitude/longitude loosely typed: the API emits numbers
// or numeric strings depending on the article.
type gdeltArticle struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Domain   string `json:"domain"`
	Language string `json:"language"`
	SeenDate string `json:"seendate"`
	Location struct {
		Geo struct {
			Latitude  any `json:"latitude"`
			Longitude any `json:"longitude"`
		} `json:"geo"`
	} `json:"location"`
}

// GDELTAdapter queries the DOC 2.0 article-list API with a boolean
// keyword/country query over a short time window.
type GDELTAdapter struct {
	fetcher    Fetcher
	url        string
	keywords   []string
	countries  []string
	windowDays int
	maxRecords int
	bbox       domain.BoundingBox
	clock      clockwork.Clock
	logger     *slog.Logger
}

// NewGDELTAdapter creates the news-event adapter.
func NewGDELTAdapter(fetcher Fetcher, url string, keywords, countries []string, windowDays, maxRecords int, bbox domain.BoundingBox, clock clockwork.Clock, logger *slog.Logger) *GDELTAdapter {
	return &GDELTAdapter{
		fetcher:    fetcher,
		url:        url,
		keywords:   keywords,
		countries:  countries,
		windowDays: windowDays,
		maxRecords: maxRecords,
		bbox:       bbox,
		clock:      clock,
		logger:     logger,
	}
}

func (a *GDELTAdapter) Name() domain.Source { return domain.SourceGDELT }

func (a *GDELTAdapter) Fetch(ctx context.Context) ([]domain.Point, error) {
	end := a.clock.Now().UTC()
	start := end.AddDate(0, 0, -a.windowDays)

	params := map[string]string{
		"query":         a.buildQuery(),
		"mode":          "ArtList",
		"format":        "json",
		"maxrecords":    strconv.Itoa(a.maxRecords),
		"startdatetime": start.Format("20060102150405"),
		"enddatetime":   end.Format("20060102150405"),
		"sort":          "HybridRel",
	}

	body, err := a.fetcher.Get(ctx, a.url, params, nil)
	if err != nil {
		return nil, err
	}

	var resp gdeltResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		// GDELT returns HTML error pages with a 200 status under load.
		// Treat the source as empty rather than failing the run.
		a.logger.Warn("gdelt returned non-JSON body, treating as empty",
			"error", err,
			"snippet", bodySnippet(body),
		)
		return nil, nil
	}

	var out []domain.Point
	for _, art := range resp.Articles {
		lat, latOK := floatValue(art.Location.Geo.Latitude)
		lon, lonOK := floatValue(art.Location.Geo.Longitude)
		if !latOK || !lonOK {
			// No geocoding fallback: ungeolocated articles are excluded.
			continue
		}
		if !a.bbox.Contains(lon, lat) {
			continue
		}

		p := domain.Point{
			Lon:       lon,
			Lat:       lat,
			Source:    domain.SourceGDELT,
			EventType: "news_event",
			Title:     art.Title,
			URL:       art.URL,
			Domain:    art.Domain,
			Language:  art.Language,
		}
		// Unlike GDACS, a missing or unparseable date does not exclude the
		// record; the timestamp just stays absent.
		if ts, ok := domain.ParseFlexibleTime(art.SeenDate); ok {
			p.Timestamp = &ts
		}
		out = append(out, p)
	}

	deduped := domain.DedupByURL(out)
	a.logger.Debug("gdelt fetch complete",
		"articles", len(resp.Articles),
		"geolocated", len(out),
		"emitted", len(deduped),
	)
	return deduped, nil
}

// buildQuery combines the keyword OR-list and the country OR-list:
// "(k1 OR k2) AND (c1 OR c2)".
func (a *GDELTAdapter) buildQuery() string {
	return "(" + strings.Join(a.keywords, " OR ") + ") AND (" + strings.Join(a.countries, " OR ") + ")"
}

// floatValue coerces the loosely-typed coordinate values GDELT emits.
func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func bodySnippet(body []byte) string {
	if len(body) > snippetLen {
		body = body[:snippetLen]
	}
	return string(body)
}
