package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/geo-event-ingest/internal/domain"
)

// USGS query endpoint response. Coordinates are [lon, lat, depth]; time is a
// millisecond epoch that is occasionally missing or non-numeric, so it is
// decoded loosely.
type usgsResponse struct {
	Features []usgsFeature `json:"features"`
}

type usgsFeature struct {
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		Mag   *float64 `json:"mag"`
		Place string   `json:"place"`
		Time  any      `json:"time"`
		URL   string   `json:"url"`
		Title string   `json:"title"`
	} `json:"properties"`
}

// USGSAdapter pulls a time-windowed, magnitude-thresholded earthquake feed.
type USGSAdapter struct {
	fetcher      Fetcher
	url          string
	windowDays   int
	minMagnitude float64
	bbox         domain.BoundingBox
	clock        clockwork.Clock
	logger       *slog.Logger
}

// NewUSGSAdapter creates the seismic adapter.
func NewUSGSAdapter(fetcher Fetcher, url string, windowDays int, minMagnitude float64, bbox domain.BoundingBox, clock clockwork.Clock, logger *slog.Logger) *USGSAdapter {
	return &USGSAdapter{
		fetcher:      fetcher,
		url:          url,
		windowDays:   windowDays,
		minMagnitude: minMagnitude,
		bbox:         bbox,
		clock:        clock,
		logger:       logger,
	}
}

func (a *USGSAdapter) Name() domain.Source { return domain.SourceUSGS }

func (a *USGSAdapter) Fetch(ctx context.Context) ([]domain.Point, error) {
	end := a.clock.Now().UTC()
	start := end.AddDate(0, 0, -a.windowDays)

	params := map[string]string{
		"format":       "geojson",
		"starttime":    start.Format("2006-01-02"),
		"endtime":      end.Format("2006-01-02"),
		"minmagnitude": strconv.FormatFloat(a.minMagnitude, 'f', -1, 64),
	}

	body, err := a.fetcher.Get(ctx, a.url, params, nil)
	if err != nil {
		return nil, err
	}

	var resp usgsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode usgs response: %w", err)
	}

	var out []domain.Point
	for _, f := range resp.Features {
		coords := f.Geometry.Coordinates
		if len(coords) < 2 {
			continue
		}
		lon, lat := coords[0], coords[1]
		if !a.bbox.Contains(lon, lat) {
			continue
		}

		out = append(out, domain.Point{
			Lon:       lon,
			Lat:       lat,
			Source:    domain.SourceUSGS,
			EventType: "earthquake",
			Timestamp: epochMillis(f.Properties.Time),
			Magnitude: f.Properties.Mag,
			Place:     f.Properties.Place,
			URL:       f.Properties.URL,
			Title:     f.Properties.Title,
		})
	}

	a.logger.Debug("usgs fetch complete", "features", len(resp.Features), "emitted", len(out))
	return out, nil
}

// epochMillis converts a loosely-typed millisecond epoch to a UTC instant.
// Returns nil when the value is absent or not numeric.
func epochMillis(v any) *time.Time {
	var ms int64
	switch n := v.(type) {
	case float64:
		ms = int64(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return nil
		}
		ms = i
	default:
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}
