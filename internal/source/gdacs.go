package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mmcdole/gofeed"

	"github.com/couchcryptid/geo-event-ingest/internal/domain"
)

// GDACSAdapter pulls the disaster-alert RSS feed. Items without a
// publication date or a coordinate point are unusable and skipped, as are
// items older than the recency cutoff.
type GDACSAdapter struct {
	fetcher Fetcher
	url     string
	maxAge  time.Duration
	bbox    domain.BoundingBox
	clock   clockwork.Clock
	logger  *slog.Logger
}

// NewGDACSAdapter creates the disaster-alert adapter. maxAge is the recency
// cutoff measured back from the clock's now.
func NewGDACSAdapter(fetcher Fetcher, url string, maxAge time.Duration, bbox domain.BoundingBox, clock clockwork.Clock, logger *slog.Logger) *GDACSAdapter {
	return &GDACSAdapter{
		fetcher: fetcher,
		url:     url,
		maxAge:  maxAge,
		bbox:    bbox,
		clock:   clock,
		logger:  logger,
	}
}

func (a *GDACSAdapter) Name() domain.Source { return domain.SourceGDACS }

func (a *GDACSAdapter) Fetch(ctx context.Context) ([]domain.Point, error) {
	body, err := a.fetcher.Get(ctx, a.url, nil, nil)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse gdacs feed: %w", err)
	}

	cutoff := a.clock.Now().UTC().Add(-a.maxAge)

	var out []domain.Point
	for _, item := range feed.Items {
		published, ok := itemPublished(item)
		if !ok {
			continue
		}
		if published.Before(cutoff) {
			continue
		}

		lat, lon, ok := itemPoint(item)
		if !ok {
			continue
		}
		if !a.bbox.Contains(lon, lat) {
			continue
		}

		ts := published
		out = append(out, domain.Point{
			Lon:       lon,
			Lat:       lat,
			Source:    domain.SourceGDACS,
			EventType: "disaster_alert",
			Title:     item.Title,
			URL:       item.Link,
			Timestamp: &ts,
		})
	}

	a.logger.Debug("gdacs fetch complete", "items", len(feed.Items), "emitted", len(out))
	return out, nil
}

// itemPublished returns the item's publication instant in UTC. Falls back to
// the permissive parser when gofeed could not parse the date itself.
func itemPublished(item *gofeed.Item) (time.Time, bool) {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC(), true
	}
	if item.Published == "" {
		return time.Time{}, false
	}
	return domain.ParseFlexibleTime(item.Published)
}

// itemPoint extracts the "lat lon" pair from a georss:point extension or a
// plain point element. Malformed pairs (wrong arity, non-numeric values) are
// rejected.
func itemPoint(item *gofeed.Item) (lat, lon float64, ok bool) {
	raw := ""
	if ext, found := item.Extensions["georss"]; found {
		if points, found := ext["point"]; found && len(points) > 0 {
			raw = points[0].Value
		}
	}
	if raw == "" {
		raw = item.Custom["point"]
	}

	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return 0, 0, false
	}

	lat, errLat := strconv.ParseFloat(fields[0], 64)
	lon, errLon := strconv.ParseFloat(fields[1], 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
