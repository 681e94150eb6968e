package source

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/geo-event-ingest/internal/domain"
)

var testBox = domain.BoundingBox{LonMin: 13.0, LatMin: 37.0, LonMax: 30.0, LatMax: 47.5}

// stubFetcher returns a canned body (or error) and records the request.
type stubFetcher struct {
	body   []byte
	err    error
	url    string
	params map[string]string
}

func (f *stubFetcher) Get(_ context.Context, url string, params, _ map[string]string) ([]byte, error) {
	f.url = url
	f.params = params
	return f.body, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

const usgsFixture = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [21.0, 42.0, 10.0]},
      "properties": {"mag": 3.1, "place": "5 km NE of Skopje", "time": 1686830400000, "url": "https://earthquake.usgs.gov/eq/1", "title": "M 3.1 - Skopje"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [5.0, 50.0, 8.0]},
      "properties": {"mag": 4.0, "place": "Belgium", "time": 1686830400000, "url": "https://earthquake.usgs.gov/eq/2", "title": "M 4.0 - Belgium"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [22.5]},
      "properties": {"mag": 2.9, "place": "truncated", "time": 1686830400000, "url": "https://earthquake.usgs.gov/eq/3", "title": "truncated coords"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [25.0, 40.0, 5.0]},
      "properties": {"mag": null, "place": "Aegean Sea", "time": "pending", "url": "https://earthquake.usgs.gov/eq/4", "title": "no usable time"}
    }
  ]
}`

func TestUSGSAdapter_Fetch(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(usgsFixture)}
	clock := clockwork.NewFakeClockAt(time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC))

	a := NewUSGSAdapter(fetcher, "https://earthquake.usgs.gov/fdsnws/event/1/query", 7, 2.5, testBox, clock, discardLogger())

	points, err := a.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 2)

	first := points[0]
	assert.Equal(t, 21.0, first.Lon)
	assert.Equal(t, 42.0, first.Lat)
	assert.Equal(t, domain.SourceUSGS, first.Source)
	assert.Equal(t, "earthquake", first.EventType)
	require.NotNil(t, first.Magnitude)
	assert.Equal(t, 3.1, *first.Magnitude)
	assert.Equal(t, "5 km NE of Skopje", first.Place)
	require.NotNil(t, first.Timestamp)
	assert.Equal(t, time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC), *first.Timestamp)

	// Non-numeric time: record emitted, timestamp absent.
	second := points[1]
	assert.Equal(t, "no usable time", second.Title)
	assert.Nil(t, second.Timestamp)
	assert.Nil(t, second.Magnitude)
}

func TestUSGSAdapter_QueryParams(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(`{"features":[]}`)}
	clock := clockwork.NewFakeClockAt(time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC))

	a := NewUSGSAdapter(fetcher, "https://earthquake.usgs.gov/fdsnws/event/1/query", 7, 2.5, testBox, clock, discardLogger())

	_, err := a.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "geojson", fetcher.params["format"])
	assert.Equal(t, "2023-06-08", fetcher.params["starttime"])
	assert.Equal(t, "2023-06-15", fetcher.params["endtime"])
	assert.Equal(t, "2.5", fetcher.params["minmagnitude"])
}

func TestUSGSAdapter_FetchErrorPropagates(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("fetch exhausted")}
	a := NewUSGSAdapter(fetcher, "https://example.com", 7, 2.5, testBox, clockwork.NewRealClock(), discardLogger())

	_, err := a.Fetch(context.Background())
	require.Error(t, err)
}

func TestUSGSAdapter_MalformedBody(t *testing.T) {
	fetcher := &stubFetcher{body: []byte("<html>down for maintenance</html>")}
	a := NewUSGSAdapter(fetcher, "https://example.com", 7, 2.5, testBox, clockwork.NewRealClock(), discardLogger())

	_, err := a.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode usgs response")
}
