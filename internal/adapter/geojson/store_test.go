package geojson

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/geo-event-ingest/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func mag(v float64) *float64 { return &v }

func ts(t time.Time) *time.Time { return &t }

func TestStore_WriteCollectionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, discardLogger())

	when := time.Date(2023, 6, 10, 8, 15, 0, 0, time.UTC)
	points := []domain.Point{
		{
			Lon: 21.0, Lat: 42.0,
			Source: domain.SourceUSGS, EventType: "earthquake",
			Magnitude: mag(3.1), Place: "near Skopje",
			URL: "https://earthquake.usgs.gov/eq/1", Title: "M 3.1",
			Timestamp: ts(when),
		},
		{
			Lon: 22.0, Lat: 41.0,
			Source: domain.SourceUSGS, EventType: "earthquake",
			Title: "no optional fields",
		},
	}

	require.NoError(t, store.WriteCollection(domain.SourceUSGS, points))

	fc, err := ReadCollection(filepath.Join(dir, "usgs.geojson"))
	require.NoError(t, err)
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)

	first := fc.Features[0]
	assert.Equal(t, "Feature", first.Type)
	assert.Equal(t, "Point", first.Geometry.Type)
	assert.Equal(t, []float64{21.0, 42.0}, first.Geometry.Coordinates)
	assert.Equal(t, "USGS", first.Properties.Source)
	assert.Equal(t, "earthquake", first.Properties.Type)
	assert.Equal(t, "2023-06-10T08:15:00Z", first.Properties.Time)
	require.NotNil(t, first.Properties.Mag)
	assert.Equal(t, 3.1, *first.Properties.Mag)
}

func TestStore_OptionalFieldsOmitted(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, discardLogger())

	points := []domain.Point{{Lon: 21.0, Lat: 42.0, Source: domain.SourceGDACS, EventType: "disaster_alert"}}
	require.NoError(t, store.WriteCollection(domain.SourceGDACS, points))

	raw, err := os.ReadFile(filepath.Join(dir, "gdacs.geojson"))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	props := doc["features"].([]any)[0].(map[string]any)["properties"].(map[string]any)

	assert.Contains(t, props, "source")
	assert.Contains(t, props, "type")
	for _, absent := range []string{"mag", "place", "time", "url", "title", "domain", "language"} {
		assert.NotContains(t, props, absent)
	}
}

func TestStore_EmptyCollectionSerializesAsArray(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, discardLogger())

	require.NoError(t, store.WriteCollection(domain.SourceGDELT, nil))

	raw, err := os.ReadFile(filepath.Join(dir, "gdelt.geojson"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"features": []`)
}

func TestStore_WriteManifest(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, discardLogger())

	m := domain.Manifest{
		GeneratedAt: time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC),
		Counts: map[domain.Source]int{
			domain.SourceUSGS:  2,
			domain.SourceGDACS: 1,
			domain.SourceGDELT: 0,
		},
		BBox:     domain.BoundingBox{LonMin: 13.0, LatMin: 37.0, LonMax: 30.0, LatMax: 47.5},
		Failures: map[domain.Source]string{domain.SourceGDELT: "fetch exhausted"},
	}

	require.NoError(t, store.WriteManifest(m))

	doc, err := ReadManifest(filepath.Join(dir, ManifestFilename))
	require.NoError(t, err)
	assert.Equal(t, "2023-06-15T12:00:00Z", doc.GeneratedUTC)
	assert.Equal(t, map[string]int{"usgs": 2, "gdacs": 1, "gdelt": 0}, doc.Counts)
	assert.Equal(t, BBoxDoc{LonMin: 13.0, LatMin: 37.0, LonMax: 30.0, LatMax: 47.5}, doc.BBox)
	assert.Equal(t, map[string]string{"gdelt": "fetch exhausted"}, doc.Failures)
}

func TestStore_ManifestOmitsEmptyFailures(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, discardLogger())

	m := domain.Manifest{
		GeneratedAt: time.Now(),
		Counts:      map[domain.Source]int{domain.SourceUSGS: 0},
		BBox:        domain.BoundingBox{LonMin: 13.0, LatMin: 37.0, LonMax: 30.0, LatMax: 47.5},
	}
	require.NoError(t, store.WriteManifest(m))

	raw, err := os.ReadFile(filepath.Join(dir, ManifestFilename))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "failures")
}

func TestStore_OverwritesPriorRun(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, discardLogger())

	require.NoError(t, store.WriteCollection(domain.SourceUSGS, []domain.Point{
		{Lon: 21.0, Lat: 42.0, Source: domain.SourceUSGS, EventType: "earthquake"},
	}))
	require.NoError(t, store.WriteCollection(domain.SourceUSGS, nil))

	fc, err := ReadCollection(filepath.Join(dir, "usgs.geojson"))
	require.NoError(t, err)
	assert.Empty(t, fc.Features)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
