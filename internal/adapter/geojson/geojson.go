// Package geojson serializes normalized points as GeoJSON FeatureCollections
// and the run manifest. The JSON shapes here are an external contract: the
// map renderer and digest builders key off generated_utc, counts.{source},
// bbox.{lon_min,...} and per-feature properties.{source,type,title,url,time}.
package geojson

import (
	"time"

	"github.com/couchcryptid/geo-event-ingest/internal/domain"
)

// FeatureCollection is a GeoJSON FeatureCollection document.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON point feature.
type Feature struct {
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

// Geometry holds a point geometry; coordinates are [lon, lat].
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Properties carries the normalized attributes. Absent optional fields are
// omitted entirely, never written as empty strings.
type Properties struct {
	Source   string   `json:"source"`
	Type     string   `json:"type"`
	Mag      *float64 `json:"mag,omitempty"`
	Place    string   `json:"place,omitempty"`
	Time     string   `json:"time,omitempty"`
	URL      string   `json:"url,omitempty"`
	Title    string   `json:"title,omitempty"`
	Domain   string   `json:"domain,omitempty"`
	Language string   `json:"language,omitempty"`
}

// ManifestDoc is the serialized run manifest (meta.json).
type ManifestDoc struct {
	GeneratedUTC string            `json:"generated_utc"`
	Counts       map[string]int    `json:"counts"`
	BBox         BBoxDoc           `json:"bbox"`
	Failures     map[string]string `json:"failures,omitempty"`
}

// BBoxDoc is the manifest's bounding box block.
type BBoxDoc struct {
	LonMin float64 `json:"lon_min"`
	LatMin float64 `json:"lat_min"`
	LonMax float64 `json:"lon_max"`
	LatMax float64 `json:"lat_max"`
}

// FromPoint converts a normalized point to its GeoJSON feature.
func FromPoint(p domain.Point) Feature {
	props := Properties{
		Source:   string(p.Source),
		Type:     p.EventType,
		Mag:      p.Magnitude,
		Place:    p.Place,
		URL:      p.URL,
		Title:    p.Title,
		Domain:   p.Domain,
		Language: p.Language,
	}
	if p.Timestamp != nil {
		props.Time = p.Timestamp.UTC().Format(time.RFC3339)
	}

	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: []float64{p.Lon, p.Lat},
		},
		Properties: props,
	}
}

// FromPoints converts a batch, preserving order. The Features slice is
// always non-nil so empty collections serialize as [] rather than null.
func FromPoints(points []domain.Point) FeatureCollection {
	features := make([]Feature, 0, len(points))
	for _, p := range points {
		features = append(features, FromPoint(p))
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// FromManifest converts a run manifest to its serialized form.
func FromManifest(m domain.Manifest) ManifestDoc {
	counts := make(map[string]int, len(m.Counts))
	for src, n := range m.Counts {
		counts[src.Key()] = n
	}

	doc := ManifestDoc{
		GeneratedUTC: m.GeneratedAt.UTC().Format(time.RFC3339),
		Counts:       counts,
		BBox: BBoxDoc{
			LonMin: m.BBox.LonMin,
			LatMin: m.BBox.LatMin,
			LonMax: m.BBox.LonMax,
			LatMax: m.BBox.LatMax,
		},
	}
	if len(m.Failures) > 0 {
		doc.Failures = make(map[string]string, len(m.Failures))
		for src, msg := range m.Failures {
			doc.Failures[src.Key()] = msg
		}
	}
	return doc
}
