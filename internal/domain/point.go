package domain

import (
	"strings"
	"time"
)

// Source identifies one of the upstream feeds. The values are the labels
// written to feature properties; Key returns the lower-case form used for
// manifest counts and collection file names.
type Source string

const (
	SourceUSGS  Source = "USGS"
	SourceGDACS Source = "GDACS"
	SourceGDELT Source = "GDELT"
)

// Key returns the source's lower-case identifier, e.g. "usgs".
func (s Source) Key() string {
	return strings.ToLower(string(s))
}

// Filename returns the collection file name for the source, e.g. "usgs.geojson".
func (s Source) Filename() string {
	return s.Key() + ".geojson"
}

// Point is a normalized geolocated event. Lon/Lat are WGS-84 degrees.
// All other fields except Source and EventType are source-specific and
// optional; absent values are nil pointers or empty strings.
type Point struct {
	Lon       float64
	Lat       float64
	Source    Source
	EventType string

	// Timestamp is the event's UTC instant, nil when the upstream provided
	// no parseable time.
	Timestamp *time.Time

	Title     string
	URL       string
	Place     string
	Domain    string
	Language  string
	Magnitude *float64
}
