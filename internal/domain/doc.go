// Package domain models normalized geolocated events pulled from the three
// upstream feeds.
//
// # Sources
//
// USGS (seismic): the FDSN event query endpoint at
// https://earthquake.usgs.gov/fdsnws/event/1/query returns a GeoJSON
// FeatureCollection. Coordinates are [lon, lat, depth]; the event time is a
// millisecond Unix epoch in properties.time. Features carry magnitude, a
// human-readable place string, and a canonical event page URL.
//
// GDACS (disaster alerts): https://www.gdacs.org/xml/rss.xml is an RSS 2.0
// feed. Alert coordinates appear as a whitespace-separated "lat lon" pair in
// either a <georss:point> or a plain <point> element, latitude first,
// opposite to the GeoJSON convention. Publication dates are RFC-822
// style but drift between variants, so parsing is permissive. Items without a
// date or a point are unusable and skipped.
//
// GDELT (news events): the DOC 2.0 API at
// https://api.gdeltproject.org/api/v2/doc/doc, queried in ArtList mode with a
// boolean keyword/country query. Articles may carry a nested
// location.geo.latitude/longitude pair; articles without one are excluded
// rather than geocoded. The "seendate" is a free-form string, frequently the
// compact "20060102T150405Z" shape.
//
// # Normalization
//
// Every emitted Point satisfies the run's bounding box, inclusive on all four
// edges. Optional attributes stay absent rather than empty: pointer fields
// are nil and string fields empty, and the GeoJSON encoder omits them.
// Identity for deduplication is the URL; points without a URL are never
// considered duplicates of each other.
package domain
