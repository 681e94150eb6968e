// Command mockfeeds serves deterministic upstream fixtures for local
// development, emulating the three feed endpoints on one port. Point the
// ingester at it with:
//
//	USGS_URL=http://localhost:9090/usgs \
//	GDACS_URL=http://localhost:9090/gdacs \
//	GDELT_URL=http://localhost:9090/gdelt \
//	go run ./cmd/ingest
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /usgs", handleUSGS)
	mux.HandleFunc("GET /gdacs", handleGDACS)
	mux.HandleFunc("GET /gdelt", handleGDELT)

	log.Printf("mock feeds listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

// handleUSGS returns a small FDSN GeoJSON response: two quakes inside the
// Balkan box and one in the Atlantic that the ingester must filter out.
func handleUSGS(w http.ResponseWriter, _ *http.Request) {
	now := time.Now().UTC()
	resp := map[string]any{
		"type": "FeatureCollection",
		"features": []map[string]any{
			quake(21.43, 41.99, 10.0, 3.4, "5 km N of Skopje, North Macedonia", now.Add(-6*time.Hour)),
			quake(23.72, 37.98, 8.2, 4.1, "Athens, Greece", now.Add(-30*time.Hour)),
			quake(-30.0, 45.0, 12.0, 5.0, "northern Mid-Atlantic Ridge", now.Add(-2*time.Hour)),
		},
	}
	writeJSON(w, resp)
}

func quake(lon, lat, depth, mag float64, place string, at time.Time) map[string]any {
	return map[string]any{
		"type": "Feature",
		"geometry": map[string]any{
			"type":        "Point",
			"coordinates": []float64{lon, lat, depth},
		},
		"properties": map[string]any{
			"mag":   mag,
			"place": place,
			"time":  at.UnixMilli(),
			"url":   fmt.Sprintf("https://earthquake.example/event/%d", at.Unix()),
			"title": fmt.Sprintf("M %.1f - %s", mag, place),
		},
	}
}

// handleGDACS returns an RSS feed with one in-box flood alert, one stale
// item past any reasonable cutoff, and one event outside the box.
func handleGDACS(w http.ResponseWriter, _ *http.Request) {
	now := time.Now().UTC()
	const layout = "Mon, 02 Jan 2006 15:04:05 GMT"
	body := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:georss="http://www.georss.org/georss">
  <channel>
    <title>Mock GDACS</title>
    <item>
      <title>Flood in Serbia</title>
      <link>https://gdacs.example/flood/1</link>
      <pubDate>%s</pubDate>
      <georss:point>44.80 20.45</georss:point>
    </item>
    <item>
      <title>Ancient cyclone</title>
      <link>https://gdacs.example/cyclone/2</link>
      <pubDate>%s</pubDate>
      <georss:point>42.00 19.50</georss:point>
    </item>
    <item>
      <title>Earthquake in Japan</title>
      <link>https://gdacs.example/eq/3</link>
      <pubDate>%s</pubDate>
      <georss:point>35.68 139.65</georss:point>
    </item>
  </channel>
</rss>
`,
		now.Add(-12*time.Hour).Format(layout),
		now.Add(-90*24*time.Hour).Format(layout),
		now.Add(-3*time.Hour).Format(layout),
	)

	w.Header().Set("Content-Type", "application/rss+xml")
	fmt.Fprint(w, body) //nolint:errcheck // mock response
}

// handleGDELT returns an ArtList document with a duplicate URL and one
// article outside the box.
func handleGDELT(w http.ResponseWriter, _ *http.Request) {
	now := time.Now().UTC()
	seen := now.Add(-4 * time.Hour).Format("20060102T150405Z")
	resp := map[string]any{
		"articles": []map[string]any{
			article("https://news.example/protest-belgrade", "Protest in Belgrade", "news.example", "English", seen, 44.82, 20.46),
			article("https://news.example/protest-belgrade", "Protest in Belgrade (syndicated)", "mirror.example", "English", seen, 44.82, 20.46),
			article("https://news.example/border-incident", "Incident at border crossing", "news.example", "English", seen, 41.12, 22.50),
			article("https://news.example/paris-march", "March in Paris", "fr.example", "French", seen, 48.85, 2.35),
		},
	}
	writeJSON(w, resp)
}

func article(url, title, dom, lang, seen string, lat, lon float64) map[string]any {
	return map[string]any{
		"url":      url,
		"title":    title,
		"domain":   dom,
		"language": lang,
		"seendate": seen,
		"location": map[string]any{
			"geo": map[string]any{"latitude": lat, "longitude": lon},
		},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v) //nolint:errcheck // mock response
}
