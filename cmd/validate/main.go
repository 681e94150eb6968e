// Command validate performs integrity checks over a completed ingestion run:
// the manifest, the per-source GeoJSON collections, and the invariants the
// map front end relies on (counts match file contents, every feature sits
// inside the advertised bounding box, news URLs are unique).
//
// Usage:
//
//	go run ./cmd/validate -dir docs/data
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/geo-event-ingest/internal/adapter/geojson"
	"github.com/couchcryptid/geo-event-ingest/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

var sources = []domain.Source{domain.SourceUSGS, domain.SourceGDACS, domain.SourceGDELT}

func main() {
	dir := flag.String("dir", "docs/data", "directory containing the run output")
	flag.Parse()

	if code := run(*dir); code != 0 {
		os.Exit(code)
	}
}

func run(dir string) int {
	fmt.Println("=== Geo Event Data Validation ===")
	fmt.Println()

	manifest, err := geojson.ReadManifest(filepath.Join(dir, geojson.ManifestFilename))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load manifest: %v\n", err)
		return 1
	}

	collections := make(map[domain.Source]geojson.FeatureCollection, len(sources))
	for _, src := range sources {
		fc, err := geojson.ReadCollection(filepath.Join(dir, src.Filename()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load %s: %v\n", src.Filename(), err)
			return 1
		}
		collections[src] = fc
	}

	phases := []*phase{
		validateManifest(manifest, collections),
		validateGeometry(manifest, collections),
		validateProperties(collections),
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	total := 0
	for _, fc := range collections {
		total += len(fc.Features)
	}
	fmt.Println()
	fmt.Printf("Generated: %s, features: %d, failed sources: %d\n",
		manifest.GeneratedUTC, total, len(manifest.Failures))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateManifest checks that manifest counts agree with what is actually on
// disk and that every source appears in the counts map.
func validateManifest(m geojson.ManifestDoc, collections map[domain.Source]geojson.FeatureCollection) *phase {
	p := &phase{name: "Phase 1: Manifest Consistency"}

	if m.GeneratedUTC == "" {
		p.errorf("generated_utc is empty")
	}

	for _, src := range sources {
		count, ok := m.Counts[src.Key()]
		if !ok {
			p.errorf("counts missing entry for %q", src.Key())
			continue
		}
		if actual := len(collections[src].Features); count != actual {
			p.errorf("%s: manifest says %d features, file has %d", src.Key(), count, actual)
		}
	}

	for key, reason := range m.Failures {
		if m.Counts[key] != 0 {
			p.errorf("failed source %q (%s) has non-zero count %d", key, reason, m.Counts[key])
		}
	}
	return p
}

// validateGeometry checks coordinate shape and bounding box containment.
func validateGeometry(m geojson.ManifestDoc, collections map[domain.Source]geojson.FeatureCollection) *phase {
	p := &phase{name: "Phase 2: Geometry and Bounding Box"}

	bbox := domain.BoundingBox{
		LonMin: m.BBox.LonMin,
		LatMin: m.BBox.LatMin,
		LonMax: m.BBox.LonMax,
		LatMax: m.BBox.LatMax,
	}
	if err := bbox.Validate(); err != nil {
		p.errorf("manifest bbox invalid: %v", err)
		return p
	}

	for _, src := range sources {
		for i, f := range collections[src].Features {
			if f.Geometry.Type != "Point" {
				p.errorf("%s feature %d: geometry type %q", src.Key(), i, f.Geometry.Type)
				continue
			}
			if len(f.Geometry.Coordinates) != 2 {
				p.errorf("%s feature %d: %d coordinates", src.Key(), i, len(f.Geometry.Coordinates))
				continue
			}
			lon, lat := f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]
			if !bbox.Contains(lon, lat) {
				p.errorf("%s feature %d: (%g, %g) outside bbox", src.Key(), i, lon, lat)
			}
		}
	}
	return p
}

// validateProperties checks per-source property conventions, including URL
// uniqueness for news events.
func validateProperties(collections map[domain.Source]geojson.FeatureCollection) *phase {
	p := &phase{name: "Phase 3: Feature Properties"}

	expectedType := map[domain.Source]string{
		domain.SourceUSGS:  "earthquake",
		domain.SourceGDACS: "disaster_alert",
		domain.SourceGDELT: "news_event",
	}

	for _, src := range sources {
		for i, f := range collections[src].Features {
			if f.Type != "Feature" {
				p.errorf("%s feature %d: type %q", src.Key(), i, f.Type)
			}
			if f.Properties.Source != string(src) {
				p.errorf("%s feature %d: source property %q", src.Key(), i, f.Properties.Source)
			}
			if f.Properties.Type != expectedType[src] {
				p.errorf("%s feature %d: event type %q", src.Key(), i, f.Properties.Type)
			}
		}
	}

	seen := map[string]int{}
	for i, f := range collections[domain.SourceGDELT].Features {
		url := f.Properties.URL
		if url == "" {
			continue
		}
		if prev, dup := seen[url]; dup {
			p.errorf("gdelt features %d and %d share URL %s", prev, i, url)
			continue
		}
		seen[url] = i
	}
	return p
}
