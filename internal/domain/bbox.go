package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// BoundingBox is a rectangular geographic filter. A point is inside iff
// lon ∈ [LonMin, LonMax] and lat ∈ [LatMin, LatMax], inclusive on all edges.
type BoundingBox struct {
	LonMin float64
	LatMin float64
	LonMax float64
	LatMax float64
}

// Contains reports whether the coordinate pair falls inside the box.
func (b BoundingBox) Contains(lon, lat float64) bool {
	return lon >= b.LonMin && lon <= b.LonMax && lat >= b.LatMin && lat <= b.LatMax
}

// Validate checks that the box edges are ordered and within WGS-84 range.
func (b BoundingBox) Validate() error {
	if b.LonMin > b.LonMax {
		return fmt.Errorf("bounding box: lon_min %v > lon_max %v", b.LonMin, b.LonMax)
	}
	if b.LatMin > b.LatMax {
		return fmt.Errorf("bounding box: lat_min %v > lat_max %v", b.LatMin, b.LatMax)
	}
	if b.LonMin < -180 || b.LonMax > 180 || b.LatMin < -90 || b.LatMax > 90 {
		return fmt.Errorf("bounding box out of range: %+v", b)
	}
	return nil
}

// ParseBBox parses a "lonMin,latMin,lonMax,latMax" string.
func ParseBBox(s string) (BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BoundingBox{}, fmt.Errorf("bounding box %q: want 4 comma-separated values, got %d", s, len(parts))
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BoundingBox{}, fmt.Errorf("bounding box %q: %w", s, err)
		}
		vals[i] = v
	}

	b := BoundingBox{LonMin: vals[0], LatMin: vals[1], LonMax: vals[2], LatMax: vals[3]}
	if err := b.Validate(); err != nil {
		return BoundingBox{}, err
	}
	return b, nil
}
