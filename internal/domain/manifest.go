package domain

import "time"

// Manifest describes one completed pipeline run. It is built once after all
// adapters finish and never mutated after being written.
type Manifest struct {
	GeneratedAt time.Time
	Counts      map[Source]int
	BBox        BoundingBox

	// Failures maps a source to the error that degraded it to an empty
	// collection. Empty when every source succeeded.
	Failures map[Source]string
}

// TotalCount returns the sum of per-source feature counts.
func (m Manifest) TotalCount() int {
	total := 0
	for _, n := range m.Counts {
		total += n
	}
	return total
}
