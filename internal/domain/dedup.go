package domain

// DedupByURL drops points whose URL was already seen earlier in the batch,
// keeping the first occurrence and preserving order. Points without a URL
// are never treated as duplicates of each other and are all retained.
func DedupByURL(points []Point) []Point {
	if len(points) < 2 {
		return points
	}

	seen := make(map[string]struct{}, len(points))
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p.URL != "" {
			if _, dup := seen[p.URL]; dup {
				continue
			}
			seen[p.URL] = struct{}{}
		}
		out = append(out, p)
	}
	return out
}
