package domain

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// compactLayouts covers GDELT-style timestamps that dateparse rejects.
var compactLayouts = []string{
	"20060102T150405Z",
	"20060102150405",
}

// ParseFlexibleTime parses a date string permissively, accepting RFC-822
// style feed dates, ISO variants, and the compact GDELT forms. The result is
// in UTC. ok is false when nothing parseable was found.
func ParseFlexibleTime(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := dateparse.ParseAny(s); err == nil {
		return t.UTC(), true
	}
	for _, layout := range compactLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
