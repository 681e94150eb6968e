package geojson

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/geo-event-ingest/internal/domain"
)

// ManifestFilename is the run manifest file name inside the output directory.
const ManifestFilename = "meta.json"

// Store persists collections and the manifest under a single directory.
// Files are replaced atomically (write to temp, then rename) so a concurrent
// reader never observes a half-written document.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// WriteCollection writes the source's FeatureCollection file, overwriting any
// previous run's file wholesale.
func (s *Store) WriteCollection(src domain.Source, points []domain.Point) error {
	fc := FromPoints(points)
	if err := s.writeJSON(src.Filename(), fc); err != nil {
		return fmt.Errorf("write %s collection: %w", src.Key(), err)
	}
	s.logger.Info("collection written", "source", src.Key(), "features", len(fc.Features))
	return nil
}

// WriteManifest writes meta.json, overwriting the prior run's manifest.
func (s *Store) WriteManifest(m domain.Manifest) error {
	if err := s.writeJSON(ManifestFilename, FromManifest(m)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	s.logger.Info("manifest written", "total_features", m.TotalCount(), "failed_sources", len(m.Failures))
	return nil
}

func (s *Store) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, name))
}

// ReadCollection loads a FeatureCollection file, used by the validate
// command and tests.
func ReadCollection(path string) (FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FeatureCollection{}, err
	}
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return FeatureCollection{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return fc, nil
}

// ReadManifest loads a manifest file.
func ReadManifest(path string) (ManifestDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ManifestDoc{}, err
	}
	var doc ManifestDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return ManifestDoc{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}
