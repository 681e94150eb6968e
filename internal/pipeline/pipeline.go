// Package pipeline orchestrates one ingestion run: each source adapter is
// executed in turn, per-source failures degrade to empty collections, and the
// surviving batches are persisted together with a run manifest.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/geo-event-ingest/internal/domain"
	"github.com/couchcryptid/geo-event-ingest/internal/observability"
	"github.com/couchcryptid/geo-event-ingest/internal/source"
)

// Store persists per-source collections and the run manifest. Write errors
// are fatal to the run: downstream consumers need the files to reason about
// staleness.
type Store interface {
	WriteCollection(src domain.Source, points []domain.Point) error
	WriteManifest(m domain.Manifest) error
}

// Publisher optionally forwards normalized points to an event sink. Publish
// failures are logged, never fatal.
type Publisher interface {
	Publish(ctx context.Context, points []domain.Point) error
}

// result is one adapter's typed outcome: points on success, err on terminal
// per-source failure.
type result struct {
	src    domain.Source
	points []domain.Point
	err    error
}

// Pipeline runs the source adapters and persists their output.
type Pipeline struct {
	adapters  []source.Adapter
	store     Store
	publisher Publisher // nil when the sink is disabled
	bbox      domain.BoundingBox
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
}

// New creates a Pipeline. Adapters run in the given order. publisher may be
// nil.
func New(adapters []source.Adapter, store Store, publisher Publisher, bbox domain.BoundingBox, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Pipeline {
	return &Pipeline{
		adapters:  adapters,
		store:     store,
		publisher: publisher,
		bbox:      bbox,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
	}
}

// Run executes one complete ingestion run and returns the manifest that was
// written. The returned error is non-nil only for fatal persistence
// failures; source outages are reported through Manifest.Failures.
func (p *Pipeline) Run(ctx context.Context) (domain.Manifest, error) {
	runStart := p.clock.Now()
	results := make([]result, 0, len(p.adapters))

	for _, adapter := range p.adapters {
		src := adapter.Name()
		start := p.clock.Now()

		points, err := adapter.Fetch(ctx)
		elapsed := p.clock.Since(start)
		p.metrics.SourceDuration.WithLabelValues(src.Key()).Observe(elapsed.Seconds())

		if err != nil {
			// A single source's outage must never block the others.
			p.logger.Error("source failed, degrading to empty collection",
				"source", src.Key(),
				"error", err,
			)
			p.metrics.SourceFailures.WithLabelValues(src.Key()).Inc()
			results = append(results, result{src: src, err: err})
			continue
		}

		p.logger.Info("source complete", "source", src.Key(), "features", len(points), "duration", elapsed)
		p.metrics.FeaturesEmitted.WithLabelValues(src.Key()).Add(float64(len(points)))
		results = append(results, result{src: src, points: points})
	}

	manifest := domain.Manifest{
		GeneratedAt: p.clock.Now().UTC(),
		Counts:      make(map[domain.Source]int, len(results)),
		BBox:        p.bbox,
	}

	var all []domain.Point
	for _, r := range results {
		manifest.Counts[r.src] = len(r.points)
		if r.err != nil {
			if manifest.Failures == nil {
				manifest.Failures = make(map[domain.Source]string)
			}
			manifest.Failures[r.src] = r.err.Error()
		}

		if err := p.store.WriteCollection(r.src, r.points); err != nil {
			return domain.Manifest{}, fmt.Errorf("persist %s: %w", r.src.Key(), err)
		}
		all = append(all, r.points...)
	}

	if err := p.store.WriteManifest(manifest); err != nil {
		return domain.Manifest{}, err
	}

	if p.publisher != nil && len(all) > 0 {
		if err := p.publisher.Publish(ctx, all); err != nil {
			p.logger.Warn("event sink publish failed", "error", err, "features", len(all))
		}
	}

	p.metrics.RunDuration.Observe(p.clock.Since(runStart).Seconds())
	p.metrics.LastRunUnix.Set(float64(manifest.GeneratedAt.Unix()))
	p.logger.Info("run complete",
		"total_features", manifest.TotalCount(),
		"failed_sources", len(manifest.Failures),
		"duration", p.clock.Since(runStart),
	)
	return manifest, nil
}
