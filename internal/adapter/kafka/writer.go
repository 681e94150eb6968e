// Package kafka publishes normalized features to an event topic for
// downstream subscribers. The sink is optional: it is only constructed when
// brokers are configured, and the pipeline treats publish failures as
// non-fatal.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/geo-event-ingest/internal/adapter/geojson"
	"github.com/couchcryptid/geo-event-ingest/internal/domain"
)

// Writer produces GeoJSON feature messages to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a producer for the configured topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and sends the batch in a single WriteMessages call.
func (w *Writer) Publish(ctx context.Context, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(points))
	for i := range points {
		msg, err := serializeToMessage(points[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a point as a GeoJSON feature keyed by URL.
// Points without a URL get an empty key and partition by the balancer.
func serializeToMessage(p domain.Point) (kafkago.Message, error) {
	data, err := json.Marshal(geojson.FromPoint(p))
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize feature: %w", err)
	}

	var key []byte
	if p.URL != "" {
		key = []byte(p.URL)
	}
	return kafkago.Message{
		Key:   key,
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(p.Source)},
			{Key: "event_type", Value: []byte(p.EventType)},
		},
	}, nil
}
