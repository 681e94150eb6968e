//go:build integration

// Integration coverage for the Kafka sink: spins up a real broker in a
// container, publishes a normalized batch through the production writer, and
// reads the topic back to verify the GeoJSON payload and headers.
//
// Run with: go test -tags integration ./internal/integration/...
package integration

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/couchcryptid/geo-event-ingest/internal/adapter/kafka"
	"github.com/couchcryptid/geo-event-ingest/internal/domain"
)

const testTopic = "normalized-geo-events"

func startBroker(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("geo-event-ingest-test"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers
}

func TestKafkaSink_PublishAndConsume(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	brokers := startBroker(t)
	logger := slog.New(slog.DiscardHandler)

	writer := kafkaadapter.NewWriter(brokers, testTopic, logger)
	defer writer.Close()

	when := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)
	magnitude := 3.4
	points := []domain.Point{
		{
			Lon: 21.43, Lat: 41.99,
			Source:    domain.SourceUSGS,
			EventType: "earthquake",
			Title:     "M 3.4 - 5 km N of Skopje",
			URL:       "https://earthquake.usgs.gov/eq/xyz",
			Place:     "5 km N of Skopje, North Macedonia",
			Magnitude: &magnitude,
			Timestamp: &when,
		},
		{
			Lon: 44.80, Lat: 20.45,
			Source:    domain.SourceGDACS,
			EventType: "disaster_alert",
			Title:     "Flood in Serbia",
			URL:       "https://gdacs.example/flood/1",
			Timestamp: &when,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	require.NoError(t, writer.Publish(ctx, points))

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    testTopic,
		GroupID:  "integration-verify",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	byURL := make(map[string]kafkago.Message, len(points))
	for range points {
		msg, err := reader.ReadMessage(ctx)
		require.NoError(t, err)
		byURL[string(msg.Key)] = msg
	}

	quake, ok := byURL["https://earthquake.usgs.gov/eq/xyz"]
	require.True(t, ok, "earthquake message not consumed")

	var feature struct {
		Type     string `json:"type"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Source string   `json:"source"`
			Type   string   `json:"type"`
			Mag    *float64 `json:"mag"`
			Time   string   `json:"time"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(quake.Value, &feature))

	assert.Equal(t, "Feature", feature.Type)
	assert.Equal(t, []float64{21.43, 41.99}, feature.Geometry.Coordinates)
	assert.Equal(t, "USGS", feature.Properties.Source)
	assert.Equal(t, "earthquake", feature.Properties.Type)
	require.NotNil(t, feature.Properties.Mag)
	assert.Equal(t, 3.4, *feature.Properties.Mag)
	assert.Equal(t, "2023-06-15T12:00:00Z", feature.Properties.Time)

	require.Len(t, quake.Headers, 2)
	assert.Equal(t, []byte("USGS"), quake.Headers[0].Value)
	assert.Equal(t, []byte("earthquake"), quake.Headers[1].Value)

	flood, ok := byURL["https://gdacs.example/flood/1"]
	require.True(t, ok, "flood message not consumed")
	assert.Contains(t, string(flood.Value), `"disaster_alert"`)
}
