package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/geo-event-ingest/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	when := time.Date(2023, 6, 10, 8, 15, 0, 0, time.UTC)
	magnitude := 3.1
	p := domain.Point{
		Lon: 21.0, Lat: 42.0,
		Source:    domain.SourceUSGS,
		EventType: "earthquake",
		Title:     "M 3.1 - Skopje",
		URL:       "https://earthquake.usgs.gov/eq/1",
		Magnitude: &magnitude,
		Timestamp: &when,
	}

	msg, err := serializeToMessage(p)
	require.NoError(t, err)

	assert.Equal(t, []byte("https://earthquake.usgs.gov/eq/1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"coordinates":[21,42]`)
	assert.Contains(t, string(msg.Value), `"source":"USGS"`)
	assert.Contains(t, string(msg.Value), `"time":"2023-06-10T08:15:00Z"`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "source", msg.Headers[0].Key)
	assert.Equal(t, []byte("USGS"), msg.Headers[0].Value)
	assert.Equal(t, "event_type", msg.Headers[1].Key)
	assert.Equal(t, []byte("earthquake"), msg.Headers[1].Value)
}

func TestSerializeToMessage_NoURL(t *testing.T) {
	p := domain.Point{Lon: 21.0, Lat: 42.0, Source: domain.SourceGDELT, EventType: "news_event"}

	msg, err := serializeToMessage(p)
	require.NoError(t, err)
	assert.Nil(t, msg.Key)
}
