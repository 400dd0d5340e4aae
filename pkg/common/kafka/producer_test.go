package kafka

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	event := NewEvent("artifacts.loaded", "symptom-service", map[string]interface{}{"hostname": "pod-1"})

	_, err := uuid.Parse(event.ID)
	require.NoError(t, err)
	assert.Equal(t, "artifacts.loaded", event.Type)
	assert.Equal(t, "symptom-service", event.Source)
	assert.Equal(t, "pod-1", event.Data["hostname"])
	assert.False(t, event.Timestamp.IsZero())
	assert.NotEqual(t, event.ID, NewEvent("artifacts.loaded", "symptom-service", nil).ID)
}

func TestMessageKeysBySource(t *testing.T) {
	event := NewEvent("artifacts.loaded", "prediction-service", map[string]interface{}{"artifacts": 3})

	msg, err := Message(event)
	require.NoError(t, err)
	assert.Equal(t, "prediction-service", string(msg.Key))
	assert.Equal(t, event.Timestamp, msg.Time)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "artifacts.loaded", headers[HeaderEventType])
	assert.Equal(t, "prediction-service", headers[HeaderService])

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ID, decoded["id"])
	assert.Equal(t, "artifacts.loaded", decoded["type"])
}

func TestMessageRejectsUnencodableData(t *testing.T) {
	_, err := Message(NewEvent("artifacts.loaded", "symptom-service", map[string]interface{}{"bad": make(chan int)}))
	assert.Error(t, err)
}
