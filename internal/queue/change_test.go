package queue

import (
	"encoding/json"
	"testing"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/reader/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChangeEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	change := store.Change{
		Revision:        7,
		Articles:        mapset.NewSet("a2", "a1"),
		Paragraphs:      mapset.NewSet[string](),
		Voices:          mapset.NewSet("v1"),
		VoiceParagraphs: mapset.NewSet("p1"),
	}

	event := NewChangeEvent(change, at)
	assert.Equal(t, []string{"a1", "a2"}, event.Articles)
	assert.Empty(t, event.Paragraphs)

	data, err := event.Marshal()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(7), decoded["revision"])
	assert.NotContains(t, decoded, "paragraphs")
	assert.Equal(t, []any{"p1"}, decoded["voice_paragraphs"])
}
