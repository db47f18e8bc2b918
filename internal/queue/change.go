package queue

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/emrgen/reader/internal/store"
)

// ChangeTopic is the default topic of exported store changes.
var ChangeTopic = "reader.changes"

// ChangeQueue exports committed store changes to other processes.
type ChangeQueue interface {
	// PublishChange appends a change to the queue.
	PublishChange(ctx context.Context, change store.Change) error
	Close() error
}

// ChangeEvent is the wire form of a store change.
type ChangeEvent struct {
	Revision        uint64    `json:"revision"`
	Articles        []string  `json:"articles,omitempty"`
	Paragraphs      []string  `json:"paragraphs,omitempty"`
	Voices          []string  `json:"voices,omitempty"`
	VoiceParagraphs []string  `json:"voice_paragraphs,omitempty"`
	At              time.Time `json:"at"`
}

func sorted(ids []string) []string {
	slices.Sort(ids)
	return ids
}

// NewChangeEvent converts a change into its wire form with sorted ids.
func NewChangeEvent(change store.Change, at time.Time) ChangeEvent {
	return ChangeEvent{
		Revision:        change.Revision,
		Articles:        sorted(change.Articles.ToSlice()),
		Paragraphs:      sorted(change.Paragraphs.ToSlice()),
		Voices:          sorted(change.Voices.ToSlice()),
		VoiceParagraphs: sorted(change.VoiceParagraphs.ToSlice()),
		At:              at,
	}
}

func (e ChangeEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
