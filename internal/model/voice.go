package model

import (
	"strings"
	"time"
)

// Voice is one synthesized rendering of a paragraph. At most one voice exists
// per paragraph and parameter tuple.
type Voice struct {
	ID           string `gorm:"primaryKey;uuid;not null;"`
	ParagraphID  string `gorm:"uuid;not null;index;uniqueIndex:idx_voice_key,priority:1"`
	VoiceValue   string `gorm:"not null;uniqueIndex:idx_voice_key,priority:2"`
	SpeedValue   string `gorm:"not null;uniqueIndex:idx_voice_key,priority:3"`
	PitchValue   string `gorm:"not null;uniqueIndex:idx_voice_key,priority:4"`
	StyleValue   string `gorm:"not null;uniqueIndex:idx_voice_key,priority:5"`
	AudioAssetID string `gorm:"not null"`
	CreatedAt    time.Time
}

func (Voice) TableName() string {
	return "voices"
}

// Options returns the parameter tuple the voice was synthesized with.
func (v *Voice) Options() VoiceOptions {
	return VoiceOptions{
		Voice: v.VoiceValue,
		Speed: v.SpeedValue,
		Pitch: v.PitchValue,
		Style: v.StyleValue,
	}
}

// VoiceOptions is the (voice, speed, pitch, style) tuple of a synthesis.
type VoiceOptions struct {
	Voice string `json:"voice" toml:"voice"`
	Speed string `json:"speed" toml:"speed"`
	Pitch string `json:"pitch" toml:"pitch"`
	Style string `json:"style" toml:"style"`
}

// Key returns the cache key of the tuple for the given paragraph.
func (o VoiceOptions) Key(paragraphID string) string {
	return strings.Join([]string{paragraphID, o.Voice, o.Speed, o.Pitch, o.Style}, "|")
}

func (o VoiceOptions) String() string {
	return o.Voice + " x" + o.Speed + " pitch " + o.Pitch + " " + o.Style
}
