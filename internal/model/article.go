package model

import (
	"slices"
	"time"
)

// Article is a named, ordered list of paragraph references. Repeats are allowed
// and a reference never keeps its paragraph alive.
type Article struct {
	ID           string   `gorm:"primaryKey;uuid;not null;"`
	Name         string   `gorm:"not null"`
	ParagraphIDs []string `gorm:"serializer:json;type:text;not null"`
	VoiceValue   string   `gorm:"not null"`
	SpeedValue   string   `gorm:"not null"`
	PitchValue   string   `gorm:"not null"`
	StyleValue   string   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time `gorm:"index"`
}

func (Article) TableName() string {
	return "articles"
}

// Options returns the default voice parameters of the article.
func (a *Article) Options() VoiceOptions {
	return VoiceOptions{
		Voice: a.VoiceValue,
		Speed: a.SpeedValue,
		Pitch: a.PitchValue,
		Style: a.StyleValue,
	}
}

// SetOptions overwrites the default voice parameters of the article.
func (a *Article) SetOptions(opts VoiceOptions) {
	a.VoiceValue = opts.Voice
	a.SpeedValue = opts.Speed
	a.PitchValue = opts.Pitch
	a.StyleValue = opts.Style
}

// References reports whether the article lists the paragraph at least once.
func (a *Article) References(paragraphID string) bool {
	return slices.Contains(a.ParagraphIDs, paragraphID)
}

// Prune removes every occurrence of the paragraph and reports whether anything was removed.
func (a *Article) Prune(paragraphID string) bool {
	before := len(a.ParagraphIDs)
	a.ParagraphIDs = slices.DeleteFunc(a.ParagraphIDs, func(id string) bool {
		return id == paragraphID
	})

	return len(a.ParagraphIDs) != before
}
