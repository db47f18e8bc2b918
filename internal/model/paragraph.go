package model

import (
	"strings"
	"time"
)

// Paragraph is a unit of text in the shared pool. It owns its voices.
type Paragraph struct {
	ID             string `gorm:"primaryKey;uuid;not null;"`
	Text           string `gorm:"not null"`
	Order          int    `gorm:"column:sort_order;not null;default:0;index"`
	DefaultVoiceID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time `gorm:"index"`
}

func (Paragraph) TableName() string {
	return "paragraphs"
}

// NormalizeText trims the surrounding whitespace of a paragraph text.
func NormalizeText(text string) string {
	return strings.TrimSpace(text)
}

// Preview returns the first n runes of the text followed by an ellipsis when cut.
func (p *Paragraph) Preview(n int) string {
	runes := []rune(p.Text)
	if len(runes) <= n {
		return p.Text
	}

	return string(runes[:n]) + "..."
}
