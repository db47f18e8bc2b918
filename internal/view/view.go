// Package view holds the read-only projections served to observers.
package view

import "github.com/emrgen/reader/internal/model"

// Paragraph is an entry of the global paragraph list.
type Paragraph struct {
	Paragraph  *model.Paragraph `json:"paragraph"`
	VoiceCount int64            `json:"voice_count"`
}

// ArticleSummary is an entry of the article list.
type ArticleSummary struct {
	Article *model.Article `json:"article"`
	// ParagraphCount counts references, repeats included.
	ParagraphCount int   `json:"paragraph_count"`
	VoiceCount     int64 `json:"voice_count"`
}

// ArticleEntry is one position of an article's sequence.
type ArticleEntry struct {
	Paragraph *model.Paragraph `json:"paragraph"`
	// Voices are newest first.
	Voices []*model.Voice `json:"voices"`
	// Selected is the voice matching the article's parameters, if any.
	Selected *model.Voice `json:"selected,omitempty"`
}

// Article is the detail view of an article. Entries follow the reference order
// and skip dangling references.
type Article struct {
	Article *model.Article `json:"article"`
	Entries []ArticleEntry `json:"entries"`
}

// ParagraphIDs returns the ids of the resolved entries.
func (a *Article) ParagraphIDs() []string {
	ids := make([]string, 0, len(a.Entries))
	for _, e := range a.Entries {
		ids = append(ids, e.Paragraph.ID)
	}
	return ids
}
