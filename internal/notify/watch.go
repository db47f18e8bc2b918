// Package notify delivers fresh snapshots of derived views to subscribers after
// every committed write that touches them.
package notify

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/reader/internal/model"
	"github.com/emrgen/reader/internal/store"
	"github.com/emrgen/reader/internal/view"
)

type Kind int

const (
	// KindParagraphs watches the global paragraph list.
	KindParagraphs Kind = iota
	// KindArticles watches the article list with its stats.
	KindArticles
	// KindArticle watches the detail view of one article.
	KindArticle
)

func (k Kind) String() string {
	switch k {
	case KindParagraphs:
		return "paragraphs"
	case KindArticles:
		return "articles"
	case KindArticle:
		return "article"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// WatchSpec names the view a subscription follows.
type WatchSpec struct {
	Kind      Kind
	ArticleID string
}

func Paragraphs() WatchSpec {
	return WatchSpec{Kind: KindParagraphs}
}

func Articles() WatchSpec {
	return WatchSpec{Kind: KindArticles}
}

func Article(id string) WatchSpec {
	return WatchSpec{Kind: KindArticle, ArticleID: id}
}

func (w WatchSpec) validate() error {
	switch w.Kind {
	case KindParagraphs, KindArticles:
		return nil
	case KindArticle:
		if w.ArticleID == "" {
			return fmt.Errorf("%w: article watch without id", model.ErrValidation)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown watch kind %v", model.ErrValidation, w.Kind)
	}
}

func (w WatchSpec) String() string {
	if w.Kind == KindArticle {
		return "article:" + w.ArticleID
	}
	return w.Kind.String()
}

// watchSet is the set of records an article detail view depends on.
type watchSet struct {
	article    string
	paragraphs mapset.Set[string]
}

// deriveWatch rebuilds the watch set from a loaded article view. References to
// missing paragraphs stay watched.
func deriveWatch(articleID string, v *view.Article) watchSet {
	w := watchSet{article: articleID, paragraphs: mapset.NewThreadUnsafeSet[string]()}
	if v != nil && v.Article != nil {
		w.paragraphs.Append(v.Article.ParagraphIDs...)
	}
	return w
}

// matches reports whether the change can alter the view of the spec.
func matches(spec WatchSpec, w watchSet, c store.Change) bool {
	switch spec.Kind {
	case KindParagraphs:
		return c.Paragraphs.Cardinality() > 0 || c.Voices.Cardinality() > 0
	case KindArticles:
		return !c.Empty()
	case KindArticle:
		if c.Articles.Contains(w.article) {
			return true
		}
		if w.paragraphs == nil {
			return false
		}
		return overlaps(w.paragraphs, c.Paragraphs) || overlaps(w.paragraphs, c.VoiceParagraphs)
	}
	return false
}

func overlaps(watched, touched mapset.Set[string]) bool {
	if touched == nil || touched.Cardinality() == 0 {
		return false
	}
	found := false
	touched.Each(func(id string) bool {
		found = watched.Contains(id)
		return found
	})
	return found
}
