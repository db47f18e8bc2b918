package notify

import (
	"context"
	"sync"

	"github.com/emrgen/reader/internal/store"
	"github.com/emrgen/reader/internal/view"
	"github.com/sirupsen/logrus"
)

// Revisioner reports the revision of the last published change.
type Revisioner interface {
	Revision() uint64
}

type ParagraphLoader interface {
	ListParagraphs(ctx context.Context) ([]*view.Paragraph, error)
}

type ArticleLoader interface {
	ListArticles(ctx context.Context) ([]*view.ArticleSummary, error)
	GetArticleView(ctx context.Context, id string) (*view.Article, error)
}

// Snapshot is the state of a watched view at a store revision.
type Snapshot struct {
	Revision   uint64
	Paragraphs []*view.Paragraph
	Articles   []*view.ArticleSummary
	Article    *view.Article
	// Err is set when the view could not be loaded, e.g. the article was deleted.
	Err error
}

var _ store.ChangeListener = (*Hub)(nil)

// Hub fans store changes out to subscriptions. Register it with store.Listen.
type Hub struct {
	revisions  Revisioner
	paragraphs ParagraphLoader
	articles   ArticleLoader

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func NewHub(revisions Revisioner, paragraphs ParagraphLoader, articles ArticleLoader) *Hub {
	return &Hub{
		revisions:  revisions,
		paragraphs: paragraphs,
		articles:   articles,
		subs:       make(map[*Subscription]struct{}),
	}
}

// OnChange marks every subscription the change touches. It never blocks.
func (h *Hub) OnChange(change store.Change) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs {
		s.offer(change)
	}
}

// Subscribe starts following the view of spec. The first snapshot is ready on
// C() when Subscribe returns. The subscription ends on Close or when ctx is done.
func (h *Hub) Subscribe(ctx context.Context, spec WatchSpec) (*Subscription, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		hub:    h,
		spec:   spec,
		ctx:    ctx,
		cancel: cancel,
		out:    make(chan Snapshot, 1),
		dirty:  make(chan struct{}, 1),
		done:   make(chan struct{}),
		watch:  watchSet{article: spec.ArticleID},
	}

	// register before the first load so no change is lost in between
	h.add(s)
	s.out <- s.load()

	go s.run()
	logrus.Debugf("subscribed to %s", spec)

	return s, nil
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) add(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[s] = struct{}{}
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, s)
}
