package notify

import (
	"context"
	"sync"

	"github.com/emrgen/reader/internal/store"
	"github.com/sirupsen/logrus"
)

// Subscription follows one view. C delivers the latest snapshot; an unread
// snapshot is replaced by a newer one.
type Subscription struct {
	hub    *Hub
	spec   WatchSpec
	ctx    context.Context
	cancel context.CancelFunc

	// out has a single sender, the run loop, which closes it on exit
	out   chan Snapshot
	dirty chan struct{}
	done  chan struct{}

	mu      sync.Mutex
	watch   watchSet
	loading bool
	// pending holds the changes that missed the watch set during a load
	pending []store.Change
}

// C returns the snapshot channel. It is closed when the subscription ends.
func (s *Subscription) C() <-chan Snapshot {
	return s.out
}

func (s *Subscription) Spec() WatchSpec {
	return s.spec
}

// Close ends the subscription and waits for its loop to exit.
func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

// Done is closed once the subscription has ended.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) offer(c store.Change) {
	s.mu.Lock()
	hit := matches(s.spec, s.watch, c)
	if !hit && s.loading {
		s.pending = append(s.pending, c)
	}
	s.mu.Unlock()

	if hit {
		s.signal()
	}
}

func (s *Subscription) signal() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *Subscription) run() {
	defer close(s.done)
	defer close(s.out)
	defer s.hub.remove(s)

	for {
		select {
		case <-s.ctx.Done():
			logrus.Debugf("subscription to %s closed", s.spec)
			return
		case <-s.dirty:
		}

		snap := s.load()
		if s.ctx.Err() != nil {
			return
		}
		s.deliver(snap)
	}
}

// deliver replaces an unread snapshot with snap.
func (s *Subscription) deliver(snap Snapshot) {
	for {
		select {
		case s.out <- snap:
			return
		default:
		}

		select {
		case <-s.out:
		default:
		}
	}
}

// load reads the view and re-derives the watch set from it. Changes that arrived
// during the load and missed the old watch set are checked against the new one.
func (s *Subscription) load() Snapshot {
	s.mu.Lock()
	s.loading = true
	s.pending = nil
	s.mu.Unlock()

	snap := Snapshot{Revision: s.hub.revisions.Revision()}
	switch s.spec.Kind {
	case KindParagraphs:
		snap.Paragraphs, snap.Err = s.hub.paragraphs.ListParagraphs(s.ctx)
	case KindArticles:
		snap.Articles, snap.Err = s.hub.articles.ListArticles(s.ctx)
	case KindArticle:
		snap.Article, snap.Err = s.hub.articles.GetArticleView(s.ctx, s.spec.ArticleID)
	}
	if snap.Err != nil && s.ctx.Err() == nil {
		logrus.Warnf("load %s: %v", s.spec, snap.Err)
	}

	s.mu.Lock()
	if s.spec.Kind == KindArticle {
		s.watch = deriveWatch(s.spec.ArticleID, snap.Article)
	}
	stale := false
	for _, c := range s.pending {
		if matches(s.spec, s.watch, c) {
			stale = true
			break
		}
	}
	s.pending = nil
	s.loading = false
	s.mu.Unlock()

	if stale {
		s.signal()
	}

	return snap
}
