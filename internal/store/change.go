package store

import (
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
)

// Change lists the records touched by one committed write.
type Change struct {
	Revision   uint64
	Articles   mapset.Set[string]
	Paragraphs mapset.Set[string]
	Voices     mapset.Set[string]
	// VoiceParagraphs holds the owners of the touched voices.
	VoiceParagraphs mapset.Set[string]
}

func newChange() *Change {
	return &Change{
		Articles:        mapset.NewThreadUnsafeSet[string](),
		Paragraphs:      mapset.NewThreadUnsafeSet[string](),
		Voices:          mapset.NewThreadUnsafeSet[string](),
		VoiceParagraphs: mapset.NewThreadUnsafeSet[string](),
	}
}

func (c *Change) Empty() bool {
	return c.Articles.Cardinality() == 0 &&
		c.Paragraphs.Cardinality() == 0 &&
		c.Voices.Cardinality() == 0
}

func (c *Change) touchVoice(voiceID, paragraphID string) {
	c.Voices.Add(voiceID)
	c.VoiceParagraphs.Add(paragraphID)
}

// ChangeListener receives every committed change in commit order. OnChange runs
// while the store holds its write lock and must not block.
type ChangeListener interface {
	OnChange(change Change)
}

// ChangeListenerFunc adapts a function to a ChangeListener.
type ChangeListenerFunc func(change Change)

func (f ChangeListenerFunc) OnChange(change Change) {
	f(change)
}

// feed serializes writes and fans committed changes out to the listeners.
type feed struct {
	mu        sync.Mutex
	revision  atomic.Uint64
	lmu       sync.RWMutex
	listeners []ChangeListener
}

func (f *feed) listen(l ChangeListener) {
	f.lmu.Lock()
	defer f.lmu.Unlock()
	f.listeners = append(f.listeners, l)
}

// publish must be called with mu held.
func (f *feed) publish(c *Change) {
	if c.Empty() {
		return
	}

	c.Revision = f.revision.Add(1)

	f.lmu.RLock()
	defer f.lmu.RUnlock()
	for _, l := range f.listeners {
		l.OnChange(*c)
	}
}
