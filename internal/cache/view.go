package cache

import (
	"context"
	"encoding/json"

	"github.com/emrgen/reader/internal/compress"
	"github.com/emrgen/reader/internal/view"
)

// ViewCache caches article views per store revision.
type ViewCache interface {
	// Get returns the view of the article at the revision, or nil on a miss.
	Get(ctx context.Context, articleID string, revision uint64) (*view.Article, error)
	// Set stores the view of the article loaded at the revision.
	Set(ctx context.Context, articleID string, revision uint64, v *view.Article) error
	// Delete drops the cached view of the article.
	Delete(ctx context.Context, articleID string) error
}

type entry struct {
	Revision uint64        `json:"revision"`
	View     *view.Article `json:"view"`
}

func encode(codec compress.Compress, revision uint64, v *view.Article) ([]byte, error) {
	data, err := json.Marshal(entry{Revision: revision, View: v})
	if err != nil {
		return nil, err
	}

	return codec.Encode(data)
}

func decode(codec compress.Compress, data []byte) (*entry, error) {
	raw, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}

	e := &entry{}
	if err := json.Unmarshal(raw, e); err != nil {
		return nil, err
	}

	return e, nil
}

var _ ViewCache = Nop{}

// Nop never hits.
type Nop struct{}

func NewNop() Nop {
	return Nop{}
}

func (Nop) Get(context.Context, string, uint64) (*view.Article, error) {
	return nil, nil
}

func (Nop) Set(context.Context, string, uint64, *view.Article) error {
	return nil
}

func (Nop) Delete(context.Context, string) error {
	return nil
}
