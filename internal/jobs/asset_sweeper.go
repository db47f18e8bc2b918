package jobs

import (
	"context"
	"time"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/reader/internal/filestore"
	"github.com/emrgen/reader/internal/store"
	"github.com/sirupsen/logrus"
)

// AssetSweeper deletes asset files that no voice references. An asset is only
// deleted when it was unreferenced on two consecutive runs, so a file written
// just before its voice commits survives.
type AssetSweeper struct {
	store      store.Store
	files      filestore.Store
	schedule   string
	candidates goset.Set[string]
}

func NewAssetSweeper(schedule string, store store.Store, files filestore.Store) *AssetSweeper {
	return &AssetSweeper{
		store:      store,
		files:      files,
		schedule:   schedule,
		candidates: goset.NewThreadUnsafeSet[string](),
	}
}

func (c *AssetSweeper) Name() string {
	return "asset_sweeper"
}

func (c *AssetSweeper) Schedule() string {
	return c.schedule
}

func (c *AssetSweeper) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := c.Sweep(ctx)
	if err != nil {
		logrus.Errorf("asset sweep failed: %v", err)
		return
	}
	if removed > 0 {
		logrus.Infof("removed %d orphaned assets", removed)
	}
}

// Sweep runs one pass and returns the number of deleted assets.
func (c *AssetSweeper) Sweep(ctx context.Context) (int, error) {
	assets, err := c.files.List(ctx)
	if err != nil {
		return 0, err
	}

	voices, err := c.store.ListAllVoices(ctx)
	if err != nil {
		return 0, err
	}

	referenced := goset.NewThreadUnsafeSet[string]()
	for _, v := range voices {
		referenced.Add(v.AudioAssetID)
	}

	next := goset.NewThreadUnsafeSet[string]()
	removed := 0
	for _, id := range assets {
		if referenced.Contains(id) {
			continue
		}
		if !c.candidates.Contains(id) {
			next.Add(id)
			continue
		}
		if err := c.files.Delete(ctx, id); err != nil {
			logrus.Warnf("failed to remove orphaned asset %s: %v", id, err)
			continue
		}
		removed++
	}
	c.candidates = next

	return removed, nil
}
