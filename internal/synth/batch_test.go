package synth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/emrgen/reader/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_ResolveBatchPartialFailure(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p1 := f.paragraph(t, "one")
	p2 := f.paragraph(t, "two")
	p3 := f.paragraph(t, "three")
	f.synth.setFail("two", true)

	items := []Request{request(p1), request(p2), request(p3)}
	progress := &Progress{}
	res := f.pipe.ResolveBatch(ctx, items, progress)

	require.Len(t, res.Succeeded, 2)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, p1.ID, res.Succeeded[0].ParagraphID)
	assert.Equal(t, p3.ID, res.Succeeded[1].ParagraphID)
	assert.Equal(t, p2.ID, res.Failed[0].Request.ParagraphID)
	assert.ErrorIs(t, res.Failed[0].Err, model.ErrSynthesis)
	assert.Equal(t, BatchPartial, res.Status())
	assert.Equal(t, "2 succeeded, 1 failed; check connectivity and retry", res.Summary())
	assert.Equal(t, int64(3), progress.Total())
	assert.Equal(t, int64(3), progress.Completed())

	// retry only the failed item
	f.synth.setFail("two", false)
	retry := f.pipe.ResolveBatch(ctx, res.Retry(), nil)
	require.Len(t, retry.Succeeded, 1)
	assert.Equal(t, BatchComplete, retry.Status())
	assert.Equal(t, 1, f.synth.count("one"))
	assert.Equal(t, 2, f.synth.count("two"))
	assert.Equal(t, 1, f.synth.count("three"))
}

func TestPipeline_ResolveBatchSkipsCached(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p1 := f.paragraph(t, "cached")
	p2 := f.paragraph(t, "fresh")

	_, err := f.pipe.Resolve(ctx, request(p1))
	require.NoError(t, err)

	var updates [][2]int64
	var mu sync.Mutex
	progress := &Progress{OnUpdate: func(completed, total int64) {
		mu.Lock()
		defer mu.Unlock()
		updates = append(updates, [2]int64{completed, total})
	}}

	// the repeated item is synthesized once
	res := f.pipe.ResolveBatch(ctx, []Request{request(p1), request(p2), request(p2)}, progress)
	require.Len(t, res.Cached, 1)
	require.Len(t, res.Succeeded, 1)
	assert.Empty(t, res.Failed)
	assert.Equal(t, 1, f.synth.count("cached"))
	assert.Equal(t, 1, f.synth.count("fresh"))
	assert.Equal(t, int64(1), progress.Total())
	assert.Equal(t, [][2]int64{{0, 1}, {1, 1}}, updates)
	assert.Equal(t, 1.0, progress.Fraction())
}

func TestPipeline_ResolveBatchEmpty(t *testing.T) {
	f := setup(t)
	res := f.pipe.ResolveBatch(context.Background(), nil, &Progress{})
	assert.Equal(t, BatchNothing, res.Status())
	assert.Equal(t, "0 succeeded", res.Summary())
}

func TestPipeline_ResolveBatchCancelled(t *testing.T) {
	f := setup(t)
	f.synth.delay = 100 * time.Millisecond
	f.pipe = NewPipeline(f.store, f.files, f.synth, 1)

	items := []Request{
		request(f.paragraph(t, "a")),
		request(f.paragraph(t, "b")),
		request(f.paragraph(t, "c")),
	}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	res := f.pipe.ResolveBatch(ctx, items, nil)

	// the first item was in flight and still commits
	require.Len(t, res.Succeeded, 1)
	assert.Equal(t, items[0].ParagraphID, res.Succeeded[0].ParagraphID)
	require.Len(t, res.Failed, 2)
	for _, failure := range res.Failed {
		assert.ErrorIs(t, failure.Err, context.Canceled)
	}

	voices, err := f.store.ListVoices(context.Background(), items[0].ParagraphID)
	require.NoError(t, err)
	assert.Len(t, voices, 1)
}
