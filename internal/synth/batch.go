package synth

import (
	"context"
	"fmt"

	"github.com/emrgen/reader/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type BatchStatus int

const (
	// BatchNothing means the batch was empty.
	BatchNothing BatchStatus = iota
	BatchComplete
	BatchPartial
	BatchFailed
)

func (s BatchStatus) String() string {
	switch s {
	case BatchComplete:
		return "complete"
	case BatchPartial:
		return "partial"
	case BatchFailed:
		return "failed"
	default:
		return "nothing"
	}
}

// Failure pairs a request with the error that stopped it.
type Failure struct {
	Request Request
	Err     error
}

// BatchResult is the joined outcome of a batch, in input order.
type BatchResult struct {
	// Succeeded holds the voices synthesized by this batch.
	Succeeded []*model.Voice
	// Cached holds the voices that were already present.
	Cached []*model.Voice
	Failed []Failure
}

func (r *BatchResult) Status() BatchStatus {
	ok := len(r.Succeeded) + len(r.Cached)
	switch {
	case ok == 0 && len(r.Failed) == 0:
		return BatchNothing
	case len(r.Failed) == 0:
		return BatchComplete
	case ok == 0:
		return BatchFailed
	default:
		return BatchPartial
	}
}

// Summary is the human readable aggregate of the batch.
func (r *BatchResult) Summary() string {
	ok := len(r.Succeeded) + len(r.Cached)
	if len(r.Failed) == 0 {
		return fmt.Sprintf("%d succeeded", ok)
	}
	return fmt.Sprintf("%d succeeded, %d failed; check connectivity and retry", ok, len(r.Failed))
}

// Retry returns the requests that failed.
func (r *BatchResult) Retry() []Request {
	items := make([]Request, 0, len(r.Failed))
	for _, f := range r.Failed {
		items = append(items, f.Request)
	}
	return items
}

type task struct {
	req   Request
	voice *model.Voice
	err   error
}

// ResolveBatch resolves every item, synthesizing the cache misses concurrently.
// Identical keys are synthesized once. Items started before ctx is cancelled run
// to completion and commit; the rest fail with the ctx error. The result is
// produced only after every dispatched item has finished.
func (p *Pipeline) ResolveBatch(ctx context.Context, items []Request, progress *Progress) *BatchResult {
	result := &BatchResult{}

	cached := make(map[string]*model.Voice)
	tasks := make(map[string]*task)
	pending := make([]*task, 0, len(items))

	for _, item := range items {
		key := item.Key()
		if _, ok := cached[key]; ok {
			continue
		}
		if _, ok := tasks[key]; ok {
			continue
		}

		voice, err := p.probe(ctx, item)
		if err != nil {
			tasks[key] = &task{req: item, err: err}
			continue
		}
		if voice != nil {
			cached[key] = voice
			continue
		}

		t := &task{req: item}
		tasks[key] = t
		pending = append(pending, t)
	}

	progress.start(len(pending))

	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)
	detached := context.WithoutCancel(ctx)

	for _, t := range pending {
		t := t
		if err := ctx.Err(); err != nil {
			t.err = err
			progress.advance()
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				t.err = err
			} else {
				t.voice, t.err = p.Resolve(detached, t.req)
			}
			progress.advance()
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		key := item.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		if voice, ok := cached[key]; ok {
			result.Cached = append(result.Cached, voice)
			continue
		}

		t := tasks[key]
		if t.err != nil {
			result.Failed = append(result.Failed, Failure{Request: item, Err: t.err})
			continue
		}
		result.Succeeded = append(result.Succeeded, t.voice)
	}

	logrus.Infof("batch of %d items: %s", len(items), result.Summary())

	return result
}
