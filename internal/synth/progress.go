package synth

import "sync/atomic"

// Progress counts finished items of a batch. It is safe for concurrent use.
type Progress struct {
	completed atomic.Int64
	total     atomic.Int64
	// OnUpdate, if set, is called after every change of the counters.
	OnUpdate func(completed, total int64)
}

func (p *Progress) Completed() int64 {
	if p == nil {
		return 0
	}
	return p.completed.Load()
}

func (p *Progress) Total() int64 {
	if p == nil {
		return 0
	}
	return p.total.Load()
}

// Fraction returns completed/total, or 1 when nothing needs synthesis.
func (p *Progress) Fraction() float64 {
	total := p.Total()
	if total == 0 {
		return 1
	}
	return float64(p.Completed()) / float64(total)
}

func (p *Progress) start(total int) {
	if p == nil {
		return
	}
	p.completed.Store(0)
	p.total.Store(int64(total))
	p.notify(0, int64(total))
}

func (p *Progress) advance() {
	if p == nil {
		return
	}
	completed := p.completed.Add(1)
	p.notify(completed, p.total.Load())
}

func (p *Progress) notify(completed, total int64) {
	if p.OnUpdate != nil {
		p.OnUpdate(completed, total)
	}
}
