package image

import (
	"sync"
	"sync/atomic"
)

// Pool recycles frame buffers between the tasks of a batch.
//
// A frame sequence has one size, and its output format only varies with the
// input's alpha (RGB8 or RGBA8, Gray8 for gray leaves), so a batch needs a
// few buckets holding at most one buffer per worker. Buffers come back with
// their old pixels: every consumer overwrites the whole buffer.
//
// Pool is safe for concurrent use.
type Pool struct {
	mu    sync.Mutex
	idle  map[bucket][]*ImageBuf
	limit int

	reused    atomic.Int64
	allocated atomic.Int64
}

// bucket groups interchangeable buffers.
type bucket struct {
	w, h   int
	format Format
}

func bucketOf(b *ImageBuf) bucket {
	return bucket{b.width, b.height, b.format}
}

// PoolStats counts how Get requests were served.
type PoolStats struct {
	Reused    int64
	Allocated int64
}

// NewPool returns a pool keeping up to limit idle buffers per bucket.
// A limit below one keeps nothing, so every Get allocates.
func NewPool(limit int) *Pool {
	return &Pool{idle: make(map[bucket][]*ImageBuf), limit: limit}
}

// Get returns a width×height buffer of the given format, reusing an idle one
// when available. The contents of a reused buffer are unspecified.
func (p *Pool) Get(width, height int, format Format) (*ImageBuf, error) {
	key := bucket{width, height, format}

	p.mu.Lock()
	if free := p.idle[key]; len(free) > 0 {
		buf := free[len(free)-1]
		p.idle[key] = free[:len(free)-1]
		p.mu.Unlock()
		p.reused.Add(1)
		return buf, nil
	}
	p.mu.Unlock()

	buf, err := NewImageBuf(width, height, format)
	if err != nil {
		return nil, err
	}
	p.allocated.Add(1)
	return buf, nil
}

// Put hands buf back for a later Get. Nil buffers and buffers beyond the
// bucket limit are dropped.
func (p *Pool) Put(buf *ImageBuf) {
	if buf == nil {
		return
	}
	key := bucketOf(buf)

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.idle[key]) < p.limit {
		p.idle[key] = append(p.idle[key], buf)
	}
}

// Len returns the number of idle buffers.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, free := range p.idle {
		n += len(free)
	}
	return n
}

// Stats returns the reuse counters.
func (p *Pool) Stats() PoolStats {
	return PoolStats{Reused: p.reused.Load(), Allocated: p.allocated.Load()}
}
