package mosaic

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	intImage "github.com/gogpu/mosaic/internal/image"
	"github.com/gogpu/mosaic/internal/parallel"
)

// Batch errors.
var (
	// ErrNoAnimationFrames is returned when the leaf pattern matches no files.
	ErrNoAnimationFrames = errors.New("mosaic: no animation frames found")

	// ErrNoInputFrames is returned when the input pattern matches no files.
	ErrNoInputFrames = errors.New("mosaic: no input frames found")
)

// progressWidth is the column count of the batch progress bar.
const progressWidth = 80

// BatchConfig describes one run over a numbered frame sequence.
type BatchConfig struct {
	// AnimPattern names the leaf sprites, one per animation frame.
	// See FormatFramePath for the placeholder syntax.
	AnimPattern string
	AnimStart   int

	// InputPattern names the frames to decompose, OutputPattern where each
	// result is written. Both are formatted with the same index.
	InputPattern  string
	InputStart    int
	OutputPattern string

	// Repeat is how many consecutive input frames share one animation frame
	// before moving on to the next. Animation frames cycle.
	Repeat int

	// Params applies to every engine.
	Params EngineParams

	// OutputHeight, when positive, rescales each result to that height
	// (rounded up to even) with the width kept proportional and even.
	OutputHeight int

	// Workers is the worker pool size; 0 means GOMAXPROCS.
	Workers int
}

// DefaultBatchConfig returns the command-line defaults.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		AnimPattern:   "res/{}.png",
		AnimStart:     0,
		InputPattern:  "in/img_{}.png",
		InputStart:    1,
		OutputPattern: "out/img_{}.png",
		Repeat:        2,
		Params: EngineParams{
			MinSize:    8,
			Background: Black,
			Policy:     Policy{Mode: ModeChrominance, Threshold: 16},
		},
	}
}

// Validate reports whether the configuration can be run.
func (c BatchConfig) Validate() error {
	switch {
	case c.AnimPattern == "":
		return fmt.Errorf("%w: empty animation pattern", ErrInvalidParams)
	case c.InputPattern == "":
		return fmt.Errorf("%w: empty input pattern", ErrInvalidParams)
	case c.OutputPattern == "":
		return fmt.Errorf("%w: empty output pattern", ErrInvalidParams)
	case c.Repeat < 1:
		return fmt.Errorf("%w: repeat %d < 1", ErrInvalidParams, c.Repeat)
	case c.OutputHeight < 0:
		return fmt.Errorf("%w: output height %d < 0", ErrInvalidParams, c.OutputHeight)
	}
	return c.Params.Validate()
}

// BatchResult summarizes a finished batch.
type BatchResult struct {
	// AnimationFrames is the number of leaf sprites discovered.
	AnimationFrames int

	// Frames is the number of input frames scheduled.
	Frames int

	// Failed is the number of frames that produced no output.
	Failed int
}

// RunBatch decomposes every input frame of cfg and writes the results.
//
// Leaf sprites are discovered up front; each gets its own Controller, so an
// engine lives only while frames that use it are pending. Input frames are
// enumerated until the first missing file and handed to a worker pool; the
// call returns once all of them have finished.
//
// A frame that fails is logged and counted, and does not stop the others.
// The returned error joins every frame error. Canceling ctx stops scheduling
// new frames; those already scheduled still run.
func RunBatch(ctx context.Context, cfg BatchConfig, opts ...BatchOption) (BatchResult, error) {
	if err := cfg.Validate(); err != nil {
		return BatchResult{}, err
	}

	o := defaultBatchOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := Logger()
	log.Info("mosaic: searching for animation frames", "pattern", cfg.AnimPattern)

	leaves, err := DiscoverFrames(cfg.AnimPattern, cfg.AnimStart)
	if err != nil {
		return BatchResult{}, err
	}
	if len(leaves) == 0 {
		return BatchResult{}, fmt.Errorf("%w: %s", ErrNoAnimationFrames, cfg.AnimPattern)
	}
	log.Info("mosaic: found animation frames", "count", len(leaves))

	ctrls := make([]*Controller, len(leaves))
	for i, path := range leaves {
		ctrls[i] = NewController(path, cfg.Params, o.ctrlOpts...)
	}

	pool := parallel.NewWorkerPool(cfg.Workers)
	defer pool.Close()

	keep := o.bufferPool
	if keep == 0 {
		keep = pool.Workers()
	}
	b := &batch{
		cfg:     cfg,
		buffers: intImage.NewPool(keep),
		notify:  make(chan struct{}, 1),
	}

	next := roundRobin(ctrls, cfg.Repeat)
	frames, err := b.schedule(ctx, pool, next)

	// Every AddUse has happened; engines may now be dropped as soon as
	// their last frame finishes.
	for _, c := range ctrls {
		c.AllowRelease()
	}

	result := BatchResult{AnimationFrames: len(leaves), Frames: frames}
	if err != nil {
		pool.Wait()
		result.Failed = int(b.failed.Load())
		return result, errors.Join(append([]error{err}, b.errs...)...)
	}
	if frames == 0 {
		return result, fmt.Errorf("%w: %s", ErrNoInputFrames, cfg.InputPattern)
	}

	log.Info("mosaic: processing frames", "count", frames, "workers", pool.Workers(),
		"queued", pool.QueuedWork())
	b.wait(frames, o)
	pool.Wait()

	result.Failed = int(b.failed.Load())
	bufs := b.buffers.Stats()
	log.Info("mosaic: batch finished", "frames", frames, "failed", result.Failed,
		"buffersAllocated", bufs.Allocated, "buffersReused", bufs.Reused)
	return result, errors.Join(b.errs...)
}

// batch is the state shared by the tasks of one RunBatch call.
type batch struct {
	cfg     BatchConfig
	buffers *intImage.Pool

	done   atomic.Int64
	failed atomic.Int64
	notify chan struct{}

	mu   sync.Mutex
	errs []error
}

// schedule submits one task per existing input frame and returns how many
// were submitted. It stops at the first missing input, a repeated path or
// a canceled ctx; only the last yields an error.
func (b *batch) schedule(ctx context.Context, pool *parallel.WorkerPool, next func() *Controller) (int, error) {
	var last string
	n := 0
	for index := b.cfg.InputStart; ; index++ {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		in := FormatFramePath(b.cfg.InputPattern, index)
		if in == last {
			return n, nil
		}
		if _, err := os.Stat(in); errors.Is(err, fs.ErrNotExist) {
			return n, nil
		} else if err != nil {
			return n, fmt.Errorf("mosaic: stat %s: %w", in, err)
		}
		last = in

		out := FormatFramePath(b.cfg.OutputPattern, index)
		ctrl := next()
		ctrl.AddUse()
		pool.Submit(func() { b.run(ctrl, in, out) })
		n++
	}
}

// wait reports progress until all frames are done.
func (b *batch) wait(total int, o batchOptions) {
	var bar *ProgressBar
	if o.progress != nil {
		bar = NewProgressBar(o.progress, total, progressWidth)
	}
	for {
		done := int(b.done.Load())
		if bar != nil {
			bar.Update(done)
		}
		if done >= total {
			return
		}
		<-b.notify
	}
}

// run is the task body for one frame.
func (b *batch) run(ctrl *Controller, in, out string) {
	err := b.process(ctrl, in, out)
	if err != nil {
		b.failed.Add(1)
		b.mu.Lock()
		b.errs = append(b.errs, err)
		b.mu.Unlock()
		Logger().Warn("mosaic: frame failed", "input", in, "err", err)
	}

	b.done.Add(1)
	select {
	case b.notify <- struct{}{}:
	default:
	}
}

func (b *batch) process(ctrl *Controller, in, out string) (err error) {
	defer ctrl.Release()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mosaic: frame %s: panic: %v", in, r)
		}
	}()

	engine, err := ctrl.Engine()
	if err != nil {
		return err
	}

	frame, err := LoadImage(in)
	if err != nil {
		return fmt.Errorf("mosaic: load frame %s: %w", in, err)
	}

	w, h := frame.Bounds()
	dst, err := b.buffers.Get(w, h, OutputFormat(frame.Format()))
	if err != nil {
		return fmt.Errorf("mosaic: frame %s: %w", in, err)
	}
	defer b.buffers.Put(dst)

	if err := engine.DecomposeInto(dst, frame); err != nil {
		return fmt.Errorf("mosaic: frame %s: %w", in, err)
	}

	result := dst
	if b.cfg.OutputHeight > 0 {
		ow, oh := outputSize(w, h, b.cfg.OutputHeight)
		if result, err = dst.ResizeBox(ow, oh); err != nil {
			return fmt.Errorf("mosaic: frame %s: resize: %w", in, err)
		}
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mosaic: create %s: %w", dir, err)
		}
	}
	if err := result.Save(out); err != nil {
		return fmt.Errorf("mosaic: save %s: %w", out, err)
	}
	return nil
}

// outputSize scales (w, h) to the requested height, rounding both sides up
// to even.
func outputSize(w, h, height int) (int, int) {
	oh := height + height%2
	ow := w * oh / h
	ow += ow % 2
	return max(ow, 2), oh
}

// roundRobin returns a generator handing out each controller repeat times
// in a row, cycling back to the first after the last.
func roundRobin(ctrls []*Controller, repeat int) func() *Controller {
	repeatIndex, frameIndex := 0, 0
	return func() *Controller {
		if repeatIndex >= repeat {
			repeatIndex = 0
			frameIndex++
		}
		if frameIndex >= len(ctrls) {
			frameIndex = 0
		}
		repeatIndex++
		return ctrls[frameIndex]
	}
}
