package mosaic

import "io"

// ResizeFunc produces a copy of leaf scaled to exactly (w, h).
type ResizeFunc func(leaf *Image, w, h int) (*Image, error)

// RenderObserver is called once for every leaf drawn into a frame.
// It runs on the goroutine decomposing the frame.
type RenderObserver func(r Rect, c RGB)

// EngineOption configures an Engine during creation.
//
// Example:
//
//	var renders atomic.Int64
//	e, err := mosaic.NewEngine(leaf, params,
//	    mosaic.WithRenderObserver(func(mosaic.Rect, mosaic.RGB) { renders.Add(1) }))
type EngineOption func(*engineOptions)

type engineOptions struct {
	resize   ResizeFunc
	onRender RenderObserver
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		resize: func(leaf *Image, w, h int) (*Image, error) { return leaf.ResizeBox(w, h) },
	}
}

// WithResizer replaces the nearest-neighbor resize used to populate the
// leaf cache.
func WithResizer(fn ResizeFunc) EngineOption {
	return func(o *engineOptions) {
		if fn != nil {
			o.resize = fn
		}
	}
}

// WithRenderObserver registers a callback invoked for every rendered leaf.
func WithRenderObserver(fn RenderObserver) EngineOption {
	return func(o *engineOptions) {
		o.onRender = fn
	}
}

// LeafLoader loads and prepares the leaf sprite for one animation frame.
type LeafLoader func(path string) (*Image, error)

// ControllerOption configures a Controller.
type ControllerOption func(*controllerOptions)

type controllerOptions struct {
	load       LeafLoader
	engineOpts []EngineOption
}

// WithLeafLoader replaces LoadLeaf as the way a Controller obtains its leaf.
func WithLeafLoader(fn LeafLoader) ControllerOption {
	return func(o *controllerOptions) {
		if fn != nil {
			o.load = fn
		}
	}
}

// WithEngineOptions passes options to every Engine the Controller builds.
func WithEngineOptions(opts ...EngineOption) ControllerOption {
	return func(o *controllerOptions) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// BatchOption configures RunBatch.
type BatchOption func(*batchOptions)

type batchOptions struct {
	progress   io.Writer
	ctrlOpts   []ControllerOption
	bufferPool int
}

func defaultBatchOptions() batchOptions {
	return batchOptions{}
}

// WithProgress draws a text progress bar to w while frames are processed.
func WithProgress(w io.Writer) BatchOption {
	return func(o *batchOptions) {
		o.progress = w
	}
}

// WithControllerOptions passes options to every Controller the batch creates.
func WithControllerOptions(opts ...ControllerOption) BatchOption {
	return func(o *batchOptions) {
		o.ctrlOpts = append(o.ctrlOpts, opts...)
	}
}

// WithBufferPool sets how many idle output buffers of each size the batch
// keeps for reuse. Zero, the default, keeps one per worker; a negative value
// disables reuse.
func WithBufferPool(perSize int) BatchOption {
	return func(o *batchOptions) {
		o.bufferPool = perSize
	}
}
