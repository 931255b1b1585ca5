package mosaic

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/mosaic/internal/cache"
)

// Errors returned by engine construction and decomposition.
var (
	// ErrInvalidParams is returned when EngineParams or a Policy are out of range.
	ErrInvalidParams = errors.New("mosaic: invalid parameters")

	// ErrNilImage is returned when a frame or leaf is missing.
	ErrNilImage = errors.New("mosaic: nil image")

	// ErrSizeMismatch is returned by DecomposeInto when dst and frame differ in size.
	ErrSizeMismatch = errors.New("mosaic: destination size does not match frame")
)

// EngineParams are the per-animation-frame decomposition settings.
type EngineParams struct {
	// MinSize is the minimum leaf dimension. A region with either side at
	// or below MinSize is not split further.
	MinSize int

	// Background fills every leaf region before the sprite is drawn.
	Background RGB

	// Policy measures region similarity.
	Policy Policy
}

// Validate reports whether the parameters can be used.
func (p EngineParams) Validate() error {
	if p.MinSize < 1 {
		return fmt.Errorf("%w: min size %d < 1", ErrInvalidParams, p.MinSize)
	}
	return p.Policy.Validate()
}

// CacheStats reports leaf cache activity.
type CacheStats = cache.Stats

// Engine turns frames into mosaics of one tinted leaf sprite.
//
// An Engine is immutable after construction apart from its leaf cache and
// may be used by any number of goroutines at once. Each call to Decompose
// works on its own output buffer.
type Engine struct {
	leaf   *Image
	params EngineParams
	leaves *leafCache
	opts   engineOptions
}

// NewEngine creates an engine drawing copies of leaf. The leaf is copied and
// converted to RGBA8, so the caller may reuse or discard it.
func NewEngine(leaf *Image, params EngineParams, opts ...EngineOption) (*Engine, error) {
	if leaf == nil {
		return nil, ErrNilImage
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}

	rgba, err := leaf.Convert(FormatRGBA8)
	if err != nil {
		return nil, fmt.Errorf("mosaic: convert leaf: %w", err)
	}

	return &Engine{
		leaf:   rgba,
		params: params,
		leaves: newLeafCache(rgba, o.resize),
		opts:   o,
	}, nil
}

// Params returns the engine's parameters.
func (e *Engine) Params() EngineParams {
	return e.params
}

// LeafSize returns the native leaf dimensions.
func (e *Engine) LeafSize() (int, int) {
	return e.leaf.Bounds()
}

// CacheStats returns leaf cache statistics.
func (e *Engine) CacheStats() CacheStats {
	return e.leaves.stats()
}

// OutputFormat returns the format Decompose produces for a frame of format f.
// Frames with alpha keep it; everything else becomes RGB8.
func OutputFormat(f ImageFormat) ImageFormat {
	if f.HasAlpha() {
		return FormatRGBA8
	}
	return FormatRGB8
}

// Decompose returns a new image holding the mosaic of frame.
func (e *Engine) Decompose(frame *Image) (*Image, error) {
	if frame == nil {
		return nil, ErrNilImage
	}
	w, h := frame.Bounds()
	dst, err := NewImage(w, h, OutputFormat(frame.Format()))
	if err != nil {
		return nil, err
	}
	if err := e.DecomposeInto(dst, frame); err != nil {
		return nil, err
	}
	return dst, nil
}

// DecomposeInto draws the mosaic of frame into dst, which must have the same
// dimensions. Every pixel of dst is overwritten, so its prior content does
// not matter. frame is only read.
func (e *Engine) DecomposeInto(dst, frame *Image) error {
	if dst == nil || frame == nil {
		return ErrNilImage
	}
	fw, fh := frame.Bounds()
	if dw, dh := dst.Bounds(); dw != fw || dh != fh {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, dw, dh, fw, fh)
	}

	src := frame
	if frame.Format() == FormatGray8 {
		var err error
		if src, err = frame.Convert(FormatRGB8); err != nil {
			return err
		}
	}

	lw, lh := e.leaf.Bounds()
	for _, strip := range SplitStrips(fw, fh, lw, lh) {
		c, ok, err := e.decompose(dst, src, strip)
		if err != nil {
			return err
		}
		if ok {
			if err := e.render(dst, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// SplitStrips partitions a width×height frame into a row or column of
// near-equal strips whose aspect ratio best matches a leafW×leafH sprite.
//
// The split runs along the dimension that is longer relative to the leaf's
// aspect ratio. With AR the ratio of the longer to the shorter side after
// that correction, the strip count is floor(AR), plus one when
// AR² > n·(n+1). The remainder is spread with an error accumulator, so the
// strips tile the frame exactly. The count never exceeds the split length.
func SplitStrips(width, height, leafW, leafH int) []Rect {
	if width <= 0 || height <= 0 {
		return nil
	}
	leafAR := 1.0
	if leafW > 0 && leafH > 0 {
		leafAR = float64(leafW) / float64(leafH)
	}

	scaledH := float64(height) * leafAR
	horizontal := float64(width) > scaledH

	var ar float64
	size := height
	if horizontal {
		ar = float64(width) / scaledH
		size = width
	} else {
		ar = scaledH / float64(width)
	}

	n := int(math.Floor(ar))
	if ar*ar > float64(n*(n+1)) {
		n++
	}
	n = max(1, min(n, size))

	step := size / n
	errStep := size - step*n
	acc := errStep
	cur := step

	strips := make([]Rect, 0, n)
	pos := 0
	for range n {
		if horizontal {
			strips = append(strips, Rect{X: pos, Y: 0, Width: cur, Height: height})
		} else {
			strips = append(strips, Rect{X: 0, Y: pos, Width: width, Height: cur})
		}
		pos += cur
		acc += errStep
		if acc >= n {
			cur = step + 1
			acc -= n
		} else {
			cur = step
		}
	}
	return strips
}

// candidate is a resolved leaf that has not been drawn yet.
type candidate struct {
	rect  Rect
	color RGB

	// uniform is false when the region's own pixels exceeded the policy
	// threshold; such a leaf never merges into its parent.
	uniform bool
}

// decompose resolves r either to an undrawn candidate (ok = true) or draws
// everything inside it and returns ok = false.
func (e *Engine) decompose(dst, src *Image, r Rect) (candidate, bool, error) {
	if r.Width <= e.params.MinSize || r.Height <= e.params.MinSize {
		split, c := e.params.Policy.Check(src, r)
		return candidate{rect: r, color: c.RGB(), uniform: !split}, true, nil
	}

	mmX := r.X + r.Width/2
	mmY := r.Y + r.Height/2
	brX := r.X + r.Width
	brY := r.Y + r.Height
	quads := [4]Rect{
		{X: r.X, Y: r.Y, Width: mmX - r.X, Height: mmY - r.Y},
		{X: mmX, Y: r.Y, Width: brX - mmX, Height: mmY - r.Y},
		{X: r.X, Y: mmY, Width: mmX - r.X, Height: brY - mmY},
		{X: mmX, Y: mmY, Width: brX - mmX, Height: brY - mmY},
	}

	var kids [4]candidate
	var resolved [4]bool
	mergeable := true
	for i, q := range quads {
		c, ok, err := e.decompose(dst, src, q)
		if err != nil {
			return candidate{}, false, err
		}
		kids[i], resolved[i] = c, ok
		mergeable = mergeable && ok && c.uniform
	}

	if mergeable {
		ok, merged := e.params.Policy.Merge(kids[0].color, kids[1].color, kids[2].color, kids[3].color)
		if ok {
			return candidate{rect: r, color: merged, uniform: true}, true, nil
		}
	}

	for i := range kids {
		if !resolved[i] {
			continue
		}
		if err := e.render(dst, kids[i]); err != nil {
			return candidate{}, false, err
		}
	}
	return candidate{}, false, nil
}

// render fills c.rect with the background and draws the tinted leaf on top.
func (e *Engine) render(dst *Image, c candidate) error {
	leaf, err := e.leaves.get(c.rect.Width, c.rect.Height)
	if err != nil {
		return err
	}

	bg := e.params.Background
	dst.FillRect(c.rect, bg.R, bg.G, bg.B)
	dst.OverlayTinted(leaf, c.rect.X, c.rect.Y, c.color.R, c.color.G, c.color.B)

	if e.opts.onRender != nil {
		e.opts.onRender(c.rect, c.color)
	}
	return nil
}
