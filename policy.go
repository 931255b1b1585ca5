package mosaic

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// ErrUnknownMode is returned by ParseMode for unrecognized mode names.
var ErrUnknownMode = errors.New("mosaic: unknown mode")

// Mode selects how a Policy measures similarity.
type Mode uint8

const (
	// ModeLuminance compares channel 0 only and produces gray leaves.
	ModeLuminance Mode = iota

	// ModeChrominance compares RGB distance and produces colored leaves.
	ModeChrominance

	modeCount
)

// String returns the canonical mode name.
func (m Mode) String() string {
	switch m {
	case ModeLuminance:
		return "luminance"
	case ModeChrominance:
		return "chrominance"
	default:
		return "unknown"
	}
}

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return m < modeCount
}

var modeNames = map[string]Mode{
	"bw":          ModeLuminance,
	"gray":        ModeLuminance,
	"grey":        ModeLuminance,
	"luma":        ModeLuminance,
	"luminance":   ModeLuminance,
	"color":       ModeChrominance,
	"colour":      ModeChrominance,
	"rgb":         ModeChrominance,
	"chrominance": ModeChrominance,
}

// ParseMode parses a mode name case-insensitively. "bw" and "color" are the
// short names; "luminance" and "chrominance" are accepted as well.
func ParseMode(s string) (Mode, error) {
	key := cases.Fold().String(strings.TrimSpace(s))
	if m, ok := modeNames[key]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: %q (want bw or color)", ErrUnknownMode, s)
}

// Policy decides whether a region needs to split further and which color
// represents it. It carries no state beyond its threshold, so one value may
// be shared by any number of engines and goroutines.
type Policy struct {
	Mode Mode

	// Threshold is the similarity tolerance in 0..255 channel units.
	Threshold int
}

// policyFuncs is one row of the dispatch table.
type policyFuncs struct {
	check func(frame *Image, r Rect, threshold int) (bool, Color)
	merge func(c *[4]RGB, threshold int) (bool, RGB)
}

var policyTable = [modeCount]policyFuncs{
	ModeLuminance:   {check: checkLuminance, merge: mergeLuminance},
	ModeChrominance: {check: checkChrominance, merge: mergeChrominance},
}

// Check scans every pixel of r and reports whether the region should split
// and the color that represents it.
//
// Luminance: split when max-min of channel 0 exceeds the threshold; the color
// is the rounded mean of channel 0.
// Chrominance: split when any pixel's squared RGB distance from the center
// pixel exceeds 3*threshold²; the color is the per-channel rounded mean.
//
// Check panics if r has no area or the mode is invalid.
func (p Policy) Check(frame *Image, r Rect) (bool, Color) {
	if r.Empty() {
		panic(fmt.Sprintf("mosaic: Check on empty region %+v", r))
	}
	return policyTable[p.Mode].check(frame, r, p.Threshold)
}

// Merge decides whether four sibling leaf colors are close enough to be
// replaced by one leaf covering their parent, and returns the merged color.
//
// Luminance: merge when max-min of the red channel (the luminance of a
// widened gray color) is below the threshold.
// Chrominance: merge when the largest pairwise squared distance among the
// six sibling pairs is below 3*threshold².
// The merged color is the per-channel rounded mean of the four.
func (p Policy) Merge(tl, tr, bl, br RGB) (bool, RGB) {
	c := [4]RGB{tl, tr, bl, br}
	return policyTable[p.Mode].merge(&c, p.Threshold)
}

// Validate reports whether the policy can be used.
func (p Policy) Validate() error {
	if !p.Mode.IsValid() {
		return fmt.Errorf("%w: mode %d", ErrInvalidParams, p.Mode)
	}
	if p.Threshold < 0 || p.Threshold > 255 {
		return fmt.Errorf("%w: threshold %d out of range 0..255", ErrInvalidParams, p.Threshold)
	}
	return nil
}

// chromaLimit is the squared-distance bound shared by check and merge.
func chromaLimit(threshold int) int {
	return 3 * threshold * threshold
}

func checkLuminance(frame *Image, r Rect, threshold int) (bool, Color) {
	data, stride, bpp := frame.Data(), frame.Stride(), frame.Format().BytesPerPixel()

	var sum uint64
	lo, hi := uint8(255), uint8(0)
	for y := r.Y; y < r.Y+r.Height; y++ {
		off := y*stride + r.X*bpp
		for range r.Width {
			v := data[off]
			lo = min(lo, v)
			hi = max(hi, v)
			sum += uint64(v)
			off += bpp
		}
	}

	return int(hi)-int(lo) > threshold, Luma(meanByte(sum, uint64(r.Area())))
}

func checkChrominance(frame *Image, r Rect, threshold int) (bool, Color) {
	data, stride, bpp := frame.Data(), frame.Stride(), frame.Format().BytesPerPixel()
	limit := chromaLimit(threshold)

	ref := pixelRGB(data[(r.Y+r.Height/2)*stride+(r.X+r.Width/2)*bpp:], bpp)

	var sumR, sumG, sumB uint64
	split := false
	for y := r.Y; y < r.Y+r.Height; y++ {
		off := y*stride + r.X*bpp
		for range r.Width {
			px := pixelRGB(data[off:], bpp)
			if !split && px.distSq(ref) > limit {
				split = true
			}
			sumR += uint64(px.R)
			sumG += uint64(px.G)
			sumB += uint64(px.B)
			off += bpp
		}
	}

	n := uint64(r.Area())
	return split, RGBColor(meanByte(sumR, n), meanByte(sumG, n), meanByte(sumB, n))
}

// pixelRGB reads an RGB triple; single-channel pixels are widened.
func pixelRGB(p []byte, bpp int) RGB {
	if bpp < 3 {
		return RGB{p[0], p[0], p[0]}
	}
	return RGB{p[0], p[1], p[2]}
}

func mergeLuminance(c *[4]RGB, threshold int) (bool, RGB) {
	lo, hi := c[0].R, c[0].R
	for _, v := range c[1:] {
		lo = min(lo, v.R)
		hi = max(hi, v.R)
	}
	if int(hi)-int(lo) >= threshold {
		return false, RGB{}
	}
	return true, mean4(c)
}

func mergeChrominance(c *[4]RGB, threshold int) (bool, RGB) {
	limit := chromaLimit(threshold)
	for i := range 4 {
		for j := i + 1; j < 4; j++ {
			if c[i].distSq(c[j]) >= limit {
				return false, RGB{}
			}
		}
	}
	return true, mean4(c)
}

func mean4(c *[4]RGB) RGB {
	var r, g, b uint64
	for _, v := range c {
		r += uint64(v.R)
		g += uint64(v.G)
		b += uint64(v.B)
	}
	return RGB{meanByte(r, 4), meanByte(g, 4), meanByte(b, 4)}
}

// meanByte returns sum/n rounded half away from zero, clamped to 255.
func meanByte(sum, n uint64) uint8 {
	m := (2*sum + n) / (2 * n)
	if m > 255 {
		return 255
	}
	return uint8(m)
}
