// Package image provides the pixel buffer primitives used by the mosaic engine.
//
// Buffers store 8-bit channels in a contiguous byte slice. The channel count
// follows the decoded source (gray, RGB or RGBA), mirroring how frames and
// leaf sprites arrive from disk.
package image

// Format is the channel layout of a buffer. Every channel is one byte.
type Format uint8

const (
	FormatGray8 Format = iota // luma only
	FormatRGB8                // opaque frames and renders
	FormatRGBA8               // straight alpha, leaves and transparent frames
)

type formatSpec struct {
	name     string
	channels int
	alpha    bool
}

var formats = [...]formatSpec{
	FormatGray8: {"Gray8", 1, false},
	FormatRGB8:  {"RGB8", 3, false},
	FormatRGBA8: {"RGBA8", 4, true},
}

func (f Format) spec() formatSpec {
	if !f.IsValid() {
		return formatSpec{name: "Unknown"}
	}
	return formats[f]
}

// IsValid reports whether f is one of the known formats.
func (f Format) IsValid() bool {
	return int(f) < len(formats)
}

// Channels returns the channel count, alpha included. It is zero for an
// unknown format.
func (f Format) Channels() int {
	return f.spec().channels
}

// BytesPerPixel equals Channels since channels are 8-bit.
func (f Format) BytesPerPixel() int {
	return f.spec().channels
}

// HasAlpha reports whether the last channel is alpha.
func (f Format) HasAlpha() bool {
	return f.spec().alpha
}

// colorChannels is the number of channels blending treats as color.
func (f Format) colorChannels() int {
	s := f.spec()
	if s.alpha {
		return s.channels - 1
	}
	return s.channels
}

func (f Format) String() string {
	return f.spec().name
}

// RowBytes returns the byte length of one unpadded row.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}
