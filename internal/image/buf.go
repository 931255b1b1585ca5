package image

import (
	"errors"

	"github.com/gogpu/mosaic/internal/blend"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// Rect represents a rectangular region in pixel coordinates.
type Rect struct {
	X, Y          int // Top-left corner
	Width, Height int // Dimensions
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns Width*Height.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// ImageBuf is a contiguous 8-bit pixel buffer.
//
// Thread safety: ImageBuf is safe for concurrent read access. Write operations
// (SetRGBA, Fill, FillRect, Overlay, ScaleChannels, RescaleLuminance, Clear)
// require external synchronization.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewImageBuf creates a new zeroed image buffer with the given dimensions and format.
// Returns an error if dimensions are invalid or format is unknown.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	stride := format.RowBytes(width)
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// mustNew is NewImageBuf for callers that already validated their arguments.
func mustNew(width, height int, format Format) *ImageBuf {
	b, err := NewImageBuf(width, height, format)
	if err != nil {
		panic(err)
	}
	return b
}

// Clone creates a deep copy of the image buffer.
func (b *ImageBuf) Clone() *ImageBuf {
	newData := make([]byte, len(b.data))
	copy(newData, b.data)

	return &ImageBuf{
		data:   newData,
		width:  b.width,
		height: b.height,
		stride: b.stride,
		format: b.format,
	}
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Channels returns the number of channels per pixel.
func (b *ImageBuf) Channels() int {
	return b.format.Channels()
}

// Stride returns the number of bytes per row.
func (b *ImageBuf) Stride() int {
	return b.stride
}

// Format returns the pixel format.
func (b *ImageBuf) Format() Format {
	return b.format
}

// Bounds returns the image dimensions as (width, height).
func (b *ImageBuf) Bounds() (int, int) {
	return b.width, b.height
}

// Rect returns the full image rectangle.
func (b *ImageBuf) Rect() Rect {
	return Rect{Width: b.width, Height: b.height}
}

// Data returns the raw pixel data slice.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.format.RowBytes(b.width)]
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *ImageBuf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// PixelBytes returns a mutable slice of the channel bytes for pixel (x, y).
// Returns nil if coordinates are out of bounds.
func (b *ImageBuf) PixelBytes(x, y int) []byte {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return nil
	}
	return b.data[offset : offset+b.format.BytesPerPixel()]
}

// GetRGBA returns the color at (x, y) as (r, g, b, a) in 0-255 range.
// For grayscale, r=g=b=gray. For formats without alpha, a=255.
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	pixel := b.PixelBytes(x, y)
	if pixel == nil {
		return 0, 0, 0, 0
	}

	switch b.format {
	case FormatGray8:
		v := pixel[0]
		return v, v, v, 255
	case FormatRGB8:
		return pixel[0], pixel[1], pixel[2], 255
	case FormatRGBA8:
		return pixel[0], pixel[1], pixel[2], pixel[3]
	default:
		return 0, 0, 0, 0
	}
}

// SetRGBA sets the color at (x, y) from (r, g, b, a) in 0-255 range.
// For grayscale, uses standard luminance weights.
// Returns ErrOutOfBounds if coordinates are outside image bounds.
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return ErrOutOfBounds
	}
	b.setAt(offset, r, g, bl, a)
	return nil
}

func (b *ImageBuf) setAt(offset int, r, g, bl, a uint8) {
	switch b.format {
	case FormatGray8:
		b.data[offset] = blend.Luma(r, g, bl)
	case FormatRGB8:
		b.data[offset] = r
		b.data[offset+1] = g
		b.data[offset+2] = bl
	case FormatRGBA8:
		b.data[offset] = r
		b.data[offset+1] = g
		b.data[offset+2] = bl
		b.data[offset+3] = a
	}
}

// Clear sets all pixels to zero (transparent black for RGBA).
func (b *ImageBuf) Clear() {
	clear(b.data)
}

// FillRect sets every pixel inside rect to the opaque color (r, g, b).
// The rectangle is clipped to the image bounds.
func (b *ImageBuf) FillRect(rect Rect, r, g, bl uint8) {
	b.fill(rect, r, g, bl, 255)
}

func (b *ImageBuf) fill(rect Rect, r, g, bl, a uint8) {
	rect = b.clip(rect)
	if rect.Empty() {
		return
	}
	bpp := b.format.BytesPerPixel()
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		offset := y*b.stride + rect.X*bpp
		for range rect.Width {
			b.setAt(offset, r, g, bl, a)
			offset += bpp
		}
	}
}

// clip intersects rect with the image bounds.
func (b *ImageBuf) clip(rect Rect) Rect {
	if rect.X < 0 {
		rect.Width += rect.X
		rect.X = 0
	}
	if rect.Y < 0 {
		rect.Height += rect.Y
		rect.Y = 0
	}
	if rect.X+rect.Width > b.width {
		rect.Width = b.width - rect.X
	}
	if rect.Y+rect.Height > b.height {
		rect.Height = b.height - rect.Y
	}
	return rect
}

// Crop returns a new buffer of size (w, h) holding the pixels starting at (x, y).
// Parts of the requested region outside the source stay zeroed.
func (b *ImageBuf) Crop(x, y, w, h int) (*ImageBuf, error) {
	dst, err := NewImageBuf(w, h, b.format)
	if err != nil {
		return nil, err
	}

	src := b.clip(Rect{X: x, Y: y, Width: w, Height: h})
	if src.Empty() {
		return dst, nil
	}
	bpp := b.format.BytesPerPixel()
	for sy := src.Y; sy < src.Y+src.Height; sy++ {
		srcOff := sy*b.stride + src.X*bpp
		dstOff := (sy-y)*dst.stride + (src.X-x)*bpp
		copy(dst.data[dstOff:dstOff+src.Width*bpp], b.data[srcOff:srcOff+src.Width*bpp])
	}
	return dst, nil
}

// Convert returns a copy of the buffer in the given format.
// Gray expands to equal color channels, missing alpha becomes 255 and
// dropping alpha discards it.
func (b *ImageBuf) Convert(format Format) (*ImageBuf, error) {
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if format == b.format {
		return b.Clone(), nil
	}

	dst := mustNew(b.width, b.height, format)
	bpp := format.BytesPerPixel()
	for y := range b.height {
		offset := y * dst.stride
		for x := range b.width {
			r, g, bl, a := b.GetRGBA(x, y)
			dst.setAt(offset, r, g, bl, a)
			offset += bpp
		}
	}
	return dst, nil
}
