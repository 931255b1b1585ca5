package image

import (
	"image"

	"golang.org/x/image/draw"
)

// ResizeBox returns a copy of the buffer scaled to (w, h) with nearest-neighbor
// sampling. No interpolation is performed, so every output pixel is a copy of
// some source pixel (up to premultiplication rounding for translucent pixels).
func (b *ImageBuf) ResizeBox(w, h int) (*ImageBuf, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidDimensions
	}
	if w == b.width && h == b.height {
		return b.Clone(), nil
	}

	rect := image.Rect(0, 0, w, h)
	var dst draw.Image
	if b.format == FormatGray8 {
		dst = image.NewGray(rect)
	} else {
		dst = image.NewNRGBA(rect)
	}

	src := b.stdView()
	draw.NearestNeighbor.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)

	out := FromStdImage(dst)
	if out.format != b.format {
		return out.Convert(b.format)
	}
	return out, nil
}

// stdView returns a standard library image sharing the buffer's pixels
// where the layouts match, or a converted copy otherwise.
func (b *ImageBuf) stdView() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)
	switch b.format {
	case FormatGray8:
		return &image.Gray{Pix: b.data, Stride: b.stride, Rect: rect}
	case FormatRGBA8:
		return &image.NRGBA{Pix: b.data, Stride: b.stride, Rect: rect}
	default:
		return b.ToStdImage()
	}
}
