package image

import (
	"math"

	"github.com/gogpu/mosaic/internal/blend"
)

// Overlay composites src onto the buffer with its top-left corner at (x, y)
// using source-over blending. Pixels falling outside the buffer are skipped.
func (b *ImageBuf) Overlay(src *ImageBuf, x, y int) {
	b.OverlayTinted(src, x, y, 255, 255, 255)
}

// OverlayTinted is Overlay with every source color channel first multiplied
// by r/255, g/255 and bl/255. Source alpha is not tinted.
func (b *ImageBuf) OverlayTinted(src *ImageBuf, x, y int, r, g, bl uint8) {
	dstRect := b.clip(Rect{X: x, Y: y, Width: src.width, Height: src.height})
	if dstRect.Empty() {
		return
	}

	channels, alpha := b.format.colorChannels(), b.format.HasAlpha()
	plain := r == 255 && g == 255 && bl == 255

	for dy := dstRect.Y; dy < dstRect.Y+dstRect.Height; dy++ {
		for dx := dstRect.X; dx < dstRect.X+dstRect.Width; dx++ {
			sr, sg, sb, sa := src.GetRGBA(dx-x, dy-y)
			if !plain {
				sr = blend.MulDiv255(sr, r)
				sg = blend.MulDiv255(sg, g)
				sb = blend.MulDiv255(sb, bl)
			}
			blend.OverPixel(b.PixelBytes(dx, dy), channels, alpha, sr, sg, sb, sa)
		}
	}
}

// ScaleChannels multiplies the color channels of every pixel by r/255,
// g/255 and b/255 (integer math, truncating). Alpha is left untouched.
// A grayscale buffer is scaled by the luminance of (r, g, b).
func (b *ImageBuf) ScaleChannels(r, g, bl uint8) {
	bpp := b.format.BytesPerPixel()
	if b.format == FormatGray8 {
		s := blend.Luma(r, g, bl)
		for i := range b.data {
			b.data[i] = blend.MulDiv255(b.data[i], s)
		}
		return
	}
	for i := 0; i+2 < len(b.data); i += bpp {
		b.data[i] = blend.MulDiv255(b.data[i], r)
		b.data[i+1] = blend.MulDiv255(b.data[i+1], g)
		b.data[i+2] = blend.MulDiv255(b.data[i+2], bl)
	}
}

// luminanceEpsilon is the smallest luminance range that RescaleLuminance
// will stretch; flatter images pass through unchanged.
const luminanceEpsilon = 0.01

// RescaleLuminance stretches the luminance histogram of an RGB(A) buffer so
// that it spans [lo, hi] (both in 0..1). Each pixel's color channels are
// scaled by the ratio of its new to old luminance, then offset by lo.
// Near-black pixels become black. Buffers with fewer than three channels,
// or whose luminance range is at most 0.01, are left unchanged.
func (b *ImageBuf) RescaleLuminance(lo, hi float64) {
	if b.format.Channels() < 3 {
		return
	}

	bpp := b.format.BytesPerPixel()
	minL, maxL := math.MaxFloat64, -math.MaxFloat64
	for i := 0; i < len(b.data); i += bpp {
		l := luminance(b.data[i:])
		minL = math.Min(minL, l)
		maxL = math.Max(maxL, l)
	}

	if maxL-minL <= luminanceEpsilon {
		return
	}

	ratio := (hi - lo) / (maxL - minL)
	offset := 255 * lo
	for i := 0; i < len(b.data); i += bpp {
		p := b.data[i : i+3]
		l := luminance(p)
		if l < luminanceEpsilon {
			p[0], p[1], p[2] = 0, 0, 0
		} else {
			s := (l - minL) * ratio / l
			for c := range p {
				p[c] = uint8(math.Min(255, float64(p[c])*s))
			}
		}
		for c := range p {
			p[c] = clampByte(float64(p[c]) + offset)
		}
	}
}

// luminance returns the Rec. 709 relative luminance of p[0:3] in 0..1.
func luminance(p []byte) float64 {
	return (float64(p[0])*0.2126 + float64(p[1])*0.7152 + float64(p[2])*0.0722) / 255
}

// clampByte rounds half away from zero and clamps to [0, 255].
func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
