package blend

// Over composites one source channel onto a destination channel using
// 8-bit fixed-point weights: (a*src + (256-a)*dst) >> 8.
//
// Callers copy the source directly when a == 255; the fixed-point form
// leaves dst untouched when a == 0.
func Over(src, dst, a byte) byte {
	return byte((uint32(a)*uint32(src) + (256-uint32(a))*uint32(dst)) >> 8)
}

// OverAlpha computes the destination alpha after compositing a source with
// alpha a onto a destination with alpha dstA. The source contributes at
// full weight, so an opaque destination stays opaque.
func OverAlpha(a, dstA byte) byte {
	return byte((uint32(a)*256 + (256-uint32(a))*uint32(dstA)) >> 8)
}

// OverPixel composites the source color (sr, sg, sb, sa) onto dst in place.
// dst holds channels color channels (1 for gray, 3 for RGB) optionally
// followed by an alpha byte when hasAlpha is set. A gray destination takes
// the source's luminance.
func OverPixel(dst []byte, channels int, hasAlpha bool, sr, sg, sb, sa byte) {
	if sa == 0 {
		return
	}

	src := [3]byte{sr, sg, sb}
	if channels == 1 {
		src[0] = Luma(sr, sg, sb)
	}

	if sa == 255 {
		copy(dst[:channels], src[:channels])
		if hasAlpha {
			dst[channels] = 255
		}
		return
	}

	for c := range channels {
		dst[c] = Over(src[c], dst[c], sa)
	}
	if hasAlpha {
		dst[channels] = OverAlpha(sa, dst[channels])
	}
}

// Luma returns the Rec. 601 luminance of an RGB triple.
func Luma(r, g, b byte) byte {
	return byte((int(r)*299 + int(g)*587 + int(b)*114) / 1000)
}
