// Package blend implements the 8-bit fixed-point compositing math used when
// leaf sprites are drawn onto frames.
//
// The div255 family avoids integer division by using shifts and addition.
//
// References:
//   - Alvy Ray Smith's technical memos: http://alvyray.com/Memos/
package blend

// div255Exact divides x by 255 exactly without using division.
//
// Formula: ((x + 1) + ((x + 1) >> 8)) >> 8
//
// This is Alvy Ray Smith's formula, which gives exact results for
// every product of two bytes.
func div255Exact(x uint16) uint16 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// MulDiv255 returns floor(a*b/255). It scales a channel value a by the
// factor b/255 and is what tinting uses.
func MulDiv255(a, b byte) byte {
	return byte(div255Exact(uint16(a) * uint16(b)))
}
