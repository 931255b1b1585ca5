package mosaic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned by ParseColor for malformed hex strings.
var ErrInvalidColor = errors.New("mosaic: invalid color")

// RGB is an 8-bit RGB triple.
type RGB struct {
	R, G, B uint8
}

// Black is the default background.
var Black = RGB{}

// String returns the color as #rrggbb.
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// distSq returns the squared Euclidean distance between two colors.
func (c RGB) distSq(o RGB) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// Color is either a single luminance value or an RGB triple.
// The zero value is luminance 0.
type Color struct {
	rgb   RGB
	isRGB bool
}

// Luma returns a luminance color.
func Luma(v uint8) Color {
	return Color{rgb: RGB{v, v, v}}
}

// RGBColor returns an RGB color.
func RGBColor(r, g, b uint8) Color {
	return Color{rgb: RGB{r, g, b}, isRGB: true}
}

// IsLuma reports whether c holds a luminance value.
func (c Color) IsLuma() bool {
	return !c.isRGB
}

// Luma returns the luminance value and true when c is a luminance color.
func (c Color) Luma() (uint8, bool) {
	return c.rgb.R, !c.isRGB
}

// RGB widens c to an RGB triple. A luminance value v becomes (v, v, v).
func (c Color) RGB() RGB {
	return c.rgb
}

// String implements fmt.Stringer.
func (c Color) String() string {
	if c.isRGB {
		return c.rgb.String()
	}
	return fmt.Sprintf("luma(%d)", c.rgb.R)
}

// ParseColor parses "#rgb" or "#rrggbb" (the leading '#' is optional).
// An empty string yields black.
func ParseColor(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Black, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	switch len(s) {
	case 7:
	case 4:
		// Short form digits are the high nibble: "#f80" is (0xf0, 0x80, 0x00).
		s = string([]byte{'#', s[1], '0', s[2], '0', s[3], '0'})
	default:
		return Black, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return Black, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	r, g, b := c.RGB255()
	return RGB{r, g, b}, nil
}
