package mosaic

import (
	"errors"
	"testing"
)

func TestRGB_String(t *testing.T) {
	tests := []struct {
		c    RGB
		want string
	}{
		{Black, "#000000"},
		{RGB{255, 255, 255}, "#ffffff"},
		{RGB{0x12, 0xab, 0x0f}, "#12ab0f"},
	}

	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestRGB_DistSq(t *testing.T) {
	a := RGB{10, 20, 30}
	b := RGB{13, 16, 30}
	if got := a.distSq(b); got != 25 {
		t.Errorf("distSq = %d, want 25", got)
	}
	if got := b.distSq(a); got != 25 {
		t.Errorf("distSq is not symmetric: %d", got)
	}
	if got := Black.distSq(RGB{255, 255, 255}); got != 3*255*255 {
		t.Errorf("black-white distSq = %d, want %d", got, 3*255*255)
	}
}

func TestColor_Widening(t *testing.T) {
	l := Luma(77)
	if !l.IsLuma() {
		t.Error("Luma(77).IsLuma() = false")
	}
	if v, ok := l.Luma(); !ok || v != 77 {
		t.Errorf("Luma(77).Luma() = (%d, %v), want (77, true)", v, ok)
	}
	if got := l.RGB(); got != (RGB{77, 77, 77}) {
		t.Errorf("Luma(77).RGB() = %v, want (77,77,77)", got)
	}

	c := RGBColor(1, 2, 3)
	if c.IsLuma() {
		t.Error("RGBColor.IsLuma() = true")
	}
	if _, ok := c.Luma(); ok {
		t.Error("RGBColor.Luma() reported a luminance value")
	}
	if got := c.RGB(); got != (RGB{1, 2, 3}) {
		t.Errorf("RGBColor(1,2,3).RGB() = %v", got)
	}

	var zero Color
	if !zero.IsLuma() || zero.RGB() != Black {
		t.Error("zero Color should be luminance 0")
	}
}

func TestColor_String(t *testing.T) {
	if got := Luma(5).String(); got != "luma(5)" {
		t.Errorf("Luma(5).String() = %q", got)
	}
	if got := RGBColor(255, 0, 16).String(); got != "#ff0010" {
		t.Errorf("RGBColor.String() = %q", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"", Black},
		{"#000000", Black},
		{"#ff8000", RGB{255, 128, 0}},
		{"ff8000", RGB{255, 128, 0}},
		{"#FF8000", RGB{255, 128, 0}},
		{"  #102030 ", RGB{0x10, 0x20, 0x30}},
		{"#fff", RGB{0xf0, 0xf0, 0xf0}},
		{"#f80", RGB{0xf0, 0x80, 0x00}},
		{"abc", RGB{0xa0, 0xb0, 0xc0}},
		{"#000", Black},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, in := range []string{"#12", "#12345", "#1234567", "#gggggg", "red", "#xyz"} {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseColor(in); !errors.Is(err, ErrInvalidColor) {
				t.Errorf("ParseColor(%q) error = %v, want ErrInvalidColor", in, err)
			}
		})
	}
}
