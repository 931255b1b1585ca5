package image

import (
	"errors"
	"testing"
)

// fillAll sets every pixel of b, alpha included.
func fillAll(b *ImageBuf, r, g, bl, a uint8) {
	b.fill(b.Rect(), r, g, bl, a)
}

func TestNewImageBuf(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		format  Format
		wantErr error
	}{
		{"valid RGBA8", 100, 100, FormatRGBA8, nil},
		{"valid Gray8", 50, 50, FormatGray8, nil},
		{"1x1 minimum", 1, 1, FormatRGBA8, nil},
		{"zero width", 0, 100, FormatRGBA8, ErrInvalidDimensions},
		{"zero height", 100, 0, FormatRGBA8, ErrInvalidDimensions},
		{"negative width", -1, 100, FormatRGBA8, ErrInvalidDimensions},
		{"negative height", 100, -1, FormatRGBA8, ErrInvalidDimensions},
		{"invalid format", 100, 100, Format(255), ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewImageBuf(tt.width, tt.height, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewImageBuf() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}
			if buf.Width() != tt.width {
				t.Errorf("Width() = %d, want %d", buf.Width(), tt.width)
			}
			if buf.Height() != tt.height {
				t.Errorf("Height() = %d, want %d", buf.Height(), tt.height)
			}
			if buf.Format() != tt.format {
				t.Errorf("Format() = %v, want %v", buf.Format(), tt.format)
			}
			expectedStride := tt.format.RowBytes(tt.width)
			if buf.Stride() != expectedStride {
				t.Errorf("Stride() = %d, want %d", buf.Stride(), expectedStride)
			}
			expectedSize := expectedStride * tt.height
			if len(buf.Data()) != expectedSize {
				t.Errorf("len(Data()) = %d, want %d", len(buf.Data()), expectedSize)
			}
		})
	}
}

func TestImageBuf_Clone(t *testing.T) {
	original, err := NewImageBuf(10, 10, FormatRGBA8)
	if err != nil {
		t.Fatalf("Failed to create original: %v", err)
	}

	// Set some pixel data
	_ = original.SetRGBA(5, 5, 255, 128, 64, 200)

	clone := original.Clone()

	// Check dimensions match
	if clone.Width() != original.Width() || clone.Height() != original.Height() {
		t.Error("Clone dimensions don't match")
	}

	// Check data is copied, not shared
	if &clone.Data()[0] == &original.Data()[0] {
		t.Error("Clone shares data with original")
	}

	// Check pixel data is the same
	r1, g1, b1, a1 := original.GetRGBA(5, 5)
	r2, g2, b2, a2 := clone.GetRGBA(5, 5)
	if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
		t.Error("Clone pixel data doesn't match original")
	}

	// Modify clone and verify original is unchanged
	_ = clone.SetRGBA(5, 5, 0, 0, 0, 0)
	r1, g1, b1, a1 = original.GetRGBA(5, 5)
	if r1 != 255 || g1 != 128 || b1 != 64 || a1 != 200 {
		t.Error("Modifying clone affected original")
	}
}

func TestImageBuf_Bounds(t *testing.T) {
	buf, _ := NewImageBuf(100, 50, FormatRGBA8)
	w, h := buf.Bounds()
	if w != 100 || h != 50 {
		t.Errorf("Bounds() = (%d, %d), want (100, 50)", w, h)
	}
}

func TestImageBuf_RowBytes(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)

	// Valid row
	row := buf.RowBytes(5)
	if len(row) != 40 { // 10 * 4 bytes per pixel
		t.Errorf("RowBytes(5) length = %d, want 40", len(row))
	}

	// Out of bounds
	if buf.RowBytes(-1) != nil {
		t.Error("RowBytes(-1) should return nil")
	}
	if buf.RowBytes(10) != nil {
		t.Error("RowBytes(10) should return nil")
	}
}

func TestImageBuf_PixelOffset(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)

	tests := []struct {
		x, y   int
		expect int
	}{
		{0, 0, 0},
		{1, 0, 4},
		{0, 1, 40},
		{5, 5, 220}, // 5*40 + 5*4 = 200 + 20 = 220
		{-1, 0, -1},
		{10, 0, -1},
		{0, -1, -1},
		{0, 10, -1},
	}

	for _, tt := range tests {
		offset := buf.PixelOffset(tt.x, tt.y)
		if offset != tt.expect {
			t.Errorf("PixelOffset(%d, %d) = %d, want %d", tt.x, tt.y, offset, tt.expect)
		}
	}
}

func TestImageBuf_PixelBytes(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)

	// Set a pixel
	buf.Data()[0] = 255
	buf.Data()[1] = 128
	buf.Data()[2] = 64
	buf.Data()[3] = 32

	pixel := buf.PixelBytes(0, 0)
	if len(pixel) != 4 {
		t.Errorf("PixelBytes length = %d, want 4", len(pixel))
	}
	if pixel[0] != 255 || pixel[1] != 128 || pixel[2] != 64 || pixel[3] != 32 {
		t.Error("PixelBytes returned wrong data")
	}

	// Out of bounds
	if buf.PixelBytes(-1, 0) != nil {
		t.Error("PixelBytes(-1, 0) should return nil")
	}
}

func TestImageBuf_GetSetRGBA_RGBA8(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)

	// Set and get
	err := buf.SetRGBA(5, 5, 200, 150, 100, 50)
	if err != nil {
		t.Fatalf("SetRGBA failed: %v", err)
	}

	r, g, b, a := buf.GetRGBA(5, 5)
	if r != 200 || g != 150 || b != 100 || a != 50 {
		t.Errorf("GetRGBA = (%d, %d, %d, %d), want (200, 150, 100, 50)", r, g, b, a)
	}

	// Out of bounds set
	err = buf.SetRGBA(-1, 0, 0, 0, 0, 0)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Error("SetRGBA with invalid coords should return ErrOutOfBounds")
	}

	// Out of bounds get
	r, g, b, a = buf.GetRGBA(-1, 0)
	if r != 0 || g != 0 || b != 0 || a != 0 {
		t.Error("GetRGBA with invalid coords should return (0,0,0,0)")
	}
}

func TestImageBuf_GetSetRGBA_Gray8(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatGray8)

	// Set RGB - should convert to grayscale
	_ = buf.SetRGBA(0, 0, 200, 100, 50, 255)

	// Get should return gray value in all channels
	r, g, b, a := buf.GetRGBA(0, 0)
	if r != g || g != b {
		t.Errorf("Gray8 should have equal RGB, got (%d, %d, %d)", r, g, b)
	}
	if a != 255 {
		t.Errorf("Gray8 alpha should be 255, got %d", a)
	}

	// Verify luminance calculation: 0.299*200 + 0.587*100 + 0.114*50 = 59.8 + 58.7 + 5.7 = 124.2 ≈ 124
	expected := uint8((200*299 + 100*587 + 50*114) / 1000)
	if r != expected {
		t.Errorf("Gray8 luminance = %d, want %d", r, expected)
	}
}

func TestImageBuf_GetSetRGBA_RGB8(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGB8)

	_ = buf.SetRGBA(0, 0, 200, 100, 50, 128)

	r, g, b, a := buf.GetRGBA(0, 0)
	if r != 200 || g != 100 || b != 50 {
		t.Errorf("RGB8 = (%d, %d, %d), want (200, 100, 50)", r, g, b)
	}
	if a != 255 {
		t.Errorf("RGB8 alpha should be 255, got %d", a)
	}
}

func TestImageBuf_Clear(t *testing.T) {
	buf, _ := NewImageBuf(10, 10, FormatRGBA8)

	// Set some data
	fillAll(buf, 255, 255, 255, 255)

	// Clear
	buf.Clear()

	// All pixels should be zero
	for i := range buf.Data() {
		if buf.Data()[i] != 0 {
			t.Fatalf("Clear() didn't zero byte at index %d", i)
		}
	}
}

func TestImageBuf_FillRect(t *testing.T) {
	buf, _ := NewImageBuf(8, 8, FormatRGB8)

	buf.FillRect(Rect{X: 2, Y: 3, Width: 4, Height: 2}, 10, 20, 30)

	for y := range 8 {
		for x := range 8 {
			r, g, b, _ := buf.GetRGBA(x, y)
			inside := x >= 2 && x < 6 && y >= 3 && y < 5
			if inside && (r != 10 || g != 20 || b != 30) {
				t.Errorf("pixel (%d,%d) = (%d,%d,%d), want (10,20,30)", x, y, r, g, b)
			}
			if !inside && (r != 0 || g != 0 || b != 0) {
				t.Errorf("pixel (%d,%d) outside rect = (%d,%d,%d), want 0", x, y, r, g, b)
			}
		}
	}
}

func TestImageBuf_FillRect_OpaqueAlpha(t *testing.T) {
	buf, _ := NewImageBuf(4, 4, FormatRGBA8)

	buf.FillRect(buf.Rect(), 1, 2, 3)

	if _, _, _, a := buf.GetRGBA(3, 3); a != 255 {
		t.Errorf("alpha = %d, want 255", a)
	}
}

func TestImageBuf_FillRect_Clipped(t *testing.T) {
	buf, _ := NewImageBuf(4, 4, FormatGray8)

	// Should not panic
	buf.FillRect(Rect{X: -2, Y: -2, Width: 4, Height: 4}, 255, 255, 255)
	buf.FillRect(Rect{X: 3, Y: 3, Width: 10, Height: 10}, 255, 255, 255)
	buf.FillRect(Rect{X: 10, Y: 10, Width: 2, Height: 2}, 255, 255, 255)

	want := map[[2]int]bool{{0, 0}: true, {1, 0}: true, {0, 1}: true, {1, 1}: true, {3, 3}: true}
	for y := range 4 {
		for x := range 4 {
			v := buf.PixelBytes(x, y)[0]
			if want[[2]int{x, y}] != (v == 255) {
				t.Errorf("pixel (%d,%d) = %d", x, y, v)
			}
		}
	}
}

func TestImageBuf_Crop(t *testing.T) {
	buf, _ := NewImageBuf(6, 6, FormatRGBA8)
	for y := range 6 {
		for x := range 6 {
			_ = buf.SetRGBA(x, y, uint8(x), uint8(y), 0, 255)
		}
	}

	crop, err := buf.Crop(2, 1, 3, 4)
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if w, h := crop.Bounds(); w != 3 || h != 4 {
		t.Fatalf("Crop bounds = %dx%d, want 3x4", w, h)
	}
	for y := range 4 {
		for x := range 3 {
			r, g, _, _ := crop.GetRGBA(x, y)
			if int(r) != x+2 || int(g) != y+1 {
				t.Errorf("crop (%d,%d) = (%d,%d), want (%d,%d)", x, y, r, g, x+2, y+1)
			}
		}
	}
}

func TestImageBuf_Crop_PartiallyOutside(t *testing.T) {
	buf, _ := NewImageBuf(4, 4, FormatGray8)
	fillAll(buf, 9, 9, 9, 255)

	crop, err := buf.Crop(2, 2, 4, 4)
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if got := crop.PixelBytes(1, 1)[0]; got != 9 {
		t.Errorf("inside pixel = %d, want 9", got)
	}
	if got := crop.PixelBytes(3, 3)[0]; got != 0 {
		t.Errorf("outside pixel = %d, want 0", got)
	}

	if _, err := buf.Crop(0, 0, 0, 1); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Crop(0x1) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestImageBuf_Convert(t *testing.T) {
	tests := []struct {
		name     string
		from, to Format
		set      [4]uint8
		want     [4]uint8
	}{
		{"gray to RGB", FormatGray8, FormatRGB8, [4]uint8{90, 90, 90, 255}, [4]uint8{90, 90, 90, 255}},
		{"gray to RGBA", FormatGray8, FormatRGBA8, [4]uint8{90, 90, 90, 255}, [4]uint8{90, 90, 90, 255}},
		{"RGB to RGBA", FormatRGB8, FormatRGBA8, [4]uint8{1, 2, 3, 255}, [4]uint8{1, 2, 3, 255}},
		{"RGBA to RGB drops alpha", FormatRGBA8, FormatRGB8, [4]uint8{1, 2, 3, 7}, [4]uint8{1, 2, 3, 255}},
		{"same format copies", FormatRGBA8, FormatRGBA8, [4]uint8{4, 5, 6, 7}, [4]uint8{4, 5, 6, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, _ := NewImageBuf(3, 2, tt.from)
			_ = src.SetRGBA(2, 1, tt.set[0], tt.set[1], tt.set[2], tt.set[3])

			dst, err := src.Convert(tt.to)
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if dst.Format() != tt.to {
				t.Errorf("Format() = %v, want %v", dst.Format(), tt.to)
			}
			if &dst.Data()[0] == &src.Data()[0] {
				t.Error("Convert shares data with source")
			}
			r, g, b, a := dst.GetRGBA(2, 1)
			if got := [4]uint8{r, g, b, a}; got != tt.want {
				t.Errorf("pixel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImageBuf_Convert_InvalidFormat(t *testing.T) {
	src, _ := NewImageBuf(2, 2, FormatRGB8)
	if _, err := src.Convert(Format(99)); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Convert(99) error = %v, want ErrInvalidFormat", err)
	}
}

func TestRect_EmptyArea(t *testing.T) {
	tests := []struct {
		r     Rect
		empty bool
		area  int
	}{
		{Rect{0, 0, 4, 3}, false, 12},
		{Rect{5, 5, 0, 3}, true, 0},
		{Rect{5, 5, 3, -1}, true, -3},
	}
	for _, tt := range tests {
		if got := tt.r.Empty(); got != tt.empty {
			t.Errorf("%+v.Empty() = %v, want %v", tt.r, got, tt.empty)
		}
		if got := tt.r.Area(); got != tt.area {
			t.Errorf("%+v.Area() = %d, want %d", tt.r, got, tt.area)
		}
	}
}
