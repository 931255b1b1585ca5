package mosaic

import (
	intImage "github.com/gogpu/mosaic/internal/image"
)

// Image is a public alias for the internal pixel buffer.
// Frames, leaf sprites and decomposition results are all Images.
type Image = intImage.ImageBuf

// Rect is an axis-aligned region in a frame's pixel coordinates.
type Rect = intImage.Rect

// ImageFormat represents a pixel storage format.
type ImageFormat = intImage.Format

// Pixel formats.
const (
	// FormatGray8 is 8-bit grayscale (1 byte per pixel).
	FormatGray8 = intImage.FormatGray8

	// FormatRGB8 is 24-bit RGB (3 bytes per pixel, no alpha).
	FormatRGB8 = intImage.FormatRGB8

	// FormatRGBA8 is 32-bit non-premultiplied RGBA (4 bytes per pixel).
	FormatRGBA8 = intImage.FormatRGBA8
)

// NewImage creates a zeroed image.
func NewImage(width, height int, format ImageFormat) (*Image, error) {
	return intImage.NewImageBuf(width, height, format)
}

// LoadImage loads an image file, detecting the format from its content.
func LoadImage(path string) (*Image, error) {
	return intImage.LoadImage(path)
}

// LoadLeaf loads a leaf sprite and stretches its luminance to the full
// 0..1 range so that tinting reaches both dark and bright targets.
func LoadLeaf(path string) (*Image, error) {
	leaf, err := intImage.LoadImage(path)
	if err != nil {
		return nil, err
	}
	leaf.RescaleLuminance(0, 1)
	return leaf, nil
}
