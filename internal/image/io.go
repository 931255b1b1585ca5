package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the output file extension is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// DefaultJPEGQuality is used by Save for .jpg and .jpeg paths.
const DefaultJPEGQuality = 95

// LoadImage loads an image from the given file path, detecting the format
// from its content. PNG, JPEG, GIF, BMP, TIFF and WebP are supported.
// An empty file yields ErrEmptyData.
func LoadImage(path string) (*ImageBuf, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: read file: %w", err)
	}
	return LoadImageFromBytes(data)
}

// LoadImageFromBytes loads an image from a byte slice, auto-detecting the format.
func LoadImageFromBytes(data []byte) (*ImageBuf, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from the given reader, auto-detecting the format.
func Decode(r io.Reader) (*ImageBuf, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return FromStdImage(img), nil
}

// Save writes the image to path. The encoder is chosen from the extension:
// .jpg and .jpeg produce JPEG, .png or no extension produce PNG.
func (b *ImageBuf) Save(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", "":
		return b.SavePNG(path)
	case ".jpg", ".jpeg":
		return b.SaveJPEG(path, DefaultJPEGQuality)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// SavePNG saves the image as a PNG file.
func (b *ImageBuf) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// SaveJPEG saves the image as a JPEG file with the given quality (1-100).
func (b *ImageBuf) SaveJPEG(path string, quality int) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := b.EncodeJPEG(f, quality); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// EncodePNG encodes the image as PNG to the given writer.
func (b *ImageBuf) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.ToStdImage()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// EncodeJPEG encodes the image as JPEG to the given writer.
func (b *ImageBuf) EncodeJPEG(w io.Writer, quality int) error {
	quality = max(1, min(100, quality))
	if err := jpeg.Encode(w, b.ToStdImage(), &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("image: encode JPEG: %w", err)
	}
	return nil
}

// FromStdImage creates an ImageBuf from a standard library image.Image,
// keeping the source's natural channel count: grayscale sources become
// Gray8, opaque color sources RGB8 and everything else non-premultiplied RGBA8.
func FromStdImage(img image.Image) *ImageBuf {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	switch src := img.(type) {
	case *image.Gray:
		buf := mustNew(width, height, FormatGray8)
		for y := range height {
			start := y * src.Stride
			copy(buf.RowBytes(y), src.Pix[start:start+width])
		}
		return buf

	case *image.NRGBA:
		buf := mustNew(width, height, FormatRGBA8)
		for y := range height {
			start := y * src.Stride
			copy(buf.RowBytes(y), src.Pix[start:start+width*4])
		}
		return buf
	}

	format := FormatRGBA8
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		format = FormatRGB8
	}

	buf := mustNew(width, height, format)
	for y := range height {
		for x := range width {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			_ = buf.SetRGBA(x, y, c.R, c.G, c.B, c.A)
		}
	}
	return buf
}

// ToStdImage converts the ImageBuf to a standard library image.Image.
// Returns *image.Gray for Gray8 and *image.NRGBA otherwise.
func (b *ImageBuf) ToStdImage() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)

	switch b.format {
	case FormatGray8:
		gray := image.NewGray(rect)
		for y := range b.height {
			copy(gray.Pix[y*gray.Stride:], b.RowBytes(y))
		}
		return gray

	case FormatRGBA8:
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			copy(nrgba.Pix[y*nrgba.Stride:], b.RowBytes(y))
		}
		return nrgba

	default:
		// Expand RGB8 to opaque NRGBA
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			row := b.RowBytes(y)
			dstStart := y * nrgba.Stride
			for x := range b.width {
				srcOff := x * 3
				dstOff := dstStart + x*4
				nrgba.Pix[dstOff] = row[srcOff]
				nrgba.Pix[dstOff+1] = row[srcOff+1]
				nrgba.Pix[dstOff+2] = row[srcOff+2]
				nrgba.Pix[dstOff+3] = 255
			}
		}
		return nrgba
	}
}
