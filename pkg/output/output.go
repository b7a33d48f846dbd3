package output

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// DefaultFormat is used when a filename carries no extension
const DefaultFormat = imaging.BMP

// FormatFromFilename picks the encoding from a file extension
func FormatFromFilename(filename string) (imaging.Format, error) {
	if filepath.Ext(filename) == "" {
		return DefaultFormat, nil
	}
	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		return 0, fmt.Errorf("cannot save %s: %w", filename, err)
	}
	return format, nil
}

// ParseFormat converts a format name such as "png" or "bmp" to an encoding.
// An empty name selects DefaultFormat.
func ParseFormat(name string) (imaging.Format, error) {
	if name == "" {
		return DefaultFormat, nil
	}
	format, err := imaging.FormatFromExtension(name)
	if err != nil {
		return 0, fmt.Errorf("format %q: %w", name, err)
	}
	return format, nil
}

// ContentType returns the MIME type of an encoding
func ContentType(format imaging.Format) string {
	switch format {
	case imaging.JPEG:
		return "image/jpeg"
	case imaging.PNG:
		return "image/png"
	case imaging.GIF:
		return "image/gif"
	case imaging.TIFF:
		return "image/tiff"
	case imaging.BMP:
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the canonical file extension of an encoding, including the dot
func Extension(format imaging.Format) string {
	switch format {
	case imaging.JPEG:
		return ".jpg"
	case imaging.PNG:
		return ".png"
	case imaging.GIF:
		return ".gif"
	case imaging.TIFF:
		return ".tiff"
	default:
		return ".bmp"
	}
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format imaging.Format) error {
	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// Save encodes img to path, creating parent directories as needed.
// The format follows the extension and defaults to BMP.
func Save(path string, img image.Image) (err error) {
	format, err := FormatFromFilename(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	return Encode(file, img, format)
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling,
// keeping hard pixel edges. Factors below 2 return img unchanged.
func Scale(img image.Image, factor int) image.Image {
	if factor < 2 {
		return img
	}
	bounds := img.Bounds()
	return resize.Resize(
		uint(bounds.Dx()*factor),
		uint(bounds.Dy()*factor),
		img,
		resize.NearestNeighbor,
	)
}
