package renderer

import (
	"image"
	"image/color"
)

// Frame is a row-major RGB buffer with three bytes per pixel.
// Pixel (x, y) occupies Pix[(y*Width+x)*3 : (y*Width+x)*3+3].
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

func (f *Frame) offset(x, y int) int {
	return (y*f.Width + x) * 3
}

// SetRGB writes one pixel
func (f *Frame) SetRGB(x, y int, c [3]uint8) {
	i := f.offset(x, y)
	f.Pix[i+0] = c[0]
	f.Pix[i+1] = c[1]
	f.Pix[i+2] = c[2]
}

// RGBAt reads one pixel
func (f *Frame) RGBAt(x, y int) [3]uint8 {
	i := f.offset(x, y)
	return [3]uint8{f.Pix[i+0], f.Pix[i+1], f.Pix[i+2]}
}

// ColorModel implements image.Image
func (f *Frame) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// At implements image.Image
func (f *Frame) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(f.Bounds())) {
		return color.RGBA{}
	}
	c := f.RGBAt(x, y)
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}

// ToRGBA copies the frame into an opaque RGBA image
func (f *Frame) ToRGBA() *image.RGBA {
	return f.Crop(f.Bounds())
}

// Crop copies the pixels inside r into an RGBA image whose origin is (0, 0).
// r is clipped to the frame.
func (f *Frame) Crop(r image.Rectangle) *image.RGBA {
	r = r.Intersect(f.Bounds())
	img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := f.RGBAt(x, y)
			img.SetRGBA(x-r.Min.X, y-r.Min.Y, color.RGBA{R: c[0], G: c[1], B: c[2], A: 255})
		}
	}
	return img
}
