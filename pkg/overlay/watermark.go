package overlay

import (
	"image"

	"github.com/fogleman/gg"
)

const (
	markCols = 33
	markRows = 7
)

// mark spells "MATT J"; 1 cells are drawn white
var mark = [markRows][markCols]uint8{
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 1, 1, 0, 0, 1, 1, 1, 0, 0, 1, 1, 1, 1, 1, 0, 1, 1, 1, 1, 1, 0, 0, 0, 1, 1, 1, 1, 1, 0},
	{0, 1, 0, 1, 0, 1, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0},
	{0, 1, 0, 1, 0, 1, 0, 1, 1, 1, 1, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0},
	{0, 1, 0, 1, 0, 1, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0},
	{0, 1, 0, 1, 0, 1, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
}

// Watermark draws the bitmap as a grid of squares. Each cell is Size pixels wide
// and neighbouring cells leave a gap of Size+Stride pixels.
type Watermark struct {
	X, Y   int // Top-left corner in pixels
	Size   int // Edge length of one square
	Stride int // Extra spacing between squares
}

// DefaultWatermark anchors the mark near the bottom-left corner of an image of the given height
func DefaultWatermark(height int) Watermark {
	return Watermark{X: 20, Y: height - 60, Size: 3, Stride: 1}
}

// Step is the distance between the corners of neighbouring cells
func (w Watermark) Step() int {
	return w.Size*2 + w.Stride
}

// Bounds returns the area covered by the mark
func (w Watermark) Bounds() image.Rectangle {
	step := w.Step()
	return image.Rect(
		w.X, w.Y,
		w.X+(markCols-1)*step+w.Size,
		w.Y+(markRows-1)*step+w.Size,
	)
}

// CellColor returns the RGB color of bitmap cell (col, row)
func CellColor(col, row int) (r, g, b int) {
	if mark[row][col] != 0 {
		return 255, 255, 255
	}
	return int(uint8(float32(col)/markCols*255)) % 180,
		int(uint8(float32(row)/markRows*255)) % 180,
		240
}

// Draw paints the watermark onto img in place. Cells falling outside the image are clipped.
func (w Watermark) Draw(img *image.RGBA) {
	dc := gg.NewContextForRGBA(img)
	step := w.Step()
	size := float64(w.Size)

	for col := 0; col < markCols; col++ {
		for row := 0; row < markRows; row++ {
			r, g, b := CellColor(col, row)
			dc.SetRGB255(r, g, b)
			dc.DrawRectangle(float64(w.X+col*step), float64(w.Y+row*step), size, size)
			dc.Fill()
		}
	}
}
