package renderer

import (
	"github.com/chewxy/math32"
	"github.com/df07/go-tinyray/pkg/core"
)

// Camera maps pixels to rays from a fixed eye point looking down +Z
type Camera struct {
	origin      core.Vec3
	width       float32
	height      float32
	screenDim   float32 // Half extent of the view plane at z = 1
	aspectRatio float32
}

// NewCamera creates a pinhole camera for the given configuration
func NewCamera(config Config) *Camera {
	width := float32(config.Width)
	height := float32(config.Height)
	return &Camera{
		origin:      config.Origin,
		width:       width,
		height:      height,
		screenDim:   math32.Tan(config.FOV / 2),
		aspectRatio: width / height,
	}
}

// Direction returns the normalized direction through the center of pixel (x, y).
// Screen y grows downwards while world y grows upwards.
func (c *Camera) Direction(x, y int) core.Vec3 {
	xWorld := (2*(float32(x)+0.5)/c.width - 1) * c.screenDim * c.aspectRatio
	yWorld := -(2*(float32(y)+0.5)/c.height - 1) * c.screenDim
	return core.NewVec3(xWorld, yWorld, 1).Normalize()
}

// GetRay generates the primary ray for pixel (x, y)
func (c *Camera) GetRay(x, y int) core.Ray {
	return core.NewRay(c.origin, c.Direction(x, y))
}

// Background returns the color of a pixel that shows no geometry:
// red follows the row, green follows the column and blue is fixed.
func Background(x, y, width, height int) [3]uint8 {
	return [3]uint8{
		uint8(float32(y) / float32(height) * 255),
		uint8(float32(x) / float32(width) * 255),
		160,
	}
}
