package renderer

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/df07/go-tinyray/pkg/core"
)

// ErrInvalidConfig is returned when a render configuration cannot be used
var ErrInvalidConfig = errors.New("invalid render config")

// Config holds everything a render pass needs besides the scene.
// It is copied by value and never modified during a render.
type Config struct {
	Width       int       // Image width in pixels
	Height      int       // Image height in pixels
	FOV         float32   // Horizontal field of view in radians
	MinDistance float32   // Near clipping distance along the ray
	MaxDistance float32   // Far clipping distance along the ray
	Origin      core.Vec3 // Eye position
	Invalid     core.Vec3 // Color returned when a ray hits nothing
	TileSize    int       // Size of each tile
	NumWorkers  int       // Number of parallel workers (0 = use CPU count)
}

// DefaultConfig returns the reference render settings
func DefaultConfig() Config {
	return Config{
		Width:       600,
		Height:      600,
		FOV:         1,
		MinDistance: 1,
		MaxDistance: 1000,
		Origin:      core.Zero,
		Invalid:     core.NewVec3(-1, -1, -1),
		TileSize:    64,
		NumWorkers:  0,
	}
}

// MergeConfig applies non-zero fields of override on top of base
func MergeConfig(base, override Config) Config {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.FOV != 0 {
		result.FOV = override.FOV
	}
	if override.MinDistance != 0 {
		result.MinDistance = override.MinDistance
	}
	if override.MaxDistance != 0 {
		result.MaxDistance = override.MaxDistance
	}
	if override.Origin != core.Zero {
		result.Origin = override.Origin
	}
	if override.Invalid != core.Zero {
		result.Invalid = override.Invalid
	}
	if override.TileSize != 0 {
		result.TileSize = override.TileSize
	}
	if override.NumWorkers != 0 {
		result.NumWorkers = override.NumWorkers
	}
	return result
}

// Validate checks that the configuration describes a renderable image
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if !(c.FOV > 0 && c.FOV < math32.Pi) {
		return fmt.Errorf("%w: field of view must be in (0, pi), got %v", ErrInvalidConfig, c.FOV)
	}
	if math32.IsNaN(c.MinDistance) || math32.IsNaN(c.MaxDistance) || !(c.MinDistance < c.MaxDistance) {
		return fmt.Errorf("%w: clipping range [%v, %v] is empty", ErrInvalidConfig, c.MinDistance, c.MaxDistance)
	}
	if !c.Origin.IsFinite() {
		return fmt.Errorf("%w: origin %v is not finite", ErrInvalidConfig, c.Origin)
	}
	// Clamped colors are never negative, so a negative component keeps the sentinel distinct
	if !(c.Invalid.X < 0 || c.Invalid.Y < 0 || c.Invalid.Z < 0) {
		return fmt.Errorf("%w: invalid color %v must have a negative component", ErrInvalidConfig, c.Invalid)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: tile size must be positive, got %d", ErrInvalidConfig, c.TileSize)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("%w: worker count must not be negative, got %d", ErrInvalidConfig, c.NumWorkers)
	}
	return nil
}
