package scene

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/df07/go-tinyray/pkg/geometry"
	"github.com/df07/go-tinyray/pkg/lights"
	"github.com/df07/go-tinyray/pkg/renderer"
)

var (
	// ErrUnknownScene is returned when a scene name matches no built-in scene or file
	ErrUnknownScene = errors.New("unknown scene")
	// ErrInvalidScene is returned when a scene holds values that cannot be rendered
	ErrInvalidScene = errors.New("invalid scene")
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name    string
	Spheres []geometry.Sphere // Objects in the scene, tested in order
	Lights  []lights.Light    // Lights in the scene
	Camera  CameraSettings
}

// CameraSettings holds per-scene render overrides. Zero values keep the renderer defaults.
type CameraSettings struct {
	Width  int
	Height int
	FOV    float32 // Radians
	Near   float32
	Far    float32
}

// GetSpheres implements renderer.Scene
func (s *Scene) GetSpheres() []geometry.Sphere {
	return s.Spheres
}

// GetLights implements renderer.Scene
func (s *Scene) GetLights() []lights.Light {
	return s.Lights
}

// Validate checks every sphere, light and camera override before rendering
func (s *Scene) Validate() error {
	for i, sphere := range s.Spheres {
		if err := sphere.Validate(); err != nil {
			return fmt.Errorf("%w: sphere %d: %w", ErrInvalidScene, i, err)
		}
	}
	for i, light := range s.Lights {
		if err := light.Validate(); err != nil {
			return fmt.Errorf("%w: light %d: %w", ErrInvalidScene, i, err)
		}
	}

	c := s.Camera
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("%w: camera size %dx%d is negative", ErrInvalidScene, c.Width, c.Height)
	}
	for _, v := range []float32{c.FOV, c.Near, c.Far} {
		if v < 0 || math32.IsNaN(v) || math32.IsInf(v, 0) {
			return fmt.Errorf("%w: camera settings %+v must be finite and non-negative", ErrInvalidScene, c)
		}
	}
	return nil
}

// RenderConfig applies the scene's camera overrides on top of a base configuration
func (s *Scene) RenderConfig(base renderer.Config) renderer.Config {
	return renderer.MergeConfig(base, renderer.Config{
		Width:       s.Camera.Width,
		Height:      s.Camera.Height,
		FOV:         s.Camera.FOV,
		MinDistance: s.Camera.Near,
		MaxDistance: s.Camera.Far,
	})
}
