package geometry

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/df07/go-tinyray/pkg/core"
	"github.com/df07/go-tinyray/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float32
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float32, mat material.Material) Sphere {
	return Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Intersect tests the ray against the sphere using the geometric method and returns
// both ray parameters where it crosses the surface, t0 <= t1.
//
// Spheres whose center projects behind the ray origin are rejected outright, so a ray
// starting inside a sphere and pointing away from its center reports a miss even though
// it exits through the surface. Rays starting inside and pointing toward the center
// report a negative t0.
func (s Sphere) Intersect(ray core.Ray) (t0, t1 float32, ok bool) {
	// Vector from ray origin to sphere center
	l := s.Center.Subtract(ray.Origin)
	tca := l.Dot(ray.Direction)
	if tca < 0 {
		return 0, 0, false
	}

	// Distance from the center to the ray. Rounding can push the squared
	// distance slightly below zero for rays through the center.
	d := math32.Sqrt(math32.Max(l.Dot(l)-tca*tca, 0))
	if d > s.Radius {
		return 0, 0, false
	}

	// Half chord length
	thc := math32.Sqrt(s.Radius*s.Radius - d*d)
	t0 = tca - thc
	t1 = tca + thc

	if t0 < 0 && t1 < 0 {
		return 0, 0, false
	}
	return t0, t1, true
}

// NormalAt returns the outward unit normal at a point on the surface
func (s Sphere) NormalAt(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

// Validate checks the sphere for degenerate geometry
func (s Sphere) Validate() error {
	if !s.Center.IsFinite() {
		return fmt.Errorf("center %v is not finite", s.Center)
	}
	if !(s.Radius > 0) || math32.IsInf(s.Radius, 1) {
		return fmt.Errorf("radius must be positive and finite, got %v", s.Radius)
	}
	if err := s.Material.Validate(); err != nil {
		return fmt.Errorf("material: %w", err)
	}
	return nil
}
