package material

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/df07/go-tinyray/pkg/core"
)

// NoSpecular is the specular exponent that disables highlights for a material
const NoSpecular float32 = -1

// Material describes how a surface responds to light
type Material struct {
	Diffuse  core.Vec3 // Base color, components in [0, 255]
	Specular float32   // Phong exponent, or NoSpecular
}

// New creates a new material
func New(diffuse core.Vec3, specular float32) Material {
	return Material{Diffuse: diffuse, Specular: specular}
}

// NewMatte creates a material without specular highlights
func NewMatte(diffuse core.Vec3) Material {
	return Material{Diffuse: diffuse, Specular: NoSpecular}
}

// HasSpecular reports whether the material contributes a specular term
func (m Material) HasSpecular() bool {
	return m.Specular != NoSpecular
}

// Shade scales the diffuse color by a light intensity and clamps it to the 8-bit display range
func (m Material) Shade(intensity float32) core.Vec3 {
	return m.Diffuse.Multiply(intensity).Clamp(0, 255)
}

// Validate checks that the material only holds finite values
func (m Material) Validate() error {
	if !m.Diffuse.IsFinite() {
		return fmt.Errorf("diffuse color %v is not finite", m.Diffuse)
	}
	if math32.IsNaN(m.Specular) || math32.IsInf(m.Specular, 0) {
		return fmt.Errorf("specular exponent %v is not finite", m.Specular)
	}
	return nil
}
