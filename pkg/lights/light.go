package lights

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/df07/go-tinyray/pkg/core"
)

type LightType string

const (
	LightTypeAmbient     LightType = "ambient"
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// ParseLightType converts a name to a LightType
func ParseLightType(name string) (LightType, error) {
	switch LightType(name) {
	case LightTypeAmbient, LightTypePoint, LightTypeDirectional:
		return LightType(name), nil
	default:
		return "", fmt.Errorf("unknown light type %q", name)
	}
}

// Light is a light source. Position is only meaningful for point lights and
// Direction only for directional lights.
type Light struct {
	Type      LightType
	Intensity float32
	Position  core.Vec3
	Direction core.Vec3
}

// NewAmbientLight creates a light that brightens every surface uniformly
func NewAmbientLight(intensity float32) Light {
	return Light{Type: LightTypeAmbient, Intensity: intensity}
}

// NewPointLight creates a light emitting from a position
func NewPointLight(intensity float32, position core.Vec3) Light {
	return Light{Type: LightTypePoint, Intensity: intensity, Position: position}
}

// NewDirectionalLight creates a light arriving from a fixed direction.
// The direction points towards the light and is used as given, without normalization.
func NewDirectionalLight(intensity float32, direction core.Vec3) Light {
	return Light{Type: LightTypeDirectional, Intensity: intensity, Direction: direction}
}

// RayTo returns the vector from the shaded point towards the light.
// Ambient lights have no direction and return the zero vector.
func (l Light) RayTo(point core.Vec3) core.Vec3 {
	switch l.Type {
	case LightTypePoint:
		return l.Position.Subtract(point)
	case LightTypeDirectional:
		return l.Direction
	default:
		return core.Zero
	}
}

// Validate checks that the light is well formed
func (l Light) Validate() error {
	if _, err := ParseLightType(string(l.Type)); err != nil {
		return err
	}
	if math32.IsNaN(l.Intensity) || math32.IsInf(l.Intensity, 0) {
		return fmt.Errorf("%s light intensity %v is not finite", l.Type, l.Intensity)
	}
	switch l.Type {
	case LightTypePoint:
		if !l.Position.IsFinite() {
			return fmt.Errorf("point light position %v is not finite", l.Position)
		}
	case LightTypeDirectional:
		if !l.Direction.IsFinite() || l.Direction.Length() == 0 {
			return fmt.Errorf("directional light direction %v must be finite and non-zero", l.Direction)
		}
	}
	return nil
}
