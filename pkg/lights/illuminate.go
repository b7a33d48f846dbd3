package lights

import (
	"github.com/chewxy/math32"
	"github.com/df07/go-tinyray/pkg/core"
	"github.com/df07/go-tinyray/pkg/material"
)

// Illuminate accumulates the light intensity arriving at a surface point from every light.
//
// view points from the surface back towards the camera and specular is the material's
// Phong exponent (material.NoSpecular disables highlights). The diffuse cosine term is
// not clamped, so lights behind the surface reduce the total. The result is not clamped
// either; callers clamp the final color.
func Illuminate(point, normal, view core.Vec3, specular float32, lights []Light) float32 {
	var intensity float32

	for _, light := range lights {
		if light.Type == LightTypeAmbient {
			intensity += light.Intensity
			continue
		}

		lightRay := light.RayTo(point)

		// Diffuse
		nDotL := normal.Dot(lightRay)
		intensity += light.Intensity * nDotL / (normal.Length() * lightRay.Length())

		// Specular
		if specular != material.NoSpecular {
			r := normal.Multiply(2 * nDotL).Subtract(lightRay)
			reflectView := r.Dot(view)
			if reflectView > 0 {
				cosine := reflectView / (r.Length() * view.Length())
				intensity += light.Intensity * math32.Pow(cosine, specular)
			}
		}
	}

	return intensity
}
