package renderer

import "github.com/df07/go-tinyray/pkg/core"

// InspectResult describes what a single pixel sees
type InspectResult struct {
	Hit         bool
	SphereIndex int       // -1 when nothing was hit
	Distance    float32   // Ray parameter of the hit
	Point       core.Vec3 // World-space hit point
	Normal      core.Vec3 // Outward unit normal at the hit
	Direction   core.Vec3 // Primary ray direction
	Intensity   float32   // Unclamped light intensity at the hit
	Color       [3]uint8  // Final pixel color, background included
}

// Inspect casts the primary ray through pixel (x, y) and reports the closest hit
func (rt *Raytracer) Inspect(x, y int) InspectResult {
	ray := rt.camera.GetRay(x, y)
	result := InspectResult{
		SphereIndex: -1,
		Direction:   ray.Direction,
	}

	hit, ok := ClosestHit(rt.scene.GetSpheres(), ray, rt.config.MinDistance, rt.config.MaxDistance)
	if !ok {
		result.Color = Background(x, y, rt.config.Width, rt.config.Height)
		return result
	}

	color, intensity := rt.shade(ray, hit)
	result.Hit = true
	result.SphereIndex = hit.SphereIndex
	result.Distance = hit.T
	result.Point = hit.Point
	result.Normal = hit.Normal
	result.Intensity = intensity
	result.Color = vec3ToRGB(color)
	return result
}
