package renderer

import (
	"github.com/df07/go-tinyray/pkg/core"
	"github.com/df07/go-tinyray/pkg/geometry"
	"github.com/df07/go-tinyray/pkg/lights"
)

// Scene interface to avoid circular imports
type Scene interface {
	GetSpheres() []geometry.Sphere
	GetLights() []lights.Light
}

// Validator is implemented by scenes that can check themselves before rendering
type Validator interface {
	Validate() error
}

// Hit describes the closest intersection along a ray
type Hit struct {
	SphereIndex int       // Index into the scene's sphere list
	T           float32   // Ray parameter of the intersection
	Point       core.Vec3 // World-space hit point
	Normal      core.Vec3 // Outward unit normal
}

// ClosestHit returns the nearest intersection with parameter strictly inside (minT, maxT).
// Spheres are tested in order and a candidate must be strictly closer than the best so far,
// so the earliest sphere wins ties.
func ClosestHit(spheres []geometry.Sphere, ray core.Ray, minT, maxT float32) (Hit, bool) {
	closest := -1
	tComp := maxT

	for i := range spheres {
		dist0, dist1, ok := spheres[i].Intersect(ray)
		if !ok {
			continue
		}
		if minT < dist0 && dist0 < maxT && dist0 < tComp {
			tComp = dist0
			closest = i
		}
		if minT < dist1 && dist1 < maxT && dist1 < tComp {
			tComp = dist1
			closest = i
		}
	}

	if closest < 0 {
		return Hit{}, false
	}

	point := ray.At(tComp)
	return Hit{
		SphereIndex: closest,
		T:           tComp,
		Point:       point,
		Normal:      spheres[closest].NormalAt(point),
	}, true
}

// Raytracer resolves pixel colors for a scene
type Raytracer struct {
	scene  Scene
	config Config
	camera *Camera
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, config Config) *Raytracer {
	return &Raytracer{
		scene:  scene,
		config: config,
		camera: NewCamera(config),
	}
}

// Config returns the configuration the raytracer was built with
func (rt *Raytracer) Config() Config {
	return rt.config
}

// Camera returns the camera used for primary rays
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// Raytrace returns the clamped color seen along a ray, or the configured Invalid color
// when no sphere is hit inside (minT, maxT).
func (rt *Raytracer) Raytrace(origin, dir core.Vec3, minT, maxT float32) core.Vec3 {
	ray := core.NewRay(origin, dir)
	hit, ok := ClosestHit(rt.scene.GetSpheres(), ray, minT, maxT)
	if !ok {
		return rt.config.Invalid
	}
	color, _ := rt.shade(ray, hit)
	return color
}

// shade evaluates lighting at a hit and returns the clamped color and raw intensity
func (rt *Raytracer) shade(ray core.Ray, hit Hit) (core.Vec3, float32) {
	mat := rt.scene.GetSpheres()[hit.SphereIndex].Material
	intensity := lights.Illuminate(
		hit.Point, hit.Normal,
		ray.Direction.Negate(),
		mat.Specular,
		rt.scene.GetLights(),
	)
	return mat.Shade(intensity), intensity
}

// IsInvalid reports whether a color is a no-hit sentinel rather than a clamped color
func IsInvalid(color core.Vec3) bool {
	return color.X < 0 || color.Y < 0 || color.Z < 0
}

// PixelColor resolves the final 8-bit color of pixel (x, y), falling back to the
// background gradient when the pixel shows no geometry.
func (rt *Raytracer) PixelColor(x, y int) ([3]uint8, bool) {
	ray := rt.camera.GetRay(x, y)
	color := rt.Raytrace(ray.Origin, ray.Direction, rt.config.MinDistance, rt.config.MaxDistance)
	if IsInvalid(color) {
		return Background(x, y, rt.config.Width, rt.config.Height), false
	}
	return vec3ToRGB(color), true
}

// vec3ToRGB truncates a color already clamped to [0, 255]
func vec3ToRGB(color core.Vec3) [3]uint8 {
	return [3]uint8{uint8(color.X), uint8(color.Y), uint8(color.Z)}
}
