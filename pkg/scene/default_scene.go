package scene

import (
	"github.com/df07/go-tinyray/pkg/core"
	"github.com/df07/go-tinyray/pkg/geometry"
	"github.com/df07/go-tinyray/pkg/lights"
	"github.com/df07/go-tinyray/pkg/material"
)

// NewDefaultScene creates the reference scene: three colored spheres resting on a
// very large ground sphere, lit by ambient, point and directional lights.
func NewDefaultScene() *Scene {
	// Create materials
	blue := material.New(core.NewVec3(69, 161, 255), 500)
	white := material.New(core.NewVec3(240, 240, 240), 180)
	red := material.New(core.NewVec3(255, 0, 57), 10)
	ground := material.New(core.NewVec3(0, 57, 89), 1000)

	return &Scene{
		Name: "default",
		Spheres: []geometry.Sphere{
			geometry.NewSphere(core.NewVec3(-0.75, -0.2, 6.5), 1.5, red),
			geometry.NewSphere(core.NewVec3(0, -1, 5), 1, blue),
			geometry.NewSphere(core.NewVec3(2, -0.5, 8), 3, white),
			// Ground is a sphere large enough to look flat from the camera
			geometry.NewSphere(core.NewVec3(0, -4001, 0), 4000, ground),
		},
		Lights: []lights.Light{
			lights.NewAmbientLight(0.2),
			lights.NewPointLight(0.6, core.NewVec3(-8, 1, 0)),
			lights.NewDirectionalLight(0.2, core.NewVec3(1, 4, -8)),
		},
	}
}

// NewSingleSphereScene creates one matte white sphere lit only by full ambient light,
// so every pixel that hits it is pure white.
func NewSingleSphereScene() *Scene {
	return &Scene{
		Name: "single",
		Spheres: []geometry.Sphere{
			geometry.NewSphere(core.NewVec3(0, 0, 5), 1, material.NewMatte(core.NewVec3(255, 255, 255))),
		},
		Lights: []lights.Light{
			lights.NewAmbientLight(1.0),
		},
	}
}

// NewEmptyScene creates a scene with lights but no geometry
func NewEmptyScene() *Scene {
	return &Scene{
		Name: "empty",
		Lights: []lights.Light{
			lights.NewAmbientLight(0.2),
			lights.NewPointLight(0.6, core.NewVec3(-8, 1, 0)),
		},
	}
}
