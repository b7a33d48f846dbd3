package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-tinyray/pkg/geometry"
	"github.com/df07/go-tinyray/pkg/lights"
	"github.com/df07/go-tinyray/pkg/loaders"
	"github.com/df07/go-tinyray/pkg/material"
)

// NewJSONScene creates a scene from a JSON scene file
func NewJSONScene(path string) (*Scene, error) {
	file, err := loaders.LoadSceneJSON(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene file: %w", err)
	}

	s, err := FromFile(file)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// FromFile converts a parsed scene description into a validated scene
func FromFile(file *loaders.SceneFile) (*Scene, error) {
	s := &Scene{
		Name:    file.Name,
		Spheres: make([]geometry.Sphere, 0, len(file.Spheres)),
		Lights:  make([]lights.Light, 0, len(file.Lights)),
	}

	if file.Camera != nil {
		s.Camera = CameraSettings{
			Width:  file.Camera.Width,
			Height: file.Camera.Height,
			FOV:    file.Camera.FOV,
			Near:   file.Camera.Near,
			Far:    file.Camera.Far,
		}
	}

	for _, sd := range file.Spheres {
		specular := material.NoSpecular
		if sd.Material.Specular != nil {
			specular = *sd.Material.Specular
		}
		mat := material.New(loaders.Vec(sd.Material.Diffuse), specular)
		s.Spheres = append(s.Spheres, geometry.NewSphere(loaders.Vec(sd.Center), sd.Radius, mat))
	}

	for _, ld := range file.Lights {
		lightType, err := lights.ParseLightType(ld.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
		}
		s.Lights = append(s.Lights, lights.Light{
			Type:      lightType,
			Intensity: ld.Intensity,
			Position:  loaders.Vec(ld.Position),
			Direction: loaders.Vec(ld.Direction),
		})
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ToFile converts a scene into its JSON description
func ToFile(s *Scene) *loaders.SceneFile {
	file := &loaders.SceneFile{
		Name:    s.Name,
		Spheres: make([]loaders.SphereData, 0, len(s.Spheres)),
		Lights:  make([]loaders.LightData, 0, len(s.Lights)),
	}

	if s.Camera != (CameraSettings{}) {
		file.Camera = &loaders.CameraData{
			Width:  s.Camera.Width,
			Height: s.Camera.Height,
			FOV:    s.Camera.FOV,
			Near:   s.Camera.Near,
			Far:    s.Camera.Far,
		}
	}

	for _, sphere := range s.Spheres {
		md := loaders.MaterialData{Diffuse: loaders.Floats(sphere.Material.Diffuse)}
		if sphere.Material.HasSpecular() {
			specular := sphere.Material.Specular
			md.Specular = &specular
		}
		file.Spheres = append(file.Spheres, loaders.SphereData{
			Center:   loaders.Floats(sphere.Center),
			Radius:   sphere.Radius,
			Material: md,
		})
	}

	for _, light := range s.Lights {
		ld := loaders.LightData{Type: string(light.Type), Intensity: light.Intensity}
		switch light.Type {
		case lights.LightTypePoint:
			ld.Position = loaders.Floats(light.Position)
		case lights.LightTypeDirectional:
			ld.Direction = loaders.Floats(light.Direction)
		}
		file.Lights = append(file.Lights, ld)
	}

	return file
}
