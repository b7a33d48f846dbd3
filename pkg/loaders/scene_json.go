package loaders

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-tinyray/pkg/core"
	"github.com/df07/go-tinyray/pkg/lights"
)

// SceneFile is the on-disk description of a scene
type SceneFile struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Camera      *CameraData  `json:"camera,omitempty"`
	Spheres     []SphereData `json:"spheres"`
	Lights      []LightData  `json:"lights"`
}

// CameraData holds optional render overrides. Zero values keep the renderer defaults.
type CameraData struct {
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	FOV    float32 `json:"fov,omitempty"`
	Near   float32 `json:"near,omitempty"`
	Far    float32 `json:"far,omitempty"`
}

// SphereData describes one sphere
type SphereData struct {
	Center   []float32    `json:"center"`
	Radius   float32      `json:"radius"`
	Material MaterialData `json:"material"`
}

// MaterialData describes a surface. A missing specular exponent disables highlights.
type MaterialData struct {
	Diffuse  []float32 `json:"diffuse"`
	Specular *float32  `json:"specular,omitempty"`
}

// LightData describes one light source
type LightData struct {
	Type      string    `json:"type"`
	Intensity float32   `json:"intensity"`
	Position  []float32 `json:"position,omitempty"`
	Direction []float32 `json:"direction,omitempty"`
}

// ParseSceneJSON decodes a scene description and checks its structure
func ParseSceneJSON(reader io.Reader) (*SceneFile, error) {
	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()

	var file SceneFile
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	if err := file.check(); err != nil {
		return nil, err
	}
	return &file, nil
}

// LoadSceneJSON loads and parses a scene file
func LoadSceneJSON(filename string) (*SceneFile, error) {
	if err := validateScenePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	scene, err := ParseSceneJSON(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return scene, nil
}

// WriteSceneJSON encodes a scene description with indentation
func WriteSceneJSON(writer io.Writer, file *SceneFile) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(file); err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	return nil
}

// check validates vector lengths and light types
func (f *SceneFile) check() error {
	for i, sphere := range f.Spheres {
		if err := checkVector(sphere.Center); err != nil {
			return fmt.Errorf("sphere %d center: %w", i, err)
		}
		if err := checkVector(sphere.Material.Diffuse); err != nil {
			return fmt.Errorf("sphere %d diffuse: %w", i, err)
		}
	}

	for i, light := range f.Lights {
		lightType, err := lights.ParseLightType(light.Type)
		if err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
		switch lightType {
		case lights.LightTypePoint:
			if err := checkVector(light.Position); err != nil {
				return fmt.Errorf("light %d position: %w", i, err)
			}
		case lights.LightTypeDirectional:
			if err := checkVector(light.Direction); err != nil {
				return fmt.Errorf("light %d direction: %w", i, err)
			}
		}
	}
	return nil
}

func checkVector(values []float32) error {
	if len(values) != 3 {
		return fmt.Errorf("expected 3 components, got %d", len(values))
	}
	return nil
}

// Vec converts a checked three-component list to a vector
func Vec(values []float32) core.Vec3 {
	if len(values) != 3 {
		return core.Zero
	}
	return core.NewVec3(values[0], values[1], values[2])
}

// Floats converts a vector to its JSON form
func Floats(v core.Vec3) []float32 {
	return []float32{v.X, v.Y, v.Z}
}

// validateScenePath rejects paths that cannot name a scene file
func validateScenePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Check for null bytes (could indicate path manipulation)
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	cleanPath := filepath.Clean(filename)
	if !strings.HasSuffix(strings.ToLower(cleanPath), ".json") {
		return fmt.Errorf("invalid file type: only .json files are allowed")
	}

	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}

	return nil
}
