package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-tinyray/pkg/core"
	"github.com/df07/go-tinyray/pkg/geometry"
	"github.com/df07/go-tinyray/pkg/material"
	"github.com/df07/go-tinyray/pkg/renderer"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit         bool                   `json:"hit"`
	SphereIndex int                    `json:"sphereIndex"`
	Point       [3]float32             `json:"point"`
	Normal      [3]float32             `json:"normal"`
	Direction   [3]float32             `json:"direction"`
	Distance    float32                `json:"distance"`
	Intensity   float32                `json:"intensity"`
	Color       string                 `json:"color"` // Final pixel color as #rrggbb
	Properties  map[string]interface{} `json:"properties,omitempty"`
}

func vecArray(v core.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func hexColor(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// extractMaterialInfo describes a sphere's material
func extractMaterialInfo(mat material.Material) map[string]interface{} {
	properties := map[string]interface{}{
		"diffuse": vecArray(mat.Diffuse),
		"color":   hexColor(vec3Bytes(mat.Diffuse)),
	}
	if mat.HasSpecular() {
		properties["specular"] = mat.Specular
	}
	return properties
}

// extractGeometryInfo describes a sphere's shape
func extractGeometryInfo(sphere geometry.Sphere) map[string]interface{} {
	return map[string]interface{}{
		"center": vecArray(sphere.Center),
		"radius": sphere.Radius,
	}
}

func vec3Bytes(v core.Vec3) [3]uint8 {
	c := v.Clamp(0, 255)
	return [3]uint8{uint8(c.X), uint8(c.Y), uint8(c.Z)}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseSceneParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, config, err := s.createScene(req)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}
	if err := config.Validate(); err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}
	if err := sceneObj.Validate(); err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	// Validate pixel coordinates against the resolved image size
	if pixelX < 0 || pixelX >= config.Width || pixelY < 0 || pixelY >= config.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	result := renderer.NewRaytracer(sceneObj, config).Inspect(pixelX, pixelY)

	response := InspectResponse{
		Hit:         result.Hit,
		SphereIndex: result.SphereIndex,
		Direction:   vecArray(result.Direction),
		Color:       hexColor(result.Color),
	}
	if result.Hit {
		sphere := sceneObj.Spheres[result.SphereIndex]
		response.Point = vecArray(result.Point)
		response.Normal = vecArray(result.Normal)
		response.Distance = result.Distance
		response.Intensity = result.Intensity
		response.Properties = map[string]interface{}{
			"material": extractMaterialInfo(sphere.Material),
			"geometry": extractGeometryInfo(sphere),
		}
	}

	writeJSON(w, http.StatusOK, response)
}
