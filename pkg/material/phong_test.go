package material

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/df07/go-tinyray/pkg/core"
)

func TestMaterial_HasSpecular(t *testing.T) {
	if NewMatte(core.NewVec3(255, 255, 255)).HasSpecular() {
		t.Error("Matte material should not have specular")
	}
	if !New(core.NewVec3(255, 255, 255), 10).HasSpecular() {
		t.Error("Material with exponent 10 should have specular")
	}
	// Zero is a valid exponent, only -1 disables specular
	if !New(core.NewVec3(255, 255, 255), 0).HasSpecular() {
		t.Error("Material with exponent 0 should have specular")
	}
}

func TestMaterial_Shade(t *testing.T) {
	red := New(core.NewVec3(255, 0, 57), 10)

	tests := []struct {
		name      string
		intensity float32
		expected  core.Vec3
	}{
		{"full intensity", 1.0, core.NewVec3(255, 0, 57)},
		{"half intensity", 0.5, core.NewVec3(127.5, 0, 28.5)},
		{"over exposed", 2.0, core.NewVec3(255, 0, 114)},
		{"negative intensity", -0.5, core.NewVec3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := red.Shade(tt.intensity)
			if got.Subtract(tt.expected).Length() > 1e-4 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestMaterial_Validate(t *testing.T) {
	if err := New(core.NewVec3(1, 2, 3), 500).Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := New(core.NewVec3(math32.NaN(), 2, 3), 500).Validate(); err == nil {
		t.Error("Expected error for NaN diffuse")
	}
	if err := New(core.NewVec3(1, 2, 3), math32.Inf(1)).Validate(); err == nil {
		t.Error("Expected error for infinite specular")
	}
}
