package main

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/df07/go-tinyray/pkg/config"
	"github.com/df07/go-tinyray/pkg/overlay"
	"github.com/df07/go-tinyray/pkg/publish"
	"github.com/df07/go-tinyray/pkg/renderer"
	"github.com/df07/go-tinyray/pkg/scene"
	"github.com/disintegration/imaging"
)

type quietLogger struct{}

func (quietLogger) Printf(string, ...interface{}) {}

// fakeS3 records uploaded objects
type fakeS3 struct {
	s3iface.S3API
	keys   []string
	types  []string
	bodies [][]byte
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.keys = append(f.keys, aws.StringValue(input.Key))
	f.types = append(f.types, aws.StringValue(input.ContentType))
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestEnvFileFromArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"no flags", nil, ".env"},
		{"separate value", []string{"-scene", "single", "-env", "prod.env"}, "prod.env"},
		{"equals form", []string{"--env=staging.env"}, "staging.env"},
		{"after terminator", []string{"--", "-env", "x.env"}, ".env"},
		{"missing value", []string{"-env"}, ".env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := envFileFromArgs(tt.args); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNewFlagSet_DefaultsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Scene = "single"
	cfg.Width = 123
	cfg.Watermark = false

	fs, opts := newFlagSet(cfg)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if opts.Scene != "single" || opts.Width != 123 || opts.Watermark {
		t.Errorf("Expected config values as defaults, got %+v", opts)
	}

	fs, opts = newFlagSet(cfg)
	if err := fs.Parse([]string{"-scene", "empty", "-width", "50", "-watermark=true", "-scale", "3"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if opts.Scene != "empty" || opts.Width != 50 || !opts.Watermark || opts.Scale != 3 {
		t.Errorf("Expected flags to override config, got %+v", opts)
	}
}

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", false},
		{"single scene", "single", false},
		{"empty scene", "empty", false},

		// Scene files
		{"scene file by name", "tinyray", false},
		{"scene file by path", "scenes/matte-pair.json", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"invalid path", "scenes/nonexistent.json", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := createScene(tt.sceneType, "scenes")

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if s != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if s == nil {
				t.Fatalf("Expected scene for valid scene type '%s', got nil", tt.sceneType)
			}
		})
	}

	if _, err := createScene("nonexistent", "scenes"); !errors.Is(err, scene.ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestRenderConfig_Precedence(t *testing.T) {
	s := &scene.Scene{Camera: scene.CameraSettings{Width: 320, Height: 240, FOV: 0.8}}

	config := renderConfig(s, options{})
	if config.Width != 320 || config.Height != 240 || config.FOV != 0.8 {
		t.Errorf("Expected scene settings, got %+v", config)
	}

	config = renderConfig(s, options{Width: 64, FOV: 0.5, Workers: 2})
	if config.Width != 64 || config.Height != 240 || config.FOV != 0.5 || config.NumWorkers != 2 {
		t.Errorf("Expected flags to override scene settings, got %+v", config)
	}

	config = renderConfig(&scene.Scene{}, options{})
	if config != renderer.DefaultConfig() {
		t.Errorf("Expected renderer defaults, got %+v", config)
	}
}

func TestRun_SavesImage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "renders", "single.png")
	opts := options{
		Scene:     "single",
		ScenesDir: "scenes",
		Output:    out,
		Width:     41,
		Height:    41,
		Scale:     2,
	}

	location, err := run(context.Background(), opts, nil, quietLogger{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if location != "" {
		t.Errorf("Expected no upload location, got %q", location)
	}

	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	if img.Bounds().Dx() != 82 || img.Bounds().Dy() != 82 {
		t.Fatalf("Expected 82x82 after scaling, got %v", img.Bounds())
	}

	// The sphere fills the centre with white and the corner shows the background
	if c := color.RGBAModel.Convert(img.At(41, 41)).(color.RGBA); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("Expected white centre, got %v", c)
	}
	bg := renderer.Background(0, 0, 41, 41)
	if c := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA); c != (color.RGBA{bg[0], bg[1], bg[2], 255}) {
		t.Errorf("Expected background corner, got %v", c)
	}
}

func TestRun_Watermark(t *testing.T) {
	out := filepath.Join(t.TempDir(), "marked.bmp")
	opts := options{Scene: "empty", Output: out, Width: 300, Height: 120, Scale: 1, Watermark: true}

	if _, err := run(context.Background(), opts, nil, quietLogger{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}

	w := overlay.DefaultWatermark(120)
	// Cell (1, 1) is part of the letter M
	x, y := w.X+w.Step()+1, w.Y+w.Step()+1
	if c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("Expected white watermark cell at (%d,%d), got %v", x, y, c)
	}
}

func TestRun_Upload(t *testing.T) {
	fake := &fakeS3{}
	uploader := publish.NewUploaderWithClient(fake, config.S3Config{Bucket: "renders", Prefix: "cli"}, quietLogger{})
	out := filepath.Join(t.TempDir(), "upload.png")
	opts := options{Scene: "single", Output: out, Width: 16, Height: 16, Scale: 1}

	location, err := run(context.Background(), opts, uploader, quietLogger{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if location != "s3://renders/cli/upload.png" {
		t.Errorf("Unexpected location %q", location)
	}
	if len(fake.keys) != 1 || fake.keys[0] != "cli/upload.png" || fake.types[0] != "image/png" {
		t.Fatalf("Unexpected upload keys=%v types=%v", fake.keys, fake.types)
	}

	saved, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !bytes.Equal(saved, fake.bodies[0]) {
		t.Error("Uploaded bytes differ from the saved file")
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    options
		errText string
	}{
		{"unknown scene", options{Scene: "nope", Output: filepath.Join(dir, "a.bmp"), Scale: 1}, "unknown scene"},
		{"unsupported format", options{Scene: "single", Output: filepath.Join(dir, "a.webp"), Width: 8, Height: 8, Scale: 1}, "unsupported image format"},
		{"invalid size", options{Scene: "single", Output: filepath.Join(dir, "a.bmp"), Width: -4, Scale: 1}, "invalid render config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(context.Background(), tt.opts, nil, quietLogger{})
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("Expected error containing %q, got %v", tt.errText, err)
			}
		})
	}
}

func TestPrintHelp(t *testing.T) {
	fs, _ := newFlagSet(config.Default())
	var buf bytes.Buffer
	printHelp(&buf, fs, "scenes")

	text := buf.String()
	for _, want := range []string{"-scene", "-upload", "default", "single", "empty", "tinyray"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected help to mention %q", want)
		}
	}
}
