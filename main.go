package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/df07/go-tinyray/pkg/config"
	"github.com/df07/go-tinyray/pkg/core"
	"github.com/df07/go-tinyray/pkg/output"
	"github.com/df07/go-tinyray/pkg/overlay"
	"github.com/df07/go-tinyray/pkg/publish"
	"github.com/df07/go-tinyray/pkg/renderer"
	"github.com/df07/go-tinyray/pkg/scene"
)

// options holds the resolved command line settings
type options struct {
	Scene     string
	ScenesDir string
	Output    string
	EnvFile   string
	Width     int
	Height    int
	FOV       float64
	Workers   int
	Scale     int
	Watermark bool
	Upload    bool
	Help      bool
}

func main() {
	args := os.Args[1:]
	envFile := envFileFromArgs(args)

	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	fs, opts := newFlagSet(cfg)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printHelp(os.Stdout, fs, opts.ScenesDir)
			return
		}
		os.Exit(2)
	}

	// Show help if requested
	if opts.Help {
		printHelp(os.Stdout, fs, opts.ScenesDir)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Starting tinyray...")
	logger := renderer.NewDefaultLogger()

	var uploader *publish.Uploader
	if opts.Upload {
		uploader, err = publish.NewUploader(cfg.S3, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	location, err := run(ctx, *opts, uploader, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render saved as %s\n", opts.Output)
	if location != "" {
		fmt.Printf("Render published to %s\n", location)
	}
}

// envFileFromArgs finds the -env flag before the full flag set is built,
// so values from the file can become flag defaults.
func envFileFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if value, ok := strings.CutPrefix(name, "env="); ok {
			return value
		}
		if name == "env" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return config.DefaultEnvFile
}

// newFlagSet defines every flag with its default taken from cfg
func newFlagSet(cfg config.Config) (*flag.FlagSet, *options) {
	opts := &options{}
	fs := flag.NewFlagSet("tinyray", flag.ContinueOnError)

	fs.StringVar(&opts.Scene, "scene", cfg.Scene, "Scene name ('default', 'single', 'empty'), a scene in the scenes directory, or a .json file")
	fs.StringVar(&opts.ScenesDir, "scenes-dir", cfg.ScenesDir, "Directory searched for named scene files")
	fs.StringVar(&opts.Output, "output", cfg.Output, "Output file; the extension selects the format (bmp, png, jpg, gif, tiff)")
	fs.StringVar(&opts.EnvFile, "env", config.DefaultEnvFile, "Environment file read before flags are applied")
	fs.IntVar(&opts.Width, "width", cfg.Width, "Image width in pixels (0 = scene default)")
	fs.IntVar(&opts.Height, "height", cfg.Height, "Image height in pixels (0 = scene default)")
	fs.Float64Var(&opts.FOV, "fov", cfg.FOV, "Horizontal field of view in radians (0 = scene default)")
	fs.IntVar(&opts.Workers, "workers", cfg.Workers, "Number of parallel workers (0 = auto-detect CPU count)")
	fs.IntVar(&opts.Scale, "scale", cfg.Scale, "Integer upscale factor applied after rendering")
	fs.BoolVar(&opts.Watermark, "watermark", cfg.Watermark, "Draw the watermark in the bottom-left corner")
	fs.BoolVar(&opts.Upload, "upload", false, "Publish the render to the configured S3 bucket")
	fs.BoolVar(&opts.Help, "help", false, "Show help information")

	return fs, opts
}

func printHelp(w io.Writer, fs *flag.FlagSet, scenesDir string) {
	fmt.Fprintln(w, "tinyray - sphere ray caster")
	fmt.Fprintln(w, "Usage: tinyray [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")

	scenes, err := scene.ListScenes(scenesDir, nil)
	if err != nil {
		fmt.Fprintf(w, "  (failed to list scenes: %v)\n", err)
		return
	}
	for _, s := range scenes {
		fmt.Fprintf(w, "  %-12s %s\n", s.ID, s.Description)
	}
}

// createScene resolves a scene by name and validates it
func createScene(name, scenesDir string) (*scene.Scene, error) {
	s, err := scene.Create(name, scenesDir)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// renderConfig layers the scene's camera settings and then the flags over the defaults
func renderConfig(s *scene.Scene, opts options) renderer.Config {
	base := s.RenderConfig(renderer.DefaultConfig())
	return renderer.MergeConfig(base, renderer.Config{
		Width:      opts.Width,
		Height:     opts.Height,
		FOV:        float32(opts.FOV),
		NumWorkers: opts.Workers,
	})
}

// renderImage renders a scene and applies the watermark and scaling
func renderImage(ctx context.Context, s *scene.Scene, opts options, logger core.Logger) (image.Image, error) {
	frame, stats, err := renderer.Render(ctx, s, renderConfig(s, opts), logger)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}
	logger.Printf("Coverage: %.1f%% of pixels hit geometry\n", stats.Coverage()*100)

	img := frame.ToRGBA()
	if opts.Watermark {
		overlay.DefaultWatermark(img.Bounds().Dy()).Draw(img)
	}
	return output.Scale(img, opts.Scale), nil
}

// run renders, saves and optionally publishes one image. It returns the
// published location, or an empty string when nothing was uploaded.
func run(ctx context.Context, opts options, uploader *publish.Uploader, logger core.Logger) (string, error) {
	s, err := createScene(opts.Scene, opts.ScenesDir)
	if err != nil {
		return "", err
	}
	logger.Printf("Using scene %q (%d spheres, %d lights)\n", s.Name, len(s.Spheres), len(s.Lights))

	img, err := renderImage(ctx, s, opts, logger)
	if err != nil {
		return "", err
	}

	if err := output.Save(opts.Output, img); err != nil {
		return "", err
	}

	if uploader == nil {
		return "", nil
	}

	format, err := output.FormatFromFilename(opts.Output)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := output.Encode(&buf, img, format); err != nil {
		return "", err
	}
	return uploader.Upload(ctx, filepath.Base(opts.Output), buf.Bytes(), output.ContentType(format))
}
