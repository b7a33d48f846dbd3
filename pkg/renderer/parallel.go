package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-tinyray/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX     int // Tile coordinates (not pixel coordinates)
	TileY     int
	Bounds    image.Rectangle
	TileImage *image.RGBA // Copy of the finished tile's pixels

	// Progress information
	TileNumber int // Current tile number (1-based)
	TotalTiles int // Total number of tiles in the image
}

// ParallelRenderer renders a frame by splitting it into tiles handled by a worker pool
type ParallelRenderer struct {
	config    Config
	tiles     []*Tile
	raytracer *Raytracer
	logger    core.Logger
}

// NewParallelRenderer validates the configuration and scene and prepares the tile grid
func NewParallelRenderer(scene Scene, config Config, logger core.Logger) (*ParallelRenderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if validator, ok := scene.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &ParallelRenderer{
		config:    config,
		tiles:     NewTileGrid(config.Width, config.Height, config.TileSize),
		raytracer: NewRaytracer(scene, config),
		logger:    logger,
	}, nil
}

// Raytracer returns the raytracer used for every pixel
func (pr *ParallelRenderer) Raytracer() *Raytracer {
	return pr.raytracer
}

// Render renders every tile once and returns the finished frame.
// tileCallback, when non-nil, is invoked from the calling goroutine as tiles complete.
// The output does not depend on the number of workers.
func (pr *ParallelRenderer) Render(ctx context.Context, tileCallback func(TileCompletionResult)) (*Frame, RenderStats, error) {
	startTime := time.Now()
	frame := NewFrame(pr.config.Width, pr.config.Height)

	workerPool := NewWorkerPool(ctx, pr.raytracer, len(pr.tiles), pr.config.NumWorkers)
	workerPool.Start()
	defer workerPool.Stop()

	pr.logger.Printf("Rendering %dx%d in %d tiles (using %d workers)...\n",
		pr.config.Width, pr.config.Height, len(pr.tiles), workerPool.GetNumWorkers())

	for taskID, tile := range pr.tiles {
		workerPool.SubmitTask(TileTask{
			Tile:   tile,
			TaskID: taskID,
			Frame:  frame,
		})
	}

	stats := RenderStats{Workers: workerPool.GetNumWorkers()}
	for i := 0; i < len(pr.tiles); i++ {
		select {
		case <-ctx.Done():
			pr.logger.Printf("Rendering cancelled after %d of %d tiles\n", i, len(pr.tiles))
			return nil, RenderStats{}, ctx.Err()
		default:
		}

		result, ok := workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return nil, RenderStats{}, result.Error
		}
		stats.Add(result.Stats)

		if tileCallback != nil {
			tile := pr.tiles[result.TaskID]
			tileCallback(TileCompletionResult{
				TileX:      tile.Bounds.Min.X / pr.config.TileSize,
				TileY:      tile.Bounds.Min.Y / pr.config.TileSize,
				Bounds:     tile.Bounds,
				TileImage:  frame.Crop(tile.Bounds),
				TileNumber: i + 1,
				TotalTiles: len(pr.tiles),
			})
		}
	}

	stats.Duration = time.Since(startTime)
	pr.logger.Printf("Render completed in %v (%d of %d pixels hit geometry)\n",
		stats.Duration, stats.HitPixels, stats.TotalPixels)

	return frame, stats, nil
}

// Render is a convenience wrapper that builds a ParallelRenderer and renders one frame
func Render(ctx context.Context, scene Scene, config Config, logger core.Logger) (*Frame, RenderStats, error) {
	pr, err := NewParallelRenderer(scene, config, logger)
	if err != nil {
		return nil, RenderStats{}, err
	}
	return pr.Render(ctx, nil)
}
