package renderer

import (
	"image"
	"testing"
)

func TestNewTileGrid(t *testing.T) {
	// Test tile grid generation for a 400x225 image with 64x64 tiles
	width, height, tileSize := 400, 225, 64
	tiles := NewTileGrid(width, height, tileSize)

	expectedTilesX := (width + tileSize - 1) / tileSize   // 7 tiles
	expectedTilesY := (height + tileSize - 1) / tileSize  // 4 tiles
	expectedTotalTiles := expectedTilesX * expectedTilesY // 28 tiles

	if len(tiles) != expectedTotalTiles {
		t.Errorf("Expected %d tiles, got %d", expectedTotalTiles, len(tiles))
	}

	// Tiles must cover the entire image without gaps or overlaps
	covered := make([][]bool, height)
	for y := range covered {
		covered[y] = make([]bool, width)
	}

	for i, tile := range tiles {
		if tile.ID != i {
			t.Errorf("Expected tile ID %d, got %d", i, tile.ID)
		}
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				if x >= width || y >= height {
					t.Fatalf("Tile %d extends beyond image bounds at (%d,%d)", tile.ID, x, y)
				}
				if covered[y][x] {
					t.Errorf("Pixel (%d,%d) is covered by multiple tiles", x, y)
				}
				covered[y][x] = true
			}
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !covered[y][x] {
				t.Errorf("Pixel (%d,%d) is not covered by any tile", x, y)
			}
		}
	}
}

func TestNewTileGrid_TileLargerThanImage(t *testing.T) {
	tiles := NewTileGrid(10, 5, 64)
	if len(tiles) != 1 {
		t.Fatalf("Expected a single tile, got %d", len(tiles))
	}
	if tiles[0].Bounds != image.Rect(0, 0, 10, 5) {
		t.Errorf("Expected bounds clipped to the image, got %v", tiles[0].Bounds)
	}
}

func TestTileRenderer_WritesOnlyInsideBounds(t *testing.T) {
	config := DefaultConfig()
	config.Width, config.Height = 33, 33
	rt := NewRaytracer(newSingleSphereScene(), config)
	tr := NewTileRenderer(rt)

	frame := NewFrame(config.Width, config.Height)
	bounds := image.Rect(8, 8, 25, 25)
	stats := tr.RenderTileBounds(bounds, frame)

	if stats.TotalPixels != 17*17 {
		t.Errorf("Expected %d pixels, got %d", 17*17, stats.TotalPixels)
	}
	if stats.HitPixels+stats.BackgroundPixels != stats.TotalPixels {
		t.Errorf("Hit and background pixels should add up to the total: %+v", stats)
	}
	if stats.HitPixels == 0 {
		t.Error("Expected the central tile to show the sphere")
	}
	if stats.Tiles != 1 {
		t.Errorf("Expected 1 tile, got %d", stats.Tiles)
	}

	for y := 0; y < config.Height; y++ {
		for x := 0; x < config.Width; x++ {
			got := frame.RGBAt(x, y)
			inside := image.Point{x, y}.In(bounds)
			if !inside && got != [3]uint8{} {
				t.Fatalf("Pixel (%d,%d) outside the tile was written: %v", x, y, got)
			}
			if inside {
				expected, _ := rt.PixelColor(x, y)
				if got != expected {
					t.Fatalf("Pixel (%d,%d): expected %v, got %v", x, y, expected, got)
				}
			}
		}
	}
}

func TestRenderStats_AddAndCoverage(t *testing.T) {
	var stats RenderStats
	if stats.Coverage() != 0 {
		t.Errorf("Expected zero coverage for empty stats, got %f", stats.Coverage())
	}

	stats.Add(RenderStats{TotalPixels: 100, HitPixels: 25, BackgroundPixels: 75, Tiles: 1})
	stats.Add(RenderStats{TotalPixels: 100, HitPixels: 75, BackgroundPixels: 25, Tiles: 1})

	if stats.TotalPixels != 200 || stats.HitPixels != 100 || stats.BackgroundPixels != 100 {
		t.Errorf("Unexpected totals %+v", stats)
	}
	if stats.Tiles != 2 {
		t.Errorf("Expected 2 tiles, got %d", stats.Tiles)
	}
	if stats.Coverage() != 0.5 {
		t.Errorf("Expected coverage 0.5, got %f", stats.Coverage())
	}
}
