package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	HitPixels        int           // Pixels showing geometry
	BackgroundPixels int           // Pixels showing the background
	Tiles            int           // Number of tiles rendered
	Workers          int           // Number of workers used
	Duration         time.Duration // Wall time of the render
}

// Add accumulates pixel counts from another set of statistics
func (s *RenderStats) Add(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.HitPixels += other.HitPixels
	s.BackgroundPixels += other.BackgroundPixels
	s.Tiles += other.Tiles
}

// Coverage returns the fraction of pixels showing geometry
func (s RenderStats) Coverage() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.HitPixels) / float64(s.TotalPixels)
}
