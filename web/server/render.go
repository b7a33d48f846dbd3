package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-tinyray/pkg/core"
	"github.com/df07/go-tinyray/pkg/output"
	"github.com/df07/go-tinyray/pkg/overlay"
	"github.com/df07/go-tinyray/pkg/renderer"
	"github.com/disintegration/imaging"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX      int    `json:"tileX"`
	TileY      int    `json:"tileY"`
	X          int    `json:"x"` // Pixel position of the tile's top-left corner
	Y          int    `json:"y"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this tile
	TileNumber int    `json:"tileNumber"` // Current tile number (1-based)
	TotalTiles int    `json:"totalTiles"` // Total number of tiles in the image
}

// RenderSummary is sent once a streamed render completes
type RenderSummary struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Workers     int     `json:"workers"`
	HitPixels   int     `json:"hitPixels"`
	TotalPixels int     `json:"totalPixels"`
	Coverage    float64 `json:"coverage"`
	ElapsedMs   int64   `json:"elapsedMs"`
}

// handleRender renders a scene and returns the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseSceneParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	format, err := output.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	img, err := s.renderImage(r.Context(), req, newRenderLogger())
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, img, format); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", output.ContentType(format))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Error writing image: %v", err)
	}
}

// renderImage renders the requested scene and applies the watermark
func (s *Server) renderImage(ctx context.Context, req *SceneRequest, logger core.Logger) (*image.RGBA, error) {
	sceneObj, config, err := s.createScene(req)
	if err != nil {
		return nil, err
	}

	frame, _, err := renderer.Render(ctx, sceneObj, config, logger)
	if err != nil {
		return nil, err
	}

	img := frame.ToRGBA()
	if req.Watermark {
		overlay.DefaultWatermark(img.Bounds().Dy()).Draw(img)
	}
	return img, nil
}

// handleRenderStream renders a scene and streams each finished tile via SSE
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)
	sse := newSSEWriter(w)

	req, err := s.parseSceneParams(r)
	if err != nil {
		sse.send("error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging; messages are flushed between tiles
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	logger := NewWebLogger(renderID, consoleChan)

	sceneObj, config, err := s.createScene(req)
	if err != nil {
		sse.send("error", err.Error())
		return
	}

	pr, err := renderer.NewParallelRenderer(sceneObj, config, logger)
	if err != nil {
		sse.send("error", err.Error())
		return
	}

	ctx := r.Context()
	startTime := time.Now()

	frame, stats, err := pr.Render(ctx, func(result renderer.TileCompletionResult) {
		sse.sendConsole(consoleChan)
		sendTileUpdate(sse, result)
	})
	sse.sendConsole(consoleChan)
	if err != nil {
		sse.send("error", fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	summary := RenderSummary{
		Width:       frame.Width,
		Height:      frame.Height,
		Workers:     stats.Workers,
		HitPixels:   stats.HitPixels,
		TotalPixels: stats.TotalPixels,
		Coverage:    stats.Coverage(),
		ElapsedMs:   time.Since(startTime).Milliseconds(),
	}
	data, err := json.Marshal(summary)
	if err != nil {
		log.Printf("Error marshaling render summary: %v", err)
		return
	}
	sse.send("complete", string(data))
}

// sendTileUpdate encodes one finished tile and sends it as a tile event
func sendTileUpdate(sse *sseWriter, result renderer.TileCompletionResult) {
	tileData, err := imageToBase64PNG(result.TileImage)
	if err != nil {
		log.Printf("Error encoding tile image (%d, %d): %v", result.TileX, result.TileY, err)
		return
	}

	update := TileUpdate{
		TileX:      result.TileX,
		TileY:      result.TileY,
		X:          result.Bounds.Min.X,
		Y:          result.Bounds.Min.Y,
		ImageData:  tileData,
		TileNumber: result.TileNumber,
		TotalTiles: result.TotalTiles,
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling tile update: %v", err)
		return
	}
	sse.send("tile", string(data))
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sseWriter writes events from the handler goroutine only
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	failed  bool
}

func newSSEWriter(w http.ResponseWriter) *sseWriter {
	flusher, _ := w.(http.Flusher)
	return &sseWriter{w: w, flusher: flusher}
}

// send writes one event. After a failed write the client is gone and later events are dropped.
func (s *sseWriter) send(event, data string) {
	if s.failed {
		return
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		s.failed = true
		return
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
}

// sendConsole forwards every queued console message without blocking
func (s *sseWriter) sendConsole(consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}
			s.send("console", string(data))
		default:
			return
		}
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.Encode(&buf, img, imaging.PNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
