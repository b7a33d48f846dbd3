package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-tinyray/pkg/config"
	"github.com/df07/go-tinyray/pkg/core"
	"github.com/df07/go-tinyray/pkg/publish"
	"github.com/df07/go-tinyray/pkg/renderer"
	"github.com/df07/go-tinyray/pkg/scene"
)

// Request limits shared by every endpoint that renders
const (
	MinImageSize    = 16
	MaxImageSize    = 2000
	DefaultTileSize = 64
)

// Server handles web requests for the tinyray renderer
type Server struct {
	port      string
	scenesDir string
	watermark bool
	uploader  *publish.Uploader
	mux       *http.ServeMux
}

// NewServer creates a web server from the loaded configuration.
// uploader may be nil, in which case publishing is disabled.
func NewServer(cfg config.Config, uploader *publish.Uploader) *Server {
	s := &Server{
		port:      cfg.Port,
		scenesDir: cfg.ScenesDir,
		watermark: cfg.Watermark,
		uploader:  uploader,
		mux:       http.NewServeMux(),
	}

	// API endpoints
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	s.mux.HandleFunc("/api/publish", s.handlePublish)

	return s
}

// Handler returns the HTTP handler serving every endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := ":" + s.port
	log.Printf("Starting web server on http://localhost%s", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// SceneRequest holds the parameters common to rendering and inspection
type SceneRequest struct {
	Scene     string `json:"scene"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Workers   int    `json:"workers"`
	Watermark bool   `json:"watermark"`
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene files on disk
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListScenes(s.scenesDir, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type sceneEntry struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}
	entries := make([]sceneEntry, 0, len(scenes))
	for _, info := range scenes {
		entries = append(entries, sceneEntry{
			ID:          info.ID,
			DisplayName: info.DisplayName,
			Description: info.Description,
			Type:        info.Type,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scenes": entries,
		"limits": map[string]int{"min": MinImageSize, "max": MaxImageSize},
	})
}

// parseSceneParams parses the scene name, image size and worker count
func (s *Server) parseSceneParams(r *http.Request) (*SceneRequest, error) {
	query := r.URL.Query()
	req := &SceneRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	// Only registry names are accepted; file paths stay a CLI feature
	if strings.ContainsAny(req.Scene, `/\.`) {
		return nil, fmt.Errorf("invalid scene name: %q", req.Scene)
	}

	// A missing size keeps the scene's own camera settings
	var err error
	if req.Width, err = parseIntParam(query, "width", 0, MinImageSize, MaxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, MinImageSize, MaxImageSize); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", 0, 0, 64); err != nil {
		return nil, err
	}
	if req.Watermark, err = parseBoolParam(query, "watermark", s.watermark); err != nil {
		return nil, err
	}
	return req, nil
}

// createScene resolves the requested scene and its render configuration
func (s *Server) createScene(req *SceneRequest) (*scene.Scene, renderer.Config, error) {
	sceneObj, err := scene.Create(req.Scene, s.scenesDir)
	if err != nil {
		return nil, renderer.Config{}, err
	}

	config := sceneObj.RenderConfig(renderer.DefaultConfig())
	config = renderer.MergeConfig(config, renderer.Config{
		Width:      req.Width,
		Height:     req.Height,
		TileSize:   DefaultTileSize,
		NumWorkers: req.Workers,
	})
	return sceneObj, config, nil
}

// sceneErrorStatus maps scene lookup failures to HTTP status codes
func sceneErrorStatus(err error) int {
	switch {
	case errors.Is(err, scene.ErrUnknownScene):
		return http.StatusNotFound
	case errors.Is(err, scene.ErrInvalidScene), errors.Is(err, renderer.ErrInvalidConfig):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// newRenderLogger creates a logger tagged with a fresh render ID
func newRenderLogger() core.Logger {
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return NewWebLogger(renderID, nil)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
