package server

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/df07/go-tinyray/pkg/output"
)

// PublishResponse reports where a published render was stored
type PublishResponse struct {
	Location    string `json:"location"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

// handlePublish renders a scene and uploads the encoded image to S3
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "Publishing requires POST")
		return
	}
	if s.uploader == nil {
		writeError(w, http.StatusServiceUnavailable, "Publishing is not configured")
		return
	}

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

	logger := newRenderLogger()
	img, err := s.renderImage(r.Context(), req, logger)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, img, format); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	name := fmt.Sprintf("%s-%dx%d-%d%s", req.Scene, img.Bounds().Dx(), img.Bounds().Dy(), time.Now().Unix(), output.Extension(format))
	contentType := output.ContentType(format)
	location, err := s.uploader.Upload(r.Context(), name, buf.Bytes(), contentType)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, PublishResponse{
		Location:    location,
		Key:         s.uploader.Key(name),
		ContentType: contentType,
		Size:        buf.Len(),
	})
}
