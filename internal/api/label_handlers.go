package api

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cellarapp/cellar-server/internal/http/response"
	"github.com/cellarapp/cellar-server/internal/media/labels"
)

// Label routes use chi directly, huma's typed handlers do not fit
// multipart uploads and image streaming.
func (s *Server) registerLabelRoutes() {
	s.router.Post("/api/v1/bottles/{id}/label", s.handleUploadLabel)
	s.router.Get("/api/v1/bottles/{id}/label", s.handleGetLabel)
	s.router.Delete("/api/v1/bottles/{id}/label", s.handleDeleteLabel)
}

// handleUploadLabel handles label image uploads for a bottle.
// POST /api/v1/bottles/{id}/label
// Content-Type: multipart/form-data with "file" field
func (s *Server) handleUploadLabel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bottleID := chi.URLParam(r, "id")

	userID, err := GetUserID(ctx)
	if err != nil {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	// The bottle must exist and belong to the caller before we touch disk.
	if _, err := s.services.Bottle.GetBottle(ctx, userID, bottleID); err != nil {
		response.NotFound(w, "Bottle not found", s.logger)
		return
	}

	const maxUploadSize = 10 << 20 // 10MB
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.BadRequest(w, "Failed to parse form data", s.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file uploaded. Use 'file' field in multipart form", s.logger)
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		response.BadRequest(w, "File too large. Maximum size is 10MB", s.logger)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !labels.AllowedExtension(ext) {
		response.BadRequest(w, "Unsupported image format. Supported: PNG, JPEG, GIF, WebP", s.logger)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("failed to read uploaded label", "error", err, "bottle_id", bottleID)
		response.InternalError(w, "Failed to read uploaded file", s.logger)
		return
	}

	filename, err := s.labels.Save(bottleID, ext, data)
	if err != nil {
		s.logger.Error("failed to save label image", "error", err, "bottle_id", bottleID)
		response.InternalError(w, "Failed to save label image", s.logger)
		return
	}

	bottle, err := s.services.Bottle.SetLabel(ctx, userID, bottleID, filename)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.logger.Info("label uploaded",
		"bottle_id", bottleID,
		"filename", filename,
		"size", header.Size,
	)

	response.Success(w, bottle, s.logger)
}

// handleGetLabel streams a bottle's label image.
// GET /api/v1/bottles/{id}/label
func (s *Server) handleGetLabel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bottleID := chi.URLParam(r, "id")

	userID, err := GetUserID(ctx)
	if err != nil {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	bottle, err := s.services.Bottle.GetBottle(ctx, userID, bottleID)
	if err != nil {
		response.NotFound(w, "Bottle not found", s.logger)
		return
	}
	if bottle.Label == "" {
		response.NotFound(w, "Bottle has no label image", s.logger)
		return
	}

	data, err := s.labels.Get(bottle.Label)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			response.NotFound(w, "Label image not found", s.logger)
			return
		}
		s.logger.Error("failed to read label image", "error", err, "bottle_id", bottleID)
		response.InternalError(w, "Failed to read label image", s.logger)
		return
	}

	w.Header().Set("Content-Type", labelContentType(bottle.Label))
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// handleDeleteLabel removes a bottle's label image.
// DELETE /api/v1/bottles/{id}/label
func (s *Server) handleDeleteLabel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bottleID := chi.URLParam(r, "id")

	userID, err := GetUserID(ctx)
	if err != nil {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	bottle, err := s.services.Bottle.GetBottle(ctx, userID, bottleID)
	if err != nil {
		response.NotFound(w, "Bottle not found", s.logger)
		return
	}

	if bottle.Label != "" {
		if err := s.labels.Delete(bottleID); err != nil {
			s.logger.Warn("failed to delete label file", "bottle_id", bottleID, "error", err)
		}
	}

	if _, err := s.services.Bottle.SetLabel(ctx, userID, bottleID, ""); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// labelContentType maps a stored label filename to its MIME type.
func labelContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
