package transport

import (
	"net/http"
	"path/filepath"
	"strings"

	"markethub/internal/domain"
	"markethub/internal/middleware"
	"markethub/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// allowedImageExtensions are the only accepted upload types
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// UploadHandler handles product image uploads
type UploadHandler struct {
	store    *storage.DiskStore
	maxBytes int64
	logger   *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(store *storage.DiskStore, maxBytes int64, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		store:    store,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// RegisterRoutes registers the upload route
func (h *UploadHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/upload", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireRole(h.logger, domain.RoleVendor, domain.RoleAdmin))
		r.Post("/", h.Upload)
	})
}

// Upload handles a multipart image upload. Only jpg/jpeg/png are accepted and
// the request body is capped at the configured size.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		h.logger.Debug("Failed to parse multipart form", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid or oversized upload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		middleware.RespondWithError(w, http.StatusBadRequest, "only jpg, jpeg and png images are allowed")
		return
	}

	filename, err := h.store.Save(header.Filename, file)
	if err != nil {
		h.logger.Error("Failed to store upload", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	h.logger.Info("Image uploaded", zap.String("filename", filename))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"filename": filename,
		"path":     "/uploads/" + filename,
	})
}
