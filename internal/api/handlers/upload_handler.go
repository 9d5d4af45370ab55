package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"

	"github.com/markdave123-py/uniconnect/internal/api/httpx"
	middleware "github.com/markdave123-py/uniconnect/internal/api/middlewares"
	"github.com/markdave123-py/uniconnect/internal/core"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// UploadHandler stores a multipart file and returns the URL it can be fetched from. Notes, projects,
// listings, events and lost items reference media by these URLs.
type UploadHandler struct {
	objectclient core.ObjectClient
	maxBytes     int64
}

func NewUploadHandler(objectclient core.ObjectClient, maxBytes int64) *UploadHandler {
	return &UploadHandler{objectclient: objectclient, maxBytes: maxBytes}
}

func sanitizeFilename(name string) string {
	clean := unsafeName.ReplaceAllString(filepath.Base(name), "_")
	if clean == "" || clean == "." || clean == "_" {
		return "file"
	}
	return clean
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.Error(w, "uploads", core.BadRequest("File is too large."))
			return
		}
		httpx.Error(w, "uploads", core.BadRequest("Invalid upload."))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Error(w, "uploads", core.BadRequest("Missing required fields: file."))
		return
	}
	defer file.Close()

	key := fmt.Sprintf("users/%s/uploads/%s/%s", middleware.UserID(r.Context()), uuid.NewString(), sanitizeFilename(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.objectclient.UploadFile(r.Context(), key, file, contentType)
	if err != nil {
		httpx.Error(w, "uploads", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"url": url})
}
