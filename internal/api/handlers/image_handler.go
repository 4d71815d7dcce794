package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avelez/photodeck-be/internal/apperrors"
	"github.com/avelez/photodeck-be/internal/services"
)

// multipartMemoryLimit bounds how much of a parsed form is held in memory;
// larger parts spill to temp files.
const multipartMemoryLimit = 32 << 20

// ImageHandler handles HTTP requests for image storage.
type ImageHandler struct {
	service services.ImageServiceProvider
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(service services.ImageServiceProvider) *ImageHandler {
	return &ImageHandler{service: service}
}

// Upload handles a multipart image upload. Expected fields: "file",
// "directory_name", and optionally "description".
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		writeError(w, r, apperrors.New(apperrors.KindValidation, "failed to parse multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperrors.New(apperrors.KindValidation, "missing file field"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, apperrors.Wrap(apperrors.KindValidation, "failed to read upload", err))
		return
	}

	asset, err := h.service.Upload(r.Context(), services.ImageUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Directory:   r.FormValue("directory_name"),
		Description: r.FormValue("description"),
		Data:        data,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, asset)
}

// List returns all images in a directory, newest first.
func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.service.List(r.Context(), chi.URLParam(r, "directory"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

// Serve writes the raw image bytes with the stored content type.
func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := h.service.GetData(r.Context(), chi.URLParam(r, "directory"), chi.URLParam(r, "file"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// Delete removes a stored image.
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "directory"), chi.URLParam(r, "file")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Directories lists all directories containing images.
func (h *ImageHandler) Directories(w http.ResponseWriter, r *http.Request) {
	directories, err := h.service.Directories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, directories)
}
