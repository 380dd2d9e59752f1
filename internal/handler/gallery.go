package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/artistsagainsttaupe/api/internal/domain"
	"github.com/artistsagainsttaupe/api/internal/service"
)

// Multipart parse limit for image uploads (per request).
const maxUploadBytes = 32 << 20

// GalleryHandler handles gallery CRUD and gallery image operations.
type GalleryHandler struct {
	galleries *service.GalleryService
	store     domain.ImageStore
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(galleries *service.GalleryService, store domain.ImageStore) *GalleryHandler {
	return &GalleryHandler{galleries: galleries, store: store}
}

// HandleList returns all galleries with image counts.
// GET /api/galleries
func (h *GalleryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	galleries, err := h.galleries.ListGalleries(r.Context())
	if err != nil {
		writeDomainError(w, err, "Gallery not found", "fetch galleries")
		return
	}

	dtos := make([]GalleryDTO, len(galleries))
	for i := range galleries {
		dtos[i] = toGalleryDTO(&galleries[i], nil)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// HandleCreate creates a gallery.
// POST /api/galleries
func (h *GalleryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Date        string `json:"date"`
		Location    string `json:"location"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	gallery := &domain.Gallery{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	}
	if err := h.galleries.CreateGallery(r.Context(), gallery); err != nil {
		writeDomainError(w, err, "Gallery not found", "create gallery")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": gallery.ID})
}

// HandleGet returns a gallery with its images in display order.
// GET /api/galleries/{id}
func (h *GalleryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	gallery, images, err := h.galleries.GetGallery(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err, "Gallery not found", "fetch gallery")
		return
	}

	gallery.ImageCount = len(images)
	writeJSON(w, http.StatusOK, toGalleryDTO(gallery, toGalleryImageDTOs(images, h.store)))
}

// HandleUpdate writes new gallery metadata.
// PUT /api/galleries/{id}
func (h *GalleryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Date        string `json:"date"`
		Location    string `json:"location"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	gallery := &domain.Gallery{
		ID:          r.PathValue("id"),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	}
	if err := h.galleries.UpdateGallery(r.Context(), gallery); err != nil {
		writeDomainError(w, err, "Gallery not found", "update gallery")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleDelete removes a gallery, its images, and their stored copies.
// DELETE /api/galleries/{id}
func (h *GalleryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.galleries.DeleteGallery(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err, "Gallery not found", "delete gallery")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleUploadImages accepts a multipart batch of files. Each file is
// an independent operation; the response carries per-file outcomes.
// POST /api/galleries/{id}/images
func (h *GalleryHandler) HandleUploadImages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	files := make([]service.UploadFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Unreadable file: "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Unreadable file: "+fh.Filename)
			return
		}
		files = append(files, service.UploadFile{Filename: fh.Filename, Data: data})
	}

	results, err := h.galleries.UploadImages(r.Context(), r.PathValue("id"), files)
	if err != nil {
		writeDomainError(w, err, "Gallery not found", "upload images")
		return
	}

	var images []GalleryImageDTO
	var failed []map[string]string
	for _, res := range results {
		if res.Err != nil {
			slog.Error("gallery image upload failed", "filename", res.Filename, "error", res.Err)
			failed = append(failed, map[string]string{"filename": res.Filename, "error": "Upload failed"})
			continue
		}
		images = append(images, toGalleryImageDTO(res.Image, h.store))
	}

	switch {
	case len(failed) == 0:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "images": images})
	case len(images) == 0:
		writeError(w, http.StatusInternalServerError, "Upload failed")
	default:
		writeJSON(w, http.StatusMultiStatus, map[string]any{
			"success": false,
			"images":  images,
			"failed":  failed,
		})
	}
}

// HandleUpdateImage edits one image's title and sort position.
// PUT /api/galleries/{id}/images/{imageId}
func (h *GalleryHandler) HandleUpdateImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string `json:"title"`
		SortOrder int    `json:"sort_order"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.galleries.UpdateImage(r.Context(), r.PathValue("imageId"), req.Title, req.SortOrder)
	if err != nil {
		writeDomainError(w, err, "Image not found", "update image")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleDeleteImage removes one gallery image.
// DELETE /api/galleries/{id}/images/{imageId}
func (h *GalleryHandler) HandleDeleteImage(w http.ResponseWriter, r *http.Request) {
	err := h.galleries.DeleteImage(r.Context(), r.PathValue("id"), r.PathValue("imageId"))
	if err != nil {
		writeDomainError(w, err, "Image not found", "delete image")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleReorder bulk-assigns sort positions. Partial failures return a
// per-item report; the client refetches to see true state.
// POST /api/galleries/{id}/images/reorder
func (h *GalleryHandler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReorderedImages []struct {
			ImageID  string `json:"imageId"`
			NewOrder int    `json:"newOrder"`
		} `json:"reorderedImages"`
	}
	if err := readJSON(r, &req); err != nil || req.ReorderedImages == nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	items := make([]service.ReorderItem, len(req.ReorderedImages))
	for i, it := range req.ReorderedImages {
		items[i] = service.ReorderItem{ImageID: it.ImageID, NewOrder: it.NewOrder}
	}

	results, err := h.galleries.Reorder(r.Context(), r.PathValue("id"), items)
	if err != nil {
		writeDomainError(w, err, "Gallery not found", "reorder images")
		return
	}

	type itemStatus struct {
		ImageID string `json:"imageId"`
		Updated bool   `json:"updated"`
		Error   string `json:"error,omitempty"`
	}
	statuses := make([]itemStatus, len(results))
	anyFailed := false
	for i, res := range results {
		statuses[i] = itemStatus{ImageID: res.ImageID, Updated: res.Updated}
		if res.Err != nil {
			slog.Error("reorder pair failed", "image_id", res.ImageID, "error", res.Err)
			statuses[i].Error = "Update failed"
			anyFailed = true
		}
	}

	if anyFailed {
		writeJSON(w, http.StatusMultiStatus, map[string]any{"success": false, "results": statuses})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
