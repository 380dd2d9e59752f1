package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/artistsagainsttaupe/api/internal/domain"
	"github.com/artistsagainsttaupe/api/internal/service"
)

// PostHandler handles blog post CRUD and editor image management.
type PostHandler struct {
	posts *service.PostService
	auth  *service.AuthService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *service.PostService, auth *service.AuthService) *PostHandler {
	return &PostHandler{posts: posts, auth: auth}
}

type postRequest struct {
	ID        string   `json:"id"`
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Excerpt   string   `json:"excerpt"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Image     *string  `json:"image"`
	Published bool     `json:"published"`
	Date      string   `json:"date"`
}

func (req *postRequest) toDomain() *domain.BlogPost {
	return &domain.BlogPost{
		ID:        req.ID,
		Slug:      req.Slug,
		Title:     req.Title,
		Author:    req.Author,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Tags:      req.Tags,
		Image:     req.Image,
		Published: req.Published,
		Date:      req.Date,
	}
}

// HandleList returns all posts, unpublished ones included only for the
// admin.
// GET /api/blog/posts
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	isAdmin := h.auth.ValidateBearer(bearerToken(r)) == nil

	posts, err := h.posts.List(r.Context(), isAdmin)
	if err != nil {
		writeDomainError(w, err, "Post not found", "fetch posts")
		return
	}

	writeJSON(w, http.StatusOK, toPostDTOs(posts))
}

// HandleCreate creates a post and records its image references.
// POST /api/blog/posts
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post := req.toDomain()
	if err := h.posts.Create(r.Context(), post); err != nil {
		writeDomainError(w, err, "Post not found", "create post")
		return
	}

	writeJSON(w, http.StatusCreated, toPostDTO(post))
}

// HandleGet returns a single post by id or slug.
// GET /api/blog/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err, "Post not found", "fetch post")
		return
	}

	writeJSON(w, http.StatusOK, toPostDTO(post))
}

// HandleUpdate rewrites a post and replaces its image references.
// PUT /api/blog/{id}
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post := req.toDomain()
	post.ID = r.PathValue("id")

	if err := h.posts.Update(r.Context(), post); err != nil {
		writeDomainError(w, err, "Post not found", "update post")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleDelete removes a post after purging images nobody else uses.
// DELETE /api/blog/{id}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err, "Post not found", "delete post")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleImageUpload stores an editor image and returns its delivery
// URLs. The image is tracked once post content referencing it is saved.
// POST /api/blog/images
func (h *PostHandler) HandleImageUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "File too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("read upload", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}

	uploaded, err := h.posts.UploadImage(r.Context(), header.Filename, data)
	if err != nil {
		writeDomainError(w, err, "Image not found", "upload image")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"id":       uploaded.ID,
		"url":      uploaded.URL,
		"variants": uploaded.Variants,
	})
}

// HandleImageDelete removes an editor-uploaded image from the store
// and drops any reference rows posts still hold for it. Used by the
// admin editor to discard uploads that never made it into content.
// DELETE /api/images/{id}
func (h *PostHandler) HandleImageDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.DeleteImage(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err, "Image not found", "delete image")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
