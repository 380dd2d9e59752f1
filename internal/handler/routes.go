package handler

import (
	"net/http"

	"github.com/artistsagainsttaupe/api/internal/domain"
	"github.com/artistsagainsttaupe/api/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Mutating
// routes are wrapped in RequireAdmin.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	posts *service.PostService,
	galleries *service.GalleryService,
	contact *service.ContactService,
	store domain.ImageStore,
	loginLimiter *service.LoginLimiter,
) {
	authHandler := NewAuthHandler(auth, loginLimiter)
	postHandler := NewPostHandler(posts, auth)
	galleryHandler := NewGalleryHandler(galleries, store)
	contactHandler := NewContactHandler(contact)

	mux.HandleFunc("GET /api/healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)

	mux.HandleFunc("GET /api/blog/posts", postHandler.HandleList)
	mux.HandleFunc("POST /api/blog/posts", RequireAdmin(auth, postHandler.HandleCreate))
	mux.HandleFunc("GET /api/blog/{id}", postHandler.HandleGet)
	mux.HandleFunc("PUT /api/blog/{id}", RequireAdmin(auth, postHandler.HandleUpdate))
	mux.HandleFunc("DELETE /api/blog/{id}", RequireAdmin(auth, postHandler.HandleDelete))
	mux.HandleFunc("POST /api/blog/images", RequireAdmin(auth, postHandler.HandleImageUpload))
	mux.HandleFunc("DELETE /api/images/{id}", RequireAdmin(auth, postHandler.HandleImageDelete))

	mux.HandleFunc("GET /api/galleries", galleryHandler.HandleList)
	mux.HandleFunc("POST /api/galleries", RequireAdmin(auth, galleryHandler.HandleCreate))
	mux.HandleFunc("GET /api/galleries/{id}", galleryHandler.HandleGet)
	mux.HandleFunc("PUT /api/galleries/{id}", RequireAdmin(auth, galleryHandler.HandleUpdate))
	mux.HandleFunc("DELETE /api/galleries/{id}", RequireAdmin(auth, galleryHandler.HandleDelete))
	mux.HandleFunc("POST /api/galleries/{id}/images", RequireAdmin(auth, galleryHandler.HandleUploadImages))
	mux.HandleFunc("POST /api/galleries/{id}/images/reorder", RequireAdmin(auth, galleryHandler.HandleReorder))
	mux.HandleFunc("PUT /api/galleries/{id}/images/{imageId}", RequireAdmin(auth, galleryHandler.HandleUpdateImage))
	mux.HandleFunc("DELETE /api/galleries/{id}/images/{imageId}", RequireAdmin(auth, galleryHandler.HandleDeleteImage))

	mux.HandleFunc("POST /api/contact", contactHandler.HandleSubmit)
}
