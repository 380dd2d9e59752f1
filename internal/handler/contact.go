package handler

import (
	"net/http"

	"github.com/artistsagainsttaupe/api/internal/service"
)

// ContactHandler forwards contact form submissions to the mailer.
type ContactHandler struct {
	contact *service.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contact *service.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// HandleSubmit validates the form and relays it as email.
// POST /api/contact
func (h *ContactHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	// The SPA posts FormData; fall back to urlencoded bodies.
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid form body")
			return
		}
	}

	err := h.contact.Send(r.Context(),
		r.FormValue("name"),
		r.FormValue("email"),
		r.FormValue("message"),
		r.FormValue("turnstileToken"),
	)
	if err != nil {
		writeDomainError(w, err, "Message not found", "send message")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
