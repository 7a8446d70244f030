// internal/app/features/strap/routes.go
package strap

import "github.com/go-chi/chi/v5"

// Routes returns the router for the generated script. Mounted at
// /strap.sh, so "/" is the download and "/preview" the plain-text view.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeDownload)
	r.Get("/preview", h.ServePreview)
	return r
}
