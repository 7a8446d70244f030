package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the view model for the generic error page.
type pageData struct {
	Title   string
	Message string
	BackURL string
}

// RenderServerError renders the generic error page with a 500 status.
// Used when either upstream step of page assembly fails; the message is
// deliberately generic, the underlying error goes to the log only.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg string) {
	w.WriteHeader(http.StatusInternalServerError)
	templates.Render(w, r, "error", pageData{
		Title:   "Something went wrong",
		Message: msg,
		BackURL: "/",
	})
}

// RenderBadRequest renders the generic error page with a 400 status.
// Used when the OAuth callback arrives without a code or with a bad
// state parameter.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	w.WriteHeader(http.StatusBadRequest)
	templates.Render(w, r, "error", pageData{
		Title:   "Bad request",
		Message: msg,
		BackURL: "/",
	})
}
