// internal/app/features/authgithub/handler.go
package authgithub

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/gorilla/securecookie"
	uierrors "github.com/jbcpollak/strap-core/internal/app/features/errors"
	"github.com/jbcpollak/strap-core/internal/app/system/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"
)

// Handler drives the GitHub OAuth flow: the authorize redirect and the
// code-for-token exchange on callback.
type Handler struct {
	SessionMgr *auth.SessionManager
	Log        *zap.Logger

	// OAuth configuration
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://strap.example.com/auth/github/callback"

	// Endpoint defaults to GitHub's; tests point it at a fake server.
	Endpoint oauth2.Endpoint
}

// NewHandler creates a GitHub OAuth handler.
func NewHandler(sessionMgr *auth.SessionManager, clientID, clientSecret, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		SessionMgr:   sessionMgr,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/github/callback",
		Endpoint:     oauthgithub.Endpoint,
	}
}

// oauth2Config returns the GitHub OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes:       []string{"user:email", "repo"},
		Endpoint:     h.Endpoint,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/github                                                             |
| Initiates the OAuth flow by redirecting to GitHub's consent screen.          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		uierrors.RenderServerError(w, r, "failed to start GitHub authentication")
		return
	}

	// Page handlers usually record the return path before redirecting
	// here; a direct visit can carry it as a query parameter instead.
	if returnURL := query.Get(r, "return"); returnURL != "" {
		if err := h.SessionMgr.RememberReturnTo(w, r, returnURL); err != nil {
			h.Log.Error("failed to save return path", zap.Error(err))
			uierrors.RenderServerError(w, r, "failed to start GitHub authentication")
			return
		}
	}

	if err := h.SessionMgr.SetState(w, r, state); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		uierrors.RenderServerError(w, r, "failed to start GitHub authentication")
		return
	}

	url := h.oauth2Config().AuthCodeURL(state)
	h.Log.Info("redirecting to GitHub for authentication", zap.String("redirect_url", url))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/github/callback                                                    |
| Exchanges the single-use code for a bearer token, stores it in the           |
| session, and resumes at the remembered return path.                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("GitHub OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		uierrors.RenderBadRequest(w, r, "GitHub authorization was denied")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		uierrors.RenderBadRequest(w, r, "failed to authenticate; did not receive code from GitHub")
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" || state != h.SessionMgr.State(r) {
		h.Log.Warn("invalid or missing OAuth state")
		uierrors.RenderBadRequest(w, r, "failed to authenticate; invalid OAuth state")
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		uierrors.RenderServerError(w, r, "failed to authenticate with GitHub")
		return
	}
	if token.AccessToken == "" {
		h.Log.Error("token response did not contain a token")
		uierrors.RenderServerError(w, r, "failed to authenticate with GitHub")
		return
	}

	if _, err := h.SessionMgr.GetSession(r); err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			h.Log.Warn("session cookie invalid, using fresh session", zap.Error(err))
		} else {
			h.Log.Error("session store error during callback, using fresh session", zap.Error(err))
		}
	}

	returnTo := h.SessionMgr.TakeReturnTo(r)
	if err := h.SessionMgr.SetToken(w, r, token.AccessToken); err != nil {
		h.Log.Error("save session failed", zap.Error(err))
		uierrors.RenderServerError(w, r, "failed to authenticate with GitHub")
		return
	}

	h.Log.Info("got GitHub auth token; adding to session and redirecting",
		zap.String("return_to", returnTo))
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
