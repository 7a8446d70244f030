// Package auth manages the per-user cookie session: the GitHub bearer
// token, the post-auth return path, and the OAuth state nonce. The
// cookie is the only state the service keeps between requests.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	tokenKey    = "github_token"
	returnToKey = "return_to"
	stateKey    = "oauth_state"
)

type ctxKey string

const currentTokenKey ctxKey = "currentToken"

// SessionManager wraps a gorilla cookie store. It is created once at
// startup and safe for concurrent use.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager initializes the cookie store. The session key signs
// cookies and must be strong in production; secure controls the Secure
// flag and SameSite mode.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide >=32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// GetSession returns the request's session. A missing or undecodable
// cookie still yields a usable fresh session along with the error, so
// callers can log decode failures and carry on.
func (m *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, m.name)
}

// LoadToken is middleware that copies the session's bearer token into
// the request context, where handlers read it via CurrentToken.
func (m *SessionManager) LoadToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := m.GetSession(r)
		if token := getString(sess, tokenKey); token != "" {
			r = withToken(r, token)
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentToken returns the bearer token for this request and whether
// one is present.
func CurrentToken(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(currentTokenKey).(string)
	return token, ok && token != ""
}

// SetToken stores the bearer token in the session and clears the
// pending OAuth state.
func (m *SessionManager) SetToken(w http.ResponseWriter, r *http.Request, token string) error {
	sess, _ := m.GetSession(r)
	sess.Values[tokenKey] = token
	delete(sess.Values, stateKey)
	return sess.Save(r, w)
}

// RememberReturnTo records where to send the user once the OAuth flow
// completes.
func (m *SessionManager) RememberReturnTo(w http.ResponseWriter, r *http.Request, path string) error {
	sess, _ := m.GetSession(r)
	sess.Values[returnToKey] = path
	return sess.Save(r, w)
}

// TakeReturnTo returns the recorded return path (or "/" when none) and
// removes it from the session. The session itself is saved by the
// caller together with the token.
func (m *SessionManager) TakeReturnTo(r *http.Request) string {
	sess, _ := m.GetSession(r)
	path := getString(sess, returnToKey)
	delete(sess.Values, returnToKey)
	if path == "" {
		path = "/"
	}
	return path
}

// SetState records the OAuth state nonce for the in-flight redirect.
func (m *SessionManager) SetState(w http.ResponseWriter, r *http.Request, state string) error {
	sess, _ := m.GetSession(r)
	sess.Values[stateKey] = state
	return sess.Save(r, w)
}

// State returns the recorded OAuth state nonce, if any.
func (m *SessionManager) State(r *http.Request) string {
	sess, _ := m.GetSession(r)
	return getString(sess, stateKey)
}

// WithTestToken injects a bearer token into the request context,
// bypassing the session middleware. For handler tests only.
func WithTestToken(r *http.Request, token string) *http.Request {
	return withToken(r, token)
}

// helpers

func withToken(r *http.Request, token string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentTokenKey, token))
}

func getString(s *sessions.Session, key string) string {
	if s == nil {
		return ""
	}
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
