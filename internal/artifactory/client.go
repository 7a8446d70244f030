// Package artifactory wraps the Artifactory user directory API and the
// group-membership checks built on top of it.
package artifactory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/jbcpollak/strap-core/internal/upstream"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// apiTokenHeader carries the admin API key on every request.
const apiTokenHeader = "X-JFrog-Art-Api"

// User is a user record from GET api/security/users/{name}, including
// the groups the user belongs to.
type User struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Admin  bool     `json:"admin"`
	Realm  string   `json:"realm"`
	Groups []string `json:"groups"`
}

// GroupMembership pairs a configured group name with whether the user
// belongs to it.
type GroupMembership struct {
	Name     string
	IsMember bool
}

// Client is an Artifactory API client authenticated with a static admin
// token. It is immutable after construction.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	log        *zap.Logger
}

// NewClient builds a client for the Artifactory instance at baseURL
// (trailing slash optional). Both the base URL and token are required.
func NewClient(baseURL, token string, logger *zap.Logger) (*Client, error) {
	if baseURL == "" || token == "" {
		return nil, errors.New("artifactory base URL or token is not set")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.Wrapf(err, "parsing Artifactory base URL %q", baseURL)
	}

	return &Client{
		httpClient: http.DefaultClient,
		baseURL:    baseURL,
		token:      token,
		log:        logger,
	}, nil
}

// BaseURL returns the configured instance URL, with a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// User fetches a user record by username. Unknown usernames map to
// upstream.ErrNotFound; any other failure maps to the shared taxonomy.
func (c *Client) User(ctx context.Context, username string) (*User, error) {
	c.log.Debug("getting Artifactory user", zap.String("username", username))

	u := c.baseURL + "api/security/users/" + url.PathEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for user %q", username)
	}
	req.Header.Set(apiTokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(upstream.ErrUnavailable, "GET user %q: %v", username, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrapf(upstream.ErrNotFound, "Artifactory user %q does not exist", username)
	}
	if err := upstream.ClassifyStatus(resp.StatusCode); err != nil {
		return nil, errors.Wrapf(err, "GET user %q", username)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, errors.Wrapf(err, "decoding user %q response", username)
	}
	return &user, nil
}
