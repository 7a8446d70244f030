// Package github wraps the GitHub REST API calls this service needs:
// the authenticated user, organization and team lookups, and the
// recursive child-team expansion used for membership checks.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jbcpollak/strap-core/internal/upstream"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// DefaultAPIBaseURL is the public GitHub REST API endpoint.
const DefaultAPIBaseURL = "https://api.github.com"

// Client is a GitHub API client bound to a single bearer token. It is
// constructed once per request and never mutated afterwards.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	log        *zap.Logger
}

// NewClient builds a token-scoped client. The token is carried by an
// oauth2 static token source so every call is authenticated.
func NewClient(ctx context.Context, baseURL, token string, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing GitHub API base URL %q", baseURL)
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})

	return &Client{
		httpClient: oauth2.NewClient(ctx, src),
		baseURL:    u,
		log:        logger,
	}, nil
}

// get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Wrapf(err, "building request for %s", path)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(upstream.ErrUnavailable, "GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	if err := upstream.ClassifyStatus(resp.StatusCode); err != nil {
		return errors.Wrapf(err, "GET %s", path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s response", path)
	}
	return nil
}

// CurrentUser fetches the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.get(ctx, "/user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserOrganizations lists the organizations the authenticated user
// belongs to.
func (c *Client) UserOrganizations(ctx context.Context) ([]OrgSummary, error) {
	var orgs []OrgSummary
	if err := c.get(ctx, "/user/orgs", &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// UserTeams lists the teams the authenticated user belongs to.
func (c *Client) UserTeams(ctx context.Context) ([]Team, error) {
	var teams []Team
	if err := c.get(ctx, "/user/teams", &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Organization fetches one organization by login.
func (c *Client) Organization(ctx context.Context, login string) (*Organization, error) {
	c.log.Debug("getting organization", zap.String("login", login))

	var org Organization
	if err := c.get(ctx, "/orgs/"+url.PathEscape(login), &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// Organizations fetches all of the given organizations concurrently.
// Results are in input order; any single failure fails the batch.
func (c *Client) Organizations(ctx context.Context, logins []string) ([]*Organization, error) {
	orgs := make([]*Organization, len(logins))

	g, gctx := errgroup.WithContext(ctx)
	for i, login := range logins {
		g.Go(func() error {
			org, err := c.Organization(gctx, login)
			if err != nil {
				return err
			}
			orgs[i] = org
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return orgs, nil
}

// Team fetches one team by its numeric ID.
func (c *Client) Team(ctx context.Context, id int64) (*Team, error) {
	c.log.Debug("getting team", zap.Int64("team_id", id))

	var team Team
	if err := c.get(ctx, fmt.Sprintf("/teams/%d", id), &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// Teams fetches all of the given teams concurrently, preserving input
// order with the same fail-fast contract as Organizations.
func (c *Client) Teams(ctx context.Context, ids []int64) ([]*Team, error) {
	teams := make([]*Team, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			team, err := c.Team(gctx, id)
			if err != nil {
				return err
			}
			teams[i] = team
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return teams, nil
}

// ChildTeams fetches the immediate children of a team. It does not
// recurse.
func (c *Client) ChildTeams(ctx context.Context, id int64) ([]Team, error) {
	c.log.Debug("getting child teams", zap.Int64("team_id", id))

	var teams []Team
	if err := c.get(ctx, fmt.Sprintf("/teams/%d/teams", id), &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// DescendantTeams returns the team itself plus every team reachable by
// repeated direct-child expansion, flattened in discovery order. Each
// round fetches the children of the previous round concurrently and
// stops when a round discovers nothing new.
//
// The hierarchy is trusted to be a tree: there is no cycle guard and no
// depth limit, so a cyclic upstream hierarchy would never terminate.
func (c *Client) DescendantTeams(ctx context.Context, id int64) ([]Team, error) {
	root, err := c.Team(ctx, id)
	if err != nil {
		return nil, err
	}

	all := []Team{*root}
	frontier := []Team{*root}

	for len(frontier) > 0 {
		children := make([][]Team, len(frontier))

		g, gctx := errgroup.WithContext(ctx)
		for i, t := range frontier {
			g.Go(func() error {
				found, err := c.ChildTeams(gctx, t.ID)
				if err != nil {
					return err
				}
				children[i] = found
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		frontier = nil
		for _, found := range children {
			frontier = append(frontier, found...)
		}
		all = append(all, frontier...)
	}

	return all, nil
}
