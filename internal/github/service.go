package github

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service resolves the configured organization and team memberships for
// one authenticated user. It is built per request by a Factory and holds
// no mutable state.
type Service struct {
	client    *Client
	orgLogins []string
	teamIDs   []int64
	log       *zap.Logger
}

// NewService wraps a token-scoped client with the configured
// organization logins and team IDs.
func NewService(client *Client, orgLogins []string, teamIDs []int64, logger *zap.Logger) *Service {
	return &Service{
		client:    client,
		orgLogins: orgLogins,
		teamIDs:   teamIDs,
		log:       logger,
	}
}

// UserCredentials returns the profile fields of the authenticated user.
func (s *Service) UserCredentials(ctx context.Context) (*Credentials, error) {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return &Credentials{
		Name:  user.Name,
		Email: user.Email,
		Login: user.Login,
	}, nil
}

// IsInOrganization reports whether the user belongs to the organization
// with the given login. Callers that need membership for several logins
// should use OrganizationMemberships instead, which fetches the user's
// organization list once.
func (s *Service) IsInOrganization(ctx context.Context, login string) (bool, error) {
	orgs, err := s.client.UserOrganizations(ctx)
	if err != nil {
		return false, err
	}
	for _, org := range orgs {
		if org.Login == login {
			return true, nil
		}
	}
	return false, nil
}

// OrganizationMemberships resolves membership for every configured
// organization. Descriptors and the user's organization list are
// fetched concurrently; the list is fetched once and zipped against the
// configured logins, preserving configured order.
func (s *Service) OrganizationMemberships(ctx context.Context) ([]OrganizationMembership, error) {
	var (
		orgs     []*Organization
		userOrgs []OrgSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orgs, err = s.client.Organizations(gctx, s.orgLogins)
		return err
	})
	g.Go(func() error {
		var err error
		userOrgs, err = s.client.UserOrganizations(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	member := make(map[string]bool, len(userOrgs))
	for _, org := range userOrgs {
		member[org.Login] = true
	}

	results := make([]OrganizationMembership, len(s.orgLogins))
	for i, login := range s.orgLogins {
		results[i] = OrganizationMembership{
			Name:     orgs[i].Name,
			Link:     orgs[i].HTMLURL,
			IsMember: member[login],
		}
	}
	return results, nil
}

// IsInTeam reports whether the user belongs to the team with the given
// ID or to any of its descendant teams. Being on a sub-team counts as
// being on the parent team.
func (s *Service) IsInTeam(ctx context.Context, id int64) (bool, error) {
	var (
		userTeams   []Team
		descendants []Team
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		userTeams, err = s.client.UserTeams(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		descendants, err = s.client.DescendantTeams(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return false, err
	}

	return anyTeamIn(userTeams, descendants), nil
}

// TeamMemberships resolves membership for every configured team. Team
// descriptors, the user's team list, and each team's descendant closure
// are fetched concurrently; the user's team list is fetched once and
// shared across all checks. Overlapping hierarchies are expanded
// independently per configured team. Output order matches the
// configured team ID order.
func (s *Service) TeamMemberships(ctx context.Context) ([]TeamMembership, error) {
	var (
		teams     []*Team
		userTeams []Team
	)
	closures := make([][]Team, len(s.teamIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.client.Teams(gctx, s.teamIDs)
		return err
	})
	g.Go(func() error {
		var err error
		userTeams, err = s.client.UserTeams(gctx)
		return err
	})
	for i, id := range s.teamIDs {
		g.Go(func() error {
			var err error
			closures[i], err = s.client.DescendantTeams(gctx, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]TeamMembership, len(s.teamIDs))
	for i := range s.teamIDs {
		results[i] = TeamMembership{
			Name:     teams[i].Name,
			Link:     teams[i].Link(),
			Slug:     teams[i].Slug,
			IsMember: anyTeamIn(userTeams, closures[i]),
		}
	}
	return results, nil
}

// anyTeamIn reports whether any of the user's teams appears in the
// candidate set, matched by team ID.
func anyTeamIn(userTeams, candidates []Team) bool {
	valid := make(map[int64]struct{}, len(candidates))
	for _, t := range candidates {
		valid[t.ID] = struct{}{}
	}
	for _, t := range userTeams {
		if _, ok := valid[t.ID]; ok {
			return true
		}
	}
	return false
}

// Factory builds per-request Services bound to the caller's token. The
// configuration it carries is read-only for the process lifetime.
type Factory struct {
	apiBaseURL string
	orgLogins  []string
	teamIDs    []int64
	log        *zap.Logger
}

// NewFactory creates a Service factory for the given API endpoint and
// configured organization logins and team IDs.
func NewFactory(apiBaseURL string, orgLogins []string, teamIDs []int64, logger *zap.Logger) *Factory {
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}
	return &Factory{
		apiBaseURL: apiBaseURL,
		orgLogins:  orgLogins,
		teamIDs:    teamIDs,
		log:        logger,
	}
}

// ServiceForToken builds a membership Service for one request's bearer
// token.
func (f *Factory) ServiceForToken(ctx context.Context, token string) (*Service, error) {
	client, err := NewClient(ctx, f.apiBaseURL, token, f.log)
	if err != nil {
		return nil, err
	}
	return NewService(client, f.orgLogins, f.teamIDs, f.log), nil
}
