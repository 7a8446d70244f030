package github

import "fmt"

// User is the authenticated user as returned by GET /user.
type User struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrgSummary is an entry from GET /user/orgs. Only the login is needed
// for membership testing.
type OrgSummary struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// Organization is a full organization record from GET /orgs/{login}.
type Organization struct {
	ID      int64  `json:"id"`
	Login   string `json:"login"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// Team is a team record from GET /teams/{id}, GET /user/teams, or
// GET /teams/{id}/teams. Teams form an externally owned hierarchy;
// children are only discoverable via ChildTeams.
type Team struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Organization struct {
		Login string `json:"login"`
	} `json:"organization"`
}

// Link returns the web URL for the team. The legacy team endpoints do
// not include html_url, so it is derived from the owning organization
// and the team slug.
func (t Team) Link() string {
	return fmt.Sprintf("https://github.com/orgs/%s/teams/%s", t.Organization.Login, t.Slug)
}

// Credentials are the profile fields surfaced on the rendered pages.
type Credentials struct {
	Name  string
	Email string
	Login string
}

// OrganizationMembership pairs an organization with whether the current
// user belongs to it.
type OrganizationMembership struct {
	Name     string
	Link     string
	IsMember bool
}

// TeamMembership pairs a team with whether the current user belongs to
// it or to any of its descendant teams.
type TeamMembership struct {
	Name     string
	Link     string
	Slug     string
	IsMember bool
}
