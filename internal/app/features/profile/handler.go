// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/jbcpollak/strap-core/internal/app/features/errors"
	"github.com/jbcpollak/strap-core/internal/app/system/auth"
	"github.com/jbcpollak/strap-core/internal/app/system/timeouts"
	"github.com/jbcpollak/strap-core/internal/artifactory"
	"github.com/jbcpollak/strap-core/internal/github"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Handler renders the membership landing page: who the user is, which
// configured organizations/teams they belong to on GitHub, and which
// configured groups they belong to in Artifactory.
type Handler struct {
	GitHub      *github.Factory
	Artifactory *artifactory.Service
	SessionMgr  *auth.SessionManager
	Log         *zap.Logger
}

// NewHandler creates the profile page handler.
func NewHandler(gh *github.Factory, art *artifactory.Service, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		GitHub:      gh,
		Artifactory: art,
		SessionMgr:  sessionMgr,
		Log:         logger,
	}
}

// pageData is the view model for the profile page.
type pageData struct {
	Title              string
	Profile            *github.Credentials
	Organizations      []github.OrganizationMembership
	Teams              []github.TeamMembership
	IsInAnyTeams       bool
	IsArtifactoryUser  bool
	ArtifactoryGroups  []artifactory.GroupMembership
	ArtifactoryBaseURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – membership landing page                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.CurrentToken(r)
	if !ok {
		h.Log.Info("no GitHub token found in session; authenticating with GitHub")
		if err := h.SessionMgr.RememberReturnTo(w, r, "/"); err != nil {
			h.Log.Error("failed to save return path", zap.Error(err))
		}
		http.Redirect(w, r, "/auth/github", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Page())
	defer cancel()

	gh, err := h.GitHub.ServiceForToken(ctx, token)
	if err != nil {
		h.Log.Debug("could not build GitHub client", zap.Error(err))
		uierrors.RenderServerError(w, r, "could not access the GitHub API")
		return
	}

	// Identity step: organization memberships and credentials in
	// parallel. Teams are only fetched when the user is a member of
	// every configured organization; GitHub rejects the team lookups
	// for non-members, so skipping them is deliberate.
	var (
		orgInfo []github.OrganizationMembership
		creds   *github.Credentials
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orgInfo, err = gh.OrganizationMemberships(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		creds, err = gh.UserCredentials(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.Log.Debug("could not access the GitHub API", zap.Error(err))
		uierrors.RenderServerError(w, r, "could not access the GitHub API")
		return
	}

	teamInfo := []github.TeamMembership{}
	if memberOfAll(orgInfo) {
		teamInfo, err = gh.TeamMemberships(ctx)
		if err != nil {
			h.Log.Debug("could not access the GitHub API", zap.Error(err))
			uierrors.RenderServerError(w, r, "could not access the GitHub API")
			return
		}
	}

	// Asset-registry step: only consulted once the identity step has
	// produced a username. An unknown Artifactory user is not an error.
	isArtifactoryUser, err := h.Artifactory.IsUser(ctx, creds.Login)
	if err != nil {
		h.Log.Debug("could not access the Artifactory API", zap.Error(err))
		uierrors.RenderServerError(w, r, "could not access the Artifactory API")
		return
	}

	artifactoryGroups := []artifactory.GroupMembership{}
	if isArtifactoryUser {
		artifactoryGroups, err = h.Artifactory.GroupMemberships(ctx, creds.Login)
		if err != nil {
			h.Log.Debug("could not access the Artifactory API", zap.Error(err))
			uierrors.RenderServerError(w, r, "could not access the Artifactory API")
			return
		}
	}

	data := pageData{
		Title:              "Welcome",
		Profile:            creds,
		Organizations:      orgInfo,
		Teams:              teamInfo,
		IsInAnyTeams:       anyMember(teamInfo),
		IsArtifactoryUser:  isArtifactoryUser,
		ArtifactoryGroups:  artifactoryGroups,
		ArtifactoryBaseURL: h.Artifactory.BaseURL(),
	}

	templates.Render(w, r, "profile", data)
}

// memberOfAll reports whether the user belongs to every configured
// organization.
func memberOfAll(orgs []github.OrganizationMembership) bool {
	for _, org := range orgs {
		if !org.IsMember {
			return false
		}
	}
	return true
}

// anyMember reports whether the user belongs to at least one team.
func anyMember(teams []github.TeamMembership) bool {
	for _, t := range teams {
		if t.IsMember {
			return true
		}
	}
	return false
}
