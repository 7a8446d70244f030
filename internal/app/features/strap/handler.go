// internal/app/features/strap/handler.go
package strap

import (
	"context"
	"embed"
	"net/http"
	"strings"
	"text/template"

	uierrors "github.com/jbcpollak/strap-core/internal/app/features/errors"
	"github.com/jbcpollak/strap-core/internal/app/system/auth"
	"github.com/jbcpollak/strap-core/internal/app/system/timeouts"
	"github.com/jbcpollak/strap-core/internal/github"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// The script output is a shell script, not HTML, so it is rendered with
// text/template rather than the HTML template engine used for pages.
//
//go:embed templates/strap.sh.tmpl
var scriptFS embed.FS

// ScriptConfig is the static script-page configuration assembled at
// startup: the loaded script bodies and the Artifactory repository
// settings baked into the output.
type ScriptConfig struct {
	Script       string // base script body, shebang stripped
	CustomScript string // optional extra script appended to the output

	ArtifactoryBaseURL     string
	ArtifactoryNPMRepoName string
	ArtifactoryNPMScope    string
}

// Handler serves the personalized install script.
type Handler struct {
	GitHub     *github.Factory
	SessionMgr *auth.SessionManager
	Config     ScriptConfig
	Log        *zap.Logger

	tmpl *template.Template
}

// NewHandler creates the script handler. Call Boot before serving.
func NewHandler(gh *github.Factory, sessionMgr *auth.SessionManager, cfg ScriptConfig, logger *zap.Logger) *Handler {
	return &Handler{
		GitHub:     gh,
		SessionMgr: sessionMgr,
		Config:     cfg,
		Log:        logger,
	}
}

// Boot parses the embedded script template once at startup.
func (h *Handler) Boot() error {
	tmpl, err := template.ParseFS(scriptFS, "templates/strap.sh.tmpl")
	if err != nil {
		return errors.Wrap(err, "parsing script template")
	}
	h.tmpl = tmpl
	return nil
}

// scriptData is the view model rendered into the script template.
type scriptData struct {
	GitName    string
	GitEmail   string
	GitHubUser string

	GitHubToken string
	RepoSets    string

	ArtifactoryBaseURL     string
	ArtifactoryNPMRepoName string
	ArtifactoryNPMScope    string

	Script       string
	CustomScript string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /strap.sh – download the personalized script                             |
| GET /strap.sh/preview – same body, served as plain text                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDownload(w http.ResponseWriter, r *http.Request) {
	h.serveScript(w, r, "/strap.sh", "application/octet-stream")
}

func (h *Handler) ServePreview(w http.ResponseWriter, r *http.Request) {
	h.serveScript(w, r, "/strap.sh/preview", "text/plain; charset=utf-8")
}

func (h *Handler) serveScript(w http.ResponseWriter, r *http.Request, returnTo, contentType string) {
	token, ok := auth.CurrentToken(r)
	if !ok {
		h.Log.Info("no GitHub token found in session; authenticating with GitHub",
			zap.String("return_to", returnTo))
		if err := h.SessionMgr.RememberReturnTo(w, r, returnTo); err != nil {
			h.Log.Error("failed to save return path", zap.Error(err))
		}
		http.Redirect(w, r, "/auth/github", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Page())
	defer cancel()

	data, err := h.buildScriptData(ctx, token)
	if err != nil {
		h.Log.Debug("could not access the GitHub API", zap.Error(err))
		uierrors.RenderServerError(w, r, "could not access the GitHub API")
		return
	}

	w.Header().Set("Content-Type", contentType)
	if err := h.tmpl.Execute(w, data); err != nil {
		h.Log.Error("script render failed", zap.Error(err))
	}
}

// buildScriptData resolves the user's credentials and team memberships
// in parallel and merges them with the static script configuration.
func (h *Handler) buildScriptData(ctx context.Context, token string) (*scriptData, error) {
	gh, err := h.GitHub.ServiceForToken(ctx, token)
	if err != nil {
		return nil, err
	}

	var (
		teamInfo []github.TeamMembership
		creds    *github.Credentials
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teamInfo, err = gh.TeamMemberships(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		creds, err = gh.UserCredentials(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &scriptData{
		GitName:    creds.Name,
		GitEmail:   creds.Email,
		GitHubUser: creds.Login,

		GitHubToken: token,
		RepoSets:    memberSlugs(teamInfo),

		ArtifactoryBaseURL:     h.Config.ArtifactoryBaseURL,
		ArtifactoryNPMRepoName: h.Config.ArtifactoryNPMRepoName,
		ArtifactoryNPMScope:    h.Config.ArtifactoryNPMScope,

		Script:       h.Config.Script,
		CustomScript: h.Config.CustomScript,
	}, nil
}

// memberSlugs returns a comma-joined list of slugs for the teams the
// user belongs to, in configured team order.
func memberSlugs(teams []github.TeamMembership) string {
	var slugs []string
	for _, t := range teams {
		if t.IsMember {
			slugs = append(slugs, t.Slug)
		}
	}
	return strings.Join(slugs, ",")
}
