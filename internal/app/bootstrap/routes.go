// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	authgithubfeature "github.com/jbcpollak/strap-core/internal/app/features/authgithub"
	healthfeature "github.com/jbcpollak/strap-core/internal/app/features/health"
	profilefeature "github.com/jbcpollak/strap-core/internal/app/features/profile"
	strapfeature "github.com/jbcpollak/strap-core/internal/app/features/strap"
	"github.com/jbcpollak/strap-core/internal/app/system/auth"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for the app.
//
// WAFFLE calls this after configuration, upstream client setup, and the
// Startup hook have completed. It creates the session manager, boots
// the template engine, and mounts the feature routers: the profile
// page, the generated script, the GitHub OAuth flow, health, and static
// assets.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	r := chi.NewRouter()

	// Global middleware: loads the session's bearer token into context.
	r.Use(sessionMgr.LoadToken)

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(logger)))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// GitHub OAuth flow
	authHandler := authgithubfeature.NewHandler(
		sessionMgr,
		appCfg.GitHub.ClientID,
		appCfg.GitHub.ClientSecret,
		appCfg.BaseURL,
		logger,
	)
	r.Mount("/auth/github", authgithubfeature.Routes(authHandler))

	// Generated install script (download and preview)
	strapHandler := strapfeature.NewHandler(
		deps.GitHub,
		sessionMgr,
		strapfeature.ScriptConfig{
			Script:                 deps.Script,
			CustomScript:           deps.CustomScript,
			ArtifactoryBaseURL:     deps.Artifactory.BaseURL(),
			ArtifactoryNPMRepoName: appCfg.Artifactory.NPMRepoName,
			ArtifactoryNPMScope:    appCfg.Artifactory.NPMPackageScope,
		},
		logger,
	)
	if err := strapHandler.Boot(); err != nil {
		logger.Error("script template boot failed", zap.Error(err))
		return nil, err
	}
	r.Mount("/strap.sh", strapfeature.Routes(strapHandler))

	// Profile / membership landing page
	profileHandler := profilefeature.NewHandler(deps.GitHub, deps.Artifactory, sessionMgr, logger)
	r.Mount("/", profilefeature.Routes(profileHandler))

	return r, nil
}
