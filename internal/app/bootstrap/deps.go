// internal/app/bootstrap/deps.go
package bootstrap

import (
	"context"
	"os"

	"github.com/dalemusser/waffle/config"
	"github.com/jbcpollak/strap-core/internal/app/system/scripts"
	"github.com/jbcpollak/strap-core/internal/artifactory"
	"github.com/jbcpollak/strap-core/internal/github"
	"go.uber.org/zap"
)

// Deps holds the back-end dependencies for the app: the two upstream
// API integrations and the script bodies loaded once at startup. There
// is no database; everything here is read-only after ConnectDB.
type Deps struct {
	GitHub      *github.Factory
	Artifactory *artifactory.Service

	Script       string // base script body, shebang stripped
	CustomScript string // optional extra script, may be empty
}

// ConnectDB builds the upstream clients and loads the script assets.
// WAFFLE calls it where a database-backed app would open connections;
// failures here abort startup.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (Deps, error) {
	artClient, err := artifactory.NewClient(appCfg.Artifactory.BaseURL, appCfg.Artifactory.Token, logger)
	if err != nil {
		return Deps{}, err
	}

	script, err := scripts.Load(appCfg.ScriptPath)
	if err != nil {
		return Deps{}, err
	}

	customScript := ""
	if appCfg.CustomScriptPath != "" {
		body, err := os.ReadFile(appCfg.CustomScriptPath)
		if err != nil {
			return Deps{}, err
		}
		customScript = string(body)
	}

	logger.Info("upstream clients ready",
		zap.String("github_api", appCfg.GitHub.APIBaseURL),
		zap.String("artifactory", appCfg.Artifactory.BaseURL),
		zap.Int("script_bytes", len(script)))

	return Deps{
		GitHub: github.NewFactory(
			appCfg.GitHub.APIBaseURL,
			appCfg.GitHub.OrganizationLogins,
			appCfg.GitHub.TeamIDs,
			logger,
		),
		Artifactory:  artifactory.NewService(artClient, appCfg.Artifactory.Groups, logger),
		Script:       script,
		CustomScript: customScript,
	}, nil
}

// EnsureSchema is a no-op: this service keeps no persistent state.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	return nil
}
