// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the strap service.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: github_client_id, artifactory_url, etc.
//   - Environment variables: STRAP_GITHUB_CLIENT_ID, STRAP_ARTIFACTORY_URL, etc.
//   - Command-line flags: --github_client_id, --artifactory_url, etc.
//
// List-valued keys are comma-separated strings parsed in LoadConfig.
var appConfigKeys = []config.AppKey{
	// GitHub OAuth application and API
	{Name: "github_client_id", Default: "", Desc: "GitHub OAuth application client ID"},
	{Name: "github_client_secret", Default: "", Desc: "GitHub OAuth application client secret"},
	{Name: "github_api_url", Default: "https://api.github.com", Desc: "GitHub REST API base URL"},
	{Name: "github_organizations", Default: "", Desc: "Comma-separated logins of organizations the user should belong to"},
	{Name: "github_teams", Default: "", Desc: "Comma-separated numeric IDs of teams the user may belong to"},

	// Artifactory
	{Name: "artifactory_url", Default: "", Desc: "Base URL of the Artifactory instance, e.g. https://foo.jfrog.io/artifactory/"},
	{Name: "artifactory_token", Default: "", Desc: "API key of an Artifactory user with admin privileges"},
	{Name: "artifactory_groups", Default: "", Desc: "Comma-separated Artifactory group names the user should belong to"},
	{Name: "artifactory_npm_repo", Default: "", Desc: "Artifactory NPM repository name"},
	{Name: "artifactory_npm_scope", Default: "", Desc: "Artifactory NPM package scope"},

	// Sessions
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "strap-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Base URL for the OAuth callback
	{Name: "base_url", Default: "http://localhost:5000", Desc: "Base URL this service is reachable at"},

	// Script assets
	{Name: "script_path", Default: "bin/strap.sh", Desc: "Path to the base strap script"},
	{Name: "custom_script_path", Default: "", Desc: "Optional extra script appended to the generated output"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before backends or handlers are built. List
// values are parsed here so a malformed team ID is a fatal startup
// error, not a request-time surprise.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STRAP", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	teamIDs, err := ParseTeamIDs(appValues.String("github_teams"))
	if err != nil {
		return nil, AppConfig{}, fmt.Errorf("invalid github_teams: %w", err)
	}

	appCfg := AppConfig{
		GitHub: GitHubConfig{
			APIBaseURL:         appValues.String("github_api_url"),
			ClientID:           appValues.String("github_client_id"),
			ClientSecret:       appValues.String("github_client_secret"),
			OrganizationLogins: SplitList(appValues.String("github_organizations")),
			TeamIDs:            teamIDs,
		},
		Artifactory: ArtifactoryConfig{
			BaseURL:         appValues.String("artifactory_url"),
			Token:           appValues.String("artifactory_token"),
			Groups:          SplitList(appValues.String("artifactory_groups")),
			NPMRepoName:     appValues.String("artifactory_npm_repo"),
			NPMPackageScope: appValues.String("artifactory_npm_scope"),
		},

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		BaseURL: appValues.String("base_url"),

		ScriptPath:       appValues.String("script_path"),
		CustomScriptPath: appValues.String("custom_script_path"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Both upstream integrations are required: the service cannot render
// either page without GitHub credentials and an Artifactory endpoint.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.GitHub.ClientID == "" || appCfg.GitHub.ClientSecret == "" {
		return fmt.Errorf("missing GitHub client ID or secret")
	}
	if len(appCfg.GitHub.OrganizationLogins) == 0 {
		return fmt.Errorf("github_organizations must list at least one organization login")
	}
	if len(appCfg.GitHub.TeamIDs) == 0 {
		return fmt.Errorf("github_teams must list at least one team ID")
	}
	if appCfg.Artifactory.BaseURL == "" || appCfg.Artifactory.Token == "" {
		return fmt.Errorf("artifactory_url and artifactory_token are required")
	}
	if appCfg.BaseURL == "" {
		return fmt.Errorf("base_url is required for the OAuth callback")
	}
	return nil
}

// SplitList parses a comma-separated config value into its trimmed,
// non-empty elements.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseTeamIDs parses a comma-separated list of numeric team IDs.
func ParseTeamIDs(value string) ([]int64, error) {
	var ids []int64
	for _, part := range SplitList(value) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("team ID %q is not a number", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
