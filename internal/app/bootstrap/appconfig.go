// internal/app/bootstrap/appconfig.go
package bootstrap

// GitHubConfig holds everything needed to talk to GitHub: the OAuth
// application credentials and the organization/team lists whose
// membership the service resolves.
type GitHubConfig struct {
	APIBaseURL   string // GitHub REST API endpoint (override for testing/GHE)
	ClientID     string // OAuth application client ID
	ClientSecret string // OAuth application client secret

	// Logins of organizations the user should be in before downloading
	// the script.
	OrganizationLogins []string

	// IDs of teams the user may be in. To list the teams of an
	// organization:
	//   curl -u [user]:[personal access token] \
	//     https://api.github.com/orgs/[org]/teams
	TeamIDs []int64
}

// ArtifactoryConfig holds the Artifactory instance settings. It is kept
// separate from GitHubConfig; the two upstreams are unrelated services
// composed only by the page handlers.
type ArtifactoryConfig struct {
	BaseURL string // e.g. https://foo.jfrog.io/artifactory/ (trailing slash optional)
	Token   string // API key of an Artifactory user with admin privileges

	// Names of groups the user should be in before downloading the script.
	Groups []string

	NPMRepoName     string // Artifactory NPM repository name
	NPMPackageScope string // Artifactory NPM package scope
}

// AppConfig holds service-specific configuration. All of it is
// read-only after LoadConfig; nothing here is mutated at request time.
type AppConfig struct {
	GitHub      GitHubConfig
	Artifactory ArtifactoryConfig

	// Session management
	SessionKey    string // Secret key for signing session cookies
	SessionName   string // Cookie name (default: strap-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Base URL this service is reachable at, used to build the OAuth
	// callback URL (e.g. https://strap.example.com)
	BaseURL string

	// Script assets
	ScriptPath       string // path to the base strap script
	CustomScriptPath string // optional extra script appended to the output
}
