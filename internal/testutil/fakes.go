package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jbcpollak/strap-core/internal/artifactory"
	"github.com/jbcpollak/strap-core/internal/github"
)

// MakeTeam builds a team fixture owned by the given organization.
func MakeTeam(id int64, name, slug, org string) github.Team {
	var t github.Team
	t.ID = id
	t.Name = name
	t.Slug = slug
	t.Organization.Login = org
	return t
}

// FakeGitHub is an httptest-backed stand-in for the GitHub REST API.
// Configure its fixture fields before issuing requests; it records call
// counts per path so tests can assert what was (not) fetched.
type FakeGitHub struct {
	Server *httptest.Server

	// Fixtures. Zero values yield empty responses.
	User      github.User
	UserOrgs  []github.OrgSummary
	UserTeams []github.Team
	Orgs      map[string]github.Organization
	Teams     map[int64]github.Team
	Children  map[int64][]github.Team

	// StatusOverride forces a status code for an exact request path,
	// e.g. {"/user/orgs": 500}.
	StatusOverride map[string]int

	mu             sync.Mutex
	calls          map[string]int
	lastAuthHeader string
}

// NewFakeGitHub starts a fake GitHub API server, closed with the test.
func NewFakeGitHub(t *testing.T) *FakeGitHub {
	t.Helper()

	f := &FakeGitHub{
		Orgs:           map[string]github.Organization{},
		Teams:          map[int64]github.Team{},
		Children:       map[int64][]github.Team{},
		StatusOverride: map[string]int{},
		calls:          map[string]int{},
	}

	r := chi.NewRouter()
	r.Get("/user", func(w http.ResponseWriter, req *http.Request) {
		f.reply(w, req, f.User)
	})
	r.Get("/user/orgs", func(w http.ResponseWriter, req *http.Request) {
		f.reply(w, req, f.UserOrgs)
	})
	r.Get("/user/teams", func(w http.ResponseWriter, req *http.Request) {
		f.reply(w, req, f.UserTeams)
	})
	r.Get("/orgs/{login}", func(w http.ResponseWriter, req *http.Request) {
		org, ok := f.Orgs[chi.URLParam(req, "login")]
		if !ok {
			f.reply(w, req, nil, http.StatusNotFound)
			return
		}
		f.reply(w, req, org)
	})
	r.Get("/teams/{id}", func(w http.ResponseWriter, req *http.Request) {
		team, ok := f.Teams[teamID(req)]
		if !ok {
			f.reply(w, req, nil, http.StatusNotFound)
			return
		}
		f.reply(w, req, team)
	})
	r.Get("/teams/{id}/teams", func(w http.ResponseWriter, req *http.Request) {
		children := f.Children[teamID(req)]
		if children == nil {
			children = []github.Team{}
		}
		f.reply(w, req, children)
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// AddTeam registers a team fixture and, when parent is nonzero, links
// it as a direct child of the parent.
func (f *FakeGitHub) AddTeam(team github.Team, parent int64) {
	f.Teams[team.ID] = team
	if parent != 0 {
		f.Children[parent] = append(f.Children[parent], team)
	}
}

// Calls returns how many requests hit the exact path.
func (f *FakeGitHub) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

// TeamCalls returns how many requests hit any team endpoint.
func (f *FakeGitHub) TeamCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for path, count := range f.calls {
		if path == "/user/teams" || (len(path) > 7 && path[:7] == "/teams/") {
			n += count
		}
	}
	return n
}

// LastAuthHeader returns the Authorization header of the most recent
// request.
func (f *FakeGitHub) LastAuthHeader() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuthHeader
}

func (f *FakeGitHub) reply(w http.ResponseWriter, req *http.Request, body any, notFound ...int) {
	f.mu.Lock()
	f.calls[req.URL.Path]++
	f.lastAuthHeader = req.Header.Get("Authorization")
	override := f.StatusOverride[req.URL.Path]
	f.mu.Unlock()

	if override != 0 {
		w.WriteHeader(override)
		return
	}
	if len(notFound) > 0 {
		w.WriteHeader(notFound[0])
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func teamID(req *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	return id
}

// FakeArtifactory is an httptest-backed stand-in for the Artifactory
// user directory. Unknown usernames return 404.
type FakeArtifactory struct {
	Server *httptest.Server

	Users map[string]artifactory.User
	Fail  bool // when true every request returns 500

	mu        sync.Mutex
	calls     int
	lastToken string
}

// NewFakeArtifactory starts a fake Artifactory server, closed with the
// test.
func NewFakeArtifactory(t *testing.T) *FakeArtifactory {
	t.Helper()

	f := &FakeArtifactory{Users: map[string]artifactory.User{}}

	r := chi.NewRouter()
	r.Get("/api/security/users/{name}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.calls++
		f.lastToken = req.Header.Get("X-JFrog-Art-Api")
		fail := f.Fail
		f.mu.Unlock()

		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		user, ok := f.Users[chi.URLParam(req, "name")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"errors":[{"status":404,"message":"Unable to find user"}]}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(user)
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// Calls returns how many user lookups the fake has served.
func (f *FakeArtifactory) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// LastToken returns the API token header of the most recent request.
func (f *FakeArtifactory) LastToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastToken
}
