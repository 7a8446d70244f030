package github_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jbcpollak/strap-core/internal/github"
	"github.com/jbcpollak/strap-core/internal/testutil"
	"github.com/jbcpollak/strap-core/internal/upstream"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, fake *testutil.FakeGitHub) *github.Client {
	t.Helper()
	client, err := github.NewClient(context.Background(), fake.Server.URL, "test-token", zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	return client
}

func TestCurrentUser(t *testing.T) {
	fake := testutil.NewFakeGitHub(t)
	fake.User = github.User{Login: "octocat", Name: "The Octocat", Email: "octocat@example.com"}

	client := newTestClient(t, fake)

	user, err := client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser() failed: %v", err)
	}
	if user.Login != "octocat" || user.Name != "The Octocat" {
		t.Errorf("unexpected user: %+v", user)
	}
	if fake.LastAuthHeader() != "Bearer test-token" {
		t.Errorf("expected bearer token on request, got %q", fake.LastAuthHeader())
	}
}

func TestCurrentUser_AuthRejected(t *testing.T) {
	fake := testutil.NewFakeGitHub(t)
	fake.StatusOverride["/user"] = http.StatusUnauthorized

	client := newTestClient(t, fake)

	_, err := client.CurrentUser(context.Background())
	if !errors.Is(err, upstream.ErrAuthRejected) {
		t.Errorf("expected ErrAuthRejected, got %v", err)
	}
}

func TestCurrentUser_Unavailable(t *testing.T) {
	fake := testutil.NewFakeGitHub(t)
	fake.StatusOverride["/user"] = http.StatusInternalServerError

	client := newTestClient(t, fake)

	_, err := client.CurrentUser(context.Background())
	if !errors.Is(err, upstream.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestOrganization_NotFound(t *testing.T) {
	fake := testutil.NewFakeGitHub(t)

	client := newTestClient(t, fake)

	_, err := client.Organization(context.Background(), "missing")
	if !errors.Is(err, upstream.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOrganizations_PreservesInputOrder(t *testing.T) {
	fake := testutil.NewFakeGitHub(t)
	fake.Orgs["acme"] = github.Organization{ID: 1, Login: "acme", Name: "Acme Corp", HTMLURL: "https://github.com/acme"}
	fake.Orgs["other"] = github.Organization{ID: 2, Login: "other", Name: "Other Inc", HTMLURL: "https://github.com/other"}

	client := newTestClient(t, fake)

	orgs, err := client.Organizations(context.Background(), []string{"other", "acme"})
	if err != nil {
		t.Fatalf("Organizations() failed: %v", err)
	}
	if len(orgs) != 2 {
		t.Fatalf("expected 2 organizations, got %d", len(orgs))
	}
	if orgs[0].Login != "other" || orgs[1].Login != "acme" {
		t.Errorf("output order does not match input order: %q, %q", orgs[0].Login, orgs[1].Login)
	}
}

func TestOrganizations_FailFast(t *testing.T) {
	fake := testutil.NewFakeGitHub(t)
	fake.Orgs["acme"] = github.Organization{ID: 1, Login: "acme", Name: "Acme Corp"}

	client := newTestClient(t, fake)

	_, err := client.Organizations(context.Background(), []string{"acme", "missing"})
	if !errors.Is(err, upstream.ErrNotFound) {
		t.Errorf("expected batch to fail with ErrNotFound, got %v", err)
	}
}

func TestTeamLink(t *testing.T) {
	team := testutil.MakeTeam(7, "Platform", "platform", "acme")
	want := "https://github.com/orgs/acme/teams/platform"
	if team.Link() != want {
		t.Errorf("Link() = %q, want %q", team.Link(), want)
	}
}

func TestChildTeams_DirectOnly(t *testing.T) {
	fake := testutil.NewFakeGitHub(t)
	root := testutil.MakeTeam(1, "Root", "root", "acme")
	child := testutil.MakeTeam(2, "Child", "child", "acme")
	grandchild := testutil.MakeTeam(3, "Grandchild", "grandchild", "acme")
	fake.AddTeam(root, 0)
	fake.AddTeam(child, 1)
	fake.AddTeam(grandchild, 2)

	client := newTestClient(t, fake)

	children, err := client.ChildTeams(context.Background(), 1)
	if err != nil {
		t.Fatalf("ChildTeams() failed: %v", err)
	}
	if len(children) != 1 || children[0].ID != 2 {
		t.Errorf("expected only the direct child (id 2), got %+v", children)
	}
}

func TestDescendantTeams_ExpandsAllLevels(t *testing.T) {
	fake := testutil.NewFakeGitHub(t)
	fake.AddTeam(testutil.MakeTeam(1, "Root", "root", "acme"), 0)
	fake.AddTeam(testutil.MakeTeam(2, "Child", "child", "acme"), 1)
	fake.AddTeam(testutil.MakeTeam(3, "Grandchild", "grandchild", "acme"), 2)

	client := newTestClient(t, fake)

	teams, err := client.DescendantTeams(context.Background(), 1)
	if err != nil {
		t.Fatalf("DescendantTeams() failed: %v", err)
	}

	var ids []int64
	for _, team := range teams {
		ids = append(ids, team.ID)
	}
	want := []int64{1, 2, 3}
	if len(ids) != len(want) {
		t.Fatalf("expected %d teams, got %v", len(want), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("teams[%d].ID = %d, want %d", i, ids[i], want[i])
		}
	}
}

func TestDescendantTeams_LeafHasNoChildren(t *testing.T) {
	fake := testutil.NewFakeGitHub(t)
	fake.AddTeam(testutil.MakeTeam(9, "Leaf", "leaf", "acme"), 0)

	client := newTestClient(t, fake)

	teams, err := client.DescendantTeams(context.Background(), 9)
	if err != nil {
		t.Fatalf("DescendantTeams() failed: %v", err)
	}
	if len(teams) != 1 || teams[0].ID != 9 {
		t.Errorf("expected only the leaf itself, got %+v", teams)
	}
}
