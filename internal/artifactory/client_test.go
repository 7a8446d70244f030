package artifactory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jbcpollak/strap-core/internal/artifactory"
	"github.com/jbcpollak/strap-core/internal/testutil"
	"github.com/jbcpollak/strap-core/internal/upstream"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, fake *testutil.FakeArtifactory) *artifactory.Client {
	t.Helper()
	client, err := artifactory.NewClient(fake.Server.URL, "art-token", zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	return client
}

func TestNewClient_RequiresConfig(t *testing.T) {
	if _, err := artifactory.NewClient("", "tok", zap.NewNop()); err == nil {
		t.Error("expected an error for empty base URL")
	}
	if _, err := artifactory.NewClient("https://example.jfrog.io/", "", zap.NewNop()); err == nil {
		t.Error("expected an error for empty token")
	}
}

func TestUser(t *testing.T) {
	fake := testutil.NewFakeArtifactory(t)
	fake.Users["octocat"] = artifactory.User{
		Name:   "octocat",
		Email:  "octocat@example.com",
		Realm:  "internal",
		Groups: []string{"readers", "npm-publishers"},
	}

	client := newTestClient(t, fake)

	user, err := client.User(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("User() failed: %v", err)
	}
	if user.Email != "octocat@example.com" || len(user.Groups) != 2 {
		t.Errorf("unexpected user: %+v", user)
	}
	if fake.LastToken() != "art-token" {
		t.Errorf("expected API token header, got %q", fake.LastToken())
	}
}

func TestUser_NotFound(t *testing.T) {
	fake := testutil.NewFakeArtifactory(t)

	client := newTestClient(t, fake)

	_, err := client.User(context.Background(), "ghost")
	if !errors.Is(err, upstream.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUser_Unavailable(t *testing.T) {
	fake := testutil.NewFakeArtifactory(t)
	fake.Fail = true

	client := newTestClient(t, fake)

	_, err := client.User(context.Background(), "octocat")
	if !errors.Is(err, upstream.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
