package artifactory_test

import (
	"context"
	"testing"

	"github.com/jbcpollak/strap-core/internal/artifactory"
	"github.com/jbcpollak/strap-core/internal/testutil"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, fake *testutil.FakeArtifactory, groups []string) *artifactory.Service {
	t.Helper()
	return artifactory.NewService(newTestClient(t, fake), groups, zap.NewNop())
}

func TestIsUser(t *testing.T) {
	fake := testutil.NewFakeArtifactory(t)
	fake.Users["octocat"] = artifactory.User{Name: "octocat"}

	svc := newTestService(t, fake, nil)

	ok, err := svc.IsUser(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("IsUser() failed: %v", err)
	}
	if !ok {
		t.Error("expected octocat to be a user")
	}
}

func TestIsUser_UnknownIsNotAnError(t *testing.T) {
	fake := testutil.NewFakeArtifactory(t)

	svc := newTestService(t, fake, nil)

	ok, err := svc.IsUser(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("IsUser() should swallow not-found, got %v", err)
	}
	if ok {
		t.Error("expected ghost to not be a user")
	}
}

func TestIsUser_FailureStillErrors(t *testing.T) {
	fake := testutil.NewFakeArtifactory(t)
	fake.Fail = true

	svc := newTestService(t, fake, nil)

	if _, err := svc.IsUser(context.Background(), "octocat"); err == nil {
		t.Error("expected an error when the server fails")
	}
}

func TestIsInGroup(t *testing.T) {
	fake := testutil.NewFakeArtifactory(t)
	fake.Users["octocat"] = artifactory.User{Name: "octocat", Groups: []string{"readers"}}

	svc := newTestService(t, fake, nil)

	in, err := svc.IsInGroup(context.Background(), "octocat", "readers")
	if err != nil {
		t.Fatalf("IsInGroup() failed: %v", err)
	}
	if !in {
		t.Error("expected membership in readers")
	}

	in, err = svc.IsInGroup(context.Background(), "octocat", "writers")
	if err != nil {
		t.Fatalf("IsInGroup() failed: %v", err)
	}
	if in {
		t.Error("expected no membership in writers")
	}
}

func TestGroupMemberships(t *testing.T) {
	fake := testutil.NewFakeArtifactory(t)
	fake.Users["octocat"] = artifactory.User{Name: "octocat", Groups: []string{"npm-publishers"}}

	svc := newTestService(t, fake, []string{"readers", "npm-publishers"})

	info, err := svc.GroupMemberships(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("GroupMemberships() failed: %v", err)
	}
	if len(info) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(info))
	}
	if info[0].Name != "readers" || info[0].IsMember {
		t.Errorf("expected non-member of readers, got %+v", info[0])
	}
	if info[1].Name != "npm-publishers" || !info[1].IsMember {
		t.Errorf("expected member of npm-publishers, got %+v", info[1])
	}
	// All configured groups are resolved from a single user fetch.
	if got := fake.Calls(); got != 1 {
		t.Errorf("expected 1 user fetch, got %d", got)
	}
}
