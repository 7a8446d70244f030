package bootstrap_test

import (
	"strings"
	"testing"

	"github.com/jbcpollak/strap-core/internal/app/bootstrap"
	"go.uber.org/zap"
)

func TestSplitList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"acme", []string{"acme"}},
		{"acme,other", []string{"acme", "other"}},
		{" acme , other , ", []string{"acme", "other"}},
		{",,", nil},
	}
	for _, tc := range cases {
		got := bootstrap.SplitList(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("SplitList(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("SplitList(%q)[%d] = %q, want %q", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}

func TestParseTeamIDs(t *testing.T) {
	ids, err := bootstrap.ParseTeamIDs("12, 345,6789")
	if err != nil {
		t.Fatalf("ParseTeamIDs() failed: %v", err)
	}
	want := []int64{12, 345, 6789}
	if len(ids) != len(want) {
		t.Fatalf("ParseTeamIDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
}

func TestParseTeamIDs_Invalid(t *testing.T) {
	_, err := bootstrap.ParseTeamIDs("12,platform")
	if err == nil {
		t.Fatal("expected an error for a non-numeric team ID")
	}
	if !strings.Contains(err.Error(), "platform") {
		t.Errorf("error should name the bad entry, got %v", err)
	}
}

func validAppConfig() bootstrap.AppConfig {
	return bootstrap.AppConfig{
		GitHub: bootstrap.GitHubConfig{
			ClientID:           "id",
			ClientSecret:       "secret",
			OrganizationLogins: []string{"acme"},
			TeamIDs:            []int64{1},
		},
		Artifactory: bootstrap.ArtifactoryConfig{
			BaseURL: "https://example.jfrog.io/artifactory/",
			Token:   "tok",
		},
		BaseURL: "http://localhost:5000",
	}
}

func TestValidateConfig(t *testing.T) {
	if err := bootstrap.ValidateConfig(nil, validAppConfig(), zap.NewNop()); err != nil {
		t.Errorf("expected valid config to pass, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*bootstrap.AppConfig)
	}{
		{"missing client id", func(c *bootstrap.AppConfig) { c.GitHub.ClientID = "" }},
		{"missing client secret", func(c *bootstrap.AppConfig) { c.GitHub.ClientSecret = "" }},
		{"no organizations", func(c *bootstrap.AppConfig) { c.GitHub.OrganizationLogins = nil }},
		{"no teams", func(c *bootstrap.AppConfig) { c.GitHub.TeamIDs = nil }},
		{"missing artifactory url", func(c *bootstrap.AppConfig) { c.Artifactory.BaseURL = "" }},
		{"missing artifactory token", func(c *bootstrap.AppConfig) { c.Artifactory.Token = "" }},
		{"missing base url", func(c *bootstrap.AppConfig) { c.BaseURL = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validAppConfig()
			tc.mutate(&cfg)
			if err := bootstrap.ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
				t.Error("expected validation to fail")
			}
		})
	}
}
