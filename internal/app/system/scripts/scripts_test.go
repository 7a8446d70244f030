package scripts_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jbcpollak/strap-core/internal/app/system/scripts"
)

func TestStripShebang(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bash with blank line", "#!/bin/bash\n\necho hi\n", "echo hi\n"},
		{"sh without blank line", "#!/bin/sh\necho hi\n", "echo hi\n"},
		{"no shebang", "echo hi\n", "echo hi\n"},
		{"shebang not at start", "echo hi\n#!/bin/bash\n", "echo hi\n#!/bin/bash\n"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := scripts.StripShebang(tc.in); got != tc.want {
				t.Errorf("StripShebang(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strap.sh")
	if err := os.WriteFile(path, []byte("#!/bin/bash\n\necho strap\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	body, err := scripts.Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if body != "echo strap\n" {
		t.Errorf("Load() = %q, want body without shebang", body)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := scripts.Load(filepath.Join(t.TempDir(), "absent.sh")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
