// Package scripts loads the strap script body from disk and strips its
// interpreter directive so it can be composed into the rendered output.
package scripts

import (
	"os"
	"regexp"

	"github.com/pkg/errors"
)

// shebang matches a leading interpreter directive and at most one blank
// line after it.
var shebang = regexp.MustCompile(`^#!/bin/.+\n\n?`)

// Load reads the script at path and returns its body with any leading
// shebang line (and the blank line after it) removed. The file is read
// once at startup; handlers serve the in-memory copy.
func Load(path string) (string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "loading script %q", path)
	}
	return StripShebang(string(body)), nil
}

// StripShebang removes a leading interpreter-directive line from a
// script, along with one following blank line.
func StripShebang(script string) string {
	return shebang.ReplaceAllString(script, "")
}
