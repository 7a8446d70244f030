// Package upstream defines the error taxonomy shared by the GitHub and
// Artifactory clients. Callers classify failures with errors.Is.
package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound means the requested entity does not exist upstream
	// (organization, team, or Artifactory user).
	ErrNotFound = errors.New("not found upstream")

	// ErrAuthRejected means the bearer token was rejected (401/403).
	ErrAuthRejected = errors.New("upstream rejected credentials")

	// ErrUnavailable covers network failures and any other non-2xx
	// response that is not a 404 or an auth rejection.
	ErrUnavailable = errors.New("upstream unavailable")
)

// ClassifyStatus maps an HTTP status code to the taxonomy sentinel.
// 2xx codes return nil.
func ClassifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthRejected, status)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", ErrNotFound, status)
	default:
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	}
}
