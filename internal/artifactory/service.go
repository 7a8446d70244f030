package artifactory

import (
	"context"
	"errors"
	"slices"

	"github.com/jbcpollak/strap-core/internal/upstream"
	"go.uber.org/zap"
)

// Service answers group-membership questions against the configured
// group list. Unlike the GitHub side, the client here is shared across
// requests: it authenticates with a static admin token, not the
// caller's.
type Service struct {
	client *Client
	groups []string
	log    *zap.Logger
}

// NewService wraps a client with the configured group names.
func NewService(client *Client, groups []string, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		groups: groups,
		log:    logger,
	}
}

// BaseURL returns the Artifactory instance URL for view models.
func (s *Service) BaseURL() string {
	return s.client.BaseURL()
}

// IsUser reports whether the username is registered in Artifactory.
// An unknown user is an expected outcome, not an error; every other
// failure propagates.
func (s *Service) IsUser(ctx context.Context, username string) (bool, error) {
	_, err := s.client.User(ctx, username)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			s.log.Debug("not an Artifactory user", zap.String("username", username))
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsInGroup reports whether the user belongs to one group. Callers
// checking several groups should use GroupMemberships, which fetches the
// user record once.
func (s *Service) IsInGroup(ctx context.Context, username, group string) (bool, error) {
	user, err := s.client.User(ctx, username)
	if err != nil {
		return false, err
	}
	return slices.Contains(user.Groups, group), nil
}

// GroupMemberships resolves membership for every configured group with
// a single user lookup. Results are in configured group order.
func (s *Service) GroupMemberships(ctx context.Context, username string) ([]GroupMembership, error) {
	user, err := s.client.User(ctx, username)
	if err != nil {
		return nil, err
	}

	inGroup := make(map[string]bool, len(user.Groups))
	for _, g := range user.Groups {
		inGroup[g] = true
	}

	results := make([]GroupMembership, len(s.groups))
	for i, name := range s.groups {
		results[i] = GroupMembership{Name: name, IsMember: inGroup[name]}
	}
	return results, nil
}
