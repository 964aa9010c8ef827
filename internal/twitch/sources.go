package twitch

import (
	"context"
	"strings"
	"sync"
)

// FollowingSource lists the channels the token owner follows.
type FollowingSource struct {
	client   *Client
	liveOnly bool

	mu     sync.Mutex
	userID string
}

func NewFollowingSource(client *Client, liveOnly bool) *FollowingSource {
	return &FollowingSource{client: client, liveOnly: liveOnly}
}

// Fetch ignores query: Helix has no filter on followed channels.
func (s *FollowingSource) Fetch(ctx context.Context, _ string) ([]FollowedChannel, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.FollowedChannels(ctx, userID, s.liveOnly)
}

func (s *FollowingSource) owner(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID != "" {
		return s.userID, nil
	}
	info, err := s.client.ValidateToken(ctx)
	if err != nil {
		return "", err
	}
	s.userID = info.UserID
	return s.userID, nil
}

// CategorySource searches categories by the widget query.
type CategorySource struct {
	client *Client
}

func NewCategorySource(client *Client) *CategorySource {
	return &CategorySource{client: client}
}

func (s *CategorySource) Fetch(ctx context.Context, query string) ([]Category, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return s.client.SearchCategories(ctx, query)
}
