package twitch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// followerCount is the page size used for followed channel lookups.
const followerCount = 100

// FollowedChannel is one channel the token owner follows. Game and Title are
// only filled for live listings.
type FollowedChannel struct {
	Login string
	Game  string
	Title string
	Live  bool
}

// String renders the channel the way the following picker lists it.
func (f FollowedChannel) String() string {
	if !f.Live {
		return f.Login
	}
	game := "[" + truncate(f.Game, 22) + "]"
	return fmt.Sprintf("%-16.16s: %-24s %s", f.Login, game, f.Title)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

type followedUser struct {
	BroadcasterLogin string `json:"broadcaster_login"`
}

type streamingUser struct {
	UserLogin string `json:"user_login"`
	GameName  string `json:"game_name"`
	Title     string `json:"title"`
}

// FollowedChannels lists the channels userID follows, or only the ones that
// are currently live.
func (c *Client) FollowedChannels(ctx context.Context, userID string, live bool) ([]FollowedChannel, error) {
	query := url.Values{
		"user_id": {userID},
		"first":   {strconv.Itoa(followerCount)},
	}

	if live {
		var streams dataList[streamingUser]
		if err := c.get(ctx, "/streams/followed", query, &streams); err != nil {
			return nil, fmt.Errorf("get live followed channels: %w", err)
		}
		channels := make([]FollowedChannel, 0, len(streams.Data))
		for _, s := range streams.Data {
			channels = append(channels, FollowedChannel{
				Login: s.UserLogin,
				Game:  s.GameName,
				Title: s.Title,
				Live:  true,
			})
		}
		return channels, nil
	}

	var followed dataList[followedUser]
	if err := c.get(ctx, "/channels/followed", query, &followed); err != nil {
		return nil, fmt.Errorf("get followed channels: %w", err)
	}
	channels := make([]FollowedChannel, 0, len(followed.Data))
	for _, f := range followed.Data {
		channels = append(channels, FollowedChannel{Login: f.BroadcasterLogin})
	}
	return channels, nil
}

// Category is a game or stream category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c Category) String() string {
	return c.Name
}

// SearchCategories returns categories whose name matches query.
func (c *Client) SearchCategories(ctx context.Context, query string) ([]Category, error) {
	var result dataList[Category]
	q := url.Values{"query": {query}, "first": {"25"}}
	if err := c.get(ctx, "/search/categories", q, &result); err != nil {
		return nil, fmt.Errorf("search categories: %w", err)
	}
	return result.Data, nil
}
