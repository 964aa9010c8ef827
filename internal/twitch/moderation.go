package twitch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ModQuery identifies the broadcaster and the acting moderator.
type ModQuery struct {
	BroadcasterID string
	ModeratorID   string
}

func (q ModQuery) values() url.Values {
	return url.Values{
		"broadcaster_id": {q.BroadcasterID},
		"moderator_id":   {q.ModeratorID},
	}
}

type banData struct {
	UserID   string `json:"user_id"`
	Duration int    `json:"duration,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Ban bans userID. A positive duration (seconds) makes it a timeout.
func (c *Client) Ban(ctx context.Context, q ModQuery, userID string, duration int, reason string) error {
	body := struct {
		Data banData `json:"data"`
	}{Data: banData{UserID: userID, Duration: duration, Reason: reason}}

	if err := c.do(ctx, http.MethodPost, "/moderation/bans", q.values(), body, nil); err != nil {
		return fmt.Errorf("ban user: %w", err)
	}
	return nil
}

func (c *Client) Unban(ctx context.Context, q ModQuery, userID string) error {
	values := q.values()
	values.Set("user_id", userID)
	if err := c.do(ctx, http.MethodDelete, "/moderation/bans", values, nil, nil); err != nil {
		return fmt.Errorf("unban user: %w", err)
	}
	return nil
}

// DeleteChatMessages clears the whole chat.
func (c *Client) DeleteChatMessages(ctx context.Context, q ModQuery) error {
	if err := c.do(ctx, http.MethodDelete, "/moderation/chat", q.values(), nil, nil); err != nil {
		return fmt.Errorf("clear chat: %w", err)
	}
	return nil
}

func (c *Client) StartRaid(ctx context.Context, fromID, toID string) error {
	values := url.Values{
		"from_broadcaster_id": {fromID},
		"to_broadcaster_id":   {toID},
	}
	if err := c.do(ctx, http.MethodPost, "/raids", values, nil, nil); err != nil {
		return fmt.Errorf("start raid: %w", err)
	}
	return nil
}

func (c *Client) CancelRaid(ctx context.Context, broadcasterID string) error {
	values := url.Values{"broadcaster_id": {broadcasterID}}
	if err := c.do(ctx, http.MethodDelete, "/raids", values, nil, nil); err != nil {
		return fmt.Errorf("cancel raid: %w", err)
	}
	return nil
}

// ChatSettings is a partial chat settings update; nil fields are untouched.
type ChatSettings struct {
	FollowerMode         *bool `json:"follower_mode,omitempty"`
	FollowerModeDuration *int  `json:"follower_mode_duration,omitempty"` // minutes
	SlowMode             *bool `json:"slow_mode,omitempty"`
	SlowModeWaitTime     *int  `json:"slow_mode_wait_time,omitempty"` // seconds
	SubscriberMode       *bool `json:"subscriber_mode,omitempty"`
	EmoteMode            *bool `json:"emote_mode,omitempty"`
}

func (c *Client) UpdateChatSettings(ctx context.Context, q ModQuery, settings ChatSettings) error {
	if err := c.do(ctx, http.MethodPatch, "/chat/settings", q.values(), settings, nil); err != nil {
		return fmt.Errorf("update chat settings: %w", err)
	}
	return nil
}

// ChannelUpdate is a partial channel information update.
type ChannelUpdate struct {
	Title  *string `json:"title,omitempty"`
	GameID *string `json:"game_id,omitempty"`
}

func (c *Client) ModifyChannel(ctx context.Context, broadcasterID string, update ChannelUpdate) error {
	values := url.Values{"broadcaster_id": {broadcasterID}}
	if err := c.do(ctx, http.MethodPatch, "/channels", values, update, nil); err != nil {
		return fmt.Errorf("modify channel: %w", err)
	}
	return nil
}

func (c *Client) AddModerator(ctx context.Context, broadcasterID, userID string) error {
	values := url.Values{"broadcaster_id": {broadcasterID}, "user_id": {userID}}
	if err := c.do(ctx, http.MethodPost, "/moderation/moderators", values, nil, nil); err != nil {
		return fmt.Errorf("mod user: %w", err)
	}
	return nil
}

func (c *Client) RemoveModerator(ctx context.Context, broadcasterID, userID string) error {
	values := url.Values{"broadcaster_id": {broadcasterID}, "user_id": {userID}}
	if err := c.do(ctx, http.MethodDelete, "/moderation/moderators", values, nil, nil); err != nil {
		return fmt.Errorf("unmod user: %w", err)
	}
	return nil
}
