package twitch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Rorical/RoriTwitch/internal/commands"
)

// minTimeoutSeconds is the shortest timeout Helix accepts.
const minTimeoutSeconds = 1

// Executor runs parsed commands against the channel it is pointed at.
type Executor struct {
	client *Client

	mu            sync.Mutex
	channel       string
	broadcasterID string
	moderatorID   string
}

func NewExecutor(client *Client, channel string) *Executor {
	return &Executor{client: client, channel: normalizeLogin(channel)}
}

// SetChannel points the executor at another broadcaster.
func (e *Executor) SetChannel(channel string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	channel = normalizeLogin(channel)
	if channel != e.channel {
		e.channel = channel
		e.broadcasterID = ""
	}
}

func (e *Executor) Channel() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.channel
}

// ids resolves and caches the broadcaster and moderator IDs. Lookups run
// without holding the lock so SetChannel never waits on the network.
func (e *Executor) ids(ctx context.Context) (ModQuery, error) {
	e.mu.Lock()
	channel := e.channel
	q := ModQuery{BroadcasterID: e.broadcasterID, ModeratorID: e.moderatorID}
	e.mu.Unlock()

	if q.ModeratorID == "" {
		info, err := e.client.ValidateToken(ctx)
		if err != nil {
			return ModQuery{}, err
		}
		q.ModeratorID = info.UserID
	}
	if q.BroadcasterID == "" {
		if channel == "" {
			return ModQuery{}, fmt.Errorf("no channel selected")
		}
		id, err := e.client.UserID(ctx, channel)
		if err != nil {
			return ModQuery{}, err
		}
		q.BroadcasterID = id
	}

	e.mu.Lock()
	e.moderatorID = q.ModeratorID
	// the channel may have switched during the lookup
	if e.channel == channel {
		e.broadcasterID = q.BroadcasterID
	}
	e.mu.Unlock()
	return q, nil
}

// Execute maps cmd onto the matching Helix request.
func (e *Executor) Execute(ctx context.Context, cmd commands.Command) error {
	q, err := e.ids(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}

	slog.Info("executing command", "command", cmd.Name(), "broadcaster_id", q.BroadcasterID)

	switch c := cmd.(type) {
	case commands.Clear:
		return e.client.DeleteChatMessages(ctx, q)
	case commands.Ban:
		return e.ban(ctx, q, c.Username, 0, c.Reason)
	case commands.Timeout:
		// Helix treats a ban without a duration as permanent.
		return e.ban(ctx, q, c.Username, max(c.Duration, minTimeoutSeconds), c.Reason)
	case commands.Unban:
		userID, err := e.client.UserID(ctx, c.Username)
		if err != nil {
			return err
		}
		return e.client.Unban(ctx, q, userID)
	case commands.Raid:
		userID, err := e.client.UserID(ctx, c.Username)
		if err != nil {
			return err
		}
		return e.client.StartRaid(ctx, q.BroadcasterID, userID)
	case commands.Unraid:
		return e.client.CancelRaid(ctx, q.BroadcasterID)
	case commands.Followers:
		settings := ChatSettings{FollowerMode: boolPtr(true)}
		if c.MinDuration != nil {
			minutes := (*c.MinDuration + 59) / 60
			settings.FollowerModeDuration = &minutes
		}
		return e.client.UpdateChatSettings(ctx, q, settings)
	case commands.FollowersOff:
		return e.client.UpdateChatSettings(ctx, q, ChatSettings{FollowerMode: boolPtr(false)})
	case commands.Slow:
		seconds := c.Seconds
		return e.client.UpdateChatSettings(ctx, q, ChatSettings{SlowMode: boolPtr(true), SlowModeWaitTime: &seconds})
	case commands.SlowOff:
		return e.client.UpdateChatSettings(ctx, q, ChatSettings{SlowMode: boolPtr(false)})
	case commands.Subscribers:
		return e.client.UpdateChatSettings(ctx, q, ChatSettings{SubscriberMode: boolPtr(true)})
	case commands.SubscribersOff:
		return e.client.UpdateChatSettings(ctx, q, ChatSettings{SubscriberMode: boolPtr(false)})
	case commands.EmoteOnly:
		return e.client.UpdateChatSettings(ctx, q, ChatSettings{EmoteMode: boolPtr(true)})
	case commands.EmoteOnlyOff:
		return e.client.UpdateChatSettings(ctx, q, ChatSettings{EmoteMode: boolPtr(false)})
	case commands.Title:
		title := c.Text
		return e.client.ModifyChannel(ctx, q.BroadcasterID, ChannelUpdate{Title: &title})
	case commands.Category:
		return e.setCategory(ctx, q.BroadcasterID, c.Text)
	}

	return fmt.Errorf("command %s has no executor", cmd.Name())
}

func (e *Executor) ban(ctx context.Context, q ModQuery, username string, duration int, reason *string) error {
	userID, err := e.client.UserID(ctx, username)
	if err != nil {
		return err
	}
	var r string
	if reason != nil {
		r = *reason
	}
	return e.client.Ban(ctx, q, userID, duration, r)
}

// setCategory looks the category up by name. An empty name clears it.
func (e *Executor) setCategory(ctx context.Context, broadcasterID, name string) error {
	gameID := ""
	if name != "" {
		category, err := e.findCategory(ctx, name)
		if err != nil {
			return err
		}
		gameID = category.ID
	}
	return e.client.ModifyChannel(ctx, broadcasterID, ChannelUpdate{GameID: &gameID})
}

func (e *Executor) findCategory(ctx context.Context, name string) (Category, error) {
	categories, err := e.client.SearchCategories(ctx, name)
	if err != nil {
		return Category{}, err
	}
	if len(categories) == 0 {
		return Category{}, fmt.Errorf("category %q: %w", name, ErrNotFound)
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return categories[0], nil
}

// Mod grants moderator to username on the current channel.
func (e *Executor) Mod(ctx context.Context, username string) error {
	return e.moderators(ctx, username, e.client.AddModerator)
}

// Unmod revokes moderator from username on the current channel.
func (e *Executor) Unmod(ctx context.Context, username string) error {
	return e.moderators(ctx, username, e.client.RemoveModerator)
}

func (e *Executor) moderators(ctx context.Context, username string, call func(context.Context, string, string) error) error {
	q, err := e.ids(ctx)
	if err != nil {
		return err
	}
	userID, err := e.client.UserID(ctx, username)
	if err != nil {
		return err
	}
	return call(ctx, q.BroadcasterID, userID)
}

func normalizeLogin(s string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "#")
}

func boolPtr(b bool) *bool { return &b }
