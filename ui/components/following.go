package components

import (
	"time"

	"github.com/Rorical/RoriTwitch/internal/twitch"
)

// FollowingErrorLines is shown when the followed channels cannot be listed.
var FollowingErrorLines = []string{
	"Failed to get the list of channels you follow.",
	"Either your token lacks the user:read:follows scope, or the API is down.",
	"Generate a token with that scope and update it with: roritwitch profile edit",
	"",
	"Hit ESC to dismiss this error.",
}

// FollowingWidget lists followed channels. A selection carries the
// channel login.
type FollowingWidget struct {
	*SearchWidget[twitch.FollowedChannel]
}

func NewFollowingWidget(source ItemSource[twitch.FollowedChannel], liveOnly bool, timeout time.Duration) *FollowingWidget {
	title := "Following"
	if liveOnly {
		title = "Live following"
	}

	return &FollowingWidget{
		SearchWidget: NewSearchWidget(SearchConfig[twitch.FollowedChannel]{
			Title:       title,
			Placeholder: "enter to reload",
			Source:      source,
			Display:     twitch.FollowedChannel.String,
			Key:         func(c twitch.FollowedChannel) string { return c.Login },
			ErrorLines:  FollowingErrorLines,
			Timeout:     timeout,
		}),
	}
}
