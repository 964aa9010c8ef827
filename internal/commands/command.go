package commands

// Command is a validated moderation or channel action. The set of variants
// is closed: only types in this package implement it.
type Command interface {
	// Name returns the command keyword as typed by the user.
	Name() string
	command()
}

// Clear the chat
type Clear struct{}

// Ban username with an optional reason
type Ban struct {
	Username string
	Reason   *string
}

// Timeout username for Duration seconds with an optional reason
type Timeout struct {
	Username string
	Duration int
	Reason   *string
}

// Unban username
type Unban struct {
	Username string
}

// Raid a username
type Raid struct {
	Username string
}

// Unraid cancels a pending raid
type Unraid struct{}

// Followers enables followers-only mode. MinDuration is the minimum follow
// age in seconds, nil when not given.
type Followers struct {
	MinDuration *int
}

type FollowersOff struct{}

// Slow enables slow mode with a wait of Seconds between messages
type Slow struct {
	Seconds int
}

type SlowOff struct{}

type Subscribers struct{}

type SubscribersOff struct{}

type EmoteOnly struct{}

type EmoteOnlyOff struct{}

// Title sets the stream title
type Title struct {
	Text string
}

// Category sets the stream category by name
type Category struct {
	Text string
}

func (Clear) Name() string          { return "clear" }
func (Ban) Name() string            { return "ban" }
func (Timeout) Name() string        { return "timeout" }
func (Unban) Name() string          { return "unban" }
func (Raid) Name() string           { return "raid" }
func (Unraid) Name() string         { return "unraid" }
func (Followers) Name() string      { return "followers" }
func (FollowersOff) Name() string   { return "followersoff" }
func (Slow) Name() string           { return "slow" }
func (SlowOff) Name() string        { return "slowoff" }
func (Subscribers) Name() string    { return "subscribers" }
func (SubscribersOff) Name() string { return "subscribersoff" }
func (EmoteOnly) Name() string      { return "emoteonly" }
func (EmoteOnlyOff) Name() string   { return "emoteonlyoff" }
func (Title) Name() string          { return "title" }
func (Category) Name() string       { return "category" }

func (Clear) command()          {}
func (Ban) command()            {}
func (Timeout) command()        {}
func (Unban) command()          {}
func (Raid) command()           {}
func (Unraid) command()         {}
func (Followers) command()      {}
func (FollowersOff) command()   {}
func (Slow) command()           {}
func (SlowOff) command()        {}
func (Subscribers) command()    {}
func (SubscribersOff) command() {}
func (EmoteOnly) command()      {}
func (EmoteOnlyOff) command()   {}
func (Title) command()          {}
func (Category) command()       {}

// Names lists every supported command keyword in grammar order.
func Names() []string {
	return []string{
		"clear", "ban", "unban", "timeout", "raid", "unraid",
		"followers", "followersoff", "slow", "slowoff",
		"subscribers", "subscribersoff", "emoteonly", "emoteonlyoff",
		"title", "category",
	}
}
