package eventbus

import (
	"github.com/Rorical/RoriTwitch/internal/commands"
	"github.com/Rorical/RoriTwitch/internal/models"
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// SendMessageEvent - UI asks core to post a chat message
type SendMessageEvent struct {
	Message string
}

func (e SendMessageEvent) UIEvent() {}

// ExecuteCommandEvent - UI asks core to run an already parsed command
type ExecuteCommandEvent struct {
	Command commands.Command
}

func (e ExecuteCommandEvent) UIEvent() {}

// JoinChannelEvent - UI asks core to switch chat to another channel
type JoinChannelEvent struct {
	Channel string
}

func (e JoinChannelEvent) UIEvent() {}

// StateUpdateEvent - Core pushes state changes to UI
type StateUpdateEvent struct {
	Messages  []models.Message // Only messages added since the last update
	Reset     bool             // Drop previously sent messages first
	Channel   string
	Connected bool
	Error     error
}

func (e StateUpdateEvent) CoreEvent() {}

// CommandResultEvent - Core reports the outcome of an ExecuteCommandEvent
type CommandResultEvent struct {
	Command commands.Command
	Err     error
}

func (e CommandResultEvent) CoreEvent() {}
