package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rorical/RoriTwitch/internal/commands"
	"github.com/Rorical/RoriTwitch/internal/config"
	"github.com/Rorical/RoriTwitch/internal/eventbus"
	"github.com/Rorical/RoriTwitch/internal/models"
)

const commandTimeout = 15 * time.Second

// Chat is the live chat connection.
type Chat interface {
	Connect(ctx context.Context, channel string) error
	Join(channel string) error
	Send(text string) error
	Messages() <-chan models.Message
	Close() error
}

// Executor runs parsed commands against the current channel.
type Executor interface {
	Execute(ctx context.Context, cmd commands.Command) error
	SetChannel(channel string)
}

type ChatService struct {
	profile  config.Profile
	ready    bool
	chat     Chat
	executor Executor
	state    *ChatState
	eventBus *eventbus.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewChatService creates a ChatService regardless of config validity.
// Without a usable profile it only shows setup instructions.
func NewChatService(cfg *config.Config, eb *eventbus.EventBus, chat Chat, executor Executor) *ChatService {
	profile := cfg.Current()
	ctx, cancel := context.WithCancel(context.Background())

	service := &ChatService{
		profile:  profile,
		ready:    cfg.IsValid() && chat != nil,
		chat:     chat,
		executor: executor,
		state:    NewChatState(profile.Channel, cfg.Frontend.MaxMessages),
		eventBus: eb,
		ctx:      ctx,
		cancel:   cancel,
	}

	service.addWelcomeMessages(cfg)

	return service
}

// Start runs the core logic in goroutines
func (cs *ChatService) Start() {
	// Send initial state to UI immediately
	cs.pushStateToUI()
	go cs.eventLoop()

	if cs.ready {
		go cs.runChat()
	}
}

func (cs *ChatService) Stop() {
	cs.cancel()
	if cs.chat != nil {
		cs.chat.Close()
	}
}

func (cs *ChatService) IsReady() bool {
	return cs.ready
}

func (cs *ChatService) State() *ChatState {
	return cs.state
}

func (cs *ChatService) runChat() {
	channel := cs.state.Channel()
	if err := cs.chat.Connect(cs.ctx, channel); err != nil {
		slog.Error("chat connect failed", "channel", channel, "error", err)
		cs.state.SetError(err)
		cs.state.AddErrorMessage(fmt.Sprintf("Could not connect to chat: %v", err))
		cs.pushStateToUI()
		return
	}

	cs.state.SetConnected(true)
	cs.state.ClearError()
	cs.pushStateToUI()

	for msg := range cs.chat.Messages() {
		// Lines from a channel we already left are still in flight after a switch.
		if msg.Channel != "" && msg.Channel != cs.state.Channel() {
			continue
		}
		cs.state.AddMessage(msg)
		cs.pushStateToUI()
	}

	cs.state.SetConnected(false)
	if cs.ctx.Err() == nil {
		cs.state.AddErrorMessage("Disconnected from chat")
	}
	cs.pushStateToUI()
}

func (cs *ChatService) eventLoop() {
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SendMessageEvent:
		cs.sendMessage(e.Message)
	case eventbus.ExecuteCommandEvent:
		go cs.executeCommand(e.Command)
	case eventbus.JoinChannelEvent:
		cs.joinChannel(e.Channel)
	}
}

func (cs *ChatService) sendMessage(text string) {
	if !cs.ready {
		cs.state.AddErrorMessage("Chat is not configured")
		cs.pushStateToUI()
		return
	}

	if err := cs.chat.Send(text); err != nil {
		slog.Warn("send failed", "error", err)
		cs.state.AddErrorMessage(fmt.Sprintf("Message not sent: %v", err))
		cs.pushStateToUI()
		return
	}

	// Twitch does not echo our own messages back.
	cs.state.AddMessage(models.Message{
		Content:  text,
		Type:     models.Chat,
		Channel:  cs.state.Channel(),
		Username: cs.profile.Username,
		Time:     time.Now(),
		Self:     true,
	})
	cs.pushStateToUI()
}

func (cs *ChatService) executeCommand(cmd commands.Command) {
	var err error
	if cs.executor == nil {
		err = errors.New("commands are not available without a token")
	} else {
		ctx, cancel := context.WithTimeout(cs.ctx, commandTimeout)
		err = cs.executor.Execute(ctx, cmd)
		cancel()
	}

	if err != nil {
		slog.Warn("command failed", "command", cmd.Name(), "error", err)
		cs.state.AddErrorMessage(fmt.Sprintf("/%s failed: %v", cmd.Name(), err))
	} else {
		slog.Info("command executed", "command", cmd.Name())
		cs.state.AddProgramMessage(fmt.Sprintf("/%s done", cmd.Name()))
	}

	if sendErr := cs.eventBus.SendToUI(eventbus.CommandResultEvent{Command: cmd, Err: err}); sendErr != nil {
		slog.Error("error sending command result to UI", "error", sendErr)
	}
	cs.pushStateToUI()
}

func (cs *ChatService) joinChannel(channel string) {
	if channel == "" || channel == cs.state.Channel() {
		return
	}

	slog.Info("switching channel", "from", cs.state.Channel(), "to", channel)
	cs.state.SwitchChannel(channel)
	if cs.executor != nil {
		cs.executor.SetChannel(channel)
	}

	if cs.ready && cs.state.IsConnected() {
		if err := cs.chat.Join(channel); err != nil {
			cs.state.AddErrorMessage(fmt.Sprintf("Could not join %s: %v", channel, err))
		}
	}
	cs.state.AddProgramMessage(fmt.Sprintf("Joined #%s", channel))
	cs.pushStateToUI()
}

func (cs *ChatService) pushStateToUI() {
	// Only send new messages to reduce resource usage
	messages, reset := cs.state.TakeUpdate()

	if err := cs.eventBus.SendToUI(eventbus.StateUpdateEvent{
		Messages:  messages,
		Reset:     reset,
		Channel:   cs.state.Channel(),
		Connected: cs.state.IsConnected(),
		Error:     cs.state.GetLastError(),
	}); err != nil {
		// If we can't send to UI, log the error and continue
		slog.Error("error sending state to UI", "error", err)
	}
}

func (cs *ChatService) addWelcomeMessages(cfg *config.Config) {
	cs.state.AddProgramMessage("-- RORITWITCH --")

	if cfg.IsValid() {
		cs.state.AddProgramMessage(fmt.Sprintf("Active Profile: %s [OK]", cfg.ActiveProfile))
		cs.state.AddProgramMessage(fmt.Sprintf("Joining #%s", cs.profile.Channel))
	} else {
		cs.state.AddProgramMessage(fmt.Sprintf("Active Profile: %s [NOT CONFIGURED]", cfg.ActiveProfile))
		cs.state.AddProgramMessage("Configure your profile to start chatting:")
		cs.state.AddProgramMessage("• Run: roritwitch profile add <name>")
		cs.state.AddProgramMessage("• Or edit: " + cfg.Path())
	}

	cs.state.AddProgramMessage("Commands start with '/', e.g. /ban <user> [reason]")
	cs.state.AddProgramMessage("Controls: Ctrl+F following, Ctrl+G category, Ctrl+C exit")
	cs.state.AddProgramMessage("")
}
