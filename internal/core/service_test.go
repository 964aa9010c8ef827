package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriTwitch/internal/commands"
	"github.com/Rorical/RoriTwitch/internal/config"
	"github.com/Rorical/RoriTwitch/internal/eventbus"
	"github.com/Rorical/RoriTwitch/internal/models"
)

type fakeChat struct {
	mu       sync.Mutex
	sent     []string
	joined   []string
	sendErr  error
	messages chan models.Message
}

func newFakeChat() *fakeChat {
	return &fakeChat{messages: make(chan models.Message, 8)}
}

func (f *fakeChat) Connect(ctx context.Context, channel string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joined = append(f.joined, channel)
	return nil
}

func (f *fakeChat) Join(channel string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joined = append(f.joined, channel)
	return nil
}

func (f *fakeChat) Send(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeChat) Messages() <-chan models.Message { return f.messages }
func (f *fakeChat) Close() error                    { return nil }

type fakeExecutor struct {
	mu       sync.Mutex
	executed []commands.Command
	channel  string
	err      error
}

func (f *fakeExecutor) Execute(ctx context.Context, cmd commands.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.executed = append(f.executed, cmd)
	return f.err
}

func (f *fakeExecutor) SetChannel(channel string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channel = channel
}

func loadConfig(t *testing.T, body string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	return cfg
}

const validConfig = `
active_profile: main
profiles:
  main:
    username: modbot
    token: secret
    channel: streamer
frontend:
  max_messages: 20
`

func newService(t *testing.T) (*ChatService, *fakeChat, *fakeExecutor, *eventbus.EventBus) {
	t.Helper()
	eb := eventbus.NewEventBus()
	chat := newFakeChat()
	exec := &fakeExecutor{}
	svc := NewChatService(loadConfig(t, validConfig), eb, chat, exec)
	t.Cleanup(func() {
		svc.Stop()
		eb.Close()
	})
	return svc, chat, exec, eb
}

func nextState(t *testing.T, eb *eventbus.EventBus) eventbus.StateUpdateEvent {
	t.Helper()
	for {
		select {
		case ev := <-eb.CoreToUI():
			if state, ok := ev.(eventbus.StateUpdateEvent); ok {
				return state
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for state update")
		}
	}
}

func TestChatService_WelcomeMessages(t *testing.T) {
	svc, _, _, eb := newService(t)
	assert.True(t, svc.IsReady())

	svc.pushStateToUI()
	state := nextState(t, eb)
	assert.Equal(t, "streamer", state.Channel)
	require.NotEmpty(t, state.Messages)
	assert.Equal(t, "-- RORITWITCH --", state.Messages[0].Content)
	assert.Equal(t, models.Program, state.Messages[0].Type)

	// A second push carries nothing already delivered.
	svc.pushStateToUI()
	assert.Empty(t, nextState(t, eb).Messages)
}

func TestChatService_NotConfigured(t *testing.T) {
	eb := eventbus.NewEventBus()
	defer eb.Close()
	svc := NewChatService(loadConfig(t, "active_profile: x\nprofiles:\n  x: {}\n"), eb, newFakeChat(), nil)

	assert.False(t, svc.IsReady())
	svc.handleUIEvent(eventbus.SendMessageEvent{Message: "hello"})

	messages := svc.State().GetMessages()
	last := messages[len(messages)-1]
	assert.Equal(t, models.Error, last.Type)
	assert.Equal(t, "Chat is not configured", last.Content)
}

func TestChatService_SendMessage(t *testing.T) {
	svc, chat, _, eb := newService(t)
	svc.State().TakeUpdate()

	svc.handleUIEvent(eventbus.SendMessageEvent{Message: "hello chat"})
	assert.Equal(t, []string{"hello chat"}, chat.sent)

	state := nextState(t, eb)
	require.Len(t, state.Messages, 1)
	assert.True(t, state.Messages[0].Self)
	assert.Equal(t, "modbot", state.Messages[0].Username)
	assert.Equal(t, "streamer", state.Messages[0].Channel)

	chat.sendErr = errors.New("boom")
	svc.handleUIEvent(eventbus.SendMessageEvent{Message: "again"})
	state = nextState(t, eb)
	require.Len(t, state.Messages, 1)
	assert.Equal(t, models.Error, state.Messages[0].Type)
	assert.Contains(t, state.Messages[0].Content, "boom")
}

func TestChatService_ExecuteCommand(t *testing.T) {
	svc, _, exec, eb := newService(t)
	svc.State().TakeUpdate()

	svc.executeCommand(commands.Slow{Seconds: 30})

	ev := <-eb.CoreToUI()
	result, ok := ev.(eventbus.CommandResultEvent)
	require.True(t, ok)
	assert.NoError(t, result.Err)
	assert.Equal(t, commands.Slow{Seconds: 30}, result.Command)
	assert.Equal(t, []commands.Command{commands.Slow{Seconds: 30}}, exec.executed)

	state := nextState(t, eb)
	require.Len(t, state.Messages, 1)
	assert.Equal(t, "/slow done", state.Messages[0].Content)
}

func TestChatService_ExecuteCommandFailure(t *testing.T) {
	svc, _, exec, eb := newService(t)
	svc.State().TakeUpdate()
	exec.err = errors.New("missing scope")

	svc.executeCommand(commands.Clear{})

	result := (<-eb.CoreToUI()).(eventbus.CommandResultEvent)
	assert.EqualError(t, result.Err, "missing scope")

	state := nextState(t, eb)
	require.Len(t, state.Messages, 1)
	assert.Equal(t, models.Error, state.Messages[0].Type)
	assert.Equal(t, "/clear failed: missing scope", state.Messages[0].Content)
}

func TestChatService_JoinChannel(t *testing.T) {
	svc, chat, exec, eb := newService(t)
	svc.State().SetConnected(true)
	svc.State().AddMessage(models.Message{Content: "old", Channel: "streamer"})

	svc.handleUIEvent(eventbus.JoinChannelEvent{Channel: "other"})

	assert.Equal(t, []string{"other"}, chat.joined)
	assert.Equal(t, "other", exec.channel)

	state := nextState(t, eb)
	assert.True(t, state.Reset)
	assert.Equal(t, "other", state.Channel)
	require.Len(t, state.Messages, 1)
	assert.Equal(t, "Joined #other", state.Messages[0].Content)

	// Joining the current channel again is a no-op.
	svc.handleUIEvent(eventbus.JoinChannelEvent{Channel: "other"})
	assert.Len(t, chat.joined, 1)
}

func TestChatState_Cap(t *testing.T) {
	state := NewChatState("streamer", 3)
	for _, c := range []string{"a", "b", "c", "d", "e"} {
		state.AddMessage(models.Message{Content: c})
	}

	messages := state.GetMessages()
	require.Len(t, messages, 3)
	assert.Equal(t, "c", messages[0].Content)
	assert.Equal(t, "e", messages[2].Content)

	pending, reset := state.TakeUpdate()
	assert.Len(t, pending, 3)
	assert.False(t, reset)

	state.SwitchChannel("other")
	pending, reset = state.TakeUpdate()
	assert.Empty(t, pending)
	assert.True(t, reset)
	assert.Empty(t, state.GetMessages())
}
