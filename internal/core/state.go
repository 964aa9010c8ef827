package core

import (
	"sync"

	"github.com/Rorical/RoriTwitch/internal/models"
)

// ChatState holds the messages of the joined channel. The UI receives
// them incrementally through TakeUpdate.
type ChatState struct {
	mu          sync.RWMutex
	messages    []models.Message
	maxMessages int
	channel     string
	connected   bool
	lastError   error

	// Messages appended since the last TakeUpdate, capped at maxMessages
	pending []models.Message
	reset   bool
}

func NewChatState(channel string, maxMessages int) *ChatState {
	if maxMessages <= 0 {
		maxMessages = 500
	}
	return &ChatState{
		messages:    make([]models.Message, 0),
		maxMessages: maxMessages,
		channel:     channel,
	}
}

// AddMessage appends msg, dropping the oldest message past the cap.
func (cs *ChatState) AddMessage(msg models.Message) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.messages = appendCapped(cs.messages, msg, cs.maxMessages)
	cs.pending = appendCapped(cs.pending, msg, cs.maxMessages)
}

// AddProgramMessage adds a program message (system notifications)
func (cs *ChatState) AddProgramMessage(content string) {
	cs.AddMessage(models.Message{Content: content, Type: models.Program})
}

func (cs *ChatState) AddErrorMessage(content string) {
	cs.AddMessage(models.Message{Content: content, Type: models.Error})
}

func appendCapped(list []models.Message, msg models.Message, max int) []models.Message {
	list = append(list, msg)
	if len(list) > max {
		list = append(list[:0:0], list[len(list)-max:]...)
	}
	return list
}

// SwitchChannel forgets the previous channel's messages.
func (cs *ChatState) SwitchChannel(channel string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.channel = channel
	cs.messages = cs.messages[:0:0]
	cs.pending = nil
	cs.reset = true
}

// TakeUpdate returns the messages added since the previous call and
// whether the UI must drop what it already shows.
func (cs *ChatState) TakeUpdate() ([]models.Message, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	pending, reset := cs.pending, cs.reset
	cs.pending = nil
	cs.reset = false
	return pending, reset
}

func (cs *ChatState) GetMessages() []models.Message {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	result := make([]models.Message, len(cs.messages))
	copy(result, cs.messages)
	return result
}

func (cs *ChatState) Channel() string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.channel
}

func (cs *ChatState) SetConnected(connected bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.connected = connected
}

func (cs *ChatState) IsConnected() bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.connected
}

func (cs *ChatState) SetError(err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.lastError = err
}

func (cs *ChatState) GetLastError() error {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.lastError
}

func (cs *ChatState) ClearError() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.lastError = nil
}
