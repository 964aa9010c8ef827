package models

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Messages    []Message // Current messages to display
	MaxMessages int       // Oldest messages are dropped past this
	Channel     string    // Channel the chat is joined to
	Status      string    // Status bar text
	StatusError bool      // Status holds an error
	Connected   bool      // Chat connection state from core
	Width       int       // Terminal width
	Height      int       // Terminal height
	ChatReady   bool      // Whether the chat service is configured
	Timestamps  bool      // Show message timestamps
}

// SetStatus replaces the status bar text.
func (m *AppModel) SetStatus(status string, isError bool) {
	m.Status = status
	m.StatusError = isError
}
