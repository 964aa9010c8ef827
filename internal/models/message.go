package models

import "time"

type MessageType int

const (
	Chat MessageType = iota
	Notice
	Program
	Error
)

type Message struct {
	Content string
	Type    MessageType
	// Chat metadata, empty for program and error lines
	ID       string
	Channel  string
	Username string
	Color    string // hex color from the sender's tags, e.g. "#1E90FF"
	Time     time.Time
	Self     bool // sent from this client
}
