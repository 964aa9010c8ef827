package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Rorical/RoriTwitch/internal/models"
)

const (
	DefaultServerURL = "wss://irc-ws.chat.twitch.tv:443"

	writeTimeout = 10 * time.Second
	readTimeout  = 6 * time.Minute // Twitch pings roughly every 5 minutes
)

var ErrNotConnected = errors.New("chat is not connected")

// Client is a Twitch chat connection over IRC-on-WebSocket.
type Client struct {
	url      string
	username string
	token    string
	dialer   *websocket.Dialer

	mu      sync.Mutex
	conn    *websocket.Conn
	channel string

	writeMu sync.Mutex

	messages chan models.Message
}

func NewClient(url, username, token string) *Client {
	if url == "" {
		url = DefaultServerURL
	}
	if token != "" && !strings.HasPrefix(token, "oauth:") {
		token = "oauth:" + token
	}
	return &Client{
		url:      url,
		username: strings.ToLower(username),
		token:    token,
		dialer:   websocket.DefaultDialer,
		messages: make(chan models.Message, 256),
	}
}

// Messages delivers parsed chat lines. It is closed when the read loop ends.
func (c *Client) Messages() <-chan models.Message {
	return c.messages
}

// Connect dials the server, logs in and joins channel. The read loop runs
// until ctx is done or the connection fails.
func (c *Client) Connect(ctx context.Context, channel string) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial chat: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	login := []string{
		"CAP REQ :twitch.tv/tags twitch.tv/commands",
		"PASS " + c.token,
		"NICK " + c.username,
	}
	for _, line := range login {
		if err := c.writeLine(line); err != nil {
			conn.Close()
			return fmt.Errorf("login: %w", err)
		}
	}

	if channel != "" {
		if err := c.Join(channel); err != nil {
			conn.Close()
			return err
		}
	}

	slog.Info("chat connected", "url", c.url, "channel", channel)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go c.readLoop(conn)

	return nil
}

// Join parts the current channel, if any, and joins channel.
func (c *Client) Join(channel string) error {
	channel = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(channel)), "#")

	c.mu.Lock()
	previous := c.channel
	c.channel = channel
	c.mu.Unlock()

	if previous != "" && previous != channel {
		if err := c.writeLine("PART #" + previous); err != nil {
			return fmt.Errorf("part %s: %w", previous, err)
		}
	}
	if err := c.writeLine("JOIN #" + channel); err != nil {
		return fmt.Errorf("join %s: %w", channel, err)
	}
	return nil
}

// Send posts text to the joined channel.
func (c *Client) Send(text string) error {
	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()

	if channel == "" {
		return fmt.Errorf("send: no channel joined")
	}
	return c.writeLine(fmt.Sprintf("PRIVMSG #%s :%s", channel, text))
}

func (c *Client) Channel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channel
}

func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (c *Client) writeLine(line string) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, []byte(line+"\r\n"))
}

func (c *Client) readLoop(conn *websocket.Conn) {
	defer close(c.messages)

	for {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			slog.Info("chat disconnected", "error", err)
			return
		}

		// A frame may carry several lines.
		for _, raw := range strings.Split(string(data), "\r\n") {
			line, err := ParseLine(raw)
			if err != nil {
				continue
			}
			if line.Command == "PING" {
				if err := c.writeLine("PONG :" + line.Trailing()); err != nil {
					slog.Warn("chat pong failed", "error", err)
				}
				continue
			}
			if msg, ok := ToMessage(line); ok {
				c.messages <- msg
			}
		}
	}
}

// ToMessage converts the chat-relevant IRC commands into a display message.
func ToMessage(line Line) (models.Message, bool) {
	channel := ""
	if len(line.Params) > 0 {
		channel = strings.TrimPrefix(line.Params[0], "#")
	}
	msg := models.Message{
		Channel: channel,
		ID:      line.Tags["id"],
		Color:   line.Tags["color"],
		Time:    time.Now(),
	}

	switch line.Command {
	case "PRIVMSG":
		msg.Type = models.Chat
		msg.Username = line.Tags["display-name"]
		if msg.Username == "" {
			msg.Username = line.Nick()
		}
		msg.Content = line.Trailing()
		if action, ok := strings.CutPrefix(msg.Content, "\x01ACTION "); ok {
			msg.Content = strings.TrimSuffix(action, "\x01")
		}
	case "NOTICE":
		msg.Type = models.Notice
		msg.Content = line.Trailing()
	case "USERNOTICE":
		msg.Type = models.Notice
		msg.Content = line.Tags["system-msg"]
		if text := line.Trailing(); len(line.Params) > 1 && text != "" {
			msg.Content += " " + text
		}
	case "CLEARCHAT":
		msg.Type = models.Notice
		if len(line.Params) > 1 {
			msg.Content = fmt.Sprintf("%s was removed from chat", line.Trailing())
			if d := line.Tags["ban-duration"]; d != "" {
				msg.Content = fmt.Sprintf("%s was timed out for %ss", line.Trailing(), d)
			}
		} else {
			msg.Content = "Chat was cleared by a moderator"
		}
	default:
		return models.Message{}, false
	}

	return msg, true
}
