package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriTwitch/internal/models"
	"github.com/Rorical/RoriTwitch/ui/styles"
)

// RenderMessages renders the newest messages that fit in height lines.
func RenderMessages(messages []models.Message, width, height int, timestamps bool) string {
	if height <= 0 {
		return ""
	}

	wrap := lipgloss.NewStyle().Width(max(width, 1))

	var lines []string
	// Walk backwards so only what is visible gets rendered.
	for i := len(messages) - 1; i >= 0 && len(lines) < height; i-- {
		rendered := strings.Split(wrap.Render(renderMessage(messages[i], timestamps)), "\n")
		lines = append(rendered, lines...)
	}
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for len(lines) < height {
		lines = append([]string{""}, lines...)
	}

	return strings.Join(lines, "\n")
}

func renderMessage(msg models.Message, timestamps bool) string {
	var prefix string
	if timestamps && !msg.Time.IsZero() {
		prefix = styles.TimestampStyle().Render(msg.Time.Format("15:04")) + " "
	}

	switch msg.Type {
	case models.Chat:
		name := styles.UsernameStyle(msg.Color).Render(msg.Username)
		line := prefix + name + ": " + msg.Content
		if msg.Self {
			return styles.SelfStyle().Render(line)
		}
		return line
	case models.Notice:
		return prefix + styles.NoticeStyle().Render(msg.Content)
	case models.Error:
		return prefix + styles.ErrorStyle().Render(msg.Content)
	default:
		return styles.ProgramStyle().Render(msg.Content)
	}
}
