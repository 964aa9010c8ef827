package components

import (
	"fmt"

	"github.com/Rorical/RoriTwitch/ui/styles"
)

// RenderStatus renders the bottom bar: connection, channel and the last
// status or error text.
func RenderStatus(status, channel string, connected, isError bool, width int) string {
	state := "offline"
	if connected {
		state = "online"
	}

	content := fmt.Sprintf("[%s] #%s", state, channel)
	if channel == "" {
		content = fmt.Sprintf("[%s]", state)
	}
	if status != "" {
		content += " | " + status
	}

	if isError {
		return styles.StatusErrorStyle(width).Render(content)
	}
	return styles.StatusStyle(width).Render(content)
}
