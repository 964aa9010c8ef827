package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriTwitch/internal/commands"
	"github.com/Rorical/RoriTwitch/internal/eventbus"
	"github.com/Rorical/RoriTwitch/internal/models"
)

// CommandPrefix marks an input line as a command rather than chat text.
const CommandPrefix = "/"

// SubmitInput handles an entered input line. Lines starting with "/" are
// parsed as commands; a line that fails to parse is not executed and is
// kept for editing. It reports whether the input should be cleared.
func SubmitInput(appModel *models.AppModel, line string, eb *eventbus.EventBus) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if rest, ok := strings.CutPrefix(line, CommandPrefix); ok {
		cmd, err := commands.Parse(rest)
		if err != nil {
			appModel.SetStatus(err.Error(), true)
			return false
		}
		if err := eb.SendToCore(eventbus.ExecuteCommandEvent{Command: cmd}); err != nil {
			appModel.SetStatus("Error sending command: "+err.Error(), true)
			return false
		}
		appModel.SetStatus(fmt.Sprintf("Running /%s", cmd.Name()), false)
		return true
	}

	if !appModel.ChatReady {
		appModel.SetStatus("Chat service not available", true)
		return false
	}

	// Send event to core via event bus with error handling
	if err := eb.SendToCore(eventbus.SendMessageEvent{Message: line}); err != nil {
		appModel.SetStatus("Error sending message: "+err.Error(), true)
		return false
	}
	appModel.SetStatus("", false)
	return true
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		if event.Reset {
			appModel.Messages = nil
		}
		appModel.Messages = append(appModel.Messages, event.Messages...)
		if limit := appModel.MaxMessages; limit > 0 && len(appModel.Messages) > limit {
			appModel.Messages = append(appModel.Messages[:0:0], appModel.Messages[len(appModel.Messages)-limit:]...)
		}
		appModel.Channel = event.Channel
		appModel.Connected = event.Connected

		if event.Error != nil {
			appModel.SetStatus("Error: "+event.Error.Error(), true)
		}

	case eventbus.CommandResultEvent:
		if event.Err != nil {
			appModel.SetStatus(fmt.Sprintf("/%s failed: %v", event.Command.Name(), event.Err), true)
		} else {
			appModel.SetStatus(fmt.Sprintf("/%s done", event.Command.Name()), false)
		}
	}

	return nil
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}
