package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriTwitch/internal/models"
)

// HandleUpdate handles the messages that only touch the shared UI state.
// It reports whether msg was consumed.
func HandleUpdate(appModel *models.AppModel, msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, msg)
		return nil, true
	case CoreEventMsg:
		return HandleCoreEvent(appModel, msg), true
	}
	return nil, false
}
