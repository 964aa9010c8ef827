package app

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriTwitch/internal/commands"
	"github.com/Rorical/RoriTwitch/internal/config"
	"github.com/Rorical/RoriTwitch/internal/dispatcher"
	"github.com/Rorical/RoriTwitch/internal/eventbus"
	"github.com/Rorical/RoriTwitch/internal/models"
	"github.com/Rorical/RoriTwitch/internal/update"
	"github.com/Rorical/RoriTwitch/ui/components"
)

// widget is a focusable component the host can route fetch results to.
type widget interface {
	components.Focusable
	ID() int
}

type hostKeyMap struct {
	Quit      key.Binding
	Following key.Binding
	Category  key.Binding
	Submit    key.Binding
}

func defaultHostKeyMap() hostKeyMap {
	return hostKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Following: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "followed channels"),
		),
		Category: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "set category"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
	}
}

// AppModel hosts the chat view, the input line and the search widgets.
type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
	config     *config.Config
	keys       hostKeyMap

	input     textinput.Model
	following *components.FollowingWidget
	category  *components.CategoryWidget
}

func NewAppModel(cfg *config.Config, disp *dispatcher.EventDispatcher, following *components.FollowingWidget, category *components.CategoryWidget) *AppModel {
	ti := textinput.New()
	ti.Placeholder = "Send a message, or a command like /ban <user>"
	ti.Prompt = "> "
	ti.CharLimit = 500
	ti.Focus()

	return &AppModel{
		dispatcher: disp,
		config:     cfg,
		keys:       defaultHostKeyMap(),
		input:      ti,
		following:  following,
		category:   category,
	}
}

// widgets lists the widgets in priority order.
func (m *AppModel) widgets() []widget {
	return []widget{m.following, m.category}
}

// focused returns the widget receiving key events, if any.
func (m *AppModel) focused() widget {
	for _, w := range m.widgets() {
		if w.Focused() {
			return w
		}
	}
	return nil
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(update.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.appModel, coreEvent)
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	}

	if cmd, handled := update.HandleUpdate(&m.appModel, msg); handled {
		m.input.Width = max(m.appModel.Width-8, 10)
		return m, cmd
	}

	switch msg := msg.(type) {
	case components.FetchResultMsg:
		for _, w := range m.widgets() {
			if w.ID() == msg.WidgetID {
				action, cmd := w.HandleEvent(msg)
				return m, tea.Batch(cmd, m.handleAction(w, action))
			}
		}
		return m, nil

	case spinner.TickMsg:
		// Each spinner ignores ticks that are not its own.
		var cmds []tea.Cmd
		for _, w := range m.widgets() {
			_, cmd := w.HandleEvent(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	if w := m.focused(); w != nil {
		action, cmd := w.HandleEvent(msg)
		return m, tea.Batch(cmd, m.handleAction(w, action))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Following):
		return m.toggle(m.following)
	case key.Matches(msg, m.keys.Category):
		return m.toggle(m.category)
	}

	if w := m.focused(); w != nil {
		action, cmd := w.HandleEvent(msg)
		if !w.Focused() {
			m.input.Focus()
		}
		return tea.Batch(cmd, m.handleAction(w, action))
	}

	if key.Matches(msg, m.keys.Submit) {
		if update.SubmitInput(&m.appModel, m.input.Value(), m.dispatcher.GetEventBus()) {
			m.input.Reset()
		}
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// toggle flips target and unfocuses any other widget so only one is focused.
func (m *AppModel) toggle(target widget) tea.Cmd {
	var cmds []tea.Cmd
	for _, w := range m.widgets() {
		if w != target && w.Focused() {
			cmds = append(cmds, w.ToggleFocus())
		}
	}
	cmds = append(cmds, target.ToggleFocus())

	if target.Focused() {
		m.input.Blur()
	} else {
		m.input.Focus()
	}
	return tea.Batch(cmds...)
}

// handleAction applies what a widget reported. Widgets never change
// application state themselves.
func (m *AppModel) handleAction(from widget, action components.Action) tea.Cmd {
	if action.Kind != components.ActionSelected {
		return nil
	}

	eb := m.dispatcher.GetEventBus()
	switch from {
	case widget(m.following):
		channel := action.Payload
		slog.Info("channel selected", "channel", channel)
		m.config.SetChannel(channel)
		if err := eb.SendToCore(eventbus.JoinChannelEvent{Channel: channel}); err != nil {
			m.appModel.SetStatus("Error joining channel: "+err.Error(), true)
			return nil
		}
		m.appModel.SetStatus(fmt.Sprintf("Joining #%s", channel), false)

	case widget(m.category):
		cmd := commands.Category{Text: action.Payload}
		if err := eb.SendToCore(eventbus.ExecuteCommandEvent{Command: cmd}); err != nil {
			m.appModel.SetStatus("Error sending command: "+err.Error(), true)
			return nil
		}
		m.appModel.SetStatus(fmt.Sprintf("Setting category to %s", action.Payload), false)
	}
	return nil
}

func (m *AppModel) View() string {
	width := max(m.appModel.Width, 20)
	// input box is three lines, status bar one
	chatHeight := max(m.appModel.Height-4, 1)

	var b strings.Builder

	if w := m.focused(); w != nil {
		canvas := components.NewCanvas(width, chatHeight)
		bounds := components.Rect{Width: min(width-4, 90), Height: min(chatHeight, 20)}
		w.Render(canvas, &bounds)
		b.WriteString(lipgloss.Place(width, chatHeight, lipgloss.Center, lipgloss.Center, canvas.String()))
	} else {
		b.WriteString(components.RenderMessages(m.appModel.Messages, width, chatHeight, m.appModel.Timestamps))
	}

	b.WriteString("\n")
	b.WriteString(components.RenderInput(m.input.View(), width))
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(m.appModel.Status, m.appModel.Channel, m.appModel.Connected, m.appModel.StatusError, width))

	return b.String()
}
