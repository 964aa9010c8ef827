package components

import (
	tea "github.com/charmbracelet/bubbletea"
)

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSelected
)

// Action is what a component reports to its host after handling an event.
// The host decides what a selection means; components never act on it.
type Action struct {
	Kind    ActionKind
	Payload string // key of the selected candidate
}

func NoAction() Action {
	return Action{Kind: ActionNone}
}

func Selected(key string) Action {
	return Action{Kind: ActionSelected, Payload: key}
}

// Rect is a region of the terminal in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Surface is what components draw into. It is write-only.
type Surface interface {
	DrawList(area Rect, title string, rows []string, highlighted int)
	DrawBlock(area Rect, title string, lines []string)
}

// Component is the uniform shape the host routes events to.
//
// Render must not change the component's state. HandleEvent may change
// only the component's own state and returns at most one command doing
// asynchronous work.
type Component interface {
	Render(s Surface, bounds *Rect)
	HandleEvent(msg tea.Msg) (Action, tea.Cmd)
}

// Focusable components receive key events only while focused.
type Focusable interface {
	Component
	Focused() bool
	ToggleFocus() tea.Cmd
}
