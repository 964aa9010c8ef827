package components

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultFetchTimeout = 10 * time.Second

// ItemSource produces the raw items a SearchWidget lists. Implementations
// must be safe to call repeatedly.
type ItemSource[T any] interface {
	Fetch(ctx context.Context, query string) ([]T, error)
}

// Candidate is one selectable row.
type Candidate struct {
	Key     string
	Display string
}

// FetchResultMsg carries the outcome of one fetch back to the widget that
// started it.
type FetchResultMsg struct {
	WidgetID   int
	Gen        uint64
	Candidates []Candidate
	Err        error
}

var lastWidgetID int64

func nextWidgetID() int {
	return int(atomic.AddInt64(&lastWidgetID, 1))
}

type SearchConfig[T any] struct {
	Title       string
	Placeholder string
	Source      ItemSource[T]
	// Display projects an item into its row text.
	Display func(T) string
	// Key identifies an item across fetches. Defaults to Display.
	Key func(T) string
	// ErrorLines are shown above the error when a fetch fails.
	ErrorLines []string
	Timeout    time.Duration
}

type searchKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	First   key.Binding
	Last    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Refresh key.Binding
}

func defaultSearchKeyMap() searchKeyMap {
	return searchKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "next"),
		),
		First: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search / select"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
	}
}

// SearchWidget lists items fetched asynchronously from an ItemSource and
// reports the key of the confirmed row.
//
// At most one fetch is in flight. Focusing with an empty list starts a fetch
// unless one is already running. Refresh and submitting a changed query
// cancel the running fetch; results of a superseded fetch are dropped.
type SearchWidget[T any] struct {
	id     int
	config SearchConfig[T]
	keys   searchKeyMap

	query      textinput.Model
	spinner    spinner.Model
	candidates []Candidate
	selected   int // -1 when nothing is selected
	focused    bool
	loading    bool
	err        error

	gen          uint64
	cancel       context.CancelFunc
	fetchedQuery string
}

func NewSearchWidget[T any](config SearchConfig[T]) *SearchWidget[T] {
	if config.Key == nil {
		config.Key = config.Display
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultFetchTimeout
	}

	ti := textinput.New()
	ti.Placeholder = config.Placeholder
	ti.Prompt = "> "
	ti.CharLimit = 100
	ti.Cursor.SetMode(cursor.CursorStatic)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &SearchWidget[T]{
		id:       nextWidgetID(),
		config:   config,
		keys:     defaultSearchKeyMap(),
		query:    ti,
		spinner:  sp,
		selected: -1,
	}
}

func (w *SearchWidget[T]) ID() int {
	return w.id
}

func (w *SearchWidget[T]) Focused() bool {
	return w.focused
}

func (w *SearchWidget[T]) Loading() bool {
	return w.loading
}

func (w *SearchWidget[T]) Err() error {
	return w.err
}

func (w *SearchWidget[T]) Query() string {
	return w.query.Value()
}

func (w *SearchWidget[T]) Candidates() []Candidate {
	return w.candidates
}

func (w *SearchWidget[T]) SelectedIndex() int {
	return w.selected
}

// Selected returns the highlighted candidate, if any.
func (w *SearchWidget[T]) Selected() (Candidate, bool) {
	if w.selected < 0 || w.selected >= len(w.candidates) {
		return Candidate{}, false
	}
	return w.candidates[w.selected], true
}

// ToggleFocus flips focus. Gaining focus with nothing listed starts a fetch.
func (w *SearchWidget[T]) ToggleFocus() tea.Cmd {
	if w.focused {
		w.blur()
		return nil
	}

	w.focused = true
	cmds := []tea.Cmd{w.query.Focus()}
	if len(w.candidates) == 0 {
		cmds = append(cmds, w.trigger())
	}
	return tea.Batch(cmds...)
}

// Refresh starts a new fetch, superseding a running one.
func (w *SearchWidget[T]) Refresh() tea.Cmd {
	return w.startFetch()
}

func (w *SearchWidget[T]) blur() {
	w.focused = false
	w.query.Blur()
}

// trigger starts a fetch unless one is already running.
func (w *SearchWidget[T]) trigger() tea.Cmd {
	if w.loading {
		return nil
	}
	return w.startFetch()
}

func (w *SearchWidget[T]) startFetch() tea.Cmd {
	if w.cancel != nil {
		w.cancel()
	}

	w.gen++
	w.loading = true
	w.fetchedQuery = w.query.Value()

	ctx, cancel := context.WithTimeout(context.Background(), w.config.Timeout)
	w.cancel = cancel

	id, gen, query := w.id, w.gen, w.fetchedQuery
	source, display, keyOf := w.config.Source, w.config.Display, w.config.Key
	title := w.config.Title

	fetch := func() tea.Msg {
		defer cancel()

		start := time.Now()
		slog.Debug("fetch started", "widget", title, "gen", gen, "query", query)

		items, err := source.Fetch(ctx, query)
		if err != nil {
			slog.Warn("fetch failed", "widget", title, "gen", gen, "error", err)
			return FetchResultMsg{WidgetID: id, Gen: gen, Err: err}
		}

		candidates := make([]Candidate, 0, len(items))
		for _, item := range items {
			candidates = append(candidates, Candidate{Key: keyOf(item), Display: display(item)})
		}
		slog.Debug("fetch finished", "widget", title, "gen", gen, "count", len(candidates), "took", time.Since(start))
		return FetchResultMsg{WidgetID: id, Gen: gen, Candidates: candidates}
	}

	return tea.Batch(fetch, w.spinner.Tick)
}

func (w *SearchWidget[T]) applyResult(msg FetchResultMsg) {
	if msg.Gen != w.gen {
		// superseded by a later fetch
		return
	}

	w.loading = false
	w.cancel = nil

	if msg.Err != nil {
		w.err = msg.Err
		return
	}

	previous, hadSelection := w.Selected()

	w.err = nil
	w.candidates = msg.Candidates
	w.selected = -1
	if !hadSelection {
		return
	}
	for i, c := range w.candidates {
		if c.Key == previous.Key {
			w.selected = i
			return
		}
	}
}

func (w *SearchWidget[T]) move(delta int) {
	if len(w.candidates) == 0 {
		w.selected = -1
		return
	}
	if w.selected < 0 {
		w.selected = 0
		return
	}
	w.selected = max(0, min(w.selected+delta, len(w.candidates)-1))
}

func (w *SearchWidget[T]) HandleEvent(msg tea.Msg) (Action, tea.Cmd) {
	switch msg := msg.(type) {
	case FetchResultMsg:
		// Results apply whether or not the widget is focused.
		if msg.WidgetID == w.id {
			w.applyResult(msg)
		}
		return NoAction(), nil

	case spinner.TickMsg:
		if !w.loading {
			return NoAction(), nil
		}
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return NoAction(), cmd

	case tea.KeyMsg:
		if !w.focused {
			return NoAction(), nil
		}
		return w.handleKey(msg)
	}

	if !w.focused {
		return NoAction(), nil
	}
	var cmd tea.Cmd
	w.query, cmd = w.query.Update(msg)
	return NoAction(), cmd
}

func (w *SearchWidget[T]) handleKey(msg tea.KeyMsg) (Action, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Cancel):
		// The first esc only dismisses a shown error.
		if w.err != nil {
			w.err = nil
			return NoAction(), nil
		}
		w.blur()
		return NoAction(), nil

	case key.Matches(msg, w.keys.Refresh):
		return NoAction(), w.startFetch()

	case key.Matches(msg, w.keys.Up):
		w.move(-1)
		return NoAction(), nil

	case key.Matches(msg, w.keys.Down):
		w.move(1)
		return NoAction(), nil

	case key.Matches(msg, w.keys.First):
		if len(w.candidates) > 0 {
			w.selected = 0
		}
		return NoAction(), nil

	case key.Matches(msg, w.keys.Last):
		if len(w.candidates) > 0 {
			w.selected = len(w.candidates) - 1
		}
		return NoAction(), nil

	case key.Matches(msg, w.keys.Confirm):
		if w.query.Value() != w.fetchedQuery {
			return NoAction(), w.startFetch()
		}
		c, ok := w.Selected()
		if !ok {
			return NoAction(), nil
		}
		w.blur()
		return Selected(c.Key), nil
	}

	var cmd tea.Cmd
	w.query, cmd = w.query.Update(msg)
	return NoAction(), cmd
}

// Render draws the widget into s. With nil bounds it uses a default size.
func (w *SearchWidget[T]) Render(s Surface, bounds *Rect) {
	area := Rect{Width: 60, Height: 16}
	if bounds != nil {
		area = *bounds
	}

	title := fmt.Sprintf("%s %s", w.config.Title, w.query.View())
	if w.loading {
		title += " " + w.spinner.View()
	}

	if w.err != nil {
		lines := make([]string, 0, len(w.config.ErrorLines)+2)
		lines = append(lines, w.config.ErrorLines...)
		lines = append(lines, "", w.err.Error())
		s.DrawBlock(area, w.config.Title, lines)
		return
	}

	rows := make([]string, len(w.candidates))
	for i, c := range w.candidates {
		rows[i] = c.Display
	}
	s.DrawList(area, title, rows, w.selected)
}
