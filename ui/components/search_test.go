package components

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource answers fetches from a queue of responses and counts calls.
type countingSource struct {
	mu        sync.Mutex
	calls     int
	queries   []string
	responses [][]string
	err       error
}

func (s *countingSource) Fetch(ctx context.Context, query string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return nil, nil
	}
	next := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return next, nil
}

func (s *countingSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestWidget(source *countingSource) *SearchWidget[string] {
	return NewSearchWidget(SearchConfig[string]{
		Title:      "Test",
		Source:     source,
		Display:    func(s string) string { return s },
		ErrorLines: []string{"it broke"},
	})
}

// collect runs cmd and any batched commands, returning every message.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func fetchResult(t *testing.T, cmd tea.Cmd) FetchResultMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if result, ok := msg.(FetchResultMsg); ok {
			return result
		}
	}
	t.Fatal("command did not fetch")
	return FetchResultMsg{}
}

// fetch runs cmd and feeds its result back into w.
func fetch(t *testing.T, w *SearchWidget[string], cmd tea.Cmd) {
	t.Helper()
	action, _ := w.HandleEvent(fetchResult(t, cmd))
	assert.Equal(t, ActionNone, action.Kind)
}

func keys(kind tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: kind}
}

func typeText(w *SearchWidget[string], text string) {
	w.HandleEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func displays(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Display
	}
	return out
}

func TestSearchWidget_InitialState(t *testing.T) {
	w := newTestWidget(&countingSource{})
	assert.False(t, w.Focused())
	assert.False(t, w.Loading())
	assert.Empty(t, w.Candidates())
	assert.Equal(t, -1, w.SelectedIndex())
	assert.Empty(t, w.Query())
}

func TestSearchWidget_NoSecondFetchWhileLoading(t *testing.T) {
	source := &countingSource{responses: [][]string{{"a", "b"}}}
	w := newTestWidget(source)

	first := w.ToggleFocus()
	require.NotNil(t, first)
	assert.True(t, w.Loading())

	w.ToggleFocus()
	assert.False(t, w.Focused())
	second := w.ToggleFocus()
	assert.True(t, w.Focused())

	for _, msg := range collect(second) {
		_, isFetch := msg.(FetchResultMsg)
		assert.False(t, isFetch)
	}
	assert.Equal(t, 0, source.Calls())

	fetch(t, w, first)
	assert.Equal(t, 1, source.Calls())
	assert.False(t, w.Loading())
	assert.Equal(t, []string{"a", "b"}, displays(w.Candidates()))
}

func TestSearchWidget_FocusWithCandidatesDoesNotFetch(t *testing.T) {
	source := &countingSource{responses: [][]string{{"a"}}}
	w := newTestWidget(source)
	fetch(t, w, w.ToggleFocus())

	w.ToggleFocus()
	assert.Nil(t, w.ToggleFocus())
	assert.Equal(t, 1, source.Calls())
}

func TestSearchWidget_SelectionPreservedByKey(t *testing.T) {
	source := &countingSource{responses: [][]string{
		{"a", "b", "c"},
		{"x", "c", "b"},
		{"x", "c"},
	}}
	w := newTestWidget(source)
	fetch(t, w, w.ToggleFocus())

	w.HandleEvent(keys(tea.KeyDown))
	w.HandleEvent(keys(tea.KeyDown))
	require.Equal(t, 1, w.SelectedIndex())

	_, cmd := w.HandleEvent(keys(tea.KeyCtrlR))
	fetch(t, w, cmd)
	assert.Equal(t, 2, w.SelectedIndex())
	selected, ok := w.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", selected.Key)

	_, cmd = w.HandleEvent(keys(tea.KeyCtrlR))
	fetch(t, w, cmd)
	assert.Equal(t, -1, w.SelectedIndex())
	assert.Equal(t, []string{"x", "c"}, displays(w.Candidates()))
}

func TestSearchWidget_SelectionPreservedForEmptyKey(t *testing.T) {
	source := &countingSource{responses: [][]string{
		{"a", ""},
		{"", "b"},
	}}
	w := newTestWidget(source)
	fetch(t, w, w.ToggleFocus())

	w.HandleEvent(keys(tea.KeyDown))
	w.HandleEvent(keys(tea.KeyDown))
	require.Equal(t, 1, w.SelectedIndex())

	_, cmd := w.HandleEvent(keys(tea.KeyCtrlR))
	fetch(t, w, cmd)
	assert.Equal(t, 0, w.SelectedIndex())
}

func TestSearchWidget_FailureKeepsCandidates(t *testing.T) {
	source := &countingSource{responses: [][]string{{"a", "b"}, {"c"}}}
	w := newTestWidget(source)
	fetch(t, w, w.ToggleFocus())

	source.err = errors.New("unauthorized")
	fetch(t, w, w.Refresh())
	assert.EqualError(t, w.Err(), "unauthorized")
	assert.Equal(t, []string{"a", "b"}, displays(w.Candidates()))
	assert.False(t, w.Loading())

	source.err = nil
	fetch(t, w, w.Refresh())
	assert.NoError(t, w.Err())
	assert.Equal(t, []string{"c"}, displays(w.Candidates()))
}

func TestSearchWidget_NavigationClamps(t *testing.T) {
	source := &countingSource{responses: [][]string{{"a", "b", "c"}}}
	w := newTestWidget(source)

	cmd := w.ToggleFocus()
	w.HandleEvent(keys(tea.KeyDown))
	assert.Equal(t, -1, w.SelectedIndex(), "nothing to select yet")
	fetch(t, w, cmd)

	w.HandleEvent(keys(tea.KeyUp))
	assert.Equal(t, 0, w.SelectedIndex())
	w.HandleEvent(keys(tea.KeyUp))
	assert.Equal(t, 0, w.SelectedIndex())

	w.HandleEvent(keys(tea.KeyEnd))
	assert.Equal(t, 2, w.SelectedIndex())
	w.HandleEvent(keys(tea.KeyDown))
	assert.Equal(t, 2, w.SelectedIndex())

	w.HandleEvent(keys(tea.KeyHome))
	assert.Equal(t, 0, w.SelectedIndex())

	for i := 0; i < 10; i++ {
		w.HandleEvent(keys(tea.KeyDown))
		assert.GreaterOrEqual(t, w.SelectedIndex(), 0)
		assert.Less(t, w.SelectedIndex(), len(w.Candidates()))
	}
}

func TestSearchWidget_ConfirmEmitsSelection(t *testing.T) {
	source := &countingSource{responses: [][]string{{"a", "b"}}}
	w := newTestWidget(source)
	fetch(t, w, w.ToggleFocus())

	action, _ := w.HandleEvent(keys(tea.KeyEnter))
	assert.Equal(t, NoAction(), action)
	assert.True(t, w.Focused())

	w.HandleEvent(keys(tea.KeyDown))
	w.HandleEvent(keys(tea.KeyDown))
	action, _ = w.HandleEvent(keys(tea.KeyEnter))
	assert.Equal(t, Selected("b"), action)
	assert.False(t, w.Focused())
}

func TestSearchWidget_KeyProjection(t *testing.T) {
	w := NewSearchWidget(SearchConfig[int]{
		Source:  intSource{1, 2},
		Display: func(i int) string { return "row " + string(rune('0'+i)) },
		Key:     func(i int) string { return string(rune('0' + i)) },
	})
	cmd := w.ToggleFocus()
	var result FetchResultMsg
	for _, msg := range collect(cmd) {
		if r, ok := msg.(FetchResultMsg); ok {
			result = r
		}
	}
	w.HandleEvent(result)
	assert.Equal(t, []Candidate{{Key: "1", Display: "row 1"}, {Key: "2", Display: "row 2"}}, w.Candidates())

	w.HandleEvent(keys(tea.KeyDown))
	action, _ := w.HandleEvent(keys(tea.KeyEnter))
	assert.Equal(t, Selected("1"), action)
}

type intSource []int

func (s intSource) Fetch(ctx context.Context, query string) ([]int, error) {
	return s, nil
}

func TestSearchWidget_CancelDismissesErrorFirst(t *testing.T) {
	source := &countingSource{err: errors.New("down")}
	w := newTestWidget(source)
	typeText(w, "ignored")
	assert.Empty(t, w.Query(), "unfocused widgets ignore keys")

	fetch(t, w, w.ToggleFocus())
	typeText(w, "abc")
	require.Error(t, w.Err())

	w.HandleEvent(keys(tea.KeyEsc))
	assert.NoError(t, w.Err())
	assert.True(t, w.Focused())

	w.HandleEvent(keys(tea.KeyEsc))
	assert.False(t, w.Focused())
	assert.Equal(t, "abc", w.Query())
}

func TestSearchWidget_StaleResultDiscarded(t *testing.T) {
	source := &countingSource{responses: [][]string{{"old"}, {"new"}}}
	w := newTestWidget(source)

	first := w.ToggleFocus()
	_, second := w.HandleEvent(keys(tea.KeyCtrlR))

	oldResult := fetchResult(t, first)
	newResult := fetchResult(t, second)

	w.HandleEvent(newResult)
	w.HandleEvent(oldResult)
	assert.Equal(t, []string{"new"}, displays(w.Candidates()))
	assert.False(t, w.Loading())
}

func TestSearchWidget_ResultAppliedWhileUnfocused(t *testing.T) {
	source := &countingSource{responses: [][]string{{"a"}}}
	w := newTestWidget(source)

	cmd := w.ToggleFocus()
	w.HandleEvent(keys(tea.KeyEsc))
	require.False(t, w.Focused())

	fetch(t, w, cmd)
	assert.False(t, w.Focused())
	assert.Equal(t, []string{"a"}, displays(w.Candidates()))
	assert.Equal(t, -1, w.SelectedIndex())
}

func TestSearchWidget_ResultForOtherWidgetIgnored(t *testing.T) {
	source := &countingSource{responses: [][]string{{"a"}}}
	w := newTestWidget(source)
	other := newTestWidget(source)

	result := fetchResult(t, w.ToggleFocus())
	other.HandleEvent(result)
	assert.Empty(t, other.Candidates())
}

func TestSearchWidget_SubmitQuery(t *testing.T) {
	source := &countingSource{responses: [][]string{{}, {"chess"}}}
	w := newTestWidget(source)
	fetch(t, w, w.ToggleFocus())

	typeText(w, "Chess")
	action, cmd := w.HandleEvent(keys(tea.KeyEnter))
	assert.Equal(t, NoAction(), action)
	fetch(t, w, cmd)

	assert.Equal(t, []string{"", "Chess"}, source.queries)
	assert.Equal(t, []string{"chess"}, displays(w.Candidates()))

	w.HandleEvent(keys(tea.KeyDown))
	action, _ = w.HandleEvent(keys(tea.KeyEnter))
	assert.Equal(t, Selected("chess"), action)
}

type drawCall struct {
	kind        string
	area        Rect
	title       string
	rows        []string
	highlighted int
}

type recordingSurface struct {
	calls []drawCall
}

func (s *recordingSurface) DrawList(area Rect, title string, rows []string, highlighted int) {
	s.calls = append(s.calls, drawCall{kind: "list", area: area, title: title, rows: rows, highlighted: highlighted})
}

func (s *recordingSurface) DrawBlock(area Rect, title string, lines []string) {
	s.calls = append(s.calls, drawCall{kind: "block", area: area, title: title, rows: lines})
}

func TestSearchWidget_Render(t *testing.T) {
	source := &countingSource{responses: [][]string{{"a", "b"}}}
	w := newTestWidget(source)
	fetch(t, w, w.ToggleFocus())
	w.HandleEvent(keys(tea.KeyDown))

	surface := &recordingSurface{}
	bounds := Rect{X: 2, Y: 1, Width: 40, Height: 10}
	w.Render(surface, &bounds)
	w.Render(surface, nil)

	require.Len(t, surface.calls, 2)
	assert.Equal(t, "list", surface.calls[0].kind)
	assert.Equal(t, bounds, surface.calls[0].area)
	assert.Equal(t, []string{"a", "b"}, surface.calls[0].rows)
	assert.Equal(t, 0, surface.calls[0].highlighted)
	assert.Contains(t, surface.calls[0].title, "Test")
	assert.False(t, surface.calls[1].area.Empty())

	assert.Equal(t, 0, w.SelectedIndex())
	assert.True(t, w.Focused())
	assert.Equal(t, 1, source.Calls())
}

func TestSearchWidget_RenderError(t *testing.T) {
	w := newTestWidget(&countingSource{err: errors.New("forbidden")})
	fetch(t, w, w.ToggleFocus())

	surface := &recordingSurface{}
	w.Render(surface, nil)

	require.Len(t, surface.calls, 1)
	assert.Equal(t, "block", surface.calls[0].kind)
	assert.Equal(t, []string{"it broke", "", "forbidden"}, surface.calls[0].rows)
}

func TestCanvas_WindowKeepsHighlightVisible(t *testing.T) {
	assert.Equal(t, 0, windowStart(3, 2, 5))
	assert.Equal(t, 0, windowStart(10, 4, 5))
	assert.Equal(t, 1, windowStart(10, 5, 5))
	assert.Equal(t, 5, windowStart(10, 9, 5))
	assert.Equal(t, 0, windowStart(10, -1, 5))

	c := NewCanvas(20, 8)
	c.DrawList(Rect{Width: 30, Height: 8}, "Pick", []string{"one", "two"}, 1)
	out := c.String()
	assert.Contains(t, out, "Pick")
	assert.Contains(t, out, "two")
}
