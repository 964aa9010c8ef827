package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriTwitch/ui/styles"
)

// Canvas is a Surface that renders with lipgloss. Drawn regions are
// stacked in draw order by String.
type Canvas struct {
	width, height int
	blocks        []string
}

func NewCanvas(width, height int) *Canvas {
	return &Canvas{width: width, height: height}
}

// Bounds is the full drawable area.
func (c *Canvas) Bounds() Rect {
	return Rect{Width: c.width, Height: c.height}
}

func (c *Canvas) DrawList(area Rect, title string, rows []string, highlighted int) {
	area = c.clip(area)
	if area.Empty() {
		return
	}

	visible := listCapacity(area)
	start := windowStart(len(rows), highlighted, visible)
	end := min(start+visible, len(rows))

	inner := innerWidth(area)
	lines := make([]string, 0, visible+1)
	lines = append(lines, styles.WidgetTitleStyle().MaxWidth(inner).Render(title))
	for i := start; i < end; i++ {
		style := styles.ListItemStyle()
		if i == highlighted {
			style = styles.HighlightStyle()
		}
		lines = append(lines, style.Width(inner).MaxWidth(inner).Render(rows[i]))
	}

	c.place(area, styles.WidgetStyle(area.Width, area.Height).Render(strings.Join(lines, "\n")))
}

func (c *Canvas) DrawBlock(area Rect, title string, lines []string) {
	area = c.clip(area)
	if area.Empty() {
		return
	}

	inner := innerWidth(area)
	body := make([]string, 0, len(lines)+1)
	body = append(body, styles.WidgetTitleStyle().MaxWidth(inner).Render(title))
	for _, line := range lines {
		body = append(body, lipgloss.NewStyle().Width(inner).Render(line))
	}
	if limit := listCapacity(area) + 1; len(body) > limit {
		body = body[:limit]
	}

	c.place(area, styles.WidgetErrorStyle(area.Width, area.Height).Render(strings.Join(body, "\n")))
}

// String returns everything drawn so far.
func (c *Canvas) String() string {
	return strings.Join(c.blocks, "\n")
}

func (c *Canvas) place(area Rect, block string) {
	c.blocks = append(c.blocks, lipgloss.NewStyle().MarginLeft(area.X).MarginTop(area.Y).Render(block))
}

func (c *Canvas) clip(area Rect) Rect {
	if c.width > 0 && area.X+area.Width > c.width {
		area.Width = c.width - area.X
	}
	if c.height > 0 && area.Y+area.Height > c.height {
		area.Height = c.height - area.Y
	}
	return area
}

// listCapacity is the number of rows fitting below the title inside the border.
func listCapacity(area Rect) int {
	return max(area.Height-3, 0)
}

func innerWidth(area Rect) int {
	// border and horizontal padding
	return max(area.Width-4, 1)
}

// windowStart returns the first row to show so the highlighted row stays visible.
func windowStart(total, highlighted, visible int) int {
	if visible <= 0 || total <= visible || highlighted < visible {
		return 0
	}
	return min(highlighted-visible+1, total-visible)
}
