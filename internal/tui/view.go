package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tickfetch/internal/app"
	"tickfetch/internal/scheduler"
)

// Rows used by everything except the log lines: header, three panels and the
// log border, help line.
const chromeHeight = 1 + 3 + 4 + 3 + 2 + 1

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	plainStyle  = lipgloss.NewStyle()
)

func (m model) View() string {
	width := renderWidth(m.width)
	s := m.snap

	var b strings.Builder
	b.WriteString(headerStyle.Render(truncateToWidth("tickfetch "+endpointLabel(s), width)))
	b.WriteString("\n")
	b.WriteString(panel("Current time", []string{s.Clock}, width, lipgloss.Center, plainStyle))
	b.WriteString("\n")
	b.WriteString(panel("Schedule", scheduleLines(s), width, lipgloss.Center, plainStyle))
	b.WriteString("\n")
	b.WriteString(m.renderStatus(width))
	b.WriteString("\n")
	b.WriteString(panel(logTitle(s), logLines(s), width, lipgloss.Left, plainStyle))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m model) renderStatus(width int) string {
	s := m.snap
	switch {
	case s.Error != "":
		return panel("Status", []string{s.Error}, width, lipgloss.Center, errorStyle)
	case s.Status != "":
		return panel("Status", []string{s.Status}, width, lipgloss.Center, statusStyle)
	default:
		return panel("Status", []string{"waiting..."}, width, lipgloss.Center, idleStyle)
	}
}

func endpointLabel(s app.Snapshot) string {
	if s.Endpoint == "" {
		return "(not configured)"
	}
	return s.Endpoint
}

func scheduleLines(s app.Snapshot) []string {
	remaining, known := scheduler.Until(s.Mode, s.Now, s.Next)
	countdown := "calculating..."
	switch {
	case !s.Enabled:
		countdown = "disabled"
	case s.First:
		countdown = "waiting for the first invocation"
	case known:
		countdown = app.FormatDuration(remaining)
		if !s.Next.IsZero() {
			countdown += " (" + scheduler.RelativeLabel(s.Next, s.Now) + ")"
		}
	}

	switch mode := s.Mode.(type) {
	case scheduler.OnTime:
		return []string{"Daily at " + mode.Clock(), "Next invocation in " + countdown}
	case scheduler.Interval:
		return []string{"Every " + app.FormatDuration(mode.Total), "Next invocation in " + countdown}
	default:
		return []string{"No schedule", ""}
	}
}

// logTitle shows the page holding the scroll offset and the page count.
func logTitle(s app.Snapshot) string {
	if s.Viewport <= 0 {
		return "Log (0/0)"
	}
	page := s.Offset/s.Viewport + 1
	pages := (s.LogTotal + s.Viewport - 1) / s.Viewport
	if pages == 0 {
		pages = 1
	}
	return fmt.Sprintf("Log (%d/%d)", page, pages)
}

func logLines(s app.Snapshot) []string {
	lines := make([]string, max(s.Viewport, 1))
	copy(lines, s.Logs)
	return lines
}

// panel draws a rounded box whose top border carries title. Every body line
// is cut to the inner width so the box never wraps.
func panel(title string, body []string, width int, align lipgloss.Position, style lipgloss.Style) string {
	inner := max(width-2, 4)
	border := lipgloss.RoundedBorder()

	label := truncateToWidth(title, inner-2)
	fill := max(inner-lipgloss.Width(label)-2, 0)
	top := border.TopLeft + border.Top + label + " " + strings.Repeat(border.Top, fill) + border.TopRight
	if lipgloss.Width(label) == 0 {
		top = border.TopLeft + strings.Repeat(border.Top, inner) + border.TopRight
	}

	content := make([]string, len(body))
	for i, line := range body {
		content[i] = style.Render(truncateToWidth(line, inner-2))
	}

	box := lipgloss.NewStyle().
		Border(border, false, true, true, true).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Width(inner).
		Align(align).
		Render(strings.Join(content, "\n"))

	return borderStyle.Render(top) + "\n" + box
}

// logHeight is the number of log lines that fit in a terminal of height rows.
func logHeight(height int) int {
	if height <= 0 {
		return app.DefaultViewport
	}
	return max(height-chromeHeight, 1)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width <= 3 {
		return string(runes[:width])
	}

	return string(runes[:width-3]) + "..."
}

func renderWidth(width int) int {
	width = safeWidth(width)
	if width <= 1 {
		return width
	}
	return width - 1
}

func safeWidth(width int) int {
	if width <= 0 {
		return 80
	}
	return width
}
