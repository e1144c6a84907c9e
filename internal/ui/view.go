package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"almanac/internal/calendar"
	"almanac/internal/config"
	"almanac/internal/diary"
)

const (
	minCellWidth     = 10
	defaultCellWidth = 14
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	tempStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true)
	cellStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	overflowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	todayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	focusStyle    = lipgloss.NewStyle().Reverse(true)
	staticStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.title())
	b.WriteString("\n\n")

	g := m.rec.Grid()
	if g == nil {
		b.WriteString("Loading…")
	} else {
		focus, focused := m.nav.CurrentFocus(m.state, g)
		b.WriteString(renderGrid(g, m.weekStart, m.nav.Today(), focus, focused, m.cellWidth()))
	}

	b.WriteString("\n---\n")
	b.WriteString(m.renderDetail())
	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(renderHelp(m.cfg.Keys)))
	return b.String()
}

// title shows the month being displayed, which may be ahead of the grid
// while a rebuild is pending.
func (m Model) title() string {
	t := titleStyle.Render(m.state.Page.Title())
	if m.temporary {
		t += " " + tempStyle.Render("[Temporary Database]")
	}
	return t
}

func (m Model) cellWidth() int {
	w := m.width / calendar.Columns
	if w < minCellWidth {
		return minCellWidth
	}
	if w > 2*defaultCellWidth {
		return 2 * defaultCellWidth
	}
	return w
}

func (m Model) renderDetail() string {
	cell, ok := m.focusedCell()
	if !ok {
		return "No day selected"
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(cell.Date.Time().Format("Monday, January 2 2006")))
	b.WriteString("\n")
	if m.mode == modeEditStatic {
		b.WriteString("Every year: " + m.input.View())
	} else {
		b.WriteString("Every year: " + valueOrDash(cell.StaticText))
	}
	b.WriteString("\n")
	if m.mode == modeEditDaily {
		b.WriteString("Diary:      " + m.input.View())
	} else {
		b.WriteString("Diary:      " + valueOrDash(cell.DailyText))
	}
	return b.String()
}

// RenderGrid draws g without a focused cell, for non-interactive output.
func RenderGrid(g *diary.Grid, weekStart time.Weekday, today calendar.Date) string {
	return renderGrid(g, weekStart, today, calendar.Coord{}, false, defaultCellWidth)
}

func renderGrid(g *diary.Grid, weekStart time.Weekday, today calendar.Date, focus calendar.Coord, focused bool, width int) string {
	header := make([]string, calendar.Columns)
	for col := range header {
		day := time.Weekday((int(weekStart) + col) % 7)
		header[col] = headerStyle.Width(width).Render(day.String()[:3])
	}

	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for row := 0; row < g.Rows(); row++ {
		cells := make([]string, calendar.Columns)
		for col := range cells {
			c := calendar.Coord{Col: col, Row: row}
			cell, _ := g.CellAt(c)
			cells[col] = renderCell(cell, cell.Date == today, focused && c == focus, width)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderCell(cell diary.DayCell, isToday, isFocus bool, width int) string {
	style := cellStyle
	switch {
	case isToday:
		style = todayStyle
	case !cell.InCurrentMonth:
		style = overflowStyle
	}

	label := fmt.Sprintf("%2d", cell.Date.Day)
	if cell.Date.Day == 1 {
		label = cell.Date.Time().Format("Jan 2")
	}
	lines := []string{style.Render(label)}
	lines = append(lines, staticStyle.Render(clip(cell.StaticText, width-1)))
	lines = append(lines, style.Render(clip(cell.DailyText, width-1)))

	block := lipgloss.NewStyle().Width(width).Height(3).Render(strings.Join(lines, "\n"))
	if isFocus {
		return focusStyle.Render(block)
	}
	return block
}

// clip keeps the first line of s within n terminal cells.
func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + "…"
	}
	return truncate.StringWithTail(s, uint(n), "…")
}

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("arrows move • ctrl+arrows month/year • %s today • %s/%s week • %s/%s month • %s edit • %s yearly • %s layout • %s quit",
		k.Today, k.PrevWeek, k.NextWeek, k.PrevMonth, k.NextMonth, k.EditDaily, k.EditStatic, k.ToggleLayout, k.Quit)
}
