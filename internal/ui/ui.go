package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"almanac/internal/calendar"
	"almanac/internal/config"
	"almanac/internal/diary"
	"almanac/internal/log"
	"almanac/internal/navigator"
)

type mode int

const (
	modeNavigate mode = iota
	modeEditDaily
	modeEditStatic
)

// Store is the pair of diary stores the calendar reads and writes.
type Store interface {
	diary.DailyStore
	diary.StaticStore
}

// rebuildMsg continues a page switch once the intent that asked for it has
// been handled. Messages from superseded generations are dropped.
type rebuildMsg struct {
	gen uint64
}

type Model struct {
	ctx       context.Context
	store     Store
	cfg       config.Config
	weekStart time.Weekday
	temporary bool

	rec     *diary.Reconciler
	nav     *navigator.Navigator
	state   navigator.State
	settled navigator.State

	// settledRows is the layout of the installed grid, restored when a
	// layout change fails to load.
	settledRows int

	mode    mode
	editing calendar.Date
	input   textinput.Model
	status  string
	width   int
}

func New(ctx context.Context, store Store, cfg config.Config, temporary bool) (Model, error) {
	weekStart, err := cfg.FirstWeekday()
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Width = 60

	nav := navigator.New(weekStart, cfg.Rows(), cfg.FocusRetries)
	return Model{
		ctx:         ctx,
		store:       store,
		cfg:         cfg,
		weekStart:   weekStart,
		temporary:   temporary,
		rec:         diary.NewReconciler(store, store, weekStart, cfg.Rows()),
		nav:         nav,
		state:       nav.Start().State,
		settledRows: cfg.Rows(),
		input:       ti,
		width:       100,
	}, nil
}

func Run(ctx context.Context, store Store, cfg config.Config, temporary bool) error {
	m, err := New(ctx, store, cfg, temporary)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return rebuild(m.state.Generation)
}

func rebuild(gen uint64) tea.Cmd {
	return func() tea.Msg { return rebuildMsg{gen: gen} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rebuildMsg:
		return m.handleRebuild(msg)
	case tea.KeyMsg:
		if m.mode != modeNavigate {
			return m.updateEditMode(msg)
		}
		return m.updateNavigateMode(msg.String())
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleRebuild(msg rebuildMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.state.Generation || !m.state.Loading {
		return m, nil
	}
	if _, err := m.rec.Refresh(m.ctx, m.state.Page); err != nil {
		m.status = fmt.Sprintf("load failed: %v", err)
		m.state = m.settled
		m.nav.ResetRows(m.settledRows)
		m.rec.SetRows(m.settledRows)
		return m, nil
	}
	out, err := m.nav.Resolve(m.state, m.rec.Grid())
	return m.apply(out, err)
}

// apply installs an intent's outcome and schedules a rebuild if needed.
func (m Model) apply(out navigator.Outcome, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.status = err.Error()
		if errors.Is(err, navigator.ErrStaleFocusTarget) {
			m.state = out.State
			m.settle()
		}
		return m, nil
	}
	m.state = out.State
	if out.Rebuild {
		return m, rebuild(out.State.Generation)
	}
	// A step taken while a rebuild is outstanding only moves the pending
	// target; the state settles once that grid is installed.
	if !m.state.Loading {
		m.settle()
	}
	return m, nil
}

func (m *Model) settle() {
	m.settled = m.state
	m.settledRows = m.nav.Rows()
}

func (m Model) updateNavigateMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	g := m.rec.Grid()
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case "left", "h":
		return m.apply(m.nav.Move(m.state, g, navigator.Left, false))
	case "right", "l":
		return m.apply(m.nav.Move(m.state, g, navigator.Right, false))
	case "up", "k":
		return m.apply(m.nav.Move(m.state, g, navigator.Up, false))
	case "down", "j":
		return m.apply(m.nav.Move(m.state, g, navigator.Down, false))
	case "ctrl+left":
		return m.apply(m.nav.Move(m.state, g, navigator.Left, true))
	case "ctrl+right":
		return m.apply(m.nav.Move(m.state, g, navigator.Right, true))
	case "ctrl+up":
		return m.apply(m.nav.Move(m.state, g, navigator.Up, true))
	case "ctrl+down":
		return m.apply(m.nav.Move(m.state, g, navigator.Down, true))
	case k.Today:
		return m.apply(m.nav.JumpToToday(m.state, g))
	case k.NextWeek:
		return m.apply(m.nav.JumpBy(m.state, g, navigator.Days, 7))
	case k.PrevWeek:
		return m.apply(m.nav.JumpBy(m.state, g, navigator.Days, -7))
	case k.NextMonth:
		return m.apply(m.nav.JumpBy(m.state, g, navigator.Months, 1))
	case k.PrevMonth:
		return m.apply(m.nav.JumpBy(m.state, g, navigator.Months, -1))
	case k.ToggleLayout:
		rows := calendar.WeekRows
		if m.nav.Rows() == calendar.WeekRows {
			rows = calendar.MonthRows
		}
		m.rec.SetRows(rows)
		return m.apply(m.nav.SetRows(m.state, g, rows), nil)
	case k.EditDaily:
		return m.startEdit(modeEditDaily)
	case k.EditStatic:
		return m.startEdit(modeEditStatic)
	}
	return m, nil
}

func (m Model) focusedCell() (diary.DayCell, bool) {
	c, ok := m.nav.CurrentFocus(m.state, m.rec.Grid())
	if !ok {
		return diary.DayCell{}, false
	}
	return m.rec.CellAt(c)
}

func (m Model) startEdit(md mode) (tea.Model, tea.Cmd) {
	cell, ok := m.focusedCell()
	if !ok {
		m.status = "No day selected"
		return m, nil
	}
	m.mode = md
	m.editing = cell.Date
	if md == modeEditStatic {
		m.input.SetValue(cell.StaticText)
		m.input.Placeholder = "every year on " + cell.Date.Time().Format("Jan 2")
	} else {
		m.input.SetValue(cell.DailyText)
		m.input.Placeholder = "diary for " + cell.Date.String()
	}
	m.input.CursorEnd()
	m.input.Focus()
	m.status = "enter to save • tab to switch field • esc to cancel"
	return m, nil
}

func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel, "esc":
		m.mode = modeNavigate
		m.input.Blur()
		m.input.SetValue("")
		m.status = "Edit cancelled"
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		return m.commit(modeNavigate)
	case "tab", "shift+tab":
		next := modeEditStatic
		if m.mode == modeEditStatic {
			next = modeEditDaily
		}
		return m.commit(next)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// commit saves the field being edited, then leaves edit mode or opens the
// other field of the same day. On failure the text stays in the input.
func (m Model) commit(next mode) (tea.Model, tea.Cmd) {
	text := m.input.Value()
	var (
		action diary.Action
		err    error
		kind   = "daily"
	)
	if m.mode == modeEditStatic {
		kind = "yearly"
		action, err = diary.CommitStatic(m.ctx, m.store, m.editing.MonthDay(), text)
	} else {
		action, err = diary.CommitDaily(m.ctx, m.store, m.editing, text)
	}
	if err != nil {
		log.Error("commit failed", err, "kind", kind, "date", m.editing)
		m.status = fmt.Sprintf("save failed: %v", err)
		return m, nil
	}

	m.status = fmt.Sprintf("%s note %s", kind, action)
	if action == diary.ActionNone {
		m.status = "No changes"
	}
	if _, err := m.rec.Refresh(m.ctx, m.state.Page); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
	}

	m.mode = modeNavigate
	m.input.Blur()
	m.input.SetValue("")
	if next != modeNavigate {
		return m.startEdit(next)
	}
	return m, nil
}
