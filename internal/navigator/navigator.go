// Package navigator moves keyboard focus around the calendar grid and
// decides when the visible page has to change.
//
// Every operation takes the current State and returns a new one. When an
// Outcome asks for a rebuild, the caller loads State.Page, installs the grid
// and then calls Resolve so the pending focus lands on the fresh grid.
package navigator

import (
	"errors"
	"fmt"
	"time"

	"almanac/internal/calendar"
	"almanac/internal/diary"
	"almanac/internal/log"
)

var ErrStaleFocusTarget = errors.New("focus target missing from rebuilt grid")

const DefaultFocusRetries = 2

type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

type Unit int

const (
	Days Unit = iota
	Months
)

// State is the whole navigation state. A zero Focus with Focused false is
// the idle state.
type State struct {
	Page    calendar.Page
	Focus   calendar.Date
	Focused bool

	// Pending is the date to focus once the grid for Page exists.
	Pending    calendar.Date
	HasPending bool
	Attempts   int

	// Generation increases with every rebuild request. Grids loaded for an
	// older generation must be dropped.
	Generation uint64
	Loading    bool
}

func (s State) VisibleYear() int         { return s.Page.Year }
func (s State) VisibleMonth() time.Month { return s.Page.Month }
func (s State) Idle() bool               { return !s.Focused }

// Outcome is the result of one intent.
type Outcome struct {
	State   State
	Rebuild bool
}

type Navigator struct {
	weekStart time.Weekday
	rows      int
	retries   int
	today     func() calendar.Date
}

func New(weekStart time.Weekday, rows, retries int) *Navigator {
	if rows < 1 || rows > calendar.MonthRows {
		rows = calendar.MonthRows
	}
	if retries < 1 {
		retries = DefaultFocusRetries
	}
	return &Navigator{weekStart: weekStart, rows: rows, retries: retries, today: calendar.Today}
}

// SetClock replaces the source of "today".
func (n *Navigator) SetClock(today func() calendar.Date) {
	n.today = today
}

func (n *Navigator) Rows() int { return n.rows }

func (n *Navigator) Today() calendar.Date { return n.today() }

// Start returns the idle state on today's page with today queued for focus.
func (n *Navigator) Start() Outcome {
	today := n.today()
	return n.switchTo(State{}, calendar.PageOf(today, n.weekStart, n.rows), today)
}

// CurrentFocus returns the focused coordinate in g, if any.
func (n *Navigator) CurrentFocus(s State, g *diary.Grid) (calendar.Coord, bool) {
	if !s.Focused || !n.ready(s, g) {
		return calendar.Coord{}, false
	}
	return g.CoordOf(s.Focus)
}

// Move handles an arrow key. Without ctrl the focus steps one cell and wraps
// inside the grid; vertical steps are ignored in a single-row layout. With
// ctrl the page moves one month sideways or one year vertically.
func (n *Navigator) Move(s State, g *diary.Grid, dir Direction, ctrl bool) (Outcome, error) {
	if ctrl {
		return n.shiftMonths(s, dir)
	}
	if !n.ready(s, g) {
		if s.HasPending {
			return n.movePending(s, dir)
		}
		return Outcome{State: s}, nil
	}

	c, ok := g.CoordOf(n.anchor(s, g))
	if !ok {
		c = calendar.Coord{}
	}
	if s.Focused {
		c = step(c, dir, g.Rows())
	}
	cell, ok := g.CellAt(c)
	if !ok {
		return Outcome{State: s}, nil
	}
	return Outcome{State: focus(s, cell.Date)}, nil
}

// movePending applies a step that arrives before the grid for s.Page is
// installed to the queued target, on the rows that grid will show. The
// outstanding rebuild then resolves the moved target.
func (n *Navigator) movePending(s State, dir Direction) (Outcome, error) {
	m, err := calendar.BuildMatrix(s.Page.Year, s.Page.Month, n.weekStart)
	if err != nil {
		return Outcome{State: s}, err
	}
	week := s.Page.Week
	if week < 0 || week+n.rows > calendar.MonthRows {
		week = 0
	}
	c, ok := m.Find(s.Pending)
	if !ok || c.Row < week || c.Row >= week+n.rows {
		return Outcome{State: s}, nil
	}
	c.Row -= week
	c = step(c, dir, n.rows)
	c.Row += week
	s.Pending = m.At(c)
	s.Attempts = 0
	log.Debug("pending focus moved", "dir", dir, "pending", s.Pending, "generation", s.Generation)
	return Outcome{State: s}, nil
}

// step moves c one cell with wrap-around inside a grid of rows rows.
// Vertical steps are ignored in a single-row grid.
func step(c calendar.Coord, dir Direction, rows int) calendar.Coord {
	switch dir {
	case Left:
		c.Col = (c.Col + calendar.Columns - 1) % calendar.Columns
	case Right:
		c.Col = (c.Col + 1) % calendar.Columns
	case Up:
		if rows > 1 {
			c.Row = (c.Row + rows - 1) % rows
		}
	case Down:
		if rows > 1 {
			c.Row = (c.Row + 1) % rows
		}
	}
	return c
}

func (n *Navigator) shiftMonths(s State, dir Direction) (Outcome, error) {
	var delta int
	switch dir {
	case Left:
		delta = -1
	case Right:
		delta = 1
	case Up:
		delta = -12
	case Down:
		delta = 12
	}
	page := s.Page.ShiftMonths(delta)
	if err := calendar.ValidateMonth(page.Year, page.Month); err != nil {
		return Outcome{State: s}, err
	}

	// A pending target counts as the focus so repeated presses keep the day.
	ref, ok := s.Focus, s.Focused
	if s.HasPending {
		ref, ok = s.Pending, true
	}
	day := 1
	if ok && ref.Day <= calendar.DaysIn(page.Year, page.Month) {
		day = ref.Day
	}
	target := calendar.Date{Year: page.Year, Month: page.Month, Day: day}
	return n.switchTo(s, calendar.PageOf(target, n.weekStart, n.rows), target), nil
}

// JumpToToday shows today's page if it is not already visible and focuses today.
func (n *Navigator) JumpToToday(s State, g *diary.Grid) (Outcome, error) {
	today := n.today()
	page := calendar.PageOf(today, n.weekStart, n.rows)
	if page == s.Page && n.ready(s, g) {
		if _, ok := g.CoordOf(today); ok {
			return Outcome{State: focus(s, today)}, nil
		}
	}
	return n.switchTo(s, page, today), nil
}

// JumpBy moves the focus by delta days or months. Month steps clamp to the
// last day of the target month.
func (n *Navigator) JumpBy(s State, g *diary.Grid, unit Unit, delta int) (Outcome, error) {
	base := n.anchor(s, g)
	var target calendar.Date
	switch unit {
	case Days:
		target = calendar.AddDays(base, delta)
	case Months:
		target = calendar.AddMonths(base, delta)
	default:
		return Outcome{State: s}, fmt.Errorf("unknown interval unit %d", int(unit))
	}
	return n.FocusDate(s, g, target)
}

// FocusDate focuses d when the current grid shows it, otherwise switches to
// d's page and queues d for Resolve.
func (n *Navigator) FocusDate(s State, g *diary.Grid, d calendar.Date) (Outcome, error) {
	if n.ready(s, g) {
		if _, ok := g.CoordOf(d); ok {
			return Outcome{State: focus(s, d)}, nil
		}
	}
	page := calendar.PageOf(d, n.weekStart, n.rows)
	if err := calendar.ValidateMonth(page.Year, page.Month); err != nil {
		return Outcome{State: s}, err
	}
	return n.switchTo(s, page, d), nil
}

// Resolve runs after the grid for s.Page has been installed. A pending date
// that is still missing triggers another rebuild until the retry budget is
// spent, then ErrStaleFocusTarget.
func (n *Navigator) Resolve(s State, g *diary.Grid) (Outcome, error) {
	if g == nil || g.Page() != s.Page {
		return Outcome{State: s}, nil
	}
	s.Loading = false
	if !s.HasPending {
		return Outcome{State: s}, nil
	}

	d := s.Pending
	if _, ok := g.CoordOf(d); ok {
		return Outcome{State: focus(s, d)}, nil
	}
	if s.Attempts < n.retries {
		attempts := s.Attempts + 1
		out := n.switchTo(s, calendar.PageOf(d, n.weekStart, n.rows), d)
		out.State.Attempts = attempts
		return out, nil
	}

	s.HasPending = false
	s.Pending = calendar.Date{}
	s.Attempts = 0
	err := fmt.Errorf("%w: %s not on page %s after %d attempts", ErrStaleFocusTarget, d, s.Page, n.retries)
	log.Error("focus resolution failed", err)
	return Outcome{State: s}, err
}

// SetRows switches between month and week layouts and rebuilds around the
// current anchor.
func (n *Navigator) SetRows(s State, g *diary.Grid, rows int) Outcome {
	anchor := n.anchor(s, g)
	n.ResetRows(rows)
	return n.switchTo(s, calendar.PageOf(anchor, n.weekStart, n.rows), anchor)
}

// ResetRows changes the row count without a page switch, for rolling back a
// layout change whose grid never loaded.
func (n *Navigator) ResetRows(rows int) {
	if rows < 1 || rows > calendar.MonthRows {
		rows = calendar.MonthRows
	}
	n.rows = rows
}

func (n *Navigator) switchTo(s State, page calendar.Page, pending calendar.Date) Outcome {
	s.Page = page
	s.Focused = false
	s.Focus = calendar.Date{}
	s.Pending = pending
	s.HasPending = true
	s.Attempts = 0
	s.Generation++
	s.Loading = true
	log.Debug("page switch requested", "page", page, "pending", pending, "generation", s.Generation)
	return Outcome{State: s, Rebuild: true}
}

// ready reports whether g is the materialized grid for s.
func (n *Navigator) ready(s State, g *diary.Grid) bool {
	return g != nil && !s.Loading && g.Page() == s.Page
}

// anchor is the date intents are measured from: the pending target, the
// focus, today when visible, else the first day of the visible month.
func (n *Navigator) anchor(s State, g *diary.Grid) calendar.Date {
	switch {
	case s.HasPending:
		return s.Pending
	case s.Focused:
		return s.Focus
	}
	today := n.today()
	if n.ready(s, g) {
		if _, ok := g.CoordOf(today); ok {
			return today
		}
	}
	if s.Page.Year == 0 {
		return today
	}
	return calendar.Date{Year: s.Page.Year, Month: s.Page.Month, Day: 1}
}

func focus(s State, d calendar.Date) State {
	s.Focus = d
	s.Focused = true
	s.Pending = calendar.Date{}
	s.HasPending = false
	s.Attempts = 0
	return s
}
