package diary

import (
	"context"
	"time"

	"almanac/internal/calendar"
	"almanac/internal/log"
)

// DayCell is what the view renders for one grid position.
type DayCell struct {
	Coord          calendar.Coord
	Date           calendar.Date
	InCurrentMonth bool
	DailyText      string
	StaticText     string
}

// Grid is an immutable reconciled page. Coordinates are relative to the
// visible rows, so Row 0 is the top row on screen.
type Grid struct {
	page   calendar.Page
	rows   int
	cells  []DayCell
	byDate map[calendar.Date]calendar.Coord
}

func (g *Grid) Page() calendar.Page { return g.page }
func (g *Grid) Rows() int           { return g.rows }

func (g *Grid) Cells() []DayCell {
	out := make([]DayCell, len(g.cells))
	copy(out, g.cells)
	return out
}

func (g *Grid) CellAt(c calendar.Coord) (DayCell, bool) {
	if c.Col < 0 || c.Col >= calendar.Columns || c.Row < 0 || c.Row >= g.rows {
		return DayCell{}, false
	}
	return g.cells[c.Row*calendar.Columns+c.Col], true
}

func (g *Grid) CoordOf(d calendar.Date) (calendar.Coord, bool) {
	c, ok := g.byDate[d]
	return c, ok
}

func (g *Grid) First() calendar.Date { return g.cells[0].Date }
func (g *Grid) Last() calendar.Date  { return g.cells[len(g.cells)-1].Date }

// Reconciler owns the current grid and rebuilds it wholesale on refresh.
type Reconciler struct {
	daily     DailyStore
	static    StaticStore
	weekStart time.Weekday
	rows      int
	current   *Grid
}

func NewReconciler(daily DailyStore, static StaticStore, weekStart time.Weekday, rows int) *Reconciler {
	r := &Reconciler{daily: daily, static: static, weekStart: weekStart}
	r.SetRows(rows)
	return r
}

func (r *Reconciler) WeekStart() time.Weekday { return r.weekStart }
func (r *Reconciler) Rows() int               { return r.rows }

// SetRows changes the layout height for subsequent loads.
func (r *Reconciler) SetRows(rows int) {
	if rows < 1 || rows > calendar.MonthRows {
		rows = calendar.MonthRows
	}
	r.rows = rows
}

// Load builds the grid for page without touching the current one. It is
// safe to call off the UI goroutine; install the result with Apply.
func (r *Reconciler) Load(ctx context.Context, page calendar.Page) (*Grid, error) {
	m, err := calendar.BuildMatrix(page.Year, page.Month, r.weekStart)
	if err != nil {
		return nil, err
	}
	rows := r.rows
	if page.Week < 0 || page.Week+rows > calendar.MonthRows {
		page.Week = 0
	}

	g := &Grid{
		page:   page,
		rows:   rows,
		cells:  make([]DayCell, 0, rows*calendar.Columns),
		byDate: make(map[calendar.Date]calendar.Coord, rows*calendar.Columns),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < calendar.Columns; col++ {
			d := m[page.Week+row][col]
			c := calendar.Coord{Col: col, Row: row}
			g.cells = append(g.cells, DayCell{
				Coord:          c,
				Date:           d,
				InCurrentMonth: d.SameMonth(page.Year, page.Month),
			})
			g.byDate[d] = c
		}
	}

	daily, err := r.daily.QueryRange(ctx, g.First(), g.Last())
	if err != nil {
		return nil, storageErr("query daily entries", err)
	}
	static, err := r.static.QueryAll(ctx)
	if err != nil {
		return nil, storageErr("query static entries", err)
	}

	byMonthDay := make(map[calendar.MonthDay]string, len(static))
	for _, rec := range static {
		byMonthDay[rec.Key] = rec.Text
	}
	for _, rec := range daily {
		if c, ok := g.byDate[rec.Date]; ok {
			g.cells[c.Row*calendar.Columns+c.Col].DailyText = rec.Text
		}
	}
	for i := range g.cells {
		g.cells[i].StaticText = byMonthDay[g.cells[i].Date.MonthDay()]
	}

	log.Debug("grid loaded", "page", page, "rows", rows, "daily", len(daily), "static", len(static))
	return g, nil
}

// Apply installs a loaded grid as the current one.
func (r *Reconciler) Apply(g *Grid) {
	if g != nil {
		r.current = g
	}
}

// Refresh loads and applies page. On error the previous grid stays current.
func (r *Reconciler) Refresh(ctx context.Context, page calendar.Page) ([]DayCell, error) {
	g, err := r.Load(ctx, page)
	if err != nil {
		log.Error("grid refresh failed", err, "page", page)
		return nil, err
	}
	r.Apply(g)
	return g.Cells(), nil
}

// Grid returns the current grid, or nil before the first refresh.
func (r *Reconciler) Grid() *Grid { return r.current }

func (r *Reconciler) CurrentCells() []DayCell {
	if r.current == nil {
		return nil
	}
	return r.current.Cells()
}

func (r *Reconciler) CellAt(c calendar.Coord) (DayCell, bool) {
	if r.current == nil {
		return DayCell{}, false
	}
	return r.current.CellAt(c)
}
