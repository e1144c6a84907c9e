package calendar

import (
	"fmt"
	"time"
)

// Page names the visible slice of a month matrix: rows Week..Week+rows-1.
// Month layouts always start at Week 0.
type Page struct {
	Year  int
	Month time.Month
	Week  int
}

// PageOf returns the page of d's own month that shows d.
func PageOf(d Date, weekStart time.Weekday, rows int) Page {
	p := Page{Year: d.Year, Month: d.Month}
	if rows >= MonthRows {
		return p
	}
	first := Date{Year: d.Year, Month: d.Month, Day: 1}
	p.Week = (leadingDays(first, weekStart) + d.Day - 1) / Columns
	if p.Week+rows > MonthRows {
		p.Week = MonthRows - rows
	}
	return p
}

// ShiftMonths moves the page by n months and back to its first week.
func (p Page) ShiftMonths(n int) Page {
	d := AddMonths(Date{Year: p.Year, Month: p.Month, Day: 1}, n)
	return Page{Year: d.Year, Month: d.Month}
}

func (p Page) Title() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

func (p Page) String() string {
	if p.Week == 0 {
		return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
	}
	return fmt.Sprintf("%04d-%02d/w%d", p.Year, int(p.Month), p.Week)
}
