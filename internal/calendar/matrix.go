package calendar

import (
	"fmt"
	"time"
)

const (
	Columns   = 7
	MonthRows = 6
	WeekRows  = 1
)

// Coord is a cell position: Col 0-6 left to right, Row 0 at the top.
type Coord struct {
	Col int
	Row int
}

// Matrix is a month page: six weeks of consecutive dates, previous-month
// days first and next-month days last.
type Matrix [MonthRows][Columns]Date

// BuildMatrix lays out (year, month) with weekStart in column 0.
func BuildMatrix(year int, month time.Month, weekStart time.Weekday) (Matrix, error) {
	var m Matrix
	if err := ValidateMonth(year, month); err != nil {
		return m, err
	}
	if weekStart < time.Sunday || weekStart > time.Saturday {
		return m, fmt.Errorf("%w: week start %d", ErrInvalidDate, int(weekStart))
	}

	first := Date{Year: year, Month: month, Day: 1}
	lead := leadingDays(first, weekStart)
	for day := 1; day <= DaysIn(year, month); day++ {
		i := lead + day - 1
		m[i/Columns][i%Columns] = Date{Year: year, Month: month, Day: day}
	}

	prev := AddMonths(first, -1)
	prevDay := DaysIn(prev.Year, prev.Month)
	for col := Columns - 1; col >= 0; col-- {
		if m[0][col].IsZero() {
			m[0][col] = Date{Year: prev.Year, Month: prev.Month, Day: prevDay}
			prevDay--
		}
	}

	next := AddMonths(first, 1)
	nextDay := 1
	for row := 0; row < MonthRows; row++ {
		for col := 0; col < Columns; col++ {
			if m[row][col].IsZero() {
				m[row][col] = Date{Year: next.Year, Month: next.Month, Day: nextDay}
				nextDay++
			}
		}
	}
	return m, nil
}

func (m Matrix) At(c Coord) Date {
	return m[c.Row][c.Col]
}

func (m Matrix) First() Date {
	return m[0][0]
}

func (m Matrix) Last() Date {
	return m[MonthRows-1][Columns-1]
}

func (m Matrix) Find(d Date) (Coord, bool) {
	for row := 0; row < MonthRows; row++ {
		for col := 0; col < Columns; col++ {
			if m[row][col] == d {
				return Coord{Col: col, Row: row}, true
			}
		}
	}
	return Coord{}, false
}

// Dates flattens the matrix in row-major order.
func (m Matrix) Dates() []Date {
	out := make([]Date, 0, MonthRows*Columns)
	for _, week := range m {
		out = append(out, week[:]...)
	}
	return out
}

func leadingDays(first Date, weekStart time.Weekday) int {
	return (int(first.Weekday()) - int(weekStart) + Columns) % Columns
}
