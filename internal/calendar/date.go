package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinYear = 1
	MaxYear = 9999

	dateLayout = "2006-01-02"
)

var ErrInvalidDate = errors.New("invalid date")

// Date is a local calendar day with no time or zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) (Date, error) {
	if err := ValidateMonth(year, month); err != nil {
		return Date{}, err
	}
	if day < 1 || day > DaysIn(year, month) {
		return Date{}, fmt.Errorf("%w: day %d out of range for %04d-%02d", ErrInvalidDate, day, year, int(month))
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// ValidateMonth reports whether (year, month) can be laid out as a calendar page.
func ValidateMonth(year int, month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: month %d outside 1-12", ErrInvalidDate, int(month))
	}
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidDate, year, MinYear, MaxYear)
	}
	return nil
}

func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current date in the local zone.
func Today() Date {
	return FromTime(time.Now())
}

func ParseDate(v string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, v)
	}
	return FromTime(t), nil
}

// Time returns midnight UTC of the date. UTC keeps day arithmetic free of DST shifts.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

func (d Date) SameMonth(year int, month time.Month) bool {
	return d.Year == year && d.Month == month
}

func (d Date) MonthDay() MonthDay {
	return MonthDay{Month: d.Month, Day: d.Day}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// DaysIn returns the number of days in the month, leap years included.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func AddDays(d Date, n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// AddMonths shifts by n months, clamping the day to the last day of the
// target month (Mar 31 - 1 month = Feb 28 or 29).
func AddMonths(d Date, n int) Date {
	total := d.Year*12 + int(d.Month) - 1 + n
	year, rem := total/12, total%12
	if rem < 0 {
		rem += 12
		year--
	}
	month := time.Month(rem + 1)
	day := d.Day
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return Date{Year: year, Month: month, Day: day}
}

// MonthDay identifies a day that recurs every year.
type MonthDay struct {
	Month time.Month
	Day   int
}

// Key encodes the pair as fixed-width "MM-DD" so distinct pairs never collide.
func (md MonthDay) Key() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

func (md MonthDay) String() string {
	return md.Key()
}

func (md MonthDay) Valid() bool {
	if md.Month < time.January || md.Month > time.December {
		return false
	}
	// 2000 is a leap year so Feb 29 is accepted.
	return md.Day >= 1 && md.Day <= DaysIn(2000, md.Month)
}

func ParseMonthDay(key string) (MonthDay, error) {
	mm, dd, ok := strings.Cut(strings.TrimSpace(key), "-")
	if !ok || len(mm) != 2 || len(dd) != 2 {
		return MonthDay{}, fmt.Errorf("%w: month-day key %q", ErrInvalidDate, key)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return MonthDay{}, fmt.Errorf("%w: month-day key %q", ErrInvalidDate, key)
	}
	d, err := strconv.Atoi(dd)
	if err != nil {
		return MonthDay{}, fmt.Errorf("%w: month-day key %q", ErrInvalidDate, key)
	}
	md := MonthDay{Month: time.Month(m), Day: d}
	if !md.Valid() {
		return MonthDay{}, fmt.Errorf("%w: month-day key %q", ErrInvalidDate, key)
	}
	return md, nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
