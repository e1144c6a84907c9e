// Package export writes diary entries as an iCalendar stream.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"almanac/internal/calendar"
	"almanac/internal/diary"
	"almanac/internal/log"
)

const productID = "-//almanac//diary export//EN"

// ErrNothingToExport is returned for a diary without entries; an empty
// VCALENDAR is not valid iCalendar.
var ErrNothingToExport = errors.New("nothing to export")

// staticBaseYear anchors yearly notes. It is a leap year so Feb 29 notes
// keep a valid start date and recur only in leap years.
const staticBaseYear = 2000

// Source lists every entry, ordered by key.
type Source interface {
	ListDaily(ctx context.Context) ([]diary.DailyRecord, error)
	QueryAll(ctx context.Context) ([]diary.StaticRecord, error)
}

// Calendar builds a VCALENDAR with one all-day event per daily entry and
// one yearly-recurring event per static entry. A diary without entries
// yields ErrNothingToExport.
func Calendar(ctx context.Context, src Source, stamp time.Time) (*ical.Calendar, error) {
	daily, err := src.ListDaily(ctx)
	if err != nil {
		return nil, fmt.Errorf("list daily entries: %w", err)
	}
	static, err := src.QueryAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list yearly entries: %w", err)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, rec := range daily {
		ev := event("daily-"+rec.Date.String(), rec.Text, rec.Date, stamp)
		cal.Children = append(cal.Children, ev.Component)
	}
	for _, rec := range static {
		start := calendar.Date{Year: staticBaseYear, Month: rec.Key.Month, Day: rec.Key.Day}
		ev := event("static-"+rec.Key.Key(), rec.Text, start, stamp)
		ev.Props.SetText(ical.PropRecurrenceRule, "FREQ=YEARLY")
		cal.Children = append(cal.Children, ev.Component)
	}
	if len(cal.Children) == 0 {
		return nil, ErrNothingToExport
	}
	log.Debug("calendar built", "daily", len(daily), "static", len(static))
	return cal, nil
}

func event(uid, text string, d calendar.Date, stamp time.Time) *ical.Event {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, uid+"@almanac")
	ev.Props.SetText(ical.PropSummary, summary(text))
	ev.Props.SetText(ical.PropDescription, text)
	ev.Props.SetDate(ical.PropDateTimeStart, d.Time())
	ev.Props.SetDate(ical.PropDateTimeEnd, calendar.AddDays(d, 1).Time())
	ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	return ev
}

// summary is the first line of text.
func summary(text string) string {
	for i, r := range text {
		if r == '\n' {
			return text[:i]
		}
	}
	return text
}

// Write encodes every entry of src to w.
func Write(ctx context.Context, w io.Writer, src Source) error {
	cal, err := Calendar(ctx, src, time.Now())
	if err != nil {
		return err
	}
	return Encode(w, cal)
}

func Encode(w io.Writer, cal *ical.Calendar) error {
	return ical.NewEncoder(w).Encode(cal)
}
