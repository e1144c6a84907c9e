package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almanac/internal/calendar"
	"almanac/internal/diary"
)

type fakeSource struct {
	daily  []diary.DailyRecord
	static []diary.StaticRecord
	err    error
}

func (f fakeSource) ListDaily(context.Context) ([]diary.DailyRecord, error) { return f.daily, f.err }
func (f fakeSource) QueryAll(context.Context) ([]diary.StaticRecord, error) { return f.static, f.err }

func TestWriteEncodesDailyAndYearlyEvents(t *testing.T) {
	src := fakeSource{
		daily: []diary.DailyRecord{
			{Date: calendar.Date{Year: 2024, Month: time.February, Day: 14}, Text: "dinner\nat eight"},
		},
		static: []diary.StaticRecord{
			{Key: calendar.MonthDay{Month: time.February, Day: 29}, Text: "leap day"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, src))
	out := buf.String()
	assert.Contains(t, out, "PRODID:"+productID)
	assert.Contains(t, out, "RRULE:FREQ=YEARLY")

	cal, err := ical.NewDecoder(&buf).Decode()
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)

	summary, err := events[0].Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "dinner", summary)
	start, err := events[0].DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 14, 0, 0, 0, 0, time.UTC), start)

	start, err = events[1].DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(staticBaseYear, time.February, 29, 0, 0, 0, 0, time.UTC), start)
	assert.Nil(t, events[0].Props.Get(ical.PropRecurrenceRule))
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(context.Background(), &buf, fakeSource{}), ErrNothingToExport)
	assert.Zero(t, buf.Len())
}

func TestCalendarEmpty(t *testing.T) {
	cal, err := Calendar(context.Background(), fakeSource{}, time.Now())
	assert.ErrorIs(t, err, ErrNothingToExport)
	assert.Nil(t, cal)
}

func TestWritePropagatesStoreErrors(t *testing.T) {
	offline := errors.New("offline")
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(context.Background(), &buf, fakeSource{err: offline}), offline)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "one", summary("one\ntwo"))
	assert.Equal(t, "plain", summary("plain"))
}
