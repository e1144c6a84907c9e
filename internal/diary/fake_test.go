package diary

import (
	"context"
	"errors"

	"almanac/internal/calendar"
)

var errOffline = errors.New("connection refused")

// memStore is an in-memory DailyStore and StaticStore.
type memStore struct {
	daily  map[calendar.Date]string
	static map[calendar.MonthDay]string

	failReads  bool
	failWrites bool
	writes     int
}

func newMemStore() *memStore {
	return &memStore{
		daily:  map[calendar.Date]string{},
		static: map[calendar.MonthDay]string{},
	}
}

func (m *memStore) QueryRange(_ context.Context, from, to calendar.Date) ([]DailyRecord, error) {
	if m.failReads {
		return nil, errOffline
	}
	var out []DailyRecord
	for d, text := range m.daily {
		if !d.Before(from) && !d.After(to) {
			out = append(out, DailyRecord{Date: d, Text: text})
		}
	}
	return out, nil
}

func (m *memStore) GetDaily(_ context.Context, d calendar.Date) (DailyRecord, bool, error) {
	if m.failReads {
		return DailyRecord{}, false, errOffline
	}
	text, ok := m.daily[d]
	return DailyRecord{Date: d, Text: text}, ok, nil
}

func (m *memStore) UpsertDaily(_ context.Context, d calendar.Date, text string) error {
	if m.failWrites {
		return errOffline
	}
	m.writes++
	m.daily[d] = text
	return nil
}

func (m *memStore) DeleteDaily(_ context.Context, d calendar.Date) error {
	if m.failWrites {
		return errOffline
	}
	m.writes++
	delete(m.daily, d)
	return nil
}

func (m *memStore) QueryAll(context.Context) ([]StaticRecord, error) {
	if m.failReads {
		return nil, errOffline
	}
	out := make([]StaticRecord, 0, len(m.static))
	for k, text := range m.static {
		out = append(out, StaticRecord{Key: k, Text: text})
	}
	return out, nil
}

func (m *memStore) GetStatic(_ context.Context, k calendar.MonthDay) (StaticRecord, bool, error) {
	if m.failReads {
		return StaticRecord{}, false, errOffline
	}
	text, ok := m.static[k]
	return StaticRecord{Key: k, Text: text}, ok, nil
}

func (m *memStore) UpsertStatic(_ context.Context, k calendar.MonthDay, text string) error {
	if m.failWrites {
		return errOffline
	}
	m.writes++
	m.static[k] = text
	return nil
}

func (m *memStore) DeleteStatic(_ context.Context, k calendar.MonthDay) error {
	if m.failWrites {
		return errOffline
	}
	m.writes++
	delete(m.static, k)
	return nil
}
