package diary

import (
	"context"

	"almanac/internal/calendar"
	"almanac/internal/log"
)

type Action int

const (
	ActionNone Action = iota
	ActionCreated
	ActionUpdated
	ActionDeleted
)

func (a Action) String() string {
	switch a {
	case ActionCreated:
		return "created"
	case ActionUpdated:
		return "updated"
	case ActionDeleted:
		return "deleted"
	default:
		return "none"
	}
}

// Field is one store seen through its natural key.
type Field[K comparable] interface {
	Name() string
	Lookup(ctx context.Context, key K) (string, bool, error)
	Upsert(ctx context.Context, key K, text string) error
	Delete(ctx context.Context, key K) error
}

// Commit saves text under key: empty text removes the record, anything else
// creates or updates it. A failed call leaves the store as it was.
func Commit[K comparable](ctx context.Context, f Field[K], key K, text string) (Action, error) {
	current, exists, err := f.Lookup(ctx, key)
	if err != nil {
		return ActionNone, storageErr("lookup "+f.Name(), err)
	}

	action := ActionNone
	switch {
	case text == "" && exists:
		if err := f.Delete(ctx, key); err != nil {
			return ActionNone, storageErr("delete "+f.Name(), err)
		}
		action = ActionDeleted
	case text == "":
	case !exists:
		if err := f.Upsert(ctx, key, text); err != nil {
			return ActionNone, storageErr("insert "+f.Name(), err)
		}
		action = ActionCreated
	case current != text:
		if err := f.Upsert(ctx, key, text); err != nil {
			return ActionNone, storageErr("update "+f.Name(), err)
		}
		action = ActionUpdated
	}
	log.Debug("entry committed", "kind", f.Name(), "key", key, "action", action)
	return action, nil
}

func CommitDaily(ctx context.Context, s DailyStore, date calendar.Date, text string) (Action, error) {
	return Commit[calendar.Date](ctx, DailyField{Store: s}, date, text)
}

func CommitStatic(ctx context.Context, s StaticStore, key calendar.MonthDay, text string) (Action, error) {
	return Commit[calendar.MonthDay](ctx, StaticField{Store: s}, key, text)
}

type DailyField struct {
	Store DailyStore
}

func (DailyField) Name() string { return "daily" }

func (f DailyField) Lookup(ctx context.Context, key calendar.Date) (string, bool, error) {
	rec, ok, err := f.Store.GetDaily(ctx, key)
	return rec.Text, ok, err
}

func (f DailyField) Upsert(ctx context.Context, key calendar.Date, text string) error {
	return f.Store.UpsertDaily(ctx, key, text)
}

func (f DailyField) Delete(ctx context.Context, key calendar.Date) error {
	return f.Store.DeleteDaily(ctx, key)
}

type StaticField struct {
	Store StaticStore
}

func (StaticField) Name() string { return "static" }

func (f StaticField) Lookup(ctx context.Context, key calendar.MonthDay) (string, bool, error) {
	rec, ok, err := f.Store.GetStatic(ctx, key)
	return rec.Text, ok, err
}

func (f StaticField) Upsert(ctx context.Context, key calendar.MonthDay, text string) error {
	return f.Store.UpsertStatic(ctx, key, text)
}

func (f StaticField) Delete(ctx context.Context, key calendar.MonthDay) error {
	return f.Store.DeleteStatic(ctx, key)
}
