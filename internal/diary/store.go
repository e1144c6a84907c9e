// Package diary reconciles the two diary record sets onto a calendar page
// and writes single fields back to their owning store.
package diary

import (
	"context"
	"errors"
	"fmt"

	"almanac/internal/calendar"
)

var ErrStorageUnavailable = errors.New("storage unavailable")

// StorageError wraps any failure returned by a store call.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStorageUnavailable, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorageUnavailable }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// DailyRecord is the entry for one exact date.
type DailyRecord struct {
	Date calendar.Date
	Text string
}

// StaticRecord is the entry that recurs on the same month and day every year.
type StaticRecord struct {
	Key  calendar.MonthDay
	Text string
}

type DailyStore interface {
	// QueryRange returns records with from <= Date <= to.
	QueryRange(ctx context.Context, from, to calendar.Date) ([]DailyRecord, error)
	GetDaily(ctx context.Context, date calendar.Date) (DailyRecord, bool, error)
	UpsertDaily(ctx context.Context, date calendar.Date, text string) error
	DeleteDaily(ctx context.Context, date calendar.Date) error
}

type StaticStore interface {
	QueryAll(ctx context.Context) ([]StaticRecord, error)
	GetStatic(ctx context.Context, key calendar.MonthDay) (StaticRecord, bool, error)
	UpsertStatic(ctx context.Context, key calendar.MonthDay, text string) error
	DeleteStatic(ctx context.Context, key calendar.MonthDay) error
}
