package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"almanac/internal/calendar"
	"almanac/internal/diary"
	"almanac/internal/log"
)

// MemoryPath opens a temporary database that lives as long as the Store.
const MemoryPath = ":memory:"

var errEmptyText = errors.New("diary text is empty")

// Store keeps daily and static diary entries in one SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

var (
	_ diary.DailyStore  = (*Store)(nil)
	_ diary.StaticStore = (*Store)(nil)
)

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if dbPath != MemoryPath && !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	// One connection: an in-memory database exists per connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db, path: dbPath}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("store opened", "path", dbPath)
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string { return s.path }

// Temporary reports whether entries vanish when the store is closed.
func (s *Store) Temporary() bool { return s.path == MemoryPath }

func (s *Store) QueryRange(ctx context.Context, from, to calendar.Date) ([]diary.DailyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, diary FROM daily WHERE date BETWEEN ? AND ? ORDER BY date;`,
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("query daily range: %w", err)
	}
	return scanDaily(rows)
}

// ListDaily returns every daily entry ordered by date.
func (s *Store) ListDaily(ctx context.Context) ([]diary.DailyRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, diary FROM daily ORDER BY date;`)
	if err != nil {
		return nil, fmt.Errorf("list daily: %w", err)
	}
	return scanDaily(rows)
}

func (s *Store) GetDaily(ctx context.Context, date calendar.Date) (diary.DailyRecord, bool, error) {
	var text string
	err := s.db.QueryRowContext(ctx, `SELECT diary FROM daily WHERE date = ?;`, date.String()).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return diary.DailyRecord{}, false, nil
	}
	if err != nil {
		return diary.DailyRecord{}, false, fmt.Errorf("get daily %s: %w", date, err)
	}
	return diary.DailyRecord{Date: date, Text: text}, true, nil
}

func (s *Store) UpsertDaily(ctx context.Context, date calendar.Date, text string) error {
	if text == "" {
		return errEmptyText
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO daily (date, diary, updated_at) VALUES (?, ?, ?)
ON CONFLICT(date) DO UPDATE SET diary = excluded.diary, updated_at = excluded.updated_at;`,
		date.String(), text, now())
	if err != nil {
		return fmt.Errorf("upsert daily %s: %w", date, err)
	}
	return nil
}

func (s *Store) DeleteDaily(ctx context.Context, date calendar.Date) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM daily WHERE date = ?;`, date.String()); err != nil {
		return fmt.Errorf("delete daily %s: %w", date, err)
	}
	return nil
}

// QueryAll returns every static entry ordered by month and day.
func (s *Store) QueryAll(ctx context.Context) ([]diary.StaticRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT monthday, diary FROM static ORDER BY monthday;`)
	if err != nil {
		return nil, fmt.Errorf("query static: %w", err)
	}
	defer rows.Close()

	var out []diary.StaticRecord
	for rows.Next() {
		var key, text string
		if err := rows.Scan(&key, &text); err != nil {
			return nil, err
		}
		md, err := calendar.ParseMonthDay(key)
		if err != nil {
			log.Error("skipping static row", err, "monthday", key)
			continue
		}
		out = append(out, diary.StaticRecord{Key: md, Text: text})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetStatic(ctx context.Context, key calendar.MonthDay) (diary.StaticRecord, bool, error) {
	var text string
	err := s.db.QueryRowContext(ctx, `SELECT diary FROM static WHERE monthday = ?;`, key.Key()).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return diary.StaticRecord{}, false, nil
	}
	if err != nil {
		return diary.StaticRecord{}, false, fmt.Errorf("get static %s: %w", key, err)
	}
	return diary.StaticRecord{Key: key, Text: text}, true, nil
}

func (s *Store) UpsertStatic(ctx context.Context, key calendar.MonthDay, text string) error {
	if text == "" {
		return errEmptyText
	}
	if !key.Valid() {
		return fmt.Errorf("%w: month-day %d/%d", calendar.ErrInvalidDate, int(key.Month), key.Day)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO static (monthday, diary, updated_at) VALUES (?, ?, ?)
ON CONFLICT(monthday) DO UPDATE SET diary = excluded.diary, updated_at = excluded.updated_at;`,
		key.Key(), text, now())
	if err != nil {
		return fmt.Errorf("upsert static %s: %w", key, err)
	}
	return nil
}

func (s *Store) DeleteStatic(ctx context.Context, key calendar.MonthDay) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM static WHERE monthday = ?;`, key.Key()); err != nil {
		return fmt.Errorf("delete static %s: %w", key, err)
	}
	return nil
}

func scanDaily(rows *sql.Rows) ([]diary.DailyRecord, error) {
	defer rows.Close()

	var out []diary.DailyRecord
	for rows.Next() {
		var dateStr, text string
		if err := rows.Scan(&dateStr, &text); err != nil {
			return nil, err
		}
		d, err := calendar.ParseDate(dateStr)
		if err != nil {
			log.Error("skipping daily row", err, "date", dateStr)
			continue
		}
		out = append(out, diary.DailyRecord{Date: d, Text: text})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func sqliteDSN(path string) string {
	if path == MemoryPath || strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
