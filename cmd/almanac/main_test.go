package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almanac/internal/export"
	"almanac/internal/log"
)

type env struct {
	config string
	db     string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	return env{
		config: filepath.Join(dir, "config.toml"),
		db:     filepath.Join(dir, "almanac.db"),
	}
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append(args, "--config", e.config, "--db", e.db))
	err := cmd.Execute()
	return buf.String(), err
}

func TestNoteWriteAndList(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "note", "--date", "2024-02-14", "dinner", "at", "eight")
	require.NoError(t, err)
	assert.Equal(t, "daily note for 2024-02-14 created\n", out)

	out, err = e.run(t, "note", "--date", "2024-02-14", "--static", "Valentine's")
	require.NoError(t, err)
	assert.Equal(t, "yearly note for 02-14 created\n", out)

	out, err = e.run(t, "note", "--date", "2024-02-14", "dinner", "at", "eight")
	require.NoError(t, err)
	assert.Contains(t, out, "none")

	out, err = e.run(t, "note", "--list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "02-14       every year: Valentine's", lines[0])
	assert.Equal(t, "2024-02-14  dinner at eight", lines[1])

	_, err = os.Stat(e.config)
	assert.NoError(t, err, "config is written on first run")
}

func TestNoteDelete(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "note", "-d", "2024-03-01", "x")
	require.NoError(t, err)

	out, err := e.run(t, "note", "-d", "2024-03-01", "--delete")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	out, err = e.run(t, "note", "--list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestNoteRejectsBadInput(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "note", "-d", "2023-02-29", "x")
	assert.Error(t, err)

	_, err = e.run(t, "note")
	assert.ErrorContains(t, err, "note text required")

	_, err = e.run(t, "note", "--delete", "x")
	assert.Error(t, err)
}

func TestMonthPrintsGridAndNotes(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "note", "-d", "2024-02-29", "leap")
	require.NoError(t, err)
	_, err = e.run(t, "note", "-d", "2024-03-01", "not shown")
	require.NoError(t, err)

	out, err := e.run(t, "month", "2024-02")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "February 2024\n"))
	assert.Contains(t, out, "2024-02-29  leap")
	assert.NotContains(t, out, "2024-03-01  not shown", "overflow days are not listed")

	_, err = e.run(t, "month", "2024-13")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "export")
	assert.Error(t, err, "an empty diary has nothing to export")

	_, err = e.run(t, "note", "-d", "2024-02-14", "-s", "Valentine's")
	require.NoError(t, err)

	out, err := e.run(t, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "RRULE:FREQ=YEARLY")

	file := filepath.Join(t.TempDir(), "out.ics")
	_, err = e.run(t, "export", file)
	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:Valentine's")
}

func TestEmptyExportLeavesNoFile(t *testing.T) {
	e := newEnv(t)
	file := filepath.Join(t.TempDir(), "empty.ics")

	_, err := e.run(t, "export", file)
	assert.ErrorIs(t, err, export.ErrNothingToExport)
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err), "no file is created for an empty diary")
}

func TestLogFileIsWrittenAndReleased(t *testing.T) {
	e := newEnv(t)
	logPath := filepath.Join(t.TempDir(), "logs", "almanac.log")
	body := "log_path = \"" + filepath.ToSlash(logPath) + "\"\nlog_level = \"debug\"\n"
	require.NoError(t, os.WriteFile(e.config, []byte(body), 0o644))

	_, err := e.run(t, "note", "-d", "2024-02-14", "dinner")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] store opened")
	size := len(data)

	// Once the command returns the logger no longer writes to the file.
	log.Info("after close")
	data, err = os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Len(t, data, size)
}

func TestTempDatabaseIsNotPersisted(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "note", "--temp", "-d", "2024-02-14", "gone")
	require.NoError(t, err)

	_, err = os.Stat(e.db)
	assert.True(t, os.IsNotExist(err))
}

func TestParseMonth(t *testing.T) {
	p, err := parseMonth("1999-12")
	require.NoError(t, err)
	assert.Equal(t, 1999, p.Year)
	assert.Equal(t, "December 1999", p.Title())

	_, err = parseMonth("Dec 1999")
	assert.Error(t, err)
}
