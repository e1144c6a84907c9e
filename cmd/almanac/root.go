package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"almanac/internal/config"
	"almanac/internal/log"
	"almanac/internal/storage"
	"almanac/internal/ui"
)

type rootOptions struct {
	configPath string
	dbPath     string
	temp       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "almanac",
		Short:         "Calendar diary",
		Long:          "A month calendar with a diary note per day and yearly notes per calendar day, kept in SQLite",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()
			return ui.Run(cmd.Context(), sess.store, sess.cfg, sess.store.Temporary())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file path (default: $ALMANAC_CONFIG or ~/.config/almanac/config.toml)")
	flags.StringVar(&opts.dbPath, "db", "", "Database file path, overrides db_path from the config")
	flags.BoolVar(&opts.temp, "temp", false, "Use a temporary in-memory database")

	cmd.AddCommand(newMonthCmd(opts), newNoteCmd(opts), newExportCmd(opts))
	return cmd
}

// session is what a command runs against: the effective config, the open
// store and the log file, if any.
type session struct {
	cfg     config.Config
	store   *storage.Store
	logFile io.Closer
}

func (s *session) Close() error {
	err := s.store.Close()
	if s.logFile != nil {
		log.SetOutput(io.Discard)
		if cerr := s.logFile.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// open loads the config, applies flag overrides, sets up logging and opens
// the database.
func (o *rootOptions) open() (*session, error) {
	path := o.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	switch {
	case o.temp:
		cfg.DBPath = storage.MemoryPath
	case o.dbPath != "":
		cfg.DBPath = o.dbPath
	}

	logFile, err := setupLogging(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		if logFile != nil {
			log.SetOutput(io.Discard)
			logFile.Close()
		}
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &session{cfg: cfg, store: store, logFile: logFile}, nil
}

// setupLogging points the logger at cfg.LogPath and returns the file to
// close, or nil when logs are discarded.
func setupLogging(cfg config.Config) (io.Closer, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)
	if cfg.LogPath == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}
