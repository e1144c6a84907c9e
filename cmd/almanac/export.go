package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"almanac/internal/export"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.ics]",
		Short: "Export notes as iCalendar",
		Long:  "Write every note as an all-day event; yearly notes repeat every year. Writes to stdout without a file argument.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			// The file is created only once the calendar has entries.
			cal, err := export.Calendar(cmd.Context(), sess.store, time.Now())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return export.Encode(cmd.OutOrStdout(), cal)
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := export.Encode(f, cal); err != nil {
				f.Close()
				os.Remove(args[0])
				return err
			}
			return f.Close()
		},
	}
}
