package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"almanac/internal/calendar"
	"almanac/internal/diary"
	"almanac/internal/ui"
)

func newMonthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Print a month grid with its notes",
		Long:  "Print the 6x7 grid of a month (default: the current one) followed by every note shown in it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today := calendar.Today()
			page := calendar.Page{Year: today.Year, Month: today.Month}
			if len(args) == 1 {
				var err error
				if page, err = parseMonth(args[0]); err != nil {
					return err
				}
			}

			sess, err := opts.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			weekStart, err := sess.cfg.FirstWeekday()
			if err != nil {
				return err
			}
			rec := diary.NewReconciler(sess.store, sess.store, weekStart, calendar.MonthRows)
			cells, err := rec.Refresh(cmd.Context(), page)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, page.Title())
			fmt.Fprintln(out, ui.RenderGrid(rec.Grid(), weekStart, today))
			for _, c := range cells {
				if !c.InCurrentMonth {
					continue
				}
				if c.StaticText != "" {
					fmt.Fprintf(out, "%s  every year: %s\n", c.Date, c.StaticText)
				}
				if c.DailyText != "" {
					fmt.Fprintf(out, "%s  %s\n", c.Date, c.DailyText)
				}
			}
			return nil
		},
	}
}

func parseMonth(v string) (calendar.Page, error) {
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return calendar.Page{}, fmt.Errorf("%w: month %q, want YYYY-MM", calendar.ErrInvalidDate, v)
	}
	if err := calendar.ValidateMonth(t.Year(), t.Month()); err != nil {
		return calendar.Page{}, err
	}
	return calendar.Page{Year: t.Year(), Month: t.Month()}, nil
}
