package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"almanac/internal/calendar"
	"almanac/internal/diary"
	"almanac/internal/storage"
)

type noteOptions struct {
	date   string
	static bool
	delete bool
	list   bool
}

func newNoteCmd(root *rootOptions) *cobra.Command {
	opts := &noteOptions{}
	cmd := &cobra.Command{
		Use:   "note [text...]",
		Short: "Write, remove or list notes",
		Long: `Write the diary note of a day (default: today), or with --static the note
repeated every year on that month and day. Saving an empty note removes it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.list {
				return runNoteList(cmd, root)
			}
			text := strings.Join(args, " ")
			if text == "" && !opts.delete {
				return fmt.Errorf("note text required (use --delete to remove a note)")
			}
			if opts.delete && text != "" {
				return fmt.Errorf("--delete takes no text")
			}

			date := calendar.Today()
			if opts.date != "" {
				var err error
				if date, err = calendar.ParseDate(opts.date); err != nil {
					return err
				}
			}

			sess, err := root.open()
			if err != nil {
				return err
			}
			defer sess.Close()

			var action diary.Action
			kind, key := "daily", date.String()
			if opts.static {
				kind, key = "yearly", date.MonthDay().String()
				action, err = diary.CommitStatic(cmd.Context(), sess.store, date.MonthDay(), text)
			} else {
				action, err = diary.CommitDaily(cmd.Context(), sess.store, date, text)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s note for %s %s\n", kind, key, action)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.date, "date", "d", "", "Day of the note as YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVarP(&opts.static, "static", "s", false, "Write the yearly note for the day's month and day")
	cmd.Flags().BoolVar(&opts.delete, "delete", false, "Remove the note")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "List every note, yearly notes first")
	return cmd
}

func runNoteList(cmd *cobra.Command, root *rootOptions) error {
	sess, err := root.open()
	if err != nil {
		return err
	}
	defer sess.Close()
	return listNotes(cmd, sess.store)
}

func listNotes(cmd *cobra.Command, store *storage.Store) error {
	static, err := store.QueryAll(cmd.Context())
	if err != nil {
		return err
	}
	daily, err := store.ListDaily(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range static {
		fmt.Fprintf(out, "%-10s  every year: %s\n", r.Key, r.Text)
	}
	for _, r := range daily {
		fmt.Fprintf(out, "%-10s  %s\n", r.Date, r.Text)
	}
	return nil
}
