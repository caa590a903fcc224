package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"talktrack/internal/runstore"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiCyan  = "\x1b[36m"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect past and current pipeline runs",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := runstore.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run store: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				detail := run.OutputPath
				if run.Status == runstore.StatusFailed {
					detail = run.ErrorMessage
				}
				rows = append(rows, []string{
					strconv.FormatInt(run.ID, 10),
					run.Stem,
					statusLabel(run.Status, colorize),
					strconv.Itoa(run.TrackCount),
					run.UpdatedAt.Local().Format(time.DateTime),
					detail,
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Video", "Status", "Tracks", "Updated", "Detail"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func statusLabel(status runstore.Status, colorize bool) string {
	if !colorize {
		return string(status)
	}
	switch status {
	case runstore.StatusCompleted:
		return ansiGreen + string(status) + ansiReset
	case runstore.StatusFailed:
		return ansiRed + string(status) + ansiReset
	default:
		return ansiCyan + string(status) + ansiReset
	}
}
