package cmd

import (
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zombodb/zdbscan/internal/logging"
	"github.com/zombodb/zdbscan/pkg/executor"
)

func (c *ScanConfig) executorOptions() executor.Options {
	params := make([]any, 0, len(c.Params))
	for _, p := range c.Params {
		params = append(params, p)
	}
	return executor.Options{
		Workers: c.Workers,
		Rescans: c.Rescans,
		Params:  params,
	}
}

func NewRunCommand(programName string, config *ScanConfig) *cobra.Command {
	return &cobra.Command{
		Use:     "run <query>",
		Short:   "execute a query through the custom scan",
		Long:    "Plans a single-relation SELECT with the custom scan provider installed and drives the chosen custom scan through its full lifecycle, printing the rows it returns.",
		PreRunE: DefaultPreRunE(programName),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := config.Complete()
			if err != nil {
				return err
			}

			signalctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result, err := session.Run(signalctx, args[0], config.executorOptions())
			if err != nil {
				return err
			}
			logging.Debug().Int("rows", len(result.Rows)).Int("workers", result.Workers).Msg("query finished")
			return printRows(cmd.OutOrStdout(), result)
		},
	}
}

func printRows(w io.Writer, result *executor.Result) error {
	for _, row := range result.Rows {
		values := make([]string, 0, len(row))
		for _, v := range row {
			if v == nil {
				values = append(values, "NULL")
				continue
			}
			values = append(values, fmt.Sprint(v))
		}
		if _, err := fmt.Fprintln(w, strings.Join(values, " | ")); err != nil {
			return err
		}
	}

	suffix := "s"
	if len(result.Rows) == 1 {
		suffix = ""
	}
	_, err := fmt.Fprintf(w, "(%d row%s)\n", len(result.Rows), suffix)
	return err
}
