package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewExplainCommand(programName string, config *ScanConfig) *cobra.Command {
	return &cobra.Command{
		Use:     "explain <query>",
		Short:   "show the plan chosen for a query",
		Long:    "Plans a single-relation SELECT with the custom scan provider installed and prints the chosen plan, including the provider's own properties when it wins.",
		PreRunE: DefaultPreRunE(programName),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := config.Complete()
			if err != nil {
				return err
			}

			out, err := session.Explain(args[0], config.Verbose)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}
