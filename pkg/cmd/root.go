package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/go-logr/zerologr"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/jzelinskie/cobrautil/v2/cobrazerolog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zombodb/zdbscan/internal/logging"
)

func RegisterRootFlags(cmd *cobra.Command) {
	cobrazerolog.New().RegisterFlags(cmd.PersistentFlags())
}

// DefaultPreRunE sets up viper and zerolog flag handling for a command.
func DefaultPreRunE(programName string) cobrautil.CobraRunFunc {
	return cobrautil.CommandStack(
		cobrautil.SyncViperDotEnvPreRunE(programName, programName+".env", zerologr.New(&logging.Logger)),
		cobrazerolog.New(
			cobrazerolog.WithTarget(func(logger zerolog.Logger) {
				logging.SetGlobalLogger(logger)
			}),
		).RunE(),
	)
}

// RootExample creates an example usage string with the provided program name.
func RootExample(programName string) string {
	return fmt.Sprintf(`	%[1]s:
		%[3]s explain "SELECT * FROM docs WHERE title ==> 'cats'"

	%[2]s:
		%[3]s run --schema "CREATE TABLE posts (id bigint, body text)" --residual-filter all \
			"SELECT id FROM posts WHERE body ==> 'dogs' AND id = 5"
`,
		color.YellowString("Explain against the default schema"),
		color.GreenString("Run against a custom schema"),
		programName,
	)
}

func NewRootCommand(programName string) *cobra.Command {
	return &cobra.Command{
		Use:           programName,
		Short:         "Plan and execute queries with the ZomboDB custom scan provider",
		Long:          "Plans single-relation queries with the ZomboDB custom scan provider installed, and explains or executes the chosen plan",
		Example:       RootExample(programName),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
}
