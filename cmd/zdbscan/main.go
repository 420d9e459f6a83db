package main

import (
	"errors"
	"os"

	"github.com/rs/zerolog"

	log "github.com/zombodb/zdbscan/internal/logging"
	"github.com/zombodb/zdbscan/pkg/cmd"
	"github.com/zombodb/zdbscan/pkg/executor"
)

func main() {
	log.SetGlobalLogger(log.NewConsoleLogger(os.Stderr, zerolog.InfoLevel))

	rootCmd := cmd.NewRootCommand("zdbscan")
	cmd.RegisterRootFlags(rootCmd)

	explainConfig := new(cmd.ScanConfig)
	explainCmd := cmd.NewExplainCommand(rootCmd.Use, explainConfig)
	cmd.RegisterExplainFlags(explainCmd, explainConfig)
	rootCmd.AddCommand(explainCmd)

	runConfig := new(cmd.ScanConfig)
	runCmd := cmd.NewRunCommand(rootCmd.Use, runConfig)
	cmd.RegisterRunFlags(runCmd, runConfig)
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, executor.ErrUnsupportedPlan) {
			log.Error().Err(err).Msg("the chosen plan does not use the custom scan; use explain to inspect it")
		} else {
			log.Error().Err(err).Msg("terminated with errors")
		}
		os.Exit(1)
	}
}
