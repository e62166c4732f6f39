package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fnug/fnug/internal/app"
	"github.com/fnug/fnug/internal/auto"
	"github.com/fnug/fnug/internal/cliutil"
	"github.com/fnug/fnug/internal/fnuglog"
	"github.com/fnug/fnug/internal/gitstatus"
	"github.com/fnug/fnug/internal/tree"
)

var (
	checkFailFast    bool
	checkNoTUI       bool
	checkMuteSuccess bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run every auto-selected command headlessly and report pass/fail",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		code := runCheck()
		if code != app.CheckExitOK {
			os.Exit(code)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkFailFast, "fail-fast", false, "stop after the first failing command")
	checkCmd.Flags().BoolVar(&checkNoTUI, "no-tui", false, "accepted for CLI compatibility; check never launches a TUI")
	checkCmd.Flags().BoolVar(&checkMuteSuccess, "mute-success", false, "do not print a PASS line for successful commands")
	rootCmd.AddCommand(checkCmd)
}

// runCheck implements `fnug check`, returning the process exit code
// (0 success, 1 a command failed, 2 config error, 130 interrupted). It
// os.Exits directly from checkCmd.RunE because cobra's RunE error path
// collapses every failure to exit code 1, which cannot express distinct
// codes.
func runCheck() int {
	log, err := fnuglog.New(fnuglog.Options{Verbose: verbose, Quiet: quiet, LogFile: logFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return app.CheckExitConfigError
	}
	defer log.Sync() //nolint:errcheck

	path, err := cliutil.ResolveConfigPath(configPath, ".")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return app.CheckExitConfigError
	}

	root, repoDir, err := cliutil.LoadConfigAndRepo(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return app.CheckExitConfigError
	}

	state := tree.New(tree.FromConfig(root))

	var detector *gitstatus.Detector
	if repoDir != "" {
		detector, _ = gitstatus.New(repoDir)
	}

	autoEngine := auto.New(log, root, detector, state)
	autoEngine.SelectAlways()
	autoEngine.RunGitPass()

	coordinator := app.New(log, root, state, autoEngine, app.Dims{Rows: 24, Cols: 200})
	defer coordinator.Quit()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := cliutil.SetupSignalHandler()
	go func() {
		<-sigCh
		cancel()
	}()

	return coordinator.RunCheck(ctx, os.Stdout, app.CheckOptions{
		FailFast:    checkFailFast,
		MuteSuccess: checkMuteSuccess,
	})
}
