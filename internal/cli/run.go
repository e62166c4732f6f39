package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fnug/fnug/internal/app"
	"github.com/fnug/fnug/internal/auto"
	"github.com/fnug/fnug/internal/cliutil"
	"github.com/fnug/fnug/internal/fnuglog"
	"github.com/fnug/fnug/internal/gitstatus"
	"github.com/fnug/fnug/internal/tree"
	"github.com/fnug/fnug/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the interactive terminal UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runTUI() error {
	log, err := fnuglog.New(fnuglog.Options{Verbose: verbose, Quiet: quiet, LogFile: logFile})
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	path, err := cliutil.ResolveConfigPath(configPath, ".")
	if err != nil {
		return err
	}

	root, repoDir, err := cliutil.LoadConfigAndRepo(path)
	if err != nil {
		return err
	}

	lockDir := repoDir
	if lockDir == "" {
		lockDir = "."
	}
	lock, err := app.AcquireLock(lockDir)
	if err != nil {
		return err
	}
	defer lock.Release() //nolint:errcheck

	state := tree.New(tree.FromConfig(root))

	var detector *gitstatus.Detector
	if repoDir != "" {
		detector, err = gitstatus.New(repoDir)
		if err != nil {
			log.Warn("run: git detection unavailable", zap.Error(err))
		}
	}

	autoEngine := auto.New(log, root, detector, state)
	autoEngine.SelectAlways()
	autoEngine.RunGitPass()

	coordinator := app.New(log, root, state, autoEngine, app.Dims{Rows: 24, Cols: 80})
	if repoDir != "" {
		if err := coordinator.StartWatching(repoDir); err != nil {
			log.Warn("run: filesystem watch unavailable", zap.Error(err))
		}
	}
	defer coordinator.Quit()

	model := ui.New(coordinator)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
