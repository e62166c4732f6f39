package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fnug/fnug/internal/cliutil"
	"github.com/fnug/fnug/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective merged configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cliutil.ResolveConfigPath(configPath, ".")
		if err != nil {
			return err
		}

		root, err := cliutil.LoadConfig(path)
		if err != nil {
			return err
		}

		out, err := config.DumpYAML(root)
		if err != nil {
			return err
		}

		fmt.Fprint(os.Stdout, string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
