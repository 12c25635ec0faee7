package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	addKind string
	addEnv  string
)

// addCmd scaffolds a new, not yet pushed resource.
var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Scaffold a config file and manifest entry for a new resource",
	Long: `Writes a minimal config file named after <name> and appends it to the manifest.
The resource is created remotely on the next push.

Examples:
  agents add "Support Bot"
  agents add "Weather lookup" --kind tool --env staging`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindOrDefault(addKind)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entry, err := a.store.Add(kind, args[0], addEnv)
		if err != nil {
			return err
		}
		a.logger.Info("Added",
			zap.String("kind", string(kind)),
			zap.String("config", entry.ConfigPath),
			zap.String("env", entry.Env(a.engine.DefaultEnvironment())),
		)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addKind, "kind", "", "Resource kind: agent, tool or test (default agent)")
	addCmd.Flags().StringVar(&addEnv, "env", "", "Environment (default from config)")

	RootCmd.AddCommand(addCmd)
}
