package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"agents-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootDir is the project root every command works on.
var rootDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "agents",
	Short: "Agents as code",
	Long: `Agents manages remotely hosted conversational agents, tools and tests as local
JSON files and keeps them synchronized with the remote service across environments.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. An interrupt cancels the command context; batch
// operations finish the entry in progress and stop.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		// Console encoding with ISO8601 timestamps, regardless of project config.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root holding the manifests and config directories")
}
