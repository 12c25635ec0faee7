package cmd

import (
	"errors"
	"fmt"

	"agents-manager/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	deleteKind string
	deleteEnv  string
	deleteAll  bool
	deleteYes  bool
)

// deleteCmd removes resources remotely and locally.
var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a resource remotely and remove it from the project",
	Long: `Delete one resource, selected by remote ID, config path or name, or every resource
with --all. The local config file and manifest entry are removed even when the
remote delete fails.

Examples:
  # Delete one agent
  agents delete agent_123

  # Delete every staging tool without prompting
  agents delete --kind tool --all --env staging --yes`,
	Args: func(cmd *cobra.Command, args []string) error {
		if deleteAll && len(args) > 0 {
			return errors.New("pass either an id or --all, not both")
		}
		if !deleteAll && len(args) != 1 {
			return errors.New("pass exactly one id, or --all")
		}
		return nil
	},
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().StringVar(&deleteKind, "kind", "", "Resource kind: agent, tool or test (default agent)")
	deleteCmd.Flags().StringVar(&deleteEnv, "env", "", "Environment of the resource(s)")
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "Delete every resource of the kind")
	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "Auto-confirm (non-interactive)")

	RootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	kind, err := kindOrDefault(deleteKind)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p := newPrompter(cmd, deleteYes)
	opts := reconcile.DeleteOptions{
		Environment: deleteEnv,
		Confirm: func(count int) (bool, error) {
			scope := "every environment"
			if deleteEnv != "" {
				scope = deleteEnv
			}
			return p.Confirm(fmt.Sprintf("⚠️  Delete %d %s (%s) remotely and locally?", count, kind.Plural(), scope)), nil
		},
	}

	var result *reconcile.DeleteResult
	if deleteAll {
		result, err = a.engine.DeleteAll(cmd.Context(), kind, opts)
	} else {
		result, err = a.engine.Delete(cmd.Context(), kind, args[0], opts)
	}
	if err != nil {
		return err
	}

	if result.Aborted {
		a.logger.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}
	a.logger.Info("Delete finished",
		zap.String("kind", string(kind)),
		zap.Int("deleted", result.Deleted),
		zap.Int("remote_failed", result.RemoteFailed),
		zap.Int("failed", result.Failed),
	)
	if !deleteAll && result.Failed > 0 {
		return result.Err
	}
	return nil
}
