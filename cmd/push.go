package cmd

import (
	"fmt"

	"agents-manager/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	pushTarget targetFlags
	pushEnv    string
	pushDryRun bool
	pushPolicy string
)

// pushCmd sends local configs to the remote service.
var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Create or update remote resources from local configs",
	Long: `Push every manifest entry to the remote service. Entries without a remote ID are
created, the others are updated. A failing entry is logged and the batch continues.

Examples:
  # Push everything
  agents push

  # Preview a push of staging agents
  agents push --kind agent --env staging --dry-run

  # Push one tool by remote ID, config path or name
  agents push --tool tool_123`,
	RunE: runPush,
}

func init() {
	pushTarget.register(pushCmd, "remote ID, config path or name")
	pushCmd.Flags().StringVar(&pushEnv, "env", "", "Only entries of this environment")
	pushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "Show the plan without calling the remote service")
	pushCmd.Flags().StringVar(&pushPolicy, "policy", "", "always or skip-unchanged (default from config)")

	RootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var policy reconcile.Policy
	if pushPolicy != "" {
		if policy, err = reconcile.ParsePolicy(pushPolicy); err != nil {
			return err
		}
	}

	t, err := pushTarget.resolve(a.store)
	if err != nil {
		return err
	}

	var failed int
	for _, kind := range t.kinds {
		result, err := a.engine.Push(cmd.Context(), kind, reconcile.PushOptions{
			Selector:    t.selector,
			Environment: pushEnv,
			DryRun:      pushDryRun,
			Policy:      policy,
		})
		if err != nil {
			return fmt.Errorf("push %s: %w", kind.Plural(), err)
		}

		if pushDryRun {
			logPlan(a.logger, result.Plan)
			a.logger.Info("Dry-run mode: No changes were made.")
			continue
		}

		a.logger.Info("Push finished",
			zap.String("kind", string(kind)),
			zap.Int("created", result.Created),
			zap.Int("updated", result.Updated),
			zap.Int("skipped", result.Skipped),
			zap.Int("warned", result.Warned),
			zap.Int("failed", result.Failed),
		)
		failed += result.Failed

		// A single target that failed is an unrecoverable error for the caller.
		if t.selector != "" && result.Err != nil {
			return result.Err
		}
	}

	if failed > 0 {
		a.logger.Warn("Some entries failed; see the log above", zap.Int("failed", failed))
	}
	return nil
}
