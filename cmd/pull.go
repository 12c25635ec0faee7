package cmd

import (
	"fmt"

	"agents-manager/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	pullTarget targetFlags
	pullEnv    string
	pullUpdate bool
	pullAll    bool
	pullSearch string
	pullDryRun bool
	pullYes    bool
)

// pullCmd fetches remote resources into local configs.
var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Write remote resources to local configs",
	Long: `Pull remote resources into the project. By default only resources missing locally
are created and existing configs are never touched. --update refreshes existing
configs only; --all refreshes existing configs and creates missing ones.

Examples:
  # Fetch new agents from every manifest environment
  agents pull --kind agent

  # Overwrite local tools with the remote state, without prompting
  agents pull --kind tool --update --yes

  # Preview what a full pull of staging would write
  agents pull --env staging --all --dry-run`,
	RunE: runPull,
}

func init() {
	pullTarget.register(pullCmd, "remote ID")
	pullCmd.Flags().StringVar(&pullEnv, "env", "", "Environment to pull (default: every environment in the manifest)")
	pullCmd.Flags().BoolVar(&pullUpdate, "update", false, "Refresh existing configs only")
	pullCmd.Flags().BoolVar(&pullAll, "all", false, "Refresh existing configs and create missing ones")
	pullCmd.Flags().StringVar(&pullSearch, "search", "", "Remote name filter")
	pullCmd.Flags().BoolVar(&pullDryRun, "dry-run", false, "Show the plan without writing anything")
	pullCmd.Flags().BoolVar(&pullYes, "yes", false, "Auto-confirm overwrites (non-interactive)")
	pullCmd.MarkFlagsMutuallyExclusive("update", "all")

	RootCmd.AddCommand(pullCmd)
}

func pullMode() reconcile.PullMode {
	switch {
	case pullAll:
		return reconcile.PullAll
	case pullUpdate:
		return reconcile.PullUpdate
	default:
		return reconcile.PullDefault
	}
}

func runPull(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := pullTarget.resolve(a.store)
	if err != nil {
		return err
	}

	p := newPrompter(cmd, pullYes)
	for _, kind := range t.kinds {
		opts := reconcile.PullOptions{
			RemoteID:    t.selector,
			Environment: pullEnv,
			Mode:        pullMode(),
			Search:      pullSearch,
			DryRun:      pullDryRun,
			Confirm: func(s reconcile.PlanSummary) (bool, error) {
				return p.Confirm(fmt.Sprintf("Pull %s: %s.", kind.Plural(), s)), nil
			},
		}

		result, err := a.engine.Pull(cmd.Context(), kind, opts)
		if err != nil {
			return fmt.Errorf("pull %s: %w", kind.Plural(), err)
		}

		switch {
		case result.DryRun:
			logPlan(a.logger, result.Plan)
			a.logger.Info("Dry-run mode: No changes were made.")
		case result.Aborted:
			a.logger.Warn("Operation cancelled by user. No changes were made.", zap.String("kind", string(kind)))
		default:
			a.logger.Info("Pull finished",
				zap.String("kind", string(kind)),
				zap.Int("created", result.Created),
				zap.Int("updated", result.Updated),
				zap.Int("skipped", result.Skipped),
				zap.Int("warned", result.Warned),
				zap.Int("failed", result.Failed),
			)
			if t.selector != "" && result.Err != nil {
				return result.Err
			}
		}
	}
	return nil
}
