package cmd

import (
	"context"
	"fmt"
	"os"

	"agents-manager/core/gateway"
	"agents-manager/core/manifest"
	"agents-manager/core/resource"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// initCmd creates empty manifests and config directories.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the manifests and config directories of a new project",
	Long:  `Creates agents.json, tools.json and tests.json with their config directories. Existing files are left alone.
With the s3 backend the bucket is created as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		for _, kind := range resource.All() {
			if err := initKind(a.store, kind); err != nil {
				return err
			}
			a.logger.Info("Initialized", zap.String("manifest", kind.ManifestFile()), zap.String("configs", kind.ConfigDir()))
		}
		return ensureRemote(cmd.Context(), a.gateway, a.cfg.Storage.Region, a.logger)
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}

func initKind(store *manifest.Store, kind resource.Kind) error {
	if _, err := store.Load(kind, true); err != nil {
		return err
	}
	if err := os.MkdirAll(store.ConfigDir(kind), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", kind.ConfigDir(), err)
	}
	return nil
}

// ensureRemote creates the bucket of object-storage backends. Other backends
// need no setup.
func ensureRemote(ctx context.Context, gw gateway.Gateway, region string, log *zap.Logger) error {
	p, ok := gw.(gateway.BucketProvisioner)
	if !ok {
		return nil
	}
	if err := p.EnsureBucket(ctx, region); err != nil {
		return err
	}
	log.Info("Bucket ready")
	return nil
}
