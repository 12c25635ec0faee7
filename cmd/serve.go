package cmd

import (
	"context"
	"time"

	"agents-manager/core/config"
	"agents-manager/core/gateway"
	"agents-manager/core/loader"
	"agents-manager/core/metrics"
	"agents-manager/core/reconcile"
	"agents-manager/core/server"
	"agents-manager/feature/history"
	"agents-manager/feature/status"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the status API",
	Long:  `Starts the HTTP server exposing status, dry-run plans, sync history and metrics.`,
	RunE:  runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	collector := metrics.New()

	a, err := newApp(
		withObserver(collector),
		withGatewayWrapper(func(gw gateway.Gateway, cfg *config.Config) gateway.Gateway {
			return reconcile.NewCachedGateway(gw, cfg.Server.CacheTTL())
		}),
	)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.cfg.Server.Validate(); err != nil {
		return err
	}

	logg := a.logger.With(zap.String("root", a.store.Root()))

	mgr := loader.NewManager(logg)
	mgr.Register(status.NewFeature(a.engine, logg))
	var records history.Source
	if a.journal != nil {
		records = a.journal
	}
	mgr.Register(history.NewFeature(records, logg))

	app, err := server.New(a.cfg.Server, logg, collector.Handler(), mgr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
		errCh <- app.Listen(a.cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	logg.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
