package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/rbeltran/stitchops/internal/adapters/metrics"
)

// NewMonitorCommand creates the monitor command
func NewMonitorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Serve Prometheus routing metrics until interrupted",
		Long: `Serve Prometheus routing metrics until interrupted.

Routing gauges (jobs by routing method, pending queue depth, split orders)
are polled from the database and exposed on the configured metrics
endpoint. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath, verbose)
			if err != nil {
				return err
			}
			defer app.Close()

			metrics.InitRegistry()

			collector := metrics.NewRoutingMetricsCollector(app.Jobs, app.Config.Metrics.PollInterval)
			if err := collector.Register(); err != nil {
				return fmt.Errorf("failed to register routing metrics: %w", err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			collector.Start(ctx)
			defer collector.Stop()

			mux := http.NewServeMux()
			mux.Handle(app.Config.Metrics.Path, promhttp.HandlerFor(
				metrics.GetRegistry(),
				promhttp.HandlerOpts{},
			))

			addr := fmt.Sprintf("%s:%d", app.Config.Metrics.Host, app.Config.Metrics.Port)
			server := &http.Server{Addr: addr, Handler: mux}

			errCh := make(chan error, 1)
			go func() {
				fmt.Printf("Serving metrics on http://%s%s\n", addr, app.Config.Metrics.Path)
				errCh <- server.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				fmt.Printf("Received %s, shutting down\n", sig)
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	return cmd
}
