// Package serve provides the serve command.
package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/codedoc/internal/cmdutil"
	"github.com/leefowlercu/codedoc/internal/config"
	"github.com/leefowlercu/codedoc/internal/metrics"
	"github.com/leefowlercu/codedoc/internal/segmenter"
	"github.com/leefowlercu/codedoc/internal/server"
	"github.com/leefowlercu/codedoc/internal/version"
)

const tokenizerWarmTimeout = 30 * time.Second

var (
	servePort int
	serveBind string
)

// ServeCmd runs the HTTP service in the foreground.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the documentation HTTP service",
	Long: "Run the documentation HTTP service in the foreground.\n\n" +
		"The service accepts POST " + server.GeneratePath + " with a JSON body carrying " +
		"\"code\", \"language\", and an optional \"style\", and answers with the generated " +
		"Markdown. It also exposes /healthz, /readyz, and /metrics. SIGINT or SIGTERM " +
		"trigger a graceful shutdown; SIGHUP reloads the config file.",
	Example: `  # Serve on the configured address (127.0.0.1:5000 by default)
  codedoc serve

  # Serve on all interfaces, port 8080
  codedoc serve --bind 0.0.0.0 --port 8080`,
	PreRunE: validateServe,
	RunE:    runServe,
}

func init() {
	ServeCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (overrides server.http_port)")
	ServeCmd.Flags().StringVar(&serveBind, "bind", "", "Bind address (overrides server.http_bind)")
}

func validateServe(cmd *cobra.Command, args []string) error {
	if servePort < 0 || servePort > 65535 {
		return fmt.Errorf("invalid port %d; must be between 1 and 65535", servePort)
	}
	cmd.SilenceUsage = true
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	logger := slog.Default()

	stack, err := cmdutil.BuildStack(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = stack.Close() }()

	srvCfg := server.Config{
		Port:        cfg.Server.HTTPPort,
		Bind:        cfg.Server.HTTPBind,
		CORSOrigins: cfg.Server.CORSOrigins,
	}
	if servePort != 0 {
		srvCfg.Port = servePort
	}
	if serveBind != "" {
		srvCfg.Bind = serveBind
	}

	srv := server.NewServer(stack.Service, srvCfg,
		server.WithReadiness(stack.Narrator.Check),
		server.WithMetricsHandler(metrics.Handler()),
		server.WithLogger(logger.With("component", "server")),
	)

	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), tokenizerWarmTimeout)
		defer cancel()
		if err := segmenter.WarmTokenizer(warmCtx); err != nil {
			logger.Warn("token encoder unavailable; using character estimates", "error", err)
		}
	}()

	metrics.RecordServerStart(version.Get().Version, stack.Provider.Name(), stack.Provider.ModelName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.SetupSignalHandler()
	defer config.StopSignalHandler()

	logger.Info("starting server",
		"addr", srv.Addr(),
		"provider", stack.Provider.Name(),
		"model", stack.Provider.ModelName(),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("server stopped")
	return nil
}
