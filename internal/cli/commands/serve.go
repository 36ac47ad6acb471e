package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/chatlens/internal/server"
	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/webhook"
)

// ServeOptions holds command-line options for the serve command.
type ServeOptions struct {
	Addr       string
	ConfigPath string
	EnvFile    string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Run an HTTP server that analyzes uploaded chat exports.

Endpoints:
  GET  /healthz        Liveness check
  POST /api/analyze    Analyze an export (raw body or multipart field "file")
  POST /api/detect     Detect header formats in an export (?n=<sample size>)
  GET  /api/patterns   List the supported header formats

Environment variables are read from --env-file before the configuration is
loaded, so CHATLENS_* overrides and ${VAR} webhook tokens can live there.

Example:
  chatlens serve --addr :9000
  chatlens serve --config chatlens.yaml --env-file prod.env`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (default from config, then "+config.DefaultServerAddr+")")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (optional)")
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", ".env", "Environment file loaded before the config")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	envErr := loadEnvFile(opts.EnvFile)

	cfg, err := config.LoadOrDefault(ctx, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}

	logger, err := commandLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if envErr != nil {
		logger.Warn("env file not loaded", zap.String("path", opts.EnvFile), zap.Error(envErr))
	}

	srv := server.New(cfg.Server,
		server.WithLogger(logger),
		server.WithWebhooks(webhook.NewClient(webhook.WithLogger(logger)), cfg.Webhooks))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "chatlens listening on %s\n", cfg.Server.Addr)
	return srv.Run(ctx)
}

// loadEnvFile loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
