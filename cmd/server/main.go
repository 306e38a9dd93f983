package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/omochice/toy-line-chat/internal/config"
	"github.com/omochice/toy-line-chat/internal/log"
	"github.com/omochice/toy-line-chat/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		overrides  config.Config
	)

	cmd := &cobra.Command{
		Use:          "linechat-server",
		Short:        "Reference line chat server (TCP and WebSocket on one port)",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := config.Load(log.New(overrides.LogLevel), configPath)
			if err != nil {
				return err
			}
			cfg.UpdateFrom(overrides)

			logger := log.New(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, server.New(cfg.ListenAddr, *logger, server.WithDetectTimeout(cfg.DetectTimeout)))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	f.StringVarP(&overrides.ListenAddr, "listen", "l", "", "listen address for both TCP and WebSocket (e.g. :1300)")
	f.StringVar(&overrides.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	f.DurationVar(&overrides.DetectTimeout, "detect-timeout", 0, "drop connections silent this long after accept (0 = never)")

	return cmd
}

// serve runs srv until ctx is cancelled.
func serve(ctx context.Context, srv *server.Server) error {
	if err := srv.Listen(); err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		srv.Stop()
		if err := <-errChan; !errors.Is(err, server.ErrServerClosed) {
			return err
		}
		return nil
	}
}
