package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/omochice/toy-line-chat/internal/client"
	"github.com/omochice/toy-line-chat/internal/config"
	"github.com/omochice/toy-line-chat/internal/log"
	"github.com/omochice/toy-line-chat/internal/transport"
	"github.com/omochice/toy-line-chat/internal/transport/tcp"
	"github.com/omochice/toy-line-chat/internal/transport/ws"
)

const prompt = "> "

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
		Use:           "linechat",
		Short:         "Terminal client for the line chat server",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := config.Load(log.New(overrides.LogLevel), configPath)
			if err != nil {
				return err
			}
			cfg.UpdateFrom(overrides)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := log.New(cfg.LogLevel)
			logger.Debug().Str("config", path).Msg("configuration loaded")

			editor := newLineEditor(os.Stdin, *logger)
			defer editor.Close()

			err = run(cmd.Context(), cfg, *logger, editor, cmd.OutOrStdout())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	f.StringVar(&overrides.Host, "host", "", "server host")
	f.IntVarP(&overrides.Port, "port", "p", 0, "server port")
	f.StringVarP(&overrides.Transport, "transport", "t", "", "transport: tcp or ws")
	f.StringVar(&overrides.WSPath, "ws-path", "", "WebSocket endpoint path")
	f.DurationVar(&overrides.ConnectTimeout, "connect-timeout", 0, "connect timeout")
	f.StringVarP(&overrides.Username, "username", "u", "", "log in with this name after connecting")
	f.StringVar(&overrides.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func newDialer(cfg config.Config) transport.Dialer {
	if cfg.Transport == config.TransportWebSocket {
		return ws.Dialer{Timeout: cfg.ConnectTimeout, Path: cfg.WSPath}
	}
	return tcp.Dialer{Timeout: cfg.ConnectTimeout}
}

// run connects, prints server events and feeds user input to the client
// until the user quits, input ends or the connection drops.
func run(ctx context.Context, cfg config.Config, logger zerolog.Logger, in lineReader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(
		client.WithDialer(newDialer(cfg)),
		client.WithLogger(logger),
		client.WithEventBuffer(cfg.EventBuffer),
	)
	con := newConsole(out)
	c.AddObserver(con)

	dialCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	err := c.Connect(dialCtx, cfg.Host, cfg.Port)
	cancel()
	if err != nil {
		return err
	}
	defer c.Disconnect()

	if err := c.StartListening(); err != nil {
		return err
	}
	done := c.Done()
	con.printf("*** connected to %s:%d (%s), /help lists commands", cfg.Host, cfg.Port, cfg.Transport)

	if cfg.Username != "" {
		if err := c.Login(cfg.Username); err != nil {
			return err
		}
	}

	lines := make(chan string)
	inputErr := make(chan error, 1)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			line, err := in.GetLine(prompt)
			if err != nil {
				inputErr <- err
				return
			}
			select {
			case lines <- line:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return closeAndWait(c, done)
		case <-done:
			return fmt.Errorf("connection lost: %s", c.LastError())
		case err := <-inputErr:
			if errors.Is(err, io.EOF) {
				return closeAndWait(c, done)
			}
			c.Disconnect()
			return fmt.Errorf("read input: %w", err)
		case line := <-lines:
			leave, err := execute(c, line)
			if err != nil {
				con.printf("*** %v", err)
			}
			if leave {
				return closeAndWait(c, done)
			}
		}
	}
}

// closeAndWait disconnects and gives the final notification a moment to
// be printed.
func closeAndWait(c *client.Client, done <-chan struct{}) error {
	c.Disconnect()
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return nil
}
