package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/blackwell-systems/devtrace"
	"github.com/blackwell-systems/devtrace/internal/config"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type options struct {
	configFile string
	addr       string
	mode       string
	colorize   bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "devtrace-demo",
		Short: "Serve failing routes wrapped in devtrace",
		Long: `devtrace-demo serves a handful of routes that fail on purpose:

  /panic     a plain net/http handler that panics
  /error     a handler returning a wrapped error with a recorded stack
  /callback  a callback-style handler that raises from another goroutine
  /pending   a handler whose pending result fails later
  /ok        a handler that succeeds

Open them with curl for text reports or with a browser for HTML ones.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = opts.addr
			}
			if cmd.Flags().Changed("mode") {
				cfg.Mode = opts.mode
			}
			if cmd.Flags().Changed("colorize") || cfg.Colorize == nil {
				cfg.Colorize = &opts.colorize
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	fd := os.Stderr.Fd()
	cmd.Flags().StringVar(&opts.configFile, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&opts.addr, "addr", config.Default().Addr, "listen address")
	cmd.Flags().StringVar(&opts.mode, "mode", config.Default().Mode, "failure handling: log, respond or debug")
	cmd.Flags().BoolVar(&opts.colorize, "colorize", isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd), "colorize logged reports")

	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	tc := devtrace.Config{
		Output:   colorable.NewColorableStderr(),
		Colorize: *cfg.Colorize,
	}
	if cfg.Assets != "" {
		tc.Resources = devtrace.FSLoader{FS: os.DirFS(cfg.Assets)}
	}

	srv := &http.Server{
		Addr:     cfg.Addr,
		Handler:  devtrace.RequestIDMiddleware(routes(cfg.Mode, tc)),
		ErrorLog: slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "mode", cfg.Mode, "colorize", tc.Colorize)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func routes(mode string, tc devtrace.Config) http.Handler {
	wrap := func(h devtrace.Invocation) http.Handler {
		switch mode {
		case config.ModeLog:
			return devtrace.Log(h, tc)
		case config.ModeRespond:
			return devtrace.Respond(h, tc)
		default:
			return devtrace.Debug(h, tc)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("GET /panic", wrap(devtrace.Adapt(panicHandler)))
	mux.Handle("GET /error", wrap(devtrace.HandlerFunc(errorHandler)))
	mux.Handle("GET /callback", wrap(devtrace.ContinuationFunc(callbackHandler)))
	mux.Handle("GET /pending", wrap(devtrace.PendingFunc(pendingHandler)))
	mux.Handle("GET /ok", wrap(devtrace.Adapt(okHandler)))
	return mux
}
