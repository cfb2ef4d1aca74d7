package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/shapeitup/internal/assets"
	"github.com/danielpatrickdp/shapeitup/internal/config"
	"github.com/danielpatrickdp/shapeitup/internal/experiment"
	"github.com/danielpatrickdp/shapeitup/internal/health"
	"github.com/danielpatrickdp/shapeitup/internal/render"
	"github.com/danielpatrickdp/shapeitup/internal/server"
	"github.com/danielpatrickdp/shapeitup/internal/session"
	"github.com/danielpatrickdp/shapeitup/internal/sink"
	"github.com/danielpatrickdp/shapeitup/internal/trial"
)

// #region command
func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the experiment to participants over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger, err := opts.logger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

// #endregion command

// #region serve
func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	catalog, err := assets.Load(cfg.Assets.Dir, cfg.AssetOptions())
	if err != nil {
		return fmt.Errorf("load assets: %w", err)
	}
	for _, style := range assets.Styles {
		logger.Info("asset bucket", zap.String("style", string(style)), zap.Int("icons", len(catalog.Bucket(style))))
	}

	seed := cfg.Server.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	gen := trial.NewGenerator(cfg.TrialConfig(), catalog, rand.New(rand.NewPCG(seed, seed>>1)))

	out, err := openSink(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer out.Close()

	exp, err := experiment.New(experiment.Deps{
		Generator:  gen,
		Plotter:    render.New(cfg.RenderConfig(), catalog),
		Sink:       out,
		Strings:    cfg.Locale,
		LogTimeout: cfg.Sink.Timeout,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	store, err := session.NewStore(cfg.SessionConfig(), cfg.Server.MaxSessions)
	if err != nil {
		return err
	}
	srv, err := server.New(exp, store, server.Config{CookieKey: []byte(cfg.Server.CookieKey)}, logger)
	if err != nil {
		return err
	}

	if cfg.Server.HealthAddr != "" {
		lis, err := net.Listen("tcp", cfg.Server.HealthAddr)
		if err != nil {
			return fmt.Errorf("health listen %s: %w", cfg.Server.HealthAddr, err)
		}
		hs := health.NewServer()
		go func() {
			if err := hs.Serve(lis); err != nil {
				logger.Warn("health server stopped", zap.Error(err))
			}
		}()
		defer hs.Stop()
		hs.SetServing(true)
		logger.Info("health listening", zap.String("addr", lis.Addr().String()))
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- httpSrv.ListenAndServe() }()
	logger.Info("serving",
		zap.String("addr", cfg.Server.Addr),
		zap.String("sink", cfg.Sink.Kind),
		zap.Uint64("seed", seed))

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return httpSrv.Shutdown(shutdownCtx)
}

// openSink builds the configured log destination.
func openSink(ctx context.Context, cfg config.Config, logger *zap.Logger) (sink.Sink, error) {
	var out sink.Multi
	if cfg.Sink.Kind == "sqlite" || cfg.Sink.Kind == "both" {
		st, err := sink.NewSQLiteStore(cfg.Sink.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite sink: %w", err)
		}
		out = append(out, st)
	}
	if cfg.Sink.Kind == "sheets" || cfg.Sink.Kind == "both" {
		sh, err := sink.NewSheetsSink(ctx, cfg.SheetsConfig())
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("open sheets sink: %w", err)
		}
		out = append(out, sh)
	}
	if len(out) == 0 {
		logger.Warn("answers are not being recorded", zap.String("sink", cfg.Sink.Kind))
		return sink.Nop{}, nil
	}
	return out, nil
}

// #endregion serve
