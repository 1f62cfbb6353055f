package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/neomorfeo/roomkeeper/internal/adapter/fsm"
	adapterotel "github.com/neomorfeo/roomkeeper/internal/adapter/otel"
	adapterredis "github.com/neomorfeo/roomkeeper/internal/adapter/redis"
	adapterriver "github.com/neomorfeo/roomkeeper/internal/adapter/river"
	"github.com/neomorfeo/roomkeeper/internal/adapter/sqlite"
	"github.com/neomorfeo/roomkeeper/internal/app"
	"github.com/neomorfeo/roomkeeper/internal/config"
	"github.com/neomorfeo/roomkeeper/internal/domain"
	"github.com/neomorfeo/roomkeeper/internal/logging"

	handler "github.com/neomorfeo/roomkeeper/internal/adapter/http"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the job queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logger)
		},
	}

	root := &cobra.Command{
		Use:          "roomkeeper",
		Short:        "Hotel reservation and availability engine",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(serve, &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			return migrate(cmd.Context(), cfg, logger)
		},
	}, &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "roomkeeper", version)
		},
	})

	return root
}

func bootstrap(configPath string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config: %w", err)
	}
	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, logger, nil
}

func migrate(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	db, err := adapterotel.OpenDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		return err
	}
	if err := adapterriver.Migrate(ctx, db); err != nil {
		return err
	}
	logger.Info("migrations applied", zap.String("database", cfg.DatabasePath))
	return nil
}

// run wires every adapter and serves until ctx is canceled.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	// --- Observability ---
	providers, err := adapterotel.Setup(ctx, cfg.OTel())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Error("otel shutdown", zap.Error(err))
		}
	}()

	// --- Adapters (out) ---
	db, err := adapterotel.OpenDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	base, err := sqlite.NewFromDB(db)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	var store domain.Store = adapterotel.NewTracingStore(base)
	if cfg.RedisAddr != "" {
		client, err := adapterredis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer client.Close()
		store = adapterredis.NewCachingStore(store, client, cfg.HotelCacheTTL, logger)
		logger.Info("hotel cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.HotelCacheTTL))
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clock := domain.SystemClock{Location: loc}

	riverClient, err := adapterriver.Setup(ctx, db, adapterriver.Options{
		Logger:         logger,
		Store:          store,
		Clock:          clock,
		DigestInterval: cfg.DigestInterval,
	})
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}

	publisher, err := adapterotel.NewTracingPublisher(adapterriver.NewPublisher(riverClient))
	if err != nil {
		return fmt.Errorf("publisher: %w", err)
	}

	// --- Application ---
	services := handler.Services{
		Bookings: app.NewBookingService(store, publisher, fsm.New(), clock, logger),
		Closures: app.NewClosureService(store, clock, logger),
		Hotels:   app.NewHotelService(store, logger),
		Guests:   app.NewGuestService(store, logger),
	}

	// --- Adapters (in) ---
	router := handler.NewRouter(handler.RouterConfig{
		ServiceName:   cfg.OTelServiceName,
		Version:       version,
		Logger:        logger,
		RatePerMinute: cfg.RateLimitPerMinute,
		RateBurst:     cfg.RateLimitBurst,
	}, services)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// River stops through Stop below, not through ctx.
	if err := riverClient.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("starting river: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("roomkeeper listening",
			zap.String("addr", srv.Addr),
			zap.String("docs", "http://localhost:"+cfg.Port+"/docs"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
		if err := riverClient.Stop(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("river stop: %w", err))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}
