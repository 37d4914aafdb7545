package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/balanceapi/internal/auth"
	"github.com/mmynk/balanceapi/internal/calculator"
	"github.com/mmynk/balanceapi/internal/config"
	"github.com/mmynk/balanceapi/internal/events"
	"github.com/mmynk/balanceapi/internal/metrics"
	"github.com/mmynk/balanceapi/internal/middleware"
	"github.com/mmynk/balanceapi/internal/server"
	"github.com/mmynk/balanceapi/internal/service"
	"github.com/mmynk/balanceapi/internal/storage/sqlite"
	"github.com/mmynk/balanceapi/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	var dbPath string

	loadConfig := func() (*config.Config, error) {
		cfg := config.Load()
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		level, _ := config.ParseLevel(cfg.LogLevel)
		logging.Setup(level, cfg.LogFormat)
		return cfg, nil
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	rootCmd := &cobra.Command{
		Use:           "server",
		Short:         "Shared expense balances and settlement plans",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          serveCmd.RunE,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides DB_PATH)")

	rootCmd.AddCommand(
		serveCmd,
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and print the schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				return migrate(cmd.OutOrStdout(), cfg.DBPath)
			},
		},
		&cobra.Command{
			Use:   "plan",
			Short: "Print the settlement instructions for the stored balances",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				return printPlan(cmd.Context(), cmd.OutOrStdout(), cfg.DBPath)
			},
		},
		&cobra.Command{
			Use:   "summary",
			Short: "Print the pool total, fair share and truncation remainder",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				return printSummary(cmd.Context(), cmd.OutOrStdout(), cfg.DBPath)
			},
		},
	)

	return rootCmd
}

// serve runs the HTTP server until ctx is cancelled or SIGINT/SIGTERM arrives.
func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	var publisher events.Publisher = events.Discard{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			return fmt.Errorf("failed to connect to AMQP: %w", err)
		}
		publisher = amqpPublisher
		logger.Info("Publishing recalculation events", "exchange", cfg.AMQPExchange, "routing_key", cfg.AMQPRoutingKey)
	}
	defer publisher.Close()

	m := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	ledger := service.NewLedger(store, publisher, m, logger)

	handler := server.NewRouter(ctx, server.Deps{
		Participants: service.NewParticipantService(ledger, logger),
		Expenses:     service.NewExpenseService(ledger, logger),
		Auth:         service.NewAuthService(auth.NewPasswordAuthenticator(store), store, jwtManager, logger),
		JWTManager:   jwtManager,
		Metrics:      m,
		Logger:       logger,
		Health:       store.Ping,
	}, server.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequireAuth:    cfg.RequireAuth,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
	})
	srv := server.New(cfg.Addr(), handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Connect server starting", "address", srv.Addr, "require_auth", cfg.RequireAuth)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func migrate(w io.Writer, dbPath string) error {
	if err := sqlite.RunMigrations(dbPath); err != nil {
		return err
	}
	version, dirty, err := sqlite.SchemaVersion(dbPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "schema version %d (dirty: %t)\n", version, dirty)
	return nil
}

func printPlan(ctx context.Context, w io.Writer, dbPath string) error {
	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	group, err := store.ListParticipants(ctx)
	if err != nil {
		return err
	}

	instructions := calculator.Instructions(calculator.PlanSettlements(group))
	if len(instructions) == 0 {
		fmt.Fprintln(w, "Everyone is settled.")
		return nil
	}
	for _, line := range instructions {
		fmt.Fprintln(w, line)
	}
	return nil
}

func printSummary(ctx context.Context, w io.Writer, dbPath string) error {
	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	group, err := store.ListParticipants(ctx)
	if err != nil {
		return err
	}

	s := calculator.Summarize(group)
	fmt.Fprintf(w, "participants: %d\n", s.Participants)
	fmt.Fprintf(w, "total:        %s€\n", calculator.FormatAmount(s.Total))
	fmt.Fprintf(w, "fair share:   %s€\n", calculator.FormatAmount(s.FairShare))
	fmt.Fprintf(w, "remainder:    %s€\n", calculator.FormatAmount(s.Remainder))
	return nil
}
