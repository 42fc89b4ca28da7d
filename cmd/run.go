package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/xfinder/reporting-api/internal/config"
	"github.com/xfinder/reporting-api/internal/datasets"
	"github.com/xfinder/reporting-api/internal/handlers"
	"github.com/xfinder/reporting-api/internal/server"
	"github.com/xfinder/reporting-api/internal/services"
	"github.com/xfinder/reporting-api/internal/store"
	"github.com/xfinder/reporting-api/internal/store/migrations"
)

const shutdownTimeout = 10 * time.Second

func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the reporting API server",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(cfg.EnvFile); err != nil {
				return fmt.Errorf("loading env file: %w", err)
			}
			setupViper()
			cobraflags.PresetRequiredFlags(envPrefix, make(map[*pflag.Flag]bool), cmd)
			return validateConfiguration(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			undo := zap.ReplaceGlobals(logger)
			defer undo()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	registerFlags(cmd.Flags(), cfg)
	return cmd
}

func registerFlags(flags *pflag.FlagSet, cfg *config.Configuration) {
	flags.IntVar(&cfg.Server.HTTPPort, "server-http-port", cfg.Server.HTTPPort, "HTTP port")
	flags.StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "Server mode: dev or prod")
	flags.DurationVar(&cfg.Server.RequestTimeout, "server-request-timeout", cfg.Server.RequestTimeout, "Deadline of every request")
	flags.BoolVar(&cfg.Server.TLSEnabled, "server-tls-enabled", cfg.Server.TLSEnabled, "Serve HTTPS with a self-signed certificate")
	flags.DurationVar(&cfg.Server.CertValidity, "server-cert-validity", cfg.Server.CertValidity, "Validity of the self-signed certificate")

	flags.StringVar(&cfg.Database.Driver, "db-driver", cfg.Database.Driver, "Database driver: mysql or duckdb")
	flags.StringVar(&cfg.Database.Host, "db-host", cfg.Database.Host, "MySQL host")
	flags.IntVar(&cfg.Database.Port, "db-port", cfg.Database.Port, "MySQL port")
	flags.StringVar(&cfg.Database.User, "db-user", cfg.Database.User, "MySQL user")
	flags.StringVar(&cfg.Database.Password, "db-password", cfg.Database.Password, "MySQL password")
	flags.StringVar(&cfg.Database.Name, "db-name", cfg.Database.Name, "MySQL schema")
	flags.StringVar(&cfg.Database.Path, "db-path", cfg.Database.Path, "DuckDB file, :memory: for an in-memory database")
	flags.IntVar(&cfg.Database.MaxOpenConns, "db-max-open-conns", cfg.Database.MaxOpenConns, "Maximum open connections")
	flags.IntVar(&cfg.Database.MaxIdleConns, "db-max-idle-conns", cfg.Database.MaxIdleConns, "Maximum idle connections")
	flags.DurationVar(&cfg.Database.ConnMaxLifetime, "db-conn-max-lifetime", cfg.Database.ConnMaxLifetime, "Maximum connection lifetime")
	flags.DurationVar(&cfg.Database.QueryTimeout, "db-query-timeout", cfg.Database.QueryTimeout, "Deadline of every statement")
	flags.DurationVar(&cfg.Database.DialTimeout, "db-dial-timeout", cfg.Database.DialTimeout, "Connection timeout")
	flags.BoolVar(&cfg.Database.Seed, "db-seed", cfg.Database.Seed, "Load the demo rows into a duckdb database")

	flags.Uint64Var(&cfg.Query.ExportRowLimit, "query-export-row-limit", cfg.Query.ExportRowLimit, "Maximum rows of an export")
	flags.IntVar(&cfg.Query.OverviewTopN, "query-overview-top-n", cfg.Query.OverviewTopN, "Devices listed per dashboard overview alert")

	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	flags.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "Optional .env file")
}

func validateConfiguration(cfg *config.Configuration) error {
	if cfg.Server.HTTPPort < 1 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http-port: %d", cfg.Server.HTTPPort)
	}
	switch cfg.Server.ServerMode {
	case config.ServerModeDev, config.ServerModeProd:
	default:
		return fmt.Errorf("invalid server mode: %q", cfg.Server.ServerMode)
	}
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		if cfg.Database.Name == "" {
			return fmt.Errorf("database name must be set")
		}
	case config.DriverDuckDB:
	default:
		return fmt.Errorf("invalid database driver: %q", cfg.Database.Driver)
	}
	if cfg.Query.ExportRowLimit == 0 {
		return fmt.Errorf("invalid export-row-limit: %d", cfg.Query.ExportRowLimit)
	}
	return cfg.Validate()
}

func run(ctx context.Context, cfg *config.Configuration) error {
	logger := zap.S().Named("run")

	db, err := store.NewDB(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	if cfg.Database.Driver == config.DriverDuckDB {
		if err := migrations.Run(ctx, db); err != nil {
			_ = db.Close()
			return fmt.Errorf("running migrations: %w", err)
		}
		if cfg.Database.Seed {
			if err := migrations.Seed(ctx, db); err != nil {
				_ = db.Close()
				return fmt.Errorf("seeding database: %w", err)
			}
		}
	}

	st := store.NewStore(db, store.DialectFor(cfg.Database.Driver), cfg.Database.QueryTimeout)
	defer func() {
		if err := st.Close(); err != nil {
			logger.Errorw("closing store", "error", err)
		}
	}()

	h := handlers.New(
		services.NewDatasetService(st, datasets.Default(), cfg.Query.ExportRowLimit),
		services.NewDeviceService(st),
		services.NewAlertService(st),
		services.NewCertificateService(st),
		services.NewGeoService(st),
		services.NewOverviewService(st, cfg.Query.OverviewTopN),
	)

	srv, err := server.NewServer(cfg, h.Register)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()
	logger.Infow("server started", "port", cfg.Server.HTTPPort, "mode", cfg.Server.ServerMode,
		"driver", cfg.Database.Driver, "tls", cfg.Server.TLSEnabled)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	srv.Stop(shutdownCtx)

	return <-errCh
}
