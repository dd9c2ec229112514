// @title Email Wallet Relayer Mail API
// @version 1.0
// @description Renders and sends transaction notification emails.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token from POST /auth/token
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/Ganeshsaykara/email-wallet/config"
	authadapter "github.com/Ganeshsaykara/email-wallet/internal/adapters/auth"
	"github.com/Ganeshsaykara/email-wallet/internal/adapters/email"
	deliveryhttp "github.com/Ganeshsaykara/email-wallet/internal/delivery/http"
	"github.com/Ganeshsaykara/email-wallet/internal/delivery/http/controllers"
	"github.com/Ganeshsaykara/email-wallet/internal/metrics"
	"github.com/Ganeshsaykara/email-wallet/internal/repository/postgres"
	"github.com/Ganeshsaykara/email-wallet/internal/services"
	"github.com/Ganeshsaykara/email-wallet/migrations"
)

const shutdownGrace = 10 * time.Second

func main() {
	root := &cobra.Command{
		Use:           "relayer-mail",
		Short:         "Transaction notification mailer for the email wallet relayer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), hashAPIKeyCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var autoMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := openDB(ctx, cfg.DBUrl)
			if err != nil {
				return err
			}
			defer db.Close()

			if autoMigrate {
				if err := runMigrations(ctx, db, logger); err != nil {
					return err
				}
			}

			return serve(ctx, cfg, db, logger)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, db *sql.DB, logger *slog.Logger) error {
	renderer, err := email.NewTransactionRenderer(email.TemplateConfig{
		Dir:   cfg.EmailTemplatesDir,
		Cache: cfg.EmailTemplateCache,
	})
	if err != nil {
		return err
	}
	mailer, err := email.NewMailer(cfg.Mailer, logger)
	if err != nil {
		return err
	}

	notificationService := services.NewNotificationService(
		renderer, mailer, postgres.NewNotificationRepository(db), cfg.EmailSubject, logger)
	authService := services.NewAuthService(
		cfg.APIClientID, cfg.APIKeyHash,
		authadapter.NewBcryptHasher(bcrypt.DefaultCost),
		authadapter.NewJWTIssuer(cfg.JWTSecret),
		cfg.JWTExpiry,
	)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	handler := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		Notifications:  controllers.NewNotificationController(logger, notificationService),
		Auth:           controllers.NewAuthController(logger, authService),
		Verifier:       authadapter.NewJWTVerifier(cfg.JWTSecret),
		Logger:         logger,
		Gatherer:       prometheus.DefaultGatherer,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", server.Addr,
			"templates_dir", cfg.EmailTemplatesDir, "mail_provider", cfg.Mailer.Provider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.Environment, cfg.LogLevel)

			db, err := openDB(cmd.Context(), cfg.DBUrl)
			if err != nil {
				return err
			}
			defer db.Close()

			return runMigrations(cmd.Context(), db, logger)
		},
	}
}

func hashAPIKeyCmd() *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-api-key [key]",
		Short: "Print the API_KEY_HASH value for an API key (reads stdin when no key is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading key from stdin: %w", err)
				}
				key = strings.TrimRight(line, "\r\n")
			}
			if key == "" {
				return errors.New("api key is empty")
			}
			hash, err := authadapter.NewBcryptHasher(cost).Hash(key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	applied, err := postgres.Migrate(ctx, db, migrations.FS)
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "versions", applied)
	return nil
}
