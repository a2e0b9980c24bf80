package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/audit"
	"github.com/envault/envault/pkg/config"
	"github.com/envault/envault/pkg/db"
	"github.com/envault/envault/pkg/server"
	"github.com/envault/envault/pkg/server/endpoints"
)

const shutdownTimeout = 10 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if p, err := strconv.Atoi(defaultPort()); err == nil {
		return p
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the envault API server",
	Long: `Run the envault API server.

The server requires the environment variables ENVAULT_DATA_KEY and DATABASE_URL.
ENVAULT_JWT_SECRET enables session JWTs; without it only CLI tokens are accepted.

By default, database migrations are run on startup. Use --no-migrate to skip.
SIGHUP reloads envault.yml.`,
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")

		if err := runServer(host, port, noMigrate); err != nil {
			fail("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func runServer(host, port string, noMigrate bool) error {
	// Fail fast on required environment
	if _, err := dataKeyCipher(); err != nil {
		return err
	}
	if db.URL() == "" {
		return db.ErrNoDatabaseURL
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger := newLogger(cfg)

	if !noMigrate {
		logger.Info("running database migrations", "source", db.MigrationSource)
		status, changed, err := db.Migrate("")
		if err != nil {
			return err
		}
		logger.Info("database schema ready", "version", status.Version, "changed", changed)
	}

	database, c, err := connectDB()
	if err != nil {
		return err
	}

	audit.SetEnabled(cfg.AuditEnabled)
	if auditStore := audit.DefaultStore(); auditStore != nil {
		defer func() { _ = auditStore.Close() }()
	}

	jwtSecret := []byte(os.Getenv(jwtSecretEnv))
	if len(jwtSecret) == 0 {
		logger.Warn(jwtSecretEnv + " is not set, session JWTs will be rejected")
	}

	s := server.NewServer(server.Options{
		DB:        database,
		Cipher:    c,
		Config:    cfg,
		Logger:    logger,
		JWTSecret: jwtSecret,
		Host:      host,
		Port:      port,
	})
	endpoints.RegisterAll(s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go reloadOnHangup(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// reloadOnHangup re-reads the configuration on SIGHUP. Listener and
// database settings still need a restart.
func reloadOnHangup(ctx context.Context) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := config.Reload(); err != nil {
				fmt.Fprintf(os.Stderr, "configuration reload failed: %v\n", err)
				continue
			}
			audit.SetEnabled(config.Get().AuditEnabled)
			fmt.Fprintln(os.Stderr, "configuration reloaded")
		}
	}
}
