package integration

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/envault/envault/pkg/audit"
	"github.com/envault/envault/pkg/cipher"
	"github.com/envault/envault/pkg/config"
	"github.com/envault/envault/pkg/db"
	"github.com/envault/envault/pkg/logging"
	"github.com/envault/envault/pkg/server"
	"github.com/envault/envault/pkg/server/endpoints"
)

const serverPort = "18080"

// resetTables lists every table cleared between scenarios
const resetTables = `profiles, subscriptions, projects, environments, team_members, secrets,
	cli_tokens, audit_logs, blog_articles, security_findings`

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB            *gorm.DB
	RawDB         *sql.DB
	Container     testcontainers.Container
	ServerURL     string
	DatabaseURL   string
	DataKey       []byte
	JWTSecret     []byte
	Cipher        cipher.SymmetricCipher
	HTTPClient    *http.Client
	Cancel        context.CancelFunc
	ServerProcess *exec.Cmd
	InlineServer  *server.Server
}

// NewTestContext starts Postgres in a container, migrates it and starts a server.
// Modes:
//   - Binary mode (default): Set ENVAULT_BINARY to the path of the envaultctl binary
//   - Inline mode: Set ENVAULT_INLINE=1 to run the server in-process
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}

	inlineMode := os.Getenv("ENVAULT_INLINE") == "1"
	binaryPath := os.Getenv("ENVAULT_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either ENVAULT_BINARY or ENVAULT_INLINE=1 is required.\n\nBinary mode:\n  go build -o envaultctl ./cmd/envaultctl\n  INTEGRATION_TEST=1 ENVAULT_BINARY=$(pwd)/envaultctl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 ENVAULT_INLINE=1 go test -v ./test/integration/...")
	}
	if !inlineMode {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("ENVAULT_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("envault_test"),
		tcpostgres.WithUsername("envault"),
		tcpostgres.WithPassword("envault"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	// Migrations are read from the checkout, not relative to this package
	_ = os.Setenv("ENVAULT_MIGRATIONS_PATH", filepath.Join(projectRoot, "db", "migrations"))
	if _, _, err := db.Migrate(connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	dataKey := make([]byte, cipher.KeySize)
	for i := range dataKey {
		dataKey[i] = byte(i)
	}
	c, err := cipher.NewSymmetric(dataKey)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	database, err := db.Connect(db.Config{URL: connStr, Cipher: c})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}
	rawDB, err := database.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	jwtSecret := []byte("integration-session-secret")
	serverURL := "http://127.0.0.1:" + serverPort

	var serverProcess *exec.Cmd
	var inlineServer *server.Server
	var cancel context.CancelFunc

	if inlineMode {
		inlineServer, cancel = startInlineServer(database, c, jwtSecret, connStr)
	} else {
		serverProcess, cancel, err = startBinary(binaryPath, connStr, dataKey, jwtSecret)
		if err != nil {
			_ = pgContainer.Terminate(ctx)
			return nil, fmt.Errorf("failed to start server binary: %w", err)
		}
	}

	if err := waitForServer(serverURL, 30*time.Second); err != nil {
		cancel()
		if serverProcess != nil && serverProcess.Process != nil {
			_ = serverProcess.Process.Kill()
		}
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return &TestContext{
		DB:            database,
		RawDB:         rawDB,
		Container:     pgContainer,
		ServerURL:     serverURL,
		DatabaseURL:   connStr,
		DataKey:       dataKey,
		JWTSecret:     jwtSecret,
		Cipher:        c,
		HTTPClient:    &http.Client{Timeout: 10 * time.Second},
		Cancel:        cancel,
		ServerProcess: serverProcess,
		InlineServer:  inlineServer,
	}, nil
}

// startInlineServer runs the server in-process with audit events persisted
func startInlineServer(database *gorm.DB, c cipher.SymmetricCipher, jwtSecret []byte, connStr string) (*server.Server, context.CancelFunc) {
	if auditStore, err := audit.NewStore(connStr); err == nil {
		audit.SetStore(auditStore)
	}

	cfg := config.NewDefault()
	cfg.RateLimitPerMinute = 10000
	s := server.NewServer(server.Options{
		DB:        database,
		Cipher:    c,
		Config:    cfg,
		Logger:    logging.Discard(),
		JWTSecret: jwtSecret,
		Host:      "127.0.0.1",
		Port:      serverPort,
		AccessLog: os.Stderr,
	})
	endpoints.RegisterAll(s)

	go func() {
		_ = s.Start()
	}()

	return s, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	}
}

// startBinary starts the envaultctl server binary
func startBinary(binaryPath, dbURL string, dataKey, jwtSecret []byte) (*exec.Cmd, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(context.Background())

	// Migrations already ran in the test setup
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", serverPort)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"ENVAULT_DATA_KEY="+base64.StdEncoding.EncodeToString(dataKey),
		"ENVAULT_JWT_SECRET="+string(jwtSecret),
		"ENVAULT_RATE_LIMIT_PER_MINUTE=10000",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to start binary: %w", err)
	}
	return cmd, cancel, nil
}

// waitForServer polls /health until it answers 200 or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Reset empties every table so scenarios start from a clean database
func (tc *TestContext) Reset() error {
	_, err := tc.RawDB.Exec("TRUNCATE " + resetTables + " RESTART IDENTITY CASCADE")
	return err
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Cancel != nil {
		tc.Cancel()
	}
	if tc.ServerProcess != nil && tc.ServerProcess.Process != nil {
		_ = tc.ServerProcess.Process.Kill()
		_ = tc.ServerProcess.Wait()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the directory holding go.mod
func findProjectRoot() (string, error) {
	for _, p := range []string{"../..", "..", "."} {
		if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
			return filepath.Abs(p)
		}
	}
	return "", fmt.Errorf("project root not found (looking for go.mod)")
}
