package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/envault/envault/pkg/cipher"
	"github.com/envault/envault/pkg/config"
	"github.com/envault/envault/pkg/server/middleware"
	"github.com/envault/envault/pkg/server/store"
	gormstore "github.com/envault/envault/pkg/server/store/gorm"
)

// RateLimitWindow is the fixed window of the per-user request budget
const RateLimitWindow = time.Minute

// Options configures a Server
type Options struct {
	DB        *gorm.DB
	Cipher    cipher.SymmetricCipher
	Config    *config.Config
	Logger    *slog.Logger
	JWTSecret []byte
	Host      string
	Port      string
	// AccessLog receives combined-format access logs, stdout by default
	AccessLog io.Writer
}

type Server struct {
	Cipher cipher.SymmetricCipher
	Router *mux.Router
	DB     *gorm.DB
	Config *config.Config
	Logger *slog.Logger

	// Store interfaces for data access
	ProjectsStore     store.ProjectsStore
	EnvironmentsStore store.EnvironmentsStore
	SecretsStore      store.SecretsStore
	CLITokensStore    store.CLITokensStore
	PlanStore         store.PlanStore
	ProfilesStore     store.ProfilesStore
	TeamStore         store.TeamStore
	FindingsStore     store.FindingsStore
	BlogStore         store.BlogStore
	AuditLogsStore    store.AuditLogsStore
	HealthStore       store.HealthStore

	Auth    *middleware.Authenticator
	Limiter middleware.RateLimiter
	Metrics *middleware.Metrics

	srv     *http.Server
	api     *mux.Router
	apiOnce sync.Once
}

// NewServer wires the gorm stores and middleware around db
func NewServer(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Get()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	accessLog := opts.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}
	db := opts.DB

	profiles := gormstore.NewProfilesStore(db, cfg.AdminEmails)
	tokens := gormstore.NewCLITokensStore(db, gormstore.TokenPolicy{
		DefaultExpiryDays: cfg.CLITokenDefaultExpiryDays,
		MaxExpiryDays:     cfg.CLITokenMaxExpiryDays,
		MaxTokens:         cfg.MaxCLITokens,
	})

	auth := middleware.NewAuthenticator(tokens, profiles, opts.JWTSecret)
	auth.TrustedProxy = cfg.IsTrustedProxy
	auth.Logger = logger

	s := &Server{
		Cipher: opts.Cipher,
		DB:     db,
		Config: cfg,
		Logger: logger,

		ProjectsStore:     gormstore.NewProjectsStore(db),
		EnvironmentsStore: gormstore.NewEnvironmentsStore(db),
		SecretsStore:      gormstore.NewSecretsStore(db),
		CLITokensStore:    tokens,
		PlanStore:         gormstore.NewPlanStore(db),
		ProfilesStore:     profiles,
		TeamStore:         gormstore.NewTeamStore(db),
		FindingsStore:     gormstore.NewFindingsStore(db),
		BlogStore:         gormstore.NewBlogStore(db),
		AuditLogsStore:    gormstore.NewAuditLogsStore(db),
		HealthStore:       gormstore.NewHealthStore(db),

		Auth:    auth,
		Limiter: newLimiter(cfg, logger),
		Metrics: middleware.NewMetrics(),
	}
	s.init(opts.Host, opts.Port, accessLog)
	return s
}

func newLimiter(cfg *config.Config, logger *slog.Logger) middleware.RateLimiter {
	if cfg.RedisURL != "" {
		limiter, err := middleware.NewRedisRateLimiter(cfg.RedisURL, logger)
		if err == nil {
			return limiter
		}
		logger.Warn("redis unavailable, using in-memory rate limiter", "error", err)
	}
	return middleware.NewMemoryRateLimiter()
}

// init builds the router and the handler chain: recover, access log, metrics.
// Authentication is added per route group by the endpoints package.
func (s *Server) init(host, port string, accessLog io.Writer) {
	router := mux.NewRouter()
	router.Use(s.Metrics.Middleware)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(s.Logger.Handler(), slog.LevelError)),
		handlers.PrintRecoveryStack(true),
	)

	s.Router = router
	s.srv = &http.Server{
		Handler:           recovery(handlers.LoggingHandler(accessLog, router)),
		Addr:              net.JoinHostPort(host, port),
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// RequireAuth authenticates and then rate limits a route group
func (s *Server) RequireAuth(r *mux.Router) {
	r.Use(
		s.Auth.Middleware,
		middleware.RateLimit(s.Limiter, s.Config.RateLimitPerMinute, RateLimitWindow, s.Metrics, s.Config.IsTrustedProxy),
	)
}

// API returns the authenticated /api subrouter
func (s *Server) API() *mux.Router {
	s.apiOnce.Do(func() {
		s.api = s.Router.PathPrefix("/api").Subrouter()
		s.RequireAuth(s.api)
	})
	return s.api
}

// Admin returns the /api/admin subrouter, guarded by RequireAdmin
func (s *Server) Admin() *mux.Router {
	admin := s.API().PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin(s.ProfilesStore, s.Config.IsTrustedProxy))
	return admin
}

// Handler returns the full handler chain, for tests
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.Logger.Info("envault server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	if s.Limiter != nil {
		s.Limiter.Close()
	}
	return err
}
