package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sbilibin2017/gw-game-scores/docs"
	"github.com/sbilibin2017/gw-game-scores/internal/config"
	"github.com/sbilibin2017/gw-game-scores/internal/handlers"
	"github.com/sbilibin2017/gw-game-scores/internal/jwt"
	"github.com/sbilibin2017/gw-game-scores/internal/logger"
	"github.com/sbilibin2017/gw-game-scores/internal/middlewares"
	"github.com/sbilibin2017/gw-game-scores/internal/migrations"
	"github.com/sbilibin2017/gw-game-scores/internal/repositories"
	"github.com/sbilibin2017/gw-game-scores/internal/services"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title gw-game-scores API
// @version 1.0.0
// @description Game score backend: registration, login, score submission and leaderboard
// @host localhost:5000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// run initializes the logger, database, optional Redis and Kafka clients and
// the HTTP server, then blocks until a shutdown signal arrives.
func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	logger.Log.Infow("logger initialized", "level", cfg.LogLevel)

	// PostgreSQL
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)

	if err := migrations.Up(ctx, db.DB); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Log.Info("database migrations applied")

	// Redis-backed login throttling, optional
	var attempts services.LoginAttempter
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Log.Warnw("Redis is unreachable, login throttling fails open", "addr", cfg.RedisAddr, "err", err)
		}
		attempts = repositories.NewLoginAttemptRepository(rdb, cfg.LoginLockout)
	}

	// Kafka score events, optional
	var kafkaWriter services.KafkaWriter
	if cfg.KafkaEnabled() {
		w := newScoreEventWriter(cfg)
		defer w.Close()
		kafkaWriter = w
		logger.Log.Infow("publishing score events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaScoresTopic)
	}

	tokens := jwt.New(jwt.WithSecretKey(cfg.JWTSecret), jwt.WithExpiration(cfg.JWTExp))

	// Repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db, cfg.BcryptCost)
	scoreWriteRepo := repositories.NewScoreWriteRepository(db)
	scoreReadRepo := repositories.NewScoreReadRepository(db)

	// Services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, tokens, attempts, cfg.LoginMaxAttempts)
	scoreService := services.NewScoreService(scoreWriteRepo, scoreReadRepo, userWriteRepo, kafkaWriter, cfg.LeaderboardMaxLimit)

	var checker middlewares.UserChecker
	if cfg.AuthStrict {
		checker = userReadRepo
	}

	docs.SwaggerInfo.Host = cfg.Addr()
	r := newRouter(authService, scoreService, tokens, checker)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}

// newScoreEventWriter builds the synchronous writer for score events.
// Each submit writes a single message, so batches flush on BatchTimeout.
func newScoreEventWriter(cfg *config.Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaScoresTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    1,
		BatchTimeout: cfg.KafkaBatchTimeout,
		WriteTimeout: cfg.KafkaWriteTimeout,
		MaxAttempts:  3,
	}
}

// authService is what the auth routes need from the service layer.
type authService interface {
	handlers.Registerer
	handlers.Loginer
	handlers.Profiler
}

// scoreService is what the score routes need from the service layer.
type scoreService interface {
	handlers.ScoreSubmitter
	handlers.LeaderboardReader
}

// newRouter mounts every route. checker may be nil.
func newRouter(auth authService, scores scoreService, tokener middlewares.Tokener, checker middlewares.UserChecker) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	r.Get("/", handlers.NewHealthHandler())

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", handlers.NewRegisterHandler(auth))
		r.Post("/auth/login", handlers.NewLoginHandler(auth))
		r.Get("/scores/leaderboard", handlers.NewLeaderboardHandler(scores))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(tokener, checker))
			r.Get("/auth/me", handlers.NewProfileHandler(auth))
			r.Post("/scores", handlers.NewSubmitScoreHandler(scores))
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
