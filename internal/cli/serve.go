package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"techquiz-service/internal/app"
	"techquiz-service/internal/auth"
	"techquiz-service/internal/config"
	"techquiz-service/internal/infra/memory"
	"techquiz-service/internal/infra/postgres"
	rediscache "techquiz-service/internal/infra/redis"
	"techquiz-service/internal/lib/slogx"
	transport "techquiz-service/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the API server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := slog.New(slogx.NewColorHandler(os.Stdout, logLevel(cfg.Log.Level)))

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var (
		quizRepo   app.QuizRepository
		resultRepo app.ResultRepository
		userRepo   app.UserRepository
	)
	if pool != nil {
		quizRepo = postgres.NewQuizRepository(pool)
		resultRepo = postgres.NewResultRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
	} else {
		log.Warn("postgres not configured, using in-memory storage")
		users := memory.NewUserStore()
		quizRepo = memory.NewQuizStore()
		resultRepo = memory.NewResultStore(users)
		userRepo = users
	}

	quizTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 5*time.Minute)
	if cfg.Redis.Addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		quizRepo = rediscache.NewQuizCache(client, quizRepo, quizTTL)
	} else {
		quizRepo = memory.NewQuizCache(quizRepo, quizTTL)
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		secret = "dev-secret"
		log.Warn("auth secret not configured, using an insecure default")
	}
	authSvc := auth.NewService(secret, config.TTLDuration(cfg.Auth.TokenTTL, 0))

	hub := app.NewLeaderboardHub()
	handler := transport.NewHandler(
		app.NewQuizService(quizRepo, resultRepo, hub, log),
		app.NewResultService(resultRepo, log),
		app.NewLeaderboardService(resultRepo),
		app.NewUserService(userRepo, authSvc, log),
		hub,
		log,
	)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Router(authSvc, cfg.Server.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quiz service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func logLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
