package integration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"techquiz-service/internal/app"
	"techquiz-service/internal/auth"
	"techquiz-service/internal/domain"
	"techquiz-service/internal/infra/postgres"
	pgmigrations "techquiz-service/internal/infra/postgres/migrations"
	infraredis "techquiz-service/internal/infra/redis"
)

func TestSubmitToLeaderboardEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	applyMigrations(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	pgQuizzes := postgres.NewQuizRepository(pool)
	quizRepo := infraredis.NewQuizCache(redisClient, pgQuizzes, 5*time.Minute)
	resultRepo := postgres.NewResultRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	authSvc := auth.NewService("it-secret", time.Hour)
	users := app.NewUserService(userRepo, authSvc, log)
	hub := app.NewLeaderboardHub()
	quizzes := app.NewQuizService(quizRepo, resultRepo, hub, log)
	leaderboards := app.NewLeaderboardService(resultRepo)

	alice, err := users.Register(ctx, "Alice", "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	bob, err := users.Register(ctx, "Bob", "bob@example.com", "secret123")
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}

	quiz, err := quizzes.Create(ctx, domain.Quiz{
		Title:      "Go Basics",
		Technology: "Go",
		Level:      domain.LevelBasic,
		Questions: []domain.Question{
			{ID: "q1", Text: "Which keyword declares a variable?", Options: []string{"var", "let"}, CorrectAnswer: "var"},
			{ID: "q2", Text: "Which builtin appends to a slice?", Options: []string{"push", "append"}, CorrectAnswer: "append"},
		},
	}, alice.User.ID)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	sub, err := quizzes.Submit(ctx, quiz.ID, []domain.SubmittedAnswer{
		{QuestionID: "q1", SelectedAnswer: "var"},
		{QuestionID: "q2", SelectedAnswer: "append"},
	}, alice.User.ID)
	if err != nil {
		t.Fatalf("submit alice: %v", err)
	}
	if sub.Score != 100 {
		t.Fatalf("expected alice at 100, got %d", sub.Score)
	}

	sub, err = quizzes.Submit(ctx, quiz.ID, []domain.SubmittedAnswer{
		{QuestionID: "q1", SelectedAnswer: "var"},
	}, bob.User.ID)
	if err != nil {
		t.Fatalf("submit bob: %v", err)
	}
	if sub.Score != 50 {
		t.Fatalf("expected bob at 50, got %d", sub.Score)
	}

	entries, err := leaderboards.Quiz(ctx, quiz.ID, 10)
	if err != nil {
		t.Fatalf("quiz leaderboard: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "Alice" || entries[1].Name != "Bob" {
		t.Fatalf("expected alice leading bob, got %+v", entries)
	}

	// Attempt counter is read straight from storage, bypassing the cache.
	stored, err := pgQuizzes.GetByID(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("load quiz: %v", err)
	}
	if stored.TotalAttempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", stored.TotalAttempts)
	}

	stats, err := leaderboards.QuizStats(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("quiz stats: %v", err)
	}
	if stats.TotalAttempts != 2 || stats.HighestScore != 100 || stats.LowestScore != 50 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.AvgScore != 75 {
		t.Fatalf("expected avg 75, got %v", stats.AvgScore)
	}

	global, err := leaderboards.Global(ctx, 10)
	if err != nil {
		t.Fatalf("global leaderboard: %v", err)
	}
	if len(global) != 2 || global[0].Email != "alice@example.com" || global[0].TotalScore != 100 {
		t.Fatalf("unexpected global leaderboard: %+v", global)
	}
}

func applyMigrations(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
