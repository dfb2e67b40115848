package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
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

	"quiz-reader/internal/app"
	"quiz-reader/internal/domain"
	"quiz-reader/internal/infra/postgres"
	pgmigrations "quiz-reader/internal/infra/postgres/migrations"
	infraredis "quiz-reader/internal/infra/redis"
	"quiz-reader/internal/quizfile"
)

const englishQuiz = "What is the capital of France?\n*) Paris *) London\n   Paris\n\n" +
	"Which colour is the sky?\n*) Red *) Blue *) Green\n   Blue\n\n"

func TestImportedQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateSchema(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	path := filepath.Join(t.TempDir(), "english.txt")
	if err := os.WriteFile(path, []byte(englishQuiz), 0o644); err != nil {
		t.Fatalf("write quiz: %v", err)
	}
	quiz, err := quizfile.ReadQuiz(path, "english")
	if err != nil {
		t.Fatalf("read quiz: %v", err)
	}

	store := postgres.NewQuizStore(pool)
	first, err := store.SaveQuiz(ctx, quiz)
	if err != nil {
		t.Fatalf("save quiz: %v", err)
	}
	second, err := store.SaveQuiz(ctx, quiz)
	if err != nil {
		t.Fatalf("re-import quiz: %v", err)
	}
	if first.Revision == second.Revision || second.Questions != 2 {
		t.Fatalf("expected a fresh revision on re-import, got %+v then %+v", first, second)
	}
	latest, err := store.LatestImport(ctx, "english")
	if err != nil {
		t.Fatalf("latest import: %v", err)
	}
	if latest.Revision != second.Revision || latest.Source != path {
		t.Fatalf("unexpected latest import %+v", latest)
	}
	if _, err := store.LoadQuiz(ctx, "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()
	quizRepo := infraredis.NewQuizRepository(redisClient, store, 5*time.Minute)
	sessionStore := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewQuizService(sessionStore, quizRepo)

	if _, err := service.Join(ctx, "english", "u1", "Alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := service.Join(ctx, "english", "u2", "Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}
	live, err := sessionStore.Live(ctx, "english")
	if err != nil || !live {
		t.Fatalf("expected the quiz to be marked live, got %v, %v", live, err)
	}

	result, lb, err := service.SubmitAnswer(ctx, "english", "u2", domain.AnswerSubmission{
		QuestionNumber: 2,
		OptionIndex:    1,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Correct || result.Awarded != 1 || result.TotalScore != 1 {
		t.Fatalf("expected correct answer with 1 point, got %+v", result)
	}
	if len(lb.Entries) != 2 || lb.Entries[0].UserID != "u2" {
		t.Fatalf("expected bob leading, got %+v", lb.Entries)
	}

	cached, err := quizRepo.GetQuiz(ctx, "english")
	if err != nil {
		t.Fatalf("cached quiz: %v", err)
	}
	if cached.Source != path || len(cached.Questions) != 2 || cached.Questions[0].Answer() != "Paris" {
		t.Fatalf("unexpected cached quiz %+v", cached)
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

func migrateSchema(t *testing.T, ctx context.Context, dsn string) {
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
