package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
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

	"logo-quiz-service/internal/app"
	"logo-quiz-service/internal/auth"
	"logo-quiz-service/internal/authoring"
	"logo-quiz-service/internal/domain"
	"logo-quiz-service/internal/infra/postgres"
	pgmigrations "logo-quiz-service/internal/infra/postgres/migrations"
	infraredis "logo-quiz-service/internal/infra/redis"
	"logo-quiz-service/internal/scoring"
	"logo-quiz-service/internal/seed"
)

func TestSubmitEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := openMigrated(t, ctx, pgURL)
	defer db.Close()
	store := postgres.NewStore(db)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()
	loader := postgres.NewQuestionLoader(pool)

	if _, err := seed.Apply(ctx, loader, store, sampleSeed()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	questions := infraredis.NewQuestionRepository(redisClient, loader, 5*time.Minute)
	leaderboard := infraredis.NewLeaderboardCache(redisClient, store, 50, time.Minute)
	game := app.NewGameService(questions, store, leaderboard, scoring.NewScorer())

	set, err := questions.GetQuestions(ctx)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(set.RoundOne) != 1 || len(set.RoundTwo) != 1 || len(set.RoundTwo[0].Criteria) != 3 {
		t.Fatalf("unexpected seeded set %+v", set)
	}
	r1 := set.RoundOne[0]
	q := set.RoundTwo[0]
	var omitted, kept int64
	for _, c := range q.Criteria {
		if c.IsOmitted && omitted == 0 {
			omitted = c.ID
		}
		if !c.IsOmitted {
			kept = c.ID
		}
	}

	// warm the leaderboard cache so the submits below must invalidate it
	if _, err := game.Leaderboard(ctx); err != nil {
		t.Fatalf("leaderboard: %v", err)
	}

	alice, err := game.Submit(ctx, domain.Submission{
		PlayerName: "Alice",
		RoundOne:   []domain.RoundOneAnswer{{QuestionID: r1.ID, SelectedOption: domain.SideRight}},
		RoundTwo:   []domain.RoundTwoAnswer{{QuestionID: q.ID, SelectedCriterionIDs: []int64{omitted}}},
	})
	if err != nil {
		t.Fatalf("submit alice: %v", err)
	}
	if alice != (domain.Score{Score: 1, MaxScore: 3}) {
		t.Fatalf("unexpected alice score %+v", alice)
	}

	bob, err := game.Submit(ctx, domain.Submission{
		PlayerName: "Bob",
		RoundOne:   []domain.RoundOneAnswer{{QuestionID: r1.ID, SelectedOption: domain.SideLeft}},
		RoundTwo:   []domain.RoundTwoAnswer{{QuestionID: q.ID, SelectedCriterionIDs: []int64{omitted, kept}}},
	})
	if err != nil {
		t.Fatalf("submit bob: %v", err)
	}
	if bob.Score != 1 {
		t.Fatalf("a wrong pick must zero the question, got %+v", bob)
	}

	carol, err := game.Submit(ctx, domain.Submission{
		PlayerName: "Carol",
		RoundOne:   []domain.RoundOneAnswer{{QuestionID: r1.ID, SelectedOption: domain.SideLeft}},
		RoundTwo:   []domain.RoundTwoAnswer{{QuestionID: q.ID, SelectedCriterionIDs: []int64{omitted}}},
	})
	if err != nil {
		t.Fatalf("submit carol: %v", err)
	}

	lb, err := game.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(lb.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %+v", lb.Entries)
	}
	if lb.Entries[0].PlayerName != "Carol" || lb.Entries[0].Score != carol.Score {
		t.Fatalf("expected carol leading, got %+v", lb.Entries)
	}
	// equal scores keep submission order
	if lb.Entries[1].PlayerName != "Alice" || lb.Entries[2].PlayerName != "Bob" {
		t.Fatalf("expected alice before bob, got %+v", lb.Entries)
	}

	if _, err := game.Submit(ctx, domain.Submission{
		PlayerName: "Mallory",
		RoundOne:   []domain.RoundOneAnswer{},
		RoundTwo:   []domain.RoundTwoAnswer{{QuestionID: q.ID, SelectedCriterionIDs: []int64{999999}}},
	}); domain.CodeOf(err) != "invalid_criterion_for_question" {
		t.Fatalf("expected invalid_criterion_for_question, got %v", err)
	}
}

func TestAdminAuthoringEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := openMigrated(t, ctx, pgURL)
	defer db.Close()
	store := postgres.NewStore(db)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	questions := infraredis.NewQuestionRepository(redisClient, postgres.NewQuestionLoader(pool), 5*time.Minute)
	leaderboard := infraredis.NewLeaderboardCache(redisClient, store, 50, time.Minute)
	admin := app.NewAdminService(store, store, questions, leaderboard, auth.Scrypt{})

	if _, err := admin.BootstrapAdmin(ctx, "admin", "secret"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if _, err := admin.BootstrapAdmin(ctx, "admin", "other"); !errors.Is(err, domain.ErrAdminUsernameExists) {
		t.Fatalf("expected duplicate admin, got %v", err)
	}
	creds := authoring.Credentials{Username: "admin", Password: "secret"}

	// prime the cache, then author: the next read must see the new question
	if _, err := questions.GetQuestions(ctx); err != nil {
		t.Fatalf("questions: %v", err)
	}
	id, err := admin.AddRoundTwoQuestion(ctx, creds, authoring.RoundTwoInput{
		LogoPath: "/Game Development.png",
		Criteria: []authoring.CriterionInput{
			{TextAr: "فيه يد تحكم"},
			{TextAr: "يحتوي على شكل نجمة", IsOmitted: true},
		},
	})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	set, err := questions.GetQuestions(ctx)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(set.RoundTwo) != 1 || set.RoundTwo[0].ID != id || len(set.RoundTwo[0].Criteria) != 2 {
		t.Fatalf("expected authored question after invalidation, got %+v", set.RoundTwo)
	}
}

func openMigrated(t *testing.T, ctx context.Context, dsn string) *bun.DB {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sampleSeed() seed.File {
	return seed.File{
		RoundOne: []authoring.RoundOneInput{
			{LeftImagePath: "/AI.png", RightImagePath: "/Graphic.png", CorrectOption: domain.SideLeft},
		},
		RoundTwo: []authoring.RoundTwoInput{{
			LogoPath: "/AI.png",
			Criteria: []authoring.CriterionInput{
				{TextAr: "يوجد رمز عدسة", IsOmitted: true},
				{TextAr: "يحتوي على لون أزرق"},
				{TextAr: "يتضمن نصًا واضحًا", IsOmitted: true},
			},
		}},
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
