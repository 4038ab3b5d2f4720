package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"logo-quiz-service/internal/app"
	"logo-quiz-service/internal/auth"
	"logo-quiz-service/internal/config"
	"logo-quiz-service/internal/infra/memory"
	infraredis "logo-quiz-service/internal/infra/redis"
	"logo-quiz-service/internal/metrics"
	"logo-quiz-service/internal/scoring"
	transport "logo-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, log, err := loadRuntime(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer be.close()

	if cfg.Seed.OnStart && cfg.Seed.File != "" {
		if err := seedFromFile(ctx, be, cfg.Seed.File, log); err != nil {
			return err
		}
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	leaderboardTTL := config.TTLDuration(cfg.Leaderboard.TTL, 30*time.Second)

	var (
		questions   app.QuestionRepository
		leaderboard app.LeaderboardRepository
	)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis not reachable, cache reads will fall back to storage", zap.Error(err))
		}
		questions = infraredis.NewQuestionRepository(client, be.loader, questionTTL)
		leaderboard = infraredis.NewLeaderboardCache(client, be.submissions, cfg.Leaderboard.Limit, leaderboardTTL)
		log.Info("redis caches enabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		questions = memory.NewQuestionRepository(be.loader, questionTTL)
		leaderboard = memory.NewLeaderboardCache(be.submissions, cfg.Leaderboard.Limit)
	}

	var scorerOpts []scoring.Option
	if cfg.Game.Rounds == 1 {
		scorerOpts = append(scorerOpts, scoring.WithSingleRound())
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	game := app.NewGameService(questions, be.submissions, leaderboard, scoring.NewScorer(scorerOpts...),
		app.WithLogger(log.Named("game")),
		app.WithObserver(m),
	)
	admin := app.NewAdminService(be.admins, be.questions, questions, leaderboard, auth.Scrypt{},
		app.WithAdminLogger(log.Named("admin")),
		app.WithAdminObserver(m),
	)

	router := transport.NewRouter(transport.RouterDeps{
		Game:        game,
		Admin:       admin,
		Metrics:     m,
		Log:         log.Named("http"),
		CORSOrigins: cfg.CORS.Origins,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.TTLDuration(cfg.Server.WriteTimeout, 15*time.Second),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting quiz service",
			zap.String("port", finalPort),
			zap.String("storage", cfg.Storage.Driver),
			zap.Int("rounds", cfg.Game.Rounds),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	case err := <-serveErr:
		log.Error("server failed", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.TTLDuration(cfg.Server.ShutdownTimeout, 5*time.Second))
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
