package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"

	"logo-quiz-service/internal/app"
	"logo-quiz-service/internal/config"
	"logo-quiz-service/internal/domain"
	"logo-quiz-service/internal/infra/memory"
	"logo-quiz-service/internal/infra/postgres"
	"logo-quiz-service/internal/infra/sqlite"
)

// questionLoader is what the caches read through to.
type questionLoader interface {
	LoadQuestions(ctx context.Context) (domain.QuestionSet, error)
}

// backend groups the stores of the configured storage driver.
type backend struct {
	loader      questionLoader
	questions   app.QuestionStore
	submissions app.SubmissionStore
	admins      app.AdminStore
	close       func()
}

func openBackend(ctx context.Context, cfg config.Config, log *zap.Logger) (*backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		log.Warn("using in-memory storage; data is lost on restart")
		return &backend{loader: store, questions: store, submissions: store, admins: store, close: func() {}}, nil

	case config.DriverSQLite:
		dsn := cfg.SQLite.DSN
		if dsn == "" {
			dsn = sqlite.DefaultDSN
		}
		db, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		store := sqlite.NewStore(db)
		log.Info("sqlite storage ready")
		return &backend{loader: store, questions: store, submissions: store, admins: store, close: func() { db.Close() }}, nil

	case config.DriverPostgres:
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db := bun.NewDB(sqldb, pgdialect.New())
		store := postgres.NewStore(db)
		log.Info("postgres storage ready")
		return &backend{
			loader:      postgres.NewQuestionLoader(pool),
			questions:   store,
			submissions: store,
			admins:      store,
			close: func() {
				pool.Close()
				db.Close()
			},
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}
