package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"logo-quiz-service/internal/config"
	pgmigrations "logo-quiz-service/internal/infra/postgres/migrations"
	"logo-quiz-service/internal/infra/sqlite"
)

// NewMigrateCmd applies database migrations for the configured driver.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			switch cfg.Storage.Driver {
			case config.DriverPostgres:
				return runMigrationsWithConfig(cmd.Context(), cfg, log)
			case config.DriverSQLite:
				dsn := cfg.SQLite.DSN
				if dsn == "" {
					dsn = sqlite.DefaultDSN
				}
				db, err := sqlite.Open(cmd.Context(), dsn)
				if err != nil {
					return err
				}
				defer db.Close()
				log.Info("sqlite schema ensured")
				return nil
			default:
				log.Info("nothing to migrate", zap.String("driver", cfg.Storage.Driver))
				return nil
			}
		},
	}
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if group.IsZero() {
		log.Info("no new migrations")
		return nil
	}
	log.Info("migrations applied", zap.String("group", group.String()))
	return nil
}
