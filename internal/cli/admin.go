package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"logo-quiz-service/internal/app"
	"logo-quiz-service/internal/auth"
	"logo-quiz-service/internal/infra/memory"
)

// NewAdminCmd groups admin account maintenance.
func NewAdminCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(newAdminAddCmd(configPath), newAdminHashCmd())
	return cmd
}

func newAdminAddCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <username> <password>",
		Short: "Create an admin without authentication",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			be, err := openBackend(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer be.close()

			svc := app.NewAdminService(be.admins, be.questions,
				memory.NewQuestionRepository(be.loader, 0),
				memory.NewLeaderboardCache(be.submissions, cfg.Leaderboard.Limit),
				auth.Scrypt{}, app.WithAdminLogger(log))
			id, err := svc.BootstrapAdmin(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created with id %d\n", args[0], id)
			return nil
		},
	}
}

func newAdminHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <password>",
		Short: "Print a password hash for manual inserts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
