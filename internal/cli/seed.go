package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"logo-quiz-service/internal/seed"
)

// NewSeedCmd loads the seed file into empty rounds.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the seed question set into empty rounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			if file == "" {
				file = cfg.Seed.File
			}
			if file == "" {
				file = "config/seed.yaml"
			}

			be, err := openBackend(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer be.close()
			return seedFromFile(cmd.Context(), be, file, log)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "seed file (defaults to seed.file)")
	return cmd
}

func seedFromFile(ctx context.Context, be *backend, path string, log *zap.Logger) error {
	f, err := seed.Load(path)
	if err != nil {
		return err
	}
	res, err := seed.Apply(ctx, be.loader, be.questions, f)
	if err != nil {
		return err
	}
	log.Info("seed applied",
		zap.String("file", path),
		zap.Int("roundOne", res.RoundOne),
		zap.Int("roundTwo", res.RoundTwo),
	)
	return nil
}
