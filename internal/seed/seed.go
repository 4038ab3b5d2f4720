// Package seed loads the initial question set from YAML into an empty store.
package seed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"logo-quiz-service/internal/app"
	"logo-quiz-service/internal/authoring"
	"logo-quiz-service/internal/domain"
)

// File is the on-disk seed format.
type File struct {
	RoundOne []authoring.RoundOneInput `yaml:"roundOne"`
	RoundTwo []authoring.RoundTwoInput `yaml:"roundTwo"`
}

// Loader reads the current question set to decide which rounds are empty.
type Loader interface {
	LoadQuestions(ctx context.Context) (domain.QuestionSet, error)
}

// Result reports how many questions were inserted per round.
type Result struct {
	RoundOne int
	RoundTwo int
}

// Load parses a seed file from path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return f, nil
}

// Apply inserts f into store. A round that already has questions is left untouched,
// so running it twice is harmless. Items go through the same cleaning as admin authoring.
func Apply(ctx context.Context, loader Loader, store app.QuestionStore, f File) (Result, error) {
	current, err := loader.LoadQuestions(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load questions: %w", err)
	}
	v := authoring.NewValidator()

	var res Result
	if len(current.RoundOne) == 0 && len(f.RoundOne) > 0 {
		qs, err := v.CleanRoundOneBulk(f.RoundOne)
		if err != nil {
			return res, fmt.Errorf("round one seed: %w", err)
		}
		if _, err := store.AddRoundOneQuestions(ctx, qs); err != nil {
			return res, fmt.Errorf("insert round one: %w", err)
		}
		res.RoundOne = len(qs)
	}
	if len(current.RoundTwo) == 0 && len(f.RoundTwo) > 0 {
		qs, err := v.CleanRoundTwoBulk(f.RoundTwo)
		if err != nil {
			return res, fmt.Errorf("round two seed: %w", err)
		}
		if _, err := store.AddRoundTwoQuestions(ctx, qs); err != nil {
			return res, fmt.Errorf("insert round two: %w", err)
		}
		res.RoundTwo = len(qs)
	}
	return res, nil
}
