package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logo-quiz-service/internal/domain"
	"logo-quiz-service/internal/infra/memory"
	"logo-quiz-service/internal/seed"
)

const sample = `
roundOne:
  - leftImagePath: /AI.png
    rightImagePath: /Graphic.png
    correctOption: left
  - leftImagePath: ""
    rightImagePath: /broken.png
    correctOption: left
roundTwo:
  - logoPath: /AI.png
    criteria:
      - { textAr: "يوجد رمز عدسة", isOmitted: true }
      - { textAr: "يحتوي على لون أزرق", isOmitted: false }
`

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestApplyFillsEmptyRounds(t *testing.T) {
	ctx := context.Background()
	f, err := seed.Load(writeSeed(t, sample))
	require.NoError(t, err)

	store := memory.NewStore()
	res, err := seed.Apply(ctx, store, store, f)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{RoundOne: 1, RoundTwo: 1}, res)

	set, err := store.LoadQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, set.RoundTwo, 1)
	assert.Equal(t, domain.SideLeft, set.RoundOne[0].CorrectOption)
	assert.True(t, set.RoundTwo[0].Criteria[0].IsOmitted)

	again, err := seed.Apply(ctx, store, store, f)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{}, again)
}

func TestApplySkipsPopulatedRound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_, err := store.AddRoundTwoQuestions(ctx, []domain.Question{{
		LogoPath: "/existing.png",
		Criteria: []domain.Criterion{{TextAr: "x", IsOmitted: true}},
	}})
	require.NoError(t, err)

	f, err := seed.Load(writeSeed(t, sample))
	require.NoError(t, err)
	res, err := seed.Apply(ctx, store, store, f)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{RoundOne: 1}, res)

	set, _ := store.LoadQuestions(ctx)
	require.Len(t, set.RoundTwo, 1)
	assert.Equal(t, "/existing.png", set.RoundTwo[0].LogoPath)
}

func TestLoadBundledSeed(t *testing.T) {
	f, err := seed.Load(filepath.Join("..", "..", "config", "seed.yaml"))
	require.NoError(t, err)
	assert.Len(t, f.RoundOne, 3)
	assert.Len(t, f.RoundTwo, 3)
	for _, q := range f.RoundTwo {
		assert.Len(t, q.Criteria, 4)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := seed.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
