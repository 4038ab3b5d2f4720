package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logo-quiz-service/internal/domain"
	"logo-quiz-service/internal/scoring"
)

func logoQuestion() domain.Question {
	return domain.Question{
		ID:       7,
		LogoPath: "/AI.png",
		Criteria: []domain.Criterion{
			{ID: 1, TextAr: "lens", IsOmitted: true},
			{ID: 2, TextAr: "blue", IsOmitted: false},
			{ID: 3, TextAr: "text", IsOmitted: true},
			{ID: 4, TextAr: "ai", IsOmitted: false},
		},
	}
}

func TestScoreRoundTwo(t *testing.T) {
	q := logoQuestion()

	tests := []struct {
		name     string
		selected []int64
		want     scoring.RoundTwoResult
	}{
		{"all defects", []int64{1, 3}, scoring.RoundTwoResult{QuestionScore: 2, CorrectPicked: 2, TotalCorrect: 2}},
		{"wrong pick zeroes", []int64{1, 2}, scoring.RoundTwoResult{QuestionScore: 0, CorrectPicked: 1, TotalCorrect: 2}},
		{"nothing selected", []int64{}, scoring.RoundTwoResult{QuestionScore: 0, CorrectPicked: 0, TotalCorrect: 2}},
		{"partial without wrong picks", []int64{3}, scoring.RoundTwoResult{QuestionScore: 1, CorrectPicked: 1, TotalCorrect: 2}},
		{"duplicates count once", []int64{1, 1, 3}, scoring.RoundTwoResult{QuestionScore: 2, CorrectPicked: 2, TotalCorrect: 2}},
		{"everything selected", []int64{1, 2, 3, 4}, scoring.RoundTwoResult{QuestionScore: 0, CorrectPicked: 2, TotalCorrect: 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := scoring.ScoreRoundTwo(q, tc.selected)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got.QuestionScore, 0)
			assert.LessOrEqual(t, got.QuestionScore, got.TotalCorrect)
		})
	}
}

func TestScoreRoundTwoDuplicatesMatchUnique(t *testing.T) {
	q := logoQuestion()
	withDup, err := scoring.ScoreRoundTwo(q, []int64{1, 1, 3})
	require.NoError(t, err)
	unique, err := scoring.ScoreRoundTwo(q, []int64{1, 3})
	require.NoError(t, err)
	assert.Equal(t, unique, withDup)
}

func TestScoreRoundTwoUnknownCriterion(t *testing.T) {
	_, err := scoring.ScoreRoundTwo(logoQuestion(), []int64{1, 99})
	require.ErrorIs(t, err, domain.ErrUnknownCriterion)
	assert.Equal(t, domain.KindUnknownCriteria, domain.KindOf(err))
}

func TestScoreRoundTwoIsIdempotent(t *testing.T) {
	q := logoQuestion()
	first, err := scoring.ScoreRoundTwo(q, []int64{3, 1})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := scoring.ScoreRoundTwo(q, []int64{3, 1})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestScoreRoundOne(t *testing.T) {
	q := domain.RoundOneQuestion{ID: 1, LeftImagePath: "/AI.png", RightImagePath: "/Graphic.png", CorrectOption: domain.SideLeft}

	got, err := scoring.ScoreRoundOne(q, domain.SideRight)
	require.NoError(t, err)
	assert.Equal(t, scoring.RoundOneResult{IsCorrect: false, QuestionScore: 0, CorrectOption: domain.SideLeft}, got)

	got, err = scoring.ScoreRoundOne(q, domain.SideLeft)
	require.NoError(t, err)
	assert.Equal(t, scoring.RoundOneResult{IsCorrect: true, QuestionScore: 1, CorrectOption: domain.SideLeft}, got)

	_, err = scoring.ScoreRoundOne(q, domain.Side("middle"))
	require.ErrorIs(t, err, domain.ErrInvalidRoundOneOption)
	assert.Equal(t, domain.KindInvalidOption, domain.KindOf(err))
}

func TestMaxRoundTwo(t *testing.T) {
	assert.Equal(t, 2, scoring.MaxRoundTwo(logoQuestion()))
	assert.Equal(t, 0, scoring.MaxRoundTwo(domain.Question{ID: 1}))
}

func TestScoreRoundTwoAnswerChecksIDsInOrder(t *testing.T) {
	q := logoQuestion()

	tests := []struct {
		name   string
		answer domain.RoundTwoAnswer
		want   error
	}{
		{"unknown id before bad type", domain.RoundTwoAnswer{QuestionID: 7, SelectedCriterionIDs: []int64{999}, InvalidIDType: true}, domain.ErrUnknownCriterion},
		{"bad type after known ids", domain.RoundTwoAnswer{QuestionID: 7, SelectedCriterionIDs: []int64{1}, InvalidIDType: true}, domain.ErrInvalidIDType},
		{"bad type first", domain.RoundTwoAnswer{QuestionID: 7, SelectedCriterionIDs: []int64{}, InvalidIDType: true}, domain.ErrInvalidIDType},
		{"malformed", domain.RoundTwoAnswer{QuestionID: 7, Malformed: true}, domain.ErrAnswerShape},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := scoring.ScoreRoundTwoAnswer(q, tc.answer)
			require.ErrorIs(t, err, tc.want)
		})
	}

	got, err := scoring.ScoreRoundTwoAnswer(q, domain.RoundTwoAnswer{QuestionID: 7, SelectedCriterionIDs: []int64{1, 3}})
	require.NoError(t, err)
	assert.Equal(t, 2, got.QuestionScore)
}
