package authoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logo-quiz-service/internal/authoring"
	"logo-quiz-service/internal/domain"
)

func TestCleanRoundTwo(t *testing.T) {
	v := authoring.NewValidator()

	q, err := v.CleanRoundTwo(authoring.RoundTwoInput{
		LogoPath: "  /AI.png ",
		Criteria: []authoring.CriterionInput{
			{TextAr: " lens ", IsOmitted: true},
			{TextAr: "   ", IsOmitted: true},
			{TextAr: "blue"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "/AI.png", q.LogoPath)
	assert.Equal(t, []domain.Criterion{{TextAr: "lens", IsOmitted: true}, {TextAr: "blue"}}, q.Criteria)
}

func TestCleanRoundTwoRejections(t *testing.T) {
	v := authoring.NewValidator()
	tests := []struct {
		name string
		in   authoring.RoundTwoInput
		want *domain.Error
	}{
		{"blank logo", authoring.RoundTwoInput{LogoPath: "  ", Criteria: []authoring.CriterionInput{{TextAr: "a", IsOmitted: true}}}, domain.ErrLogoPathRequired},
		{"nil criteria", authoring.RoundTwoInput{LogoPath: "/x.png"}, domain.ErrCriteriaRequired},
		{"empty criteria", authoring.RoundTwoInput{LogoPath: "/x.png", Criteria: []authoring.CriterionInput{}}, domain.ErrCriteriaRequired},
		{"blank criteria", authoring.RoundTwoInput{LogoPath: "/x.png", Criteria: []authoring.CriterionInput{{TextAr: " ", IsOmitted: true}}}, domain.ErrValidCriteriaRequired},
		{"nothing omitted", authoring.RoundTwoInput{LogoPath: "/x.png", Criteria: []authoring.CriterionInput{{TextAr: "a"}, {TextAr: "b"}}}, domain.ErrOmittedRequired},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.CleanRoundTwo(tc.in)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCleanRoundOne(t *testing.T) {
	v := authoring.NewValidator()

	q, err := v.CleanRoundOne(authoring.RoundOneInput{LeftImagePath: " /a.png", RightImagePath: "/b.png ", CorrectOption: domain.SideRight})
	require.NoError(t, err)
	assert.Equal(t, domain.RoundOneQuestion{LeftImagePath: "/a.png", RightImagePath: "/b.png", CorrectOption: domain.SideRight}, q)

	_, err = v.CleanRoundOne(authoring.RoundOneInput{LeftImagePath: "/a.png", CorrectOption: "middle"})
	require.ErrorIs(t, err, domain.ErrRoundOneImagePathsRequired)

	_, err = v.CleanRoundOne(authoring.RoundOneInput{LeftImagePath: "/a.png", RightImagePath: "/b.png", CorrectOption: "middle"})
	require.ErrorIs(t, err, domain.ErrInvalidRoundOneOption)
}

func TestCleanBulk(t *testing.T) {
	v := authoring.NewValidator()

	_, err := v.CleanRoundOneBulk(nil)
	require.ErrorIs(t, err, domain.ErrBulkQuestionsRequired)

	kept, err := v.CleanRoundOneBulk([]authoring.RoundOneInput{
		{LeftImagePath: "/a.png", RightImagePath: "/b.png", CorrectOption: domain.SideLeft},
		{LeftImagePath: "/a.png", CorrectOption: domain.SideLeft},
	})
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	_, err = v.CleanRoundOneBulk([]authoring.RoundOneInput{{CorrectOption: domain.SideLeft}})
	require.ErrorIs(t, err, domain.ErrValidBulkRoundOneRequired)

	_, err = v.CleanRoundTwoBulk([]authoring.RoundTwoInput{{LogoPath: "/x.png", Criteria: []authoring.CriterionInput{{TextAr: "a"}}}})
	require.ErrorIs(t, err, domain.ErrValidBulkRoundTwoRequired)

	two, err := v.CleanRoundTwoBulk([]authoring.RoundTwoInput{
		{LogoPath: "/x.png", Criteria: []authoring.CriterionInput{{TextAr: "a", IsOmitted: true}}},
		{LogoPath: "", Criteria: []authoring.CriterionInput{{TextAr: "a", IsOmitted: true}}},
	})
	require.NoError(t, err)
	assert.Len(t, two, 1)
}

func TestCleanCredentials(t *testing.T) {
	v := authoring.NewValidator()

	c, err := v.CleanCredentials(authoring.Credentials{Username: " root ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "root", c.Username)

	_, err = v.CleanCredentials(authoring.Credentials{Username: "   ", Password: "pw"})
	require.ErrorIs(t, err, domain.ErrAdminCredentialsRequired)
	assert.Equal(t, domain.KindAuth, domain.KindOf(err))
}
