// Package authoring cleans and validates admin-supplied questions before they reach a store.
package authoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"logo-quiz-service/internal/domain"
)

// Credentials identify an admin on every authoring call.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CriterionInput struct {
	TextAr    string `json:"textAr" yaml:"textAr"`
	IsOmitted bool   `json:"isOmitted" yaml:"isOmitted"`
}

// RoundTwoInput is a multi-criterion question as typed by an admin.
type RoundTwoInput struct {
	LogoPath string           `json:"logoPath" yaml:"logoPath" validate:"required"`
	Criteria []CriterionInput `json:"criteria" yaml:"criteria" validate:"required,min=1"`
}

// RoundOneInput is a binary-choice question as typed by an admin.
type RoundOneInput struct {
	LeftImagePath  string      `json:"leftImagePath" yaml:"leftImagePath" validate:"required"`
	RightImagePath string      `json:"rightImagePath" yaml:"rightImagePath" validate:"required"`
	CorrectOption  domain.Side `json:"correctOption" yaml:"correctOption" validate:"oneof=left right"`
}

// Validator wraps go-playground validator and maps the first failing field to a domain error.
type Validator struct {
	validate *validator.Validate
	codes    map[string]*domain.Error
}

func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
		codes: map[string]*domain.Error{
			"Credentials.Username":         domain.ErrAdminCredentialsRequired,
			"Credentials.Password":         domain.ErrAdminCredentialsRequired,
			"RoundTwoInput.LogoPath":       domain.ErrLogoPathRequired,
			"RoundTwoInput.Criteria":       domain.ErrCriteriaRequired,
			"RoundOneInput.LeftImagePath":  domain.ErrRoundOneImagePathsRequired,
			"RoundOneInput.RightImagePath": domain.ErrRoundOneImagePathsRequired,
			"RoundOneInput.CorrectOption":  domain.ErrInvalidRoundOneOption,
		},
	}
}

// Check validates s. Known fields come back as domain errors.
func (v *Validator) Check(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if code, ok := v.codes[verrs[0].StructNamespace()]; ok {
			return code
		}
	}
	return fmt.Errorf("validate: %w", err)
}

// CleanCredentials trims the username and requires both fields.
func (v *Validator) CleanCredentials(c Credentials) (Credentials, error) {
	c.Username = strings.TrimSpace(c.Username)
	if err := v.Check(c); err != nil {
		return Credentials{}, err
	}
	return c, nil
}

// CleanRoundTwo trims paths and texts, drops blank criteria and requires at least one omitted criterion.
func (v *Validator) CleanRoundTwo(in RoundTwoInput) (domain.Question, error) {
	in.LogoPath = strings.TrimSpace(in.LogoPath)
	if err := v.Check(in); err != nil {
		return domain.Question{}, err
	}

	q := domain.Question{LogoPath: in.LogoPath}
	omitted := 0
	for _, c := range in.Criteria {
		text := strings.TrimSpace(c.TextAr)
		if text == "" {
			continue
		}
		if c.IsOmitted {
			omitted++
		}
		q.Criteria = append(q.Criteria, domain.Criterion{TextAr: text, IsOmitted: c.IsOmitted})
	}
	if len(q.Criteria) == 0 {
		return domain.Question{}, domain.ErrValidCriteriaRequired
	}
	if omitted == 0 {
		return domain.Question{}, domain.ErrOmittedRequired
	}
	return q, nil
}

// CleanRoundOne trims image paths and checks the correct side.
func (v *Validator) CleanRoundOne(in RoundOneInput) (domain.RoundOneQuestion, error) {
	in.LeftImagePath = strings.TrimSpace(in.LeftImagePath)
	in.RightImagePath = strings.TrimSpace(in.RightImagePath)
	if err := v.Check(in); err != nil {
		return domain.RoundOneQuestion{}, err
	}
	return domain.RoundOneQuestion{
		LeftImagePath:  in.LeftImagePath,
		RightImagePath: in.RightImagePath,
		CorrectOption:  in.CorrectOption,
	}, nil
}

// CleanRoundTwoBulk keeps the valid items and drops the rest. At least one must survive.
func (v *Validator) CleanRoundTwoBulk(ins []RoundTwoInput) ([]domain.Question, error) {
	if len(ins) == 0 {
		return nil, domain.ErrBulkQuestionsRequired
	}
	out := make([]domain.Question, 0, len(ins))
	for _, in := range ins {
		if q, err := v.CleanRoundTwo(in); err == nil {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrValidBulkRoundTwoRequired
	}
	return out, nil
}

// CleanRoundOneBulk keeps the valid items and drops the rest. At least one must survive.
func (v *Validator) CleanRoundOneBulk(ins []RoundOneInput) ([]domain.RoundOneQuestion, error) {
	if len(ins) == 0 {
		return nil, domain.ErrBulkQuestionsRequired
	}
	out := make([]domain.RoundOneQuestion, 0, len(ins))
	for _, in := range ins {
		if q, err := v.CleanRoundOne(in); err == nil {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrValidBulkRoundOneRequired
	}
	return out, nil
}
