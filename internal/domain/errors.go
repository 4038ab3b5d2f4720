package domain

import "errors"

// Kind classifies input-validation failures. None of them are retryable.
type Kind string

const (
	KindShape           Kind = "ShapeError"
	KindLengthMismatch  Kind = "LengthMismatchError"
	KindUnknownQuestion Kind = "UnknownQuestionError"
	KindDuplicateAnswer Kind = "DuplicateAnswerError"
	KindInvalidOption   Kind = "InvalidOptionError"
	KindUnknownCriteria Kind = "UnknownCriterionError"
	KindInvalidIDType   Kind = "InvalidIdTypeError"
	KindAuthoring       Kind = "AuthoringError"
	KindAuth            Kind = "AuthError"
	KindNotFound        Kind = "NotFoundError"
)

// Error is a machine-matchable failure. Code is the stable string surfaced to clients.
type Error struct {
	Kind Kind
	Code string
}

func (e *Error) Error() string { return e.Code }

func newError(kind Kind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

// KindOf returns the kind of err, or "" when err is not a domain error.
func KindOf(err error) Kind {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Kind
	}
	return ""
}

// CodeOf returns the client-facing code of err, or "" when err is not a domain error.
func CodeOf(err error) string {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Code
	}
	return ""
}

// Submission and scoring errors.
var (
	ErrInvalidPayload     = newError(KindShape, "invalid_payload")
	ErrPlayerNameRequired = newError(KindShape, "player_name_required")
	ErrAnswersRequired    = newError(KindShape, "answers_required")
	ErrAnswerShape        = newError(KindShape, "invalid_answer_shape")
	ErrRoundOneShape      = newError(KindShape, "invalid_round_one_answer_shape")
	ErrSelectedCriteria   = newError(KindShape, "selected_criteria_required")

	ErrAnswersLengthMismatch = newError(KindLengthMismatch, "answers_length_mismatch")

	ErrInvalidQuestionID         = newError(KindUnknownQuestion, "invalid_question_id")
	ErrInvalidRoundOneQuestionID = newError(KindUnknownQuestion, "invalid_round_one_question_id")

	ErrDuplicateQuestionID         = newError(KindDuplicateAnswer, "duplicate_question_id")
	ErrDuplicateRoundOneQuestionID = newError(KindDuplicateAnswer, "duplicate_round_one_question_id")

	ErrInvalidRoundOneOption = newError(KindInvalidOption, "invalid_round_one_option")

	ErrUnknownCriterion = newError(KindUnknownCriteria, "invalid_criterion_for_question")
	ErrInvalidIDType    = newError(KindInvalidIDType, "invalid_criterion_id_type")
)

// Authoring errors.
var (
	ErrLogoPathRequired            = newError(KindAuthoring, "logo_path_required")
	ErrCriteriaRequired            = newError(KindAuthoring, "criteria_required")
	ErrValidCriteriaRequired       = newError(KindAuthoring, "valid_criteria_required")
	ErrOmittedRequired             = newError(KindAuthoring, "at_least_one_omitted_required")
	ErrRoundOneImagePathsRequired  = newError(KindAuthoring, "round_one_image_paths_required")
	ErrBulkQuestionsRequired       = newError(KindAuthoring, "bulk_questions_required")
	ErrValidBulkRoundOneRequired   = newError(KindAuthoring, "valid_bulk_round_one_questions_required")
	ErrValidBulkRoundTwoRequired   = newError(KindAuthoring, "valid_bulk_round_two_questions_required")
	ErrInvalidRevalidateTarget     = newError(KindAuthoring, "invalid_revalidate_target")
	ErrNewAdminCredentialsRequired = newError(KindAuthoring, "new_admin_credentials_required")
	ErrAdminUsernameExists         = newError(KindAuthoring, "admin_username_exists")
	ErrNoAdminExists               = newError(KindAuthoring, "no_admin_exists_seed_from_db")
)

// Admin authentication errors.
var (
	ErrAdminCredentialsRequired = newError(KindAuth, "admin_credentials_required")
	ErrInvalidAdminCredentials  = newError(KindAuth, "invalid_admin_credentials")
)

// ErrNotFound is returned by stores when a row does not exist.
var ErrNotFound = newError(KindNotFound, "not_found")
