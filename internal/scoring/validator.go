// Package scoring validates untrusted answers against stored answer keys and
// computes deterministic scores. Everything here is pure: no I/O, no shared state.
package scoring

import "logo-quiz-service/internal/domain"

// RoundOneResult is the outcome of scoring one binary-choice answer.
type RoundOneResult struct {
	IsCorrect     bool        `json:"isCorrect"`
	QuestionScore int         `json:"questionScore"`
	CorrectOption domain.Side `json:"correctOption"`
}

// RoundTwoResult is the outcome of scoring one multi-criterion answer.
// CorrectPicked and TotalCorrect are diagnostics and are filled even when QuestionScore is 0.
type RoundTwoResult struct {
	QuestionScore int `json:"questionScore"`
	CorrectPicked int `json:"correctPicked"`
	TotalCorrect  int `json:"totalCorrect"`
}

// ScoreRoundOne scores a binary-choice answer. No partial credit.
func ScoreRoundOne(q domain.RoundOneQuestion, selected domain.Side) (RoundOneResult, error) {
	if !selected.Valid() {
		return RoundOneResult{}, domain.ErrInvalidRoundOneOption
	}
	res := RoundOneResult{CorrectOption: q.CorrectOption}
	if selected == q.CorrectOption {
		res.IsCorrect = true
		res.QuestionScore = 1
	}
	return res, nil
}

// ScoreRoundTwo scores a selection of criterion ids. Duplicate ids count once.
// Any selected criterion that is not omitted zeroes the question score, no matter
// how many omitted criteria were also picked.
func ScoreRoundTwo(q domain.Question, selected []int64) (RoundTwoResult, error) {
	return scoreSelection(q, selected, false)
}

// ScoreRoundTwoAnswer scores a decoded answer. Ids are checked in payload order, so an
// unknown id reported before a non-integer entry wins over invalid_criterion_id_type.
func ScoreRoundTwoAnswer(q domain.Question, a domain.RoundTwoAnswer) (RoundTwoResult, error) {
	if a.Malformed || a.SelectedCriterionIDs == nil {
		return RoundTwoResult{}, domain.ErrAnswerShape
	}
	return scoreSelection(q, a.SelectedCriterionIDs, a.InvalidIDType)
}

func scoreSelection(q domain.Question, selected []int64, invalidType bool) (RoundTwoResult, error) {
	valid := make(map[int64]struct{}, len(q.Criteria))
	omitted := make(map[int64]struct{}, len(q.Criteria))
	for _, c := range q.Criteria {
		valid[c.ID] = struct{}{}
		if c.IsOmitted {
			omitted[c.ID] = struct{}{}
		}
	}

	for _, id := range selected {
		if _, ok := valid[id]; !ok {
			return RoundTwoResult{}, domain.ErrUnknownCriterion
		}
	}
	if invalidType {
		return RoundTwoResult{}, domain.ErrInvalidIDType
	}

	unique := make(map[int64]struct{}, len(selected))
	for _, id := range selected {
		unique[id] = struct{}{}
	}

	res := RoundTwoResult{TotalCorrect: len(omitted)}
	wrongPick := false
	for id := range unique {
		if _, ok := omitted[id]; ok {
			res.CorrectPicked++
		} else {
			wrongPick = true
		}
	}
	if !wrongPick {
		res.QuestionScore = res.CorrectPicked
	}
	return res, nil
}

// MaxRoundTwo is the best achievable score for q.
func MaxRoundTwo(q domain.Question) int {
	n := 0
	for _, c := range q.Criteria {
		if c.IsOmitted {
			n++
		}
	}
	return n
}
