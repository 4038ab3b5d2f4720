package scoring

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"logo-quiz-service/internal/domain"
)

type rawSubmission struct {
	PlayerName      json.RawMessage `json:"playerName"`
	RoundOneAnswers json.RawMessage `json:"roundOneAnswers"`
	RoundTwoAnswers json.RawMessage `json:"roundTwoAnswers"`
	// Answers is the round-two collection sent by single-round clients.
	Answers json.RawMessage `json:"answers"`
}

type rawRoundOneAnswer struct {
	QuestionID     json.RawMessage `json:"questionId"`
	SelectedOption json.RawMessage `json:"selectedOption"`
}

type rawRoundTwoAnswer struct {
	QuestionID           json.RawMessage `json:"questionId"`
	SelectedCriterionIDs json.RawMessage `json:"selectedCriterionIds"`
}

// DecodeSubmission parses an untrusted submission payload. It only fails when the body is not
// a JSON object. Everything else is recorded on the result so Scorer.Score reports the first
// violation in its own order: a collection that is not an array comes back nil, a bad item is
// marked Malformed, and a non-integer criterion id sets InvalidIDType.
func DecodeSubmission(data []byte) (domain.Submission, error) {
	var raw rawSubmission
	if !isObject(data) || json.Unmarshal(data, &raw) != nil {
		return domain.Submission{}, domain.ErrInvalidPayload
	}

	var sub domain.Submission
	// a non-string name decodes to "" and fails the blank-name check
	_ = json.Unmarshal(raw.PlayerName, &sub.PlayerName)

	sub.RoundOne = decodeRoundOne(raw.RoundOneAnswers)

	roundTwoRaw := raw.RoundTwoAnswers
	if isNull(roundTwoRaw) {
		roundTwoRaw = raw.Answers
	}
	sub.RoundTwo = decodeRoundTwo(roundTwoRaw)
	return sub, nil
}

// DecodeCriterionIDs parses a selectedCriterionIds value for a single-question check.
// Integer ids up to the first non-integer entry are returned; invalidType reports that entry.
func DecodeCriterionIDs(raw json.RawMessage) (ids []int64, invalidType bool, err error) {
	items, ok := arrayItems(raw)
	if !ok {
		return nil, false, domain.ErrSelectedCriteria
	}
	ids, invalidType = decodeIDs(items)
	return ids, invalidType, nil
}

// DecodeQuestionID parses an integer-like question identity.
func DecodeQuestionID(raw json.RawMessage) (int64, bool) {
	return parseID(raw)
}

func decodeRoundOne(raw json.RawMessage) []domain.RoundOneAnswer {
	items, ok := arrayItems(raw)
	if !ok {
		return nil
	}

	answers := make([]domain.RoundOneAnswer, 0, len(items))
	for _, item := range items {
		var a rawRoundOneAnswer
		if !isObject(item) || json.Unmarshal(item, &a) != nil {
			answers = append(answers, domain.RoundOneAnswer{Malformed: true})
			continue
		}
		id, ok := parseID(a.QuestionID)
		// a non-string option decodes to "" and is rejected by the scorer as an invalid option
		var option string
		_ = json.Unmarshal(a.SelectedOption, &option)
		answers = append(answers, domain.RoundOneAnswer{
			QuestionID:     id,
			SelectedOption: domain.Side(option),
			Malformed:      !ok,
		})
	}
	return answers
}

func decodeRoundTwo(raw json.RawMessage) []domain.RoundTwoAnswer {
	items, ok := arrayItems(raw)
	if !ok {
		return nil
	}

	answers := make([]domain.RoundTwoAnswer, 0, len(items))
	for _, item := range items {
		var a rawRoundTwoAnswer
		if !isObject(item) || json.Unmarshal(item, &a) != nil {
			answers = append(answers, domain.RoundTwoAnswer{Malformed: true})
			continue
		}
		id, idOK := parseID(a.QuestionID)
		selected, selOK := arrayItems(a.SelectedCriterionIDs)
		if !idOK || !selOK {
			answers = append(answers, domain.RoundTwoAnswer{QuestionID: id, Malformed: true})
			continue
		}
		ids, invalidType := decodeIDs(selected)
		answers = append(answers, domain.RoundTwoAnswer{
			QuestionID:           id,
			SelectedCriterionIDs: ids,
			InvalidIDType:        invalidType,
		})
	}
	return answers
}

// decodeIDs stops at the first entry that is not an integer.
func decodeIDs(items []json.RawMessage) ([]int64, bool) {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		id, ok := parseID(item)
		if !ok {
			return ids, true
		}
		ids = append(ids, id)
	}
	return ids, false
}

func arrayItems(raw json.RawMessage) ([]json.RawMessage, bool) {
	if !isArray(raw) {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// parseID accepts JSON numbers with an integral value. Strings, booleans and fractions are rejected.
func parseID(raw json.RawMessage) (int64, bool) {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 || !(b[0] == '-' || (b[0] >= '0' && b[0] <= '9')) {
		return 0, false
	}
	if id, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

func isNull(raw []byte) bool {
	b := bytes.TrimSpace(raw)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

func isArray(raw []byte) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && b[0] == '['
}

func isObject(raw []byte) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && b[0] == '{'
}
