package domain

import "time"

// Side is the choice domain of a round-one question.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Valid reports whether s is one of the two allowed sides.
func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight
}

// Round identifies one of the two question sets of a game.
type Round int

const (
	RoundOne Round = 1
	RoundTwo Round = 2
)

// RoundOneQuestion is a binary-choice question: which of two logos is the real one.
type RoundOneQuestion struct {
	ID             int64  `json:"id" yaml:"id"`
	LeftImagePath  string `json:"leftImagePath" yaml:"leftImagePath"`
	RightImagePath string `json:"rightImagePath" yaml:"rightImagePath"`
	CorrectOption  Side   `json:"correctOption" yaml:"correctOption"`
}

// Criterion is one selectable attribute of a round-two question.
// IsOmitted marks a defect the player must detect.
type Criterion struct {
	ID        int64  `json:"id" yaml:"id"`
	TextAr    string `json:"textAr" yaml:"textAr"`
	IsOmitted bool   `json:"isOmitted" yaml:"isOmitted"`
}

// Question is a multi-criterion (round two) question.
type Question struct {
	ID       int64       `json:"id" yaml:"id"`
	LogoPath string      `json:"logoPath" yaml:"logoPath"`
	Criteria []Criterion `json:"criteria" yaml:"criteria"`
}

// QuestionSet holds the authoritative answer keys for one game.
type QuestionSet struct {
	RoundOne []RoundOneQuestion `json:"roundOne" yaml:"roundOne"`
	RoundTwo []Question         `json:"roundTwo" yaml:"roundTwo"`
}

// Len returns the number of questions in the given round.
func (s QuestionSet) Len(round Round) int {
	switch round {
	case RoundOne:
		return len(s.RoundOne)
	case RoundTwo:
		return len(s.RoundTwo)
	}
	return 0
}

// RoundOneAnswer is a player's choice for one binary question.
// Malformed marks an item that was not an object with an integer questionId.
type RoundOneAnswer struct {
	QuestionID     int64 `json:"questionId"`
	SelectedOption Side  `json:"selectedOption"`
	Malformed      bool  `json:"-"`
}

// RoundTwoAnswer is a player's selection of criteria for one multi-criterion question.
// Malformed marks an item without an integer questionId or a selectedCriterionIds array.
// InvalidIDType marks a selection that had a non-integer entry right after SelectedCriterionIDs;
// the ids before it are kept so they are still checked first.
type RoundTwoAnswer struct {
	QuestionID           int64   `json:"questionId"`
	SelectedCriterionIDs []int64 `json:"selectedCriterionIds"`
	Malformed            bool    `json:"-"`
	InvalidIDType        bool    `json:"-"`
}

// Submission is one player's complete set of answers. A nil round slice means
// the collection was missing from the payload.
type Submission struct {
	PlayerName string           `json:"playerName"`
	RoundOne   []RoundOneAnswer `json:"roundOneAnswers"`
	RoundTwo   []RoundTwoAnswer `json:"roundTwoAnswers"`
}

// Score is the authoritative result of scoring a submission.
type Score struct {
	Score    int `json:"score"`
	MaxScore int `json:"maxScore"`
}

// SubmissionRecord is what gets persisted for a scored submission.
type SubmissionRecord struct {
	PlayerName  string
	Score       int
	MaxScore    int
	AnswersJSON string
}

// LeaderboardEntry is an immutable, persisted submission result.
type LeaderboardEntry struct {
	ID         int64     `json:"id"`
	PlayerName string    `json:"playerName"`
	Score      int       `json:"score"`
	MaxScore   int       `json:"maxScore"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Leaderboard is an ordered snapshot of the top submissions.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Admin is an account allowed to author questions.
type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// PublicRoundOneQuestion is a round-one question without its answer key.
type PublicRoundOneQuestion struct {
	ID             int64  `json:"id"`
	LeftImagePath  string `json:"leftImagePath"`
	RightImagePath string `json:"rightImagePath"`
}

// PublicCriterion is a criterion without its omitted flag.
type PublicCriterion struct {
	ID     int64  `json:"id"`
	TextAr string `json:"textAr"`
}

// PublicQuestion is a round-two question without its answer key.
type PublicQuestion struct {
	ID       int64             `json:"id"`
	LogoPath string            `json:"logoPath"`
	Criteria []PublicCriterion `json:"criteria"`
}

// PublicQuestionSet is what players are allowed to see.
type PublicQuestionSet struct {
	RoundOne []PublicRoundOneQuestion `json:"roundOneQuestions"`
	RoundTwo []PublicQuestion         `json:"roundTwoQuestions"`
}

// Public strips answer keys from the set.
func (s QuestionSet) Public() PublicQuestionSet {
	out := PublicQuestionSet{
		RoundOne: make([]PublicRoundOneQuestion, 0, len(s.RoundOne)),
		RoundTwo: make([]PublicQuestion, 0, len(s.RoundTwo)),
	}
	for _, q := range s.RoundOne {
		out.RoundOne = append(out.RoundOne, PublicRoundOneQuestion{
			ID:             q.ID,
			LeftImagePath:  q.LeftImagePath,
			RightImagePath: q.RightImagePath,
		})
	}
	for _, q := range s.RoundTwo {
		criteria := make([]PublicCriterion, 0, len(q.Criteria))
		for _, c := range q.Criteria {
			criteria = append(criteria, PublicCriterion{ID: c.ID, TextAr: c.TextAr})
		}
		out.RoundTwo = append(out.RoundTwo, PublicQuestion{ID: q.ID, LogoPath: q.LogoPath, Criteria: criteria})
	}
	return out
}
