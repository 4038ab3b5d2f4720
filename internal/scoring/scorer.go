package scoring

import "logo-quiz-service/internal/domain"

// Option configures a Scorer.
type Option func(*config)

type config struct {
	singleRound bool
}

// WithSingleRound scores round two only. Round-one questions and answers are ignored.
func WithSingleRound() Option { return func(c *config) { c.singleRound = true } }

// Scorer turns a full submission into the authoritative score.
type Scorer struct {
	singleRound bool
}

func NewScorer(opts ...Option) *Scorer {
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}
	return &Scorer{singleRound: cfg.singleRound}
}

// SingleRound reports whether the scorer ignores round one.
func (s *Scorer) SingleRound() bool { return s.singleRound }

// Score validates sub against set and returns {score, maxScore}. It stops at the first
// violation and never returns a partial score.
func (s *Scorer) Score(set domain.QuestionSet, sub domain.Submission) (domain.Score, error) {
	if (!s.singleRound && sub.RoundOne == nil) || sub.RoundTwo == nil {
		return domain.Score{}, domain.ErrAnswersRequired
	}

	total := 0
	if !s.singleRound {
		got, err := scoreRoundOne(set.RoundOne, sub.RoundOne)
		if err != nil {
			return domain.Score{}, err
		}
		total += got
	}

	got, err := scoreRoundTwo(set.RoundTwo, sub.RoundTwo)
	if err != nil {
		return domain.Score{}, err
	}
	total += got

	return domain.Score{Score: total, MaxScore: s.MaxScore(set)}, nil
}

// MaxScore derives the best achievable score from the question set alone.
func (s *Scorer) MaxScore(set domain.QuestionSet) int {
	best := 0
	if !s.singleRound {
		best += len(set.RoundOne)
	}
	for _, q := range set.RoundTwo {
		best += MaxRoundTwo(q)
	}
	return best
}

// Round one is not length-checked: a player may skip binary questions.
func scoreRoundOne(questions []domain.RoundOneQuestion, answers []domain.RoundOneAnswer) (int, error) {
	byID := make(map[int64]domain.RoundOneQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	answered := make(map[int64]struct{}, len(answers))

	total := 0
	for _, a := range answers {
		if a.Malformed {
			return 0, domain.ErrRoundOneShape
		}
		if !a.SelectedOption.Valid() {
			return 0, domain.ErrInvalidRoundOneOption
		}
		q, ok := byID[a.QuestionID]
		if !ok {
			return 0, domain.ErrInvalidRoundOneQuestionID
		}
		if _, dup := answered[a.QuestionID]; dup {
			return 0, domain.ErrDuplicateRoundOneQuestionID
		}
		answered[a.QuestionID] = struct{}{}

		res, err := ScoreRoundOne(q, a.SelectedOption)
		if err != nil {
			return 0, err
		}
		total += res.QuestionScore
	}
	return total, nil
}

func scoreRoundTwo(questions []domain.Question, answers []domain.RoundTwoAnswer) (int, error) {
	if len(answers) != len(questions) {
		return 0, domain.ErrAnswersLengthMismatch
	}

	byID := make(map[int64]domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	answered := make(map[int64]struct{}, len(answers))

	total := 0
	for _, a := range answers {
		if a.Malformed || a.SelectedCriterionIDs == nil {
			return 0, domain.ErrAnswerShape
		}
		q, ok := byID[a.QuestionID]
		if !ok {
			return 0, domain.ErrInvalidQuestionID
		}
		if _, dup := answered[a.QuestionID]; dup {
			return 0, domain.ErrDuplicateQuestionID
		}
		answered[a.QuestionID] = struct{}{}

		res, err := ScoreRoundTwoAnswer(q, a)
		if err != nil {
			return 0, err
		}
		total += res.QuestionScore
	}
	return total, nil
}
