package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"logo-quiz-service/internal/domain"
	"logo-quiz-service/internal/scoring"
)

// GameService contains the player-facing use cases.
type GameService struct {
	questions   QuestionRepository
	submissions SubmissionStore
	leaderboard LeaderboardRepository
	scorer      *scoring.Scorer
	hub         *LeaderboardHub
	observer    Observer
	log         *zap.Logger
	now         func() time.Time
}

// GameOption customizes a GameService.
type GameOption func(*GameService)

func WithLogger(log *zap.Logger) GameOption { return func(s *GameService) { s.log = log } }
func WithObserver(o Observer) GameOption    { return func(s *GameService) { s.observer = o } }
func WithHub(h *LeaderboardHub) GameOption  { return func(s *GameService) { s.hub = h } }

// WithClock is used by tests for deterministic leaderboard timestamps.
func WithClock(now func() time.Time) GameOption { return func(s *GameService) { s.now = now } }

func NewGameService(questions QuestionRepository, submissions SubmissionStore, leaderboard LeaderboardRepository, scorer *scoring.Scorer, opts ...GameOption) *GameService {
	s := &GameService{
		questions:   questions,
		submissions: submissions,
		leaderboard: leaderboard,
		scorer:      scorer,
		hub:         NewLeaderboardHub(),
		observer:    nopObserver{},
		log:         zap.NewNop(),
		now:         time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Questions returns the current question set without answer keys.
func (s *GameService) Questions(ctx context.Context) (domain.PublicQuestionSet, error) {
	set, err := s.questions.GetQuestions(ctx)
	if err != nil {
		return domain.PublicQuestionSet{}, err
	}
	if s.scorer.SingleRound() {
		set.RoundOne = nil
	}
	return set.Public(), nil
}

// CheckRoundOne scores a single binary answer for immediate feedback.
// The result is advisory: it is never persisted and never added to a stored score.
func (s *GameService) CheckRoundOne(ctx context.Context, questionID int64, selected domain.Side) (scoring.RoundOneResult, error) {
	if !selected.Valid() {
		return scoring.RoundOneResult{}, domain.ErrInvalidRoundOneOption
	}
	q, err := s.roundOneQuestion(ctx, questionID)
	if err != nil {
		return scoring.RoundOneResult{}, err
	}
	return scoring.ScoreRoundOne(q, selected)
}

// RoundOneCorrectOption reveals the answer of a binary question, for players who ran out of time.
func (s *GameService) RoundOneCorrectOption(ctx context.Context, questionID int64) (domain.Side, error) {
	q, err := s.roundOneQuestion(ctx, questionID)
	if err != nil {
		return "", err
	}
	return q.CorrectOption, nil
}

// CheckRoundTwo scores a single multi-criterion answer for immediate feedback.
// Like CheckRoundOne, the result is advisory only.
func (s *GameService) CheckRoundTwo(ctx context.Context, answer domain.RoundTwoAnswer) (scoring.RoundTwoResult, error) {
	if answer.SelectedCriterionIDs == nil {
		return scoring.RoundTwoResult{}, domain.ErrSelectedCriteria
	}
	set, err := s.questions.GetQuestions(ctx)
	if err != nil {
		return scoring.RoundTwoResult{}, err
	}
	for _, q := range set.RoundTwo {
		if q.ID == answer.QuestionID {
			return scoring.ScoreRoundTwoAnswer(q, answer)
		}
	}
	return scoring.RoundTwoResult{}, domain.ErrInvalidQuestionID
}

// Submit scores a full submission against the stored questions and appends it to the leaderboard.
// The returned score is the only one ever persisted.
func (s *GameService) Submit(ctx context.Context, sub domain.Submission) (domain.Score, error) {
	sub.PlayerName = strings.TrimSpace(sub.PlayerName)
	if sub.PlayerName == "" {
		return domain.Score{}, s.reject(domain.ErrPlayerNameRequired)
	}

	set, err := s.questions.GetQuestions(ctx)
	if err != nil {
		return domain.Score{}, fmt.Errorf("load questions: %w", err)
	}

	score, err := s.scorer.Score(set, sub)
	if err != nil {
		return domain.Score{}, s.reject(err)
	}

	answers, err := s.answersJSON(sub)
	if err != nil {
		return domain.Score{}, err
	}
	entry, err := s.submissions.InsertSubmission(ctx, domain.SubmissionRecord{
		PlayerName:  sub.PlayerName,
		Score:       score.Score,
		MaxScore:    score.MaxScore,
		AnswersJSON: answers,
	})
	if err != nil {
		return domain.Score{}, fmt.Errorf("insert submission: %w", err)
	}
	s.observer.SubmissionScored(score)
	s.log.Info("submission saved",
		zap.Int64("id", entry.ID),
		zap.String("player", entry.PlayerName),
		zap.Int("score", score.Score),
		zap.Int("maxScore", score.MaxScore),
	)

	if err := s.leaderboard.Invalidate(ctx); err != nil {
		s.log.Warn("leaderboard invalidate failed", zap.Error(err))
	} else {
		s.observer.CacheInvalidated("leaderboard")
	}
	s.publish(ctx)
	return score, nil
}

// SubmitJSON decodes a raw submit payload and scores it. Decode failures count as rejections.
func (s *GameService) SubmitJSON(ctx context.Context, payload []byte) (domain.Score, error) {
	sub, err := scoring.DecodeSubmission(payload)
	if err != nil {
		return domain.Score{}, s.reject(err)
	}
	return s.Submit(ctx, sub)
}

// Leaderboard returns the cached top submissions.
func (s *GameService) Leaderboard(ctx context.Context) (domain.Leaderboard, error) {
	entries, err := s.leaderboard.GetLeaderboard(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return domain.Leaderboard{Entries: entries, UpdatedAt: s.now()}, nil
}

// Subscribe returns a channel that receives leaderboard updates after each submission.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(ctx context.Context) (<-chan domain.Leaderboard, func(), error) {
	lb, err := s.Leaderboard(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.Subscribe(lb)
	return ch, cancel, nil
}

func (s *GameService) publish(ctx context.Context) {
	if s.hub.Subscribers() == 0 {
		return
	}
	lb, err := s.Leaderboard(ctx)
	if err != nil {
		s.log.Warn("leaderboard refresh failed", zap.Error(err))
		return
	}
	s.hub.Publish(lb)
}

func (s *GameService) reject(err error) error {
	if code := domain.CodeOf(err); code != "" {
		s.observer.SubmissionRejected(code)
		s.log.Debug("submission rejected", zap.String("code", code))
	}
	return err
}

// roundOneQuestion finds a binary question. Single-round games have none to serve.
func (s *GameService) roundOneQuestion(ctx context.Context, questionID int64) (domain.RoundOneQuestion, error) {
	if s.scorer.SingleRound() {
		return domain.RoundOneQuestion{}, domain.ErrInvalidRoundOneQuestionID
	}
	set, err := s.questions.GetQuestions(ctx)
	if err != nil {
		return domain.RoundOneQuestion{}, err
	}
	for _, q := range set.RoundOne {
		if q.ID == questionID {
			return q, nil
		}
	}
	return domain.RoundOneQuestion{}, domain.ErrInvalidRoundOneQuestionID
}

func (s *GameService) answersJSON(sub domain.Submission) (string, error) {
	payload := struct {
		RoundOneAnswers []domain.RoundOneAnswer `json:"roundOneAnswers,omitempty"`
		RoundTwoAnswers []domain.RoundTwoAnswer `json:"roundTwoAnswers"`
	}{RoundTwoAnswers: sub.RoundTwo}
	if !s.scorer.SingleRound() {
		payload.RoundOneAnswers = sub.RoundOne
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal answers: %w", err)
	}
	return string(data), nil
}
