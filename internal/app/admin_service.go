package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"logo-quiz-service/internal/authoring"
	"logo-quiz-service/internal/domain"
)

// Revalidate targets.
const (
	TargetQuestions   = "questions"
	TargetLeaderboard = "leaderboard"
	TargetAll         = "all"
)

// AdminService contains the authoring and cache-control use cases.
type AdminService struct {
	admins      AdminStore
	store       QuestionStore
	questions   QuestionRepository
	leaderboard LeaderboardRepository
	hasher      PasswordHasher
	validator   *authoring.Validator
	observer    Observer
	log         *zap.Logger
}

type AdminOption func(*AdminService)

func WithAdminLogger(log *zap.Logger) AdminOption { return func(s *AdminService) { s.log = log } }
func WithAdminObserver(o Observer) AdminOption    { return func(s *AdminService) { s.observer = o } }

func NewAdminService(admins AdminStore, store QuestionStore, questions QuestionRepository, leaderboard LeaderboardRepository, hasher PasswordHasher, opts ...AdminOption) *AdminService {
	s := &AdminService{
		admins:      admins,
		store:       store,
		questions:   questions,
		leaderboard: leaderboard,
		hasher:      hasher,
		validator:   authoring.NewValidator(),
		observer:    nopObserver{},
		log:         zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Authenticate checks admin credentials. Unknown users and wrong passwords are indistinguishable.
func (s *AdminService) Authenticate(ctx context.Context, creds authoring.Credentials) error {
	creds, err := s.validator.CleanCredentials(creds)
	if err != nil {
		return err
	}
	admin, err := s.admins.AdminByUsername(ctx, creds.Username)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrInvalidAdminCredentials
	}
	if err != nil {
		return fmt.Errorf("load admin: %w", err)
	}
	if !s.hasher.Verify(creds.Password, admin.PasswordHash) {
		return domain.ErrInvalidAdminCredentials
	}
	return nil
}

// AddRoundTwoQuestion authors one multi-criterion question.
func (s *AdminService) AddRoundTwoQuestion(ctx context.Context, creds authoring.Credentials, in authoring.RoundTwoInput) (int64, error) {
	if err := s.Authenticate(ctx, creds); err != nil {
		return 0, err
	}
	q, err := s.validator.CleanRoundTwo(in)
	if err != nil {
		return 0, err
	}
	ids, err := s.store.AddRoundTwoQuestions(ctx, []domain.Question{q})
	if err != nil {
		return 0, fmt.Errorf("add question: %w", err)
	}
	s.invalidateQuestions(ctx)
	return ids[0], nil
}

// AddRoundTwoQuestionsBulk authors the valid items of in and reports how many were stored.
func (s *AdminService) AddRoundTwoQuestionsBulk(ctx context.Context, creds authoring.Credentials, in []authoring.RoundTwoInput) (int, error) {
	if err := s.Authenticate(ctx, creds); err != nil {
		return 0, err
	}
	qs, err := s.validator.CleanRoundTwoBulk(in)
	if err != nil {
		return 0, err
	}
	if _, err := s.store.AddRoundTwoQuestions(ctx, qs); err != nil {
		return 0, fmt.Errorf("add questions: %w", err)
	}
	s.invalidateQuestions(ctx)
	return len(qs), nil
}

// AddRoundOneQuestion authors one binary-choice question.
func (s *AdminService) AddRoundOneQuestion(ctx context.Context, creds authoring.Credentials, in authoring.RoundOneInput) (int64, error) {
	if err := s.Authenticate(ctx, creds); err != nil {
		return 0, err
	}
	q, err := s.validator.CleanRoundOne(in)
	if err != nil {
		return 0, err
	}
	ids, err := s.store.AddRoundOneQuestions(ctx, []domain.RoundOneQuestion{q})
	if err != nil {
		return 0, fmt.Errorf("add round one question: %w", err)
	}
	s.invalidateQuestions(ctx)
	return ids[0], nil
}

// AddRoundOneQuestionsBulk authors the valid items of in and reports how many were stored.
func (s *AdminService) AddRoundOneQuestionsBulk(ctx context.Context, creds authoring.Credentials, in []authoring.RoundOneInput) (int, error) {
	if err := s.Authenticate(ctx, creds); err != nil {
		return 0, err
	}
	qs, err := s.validator.CleanRoundOneBulk(in)
	if err != nil {
		return 0, err
	}
	if _, err := s.store.AddRoundOneQuestions(ctx, qs); err != nil {
		return 0, fmt.Errorf("add round one questions: %w", err)
	}
	s.invalidateQuestions(ctx)
	return len(qs), nil
}

// Revalidate drops cached reads. An empty target means all.
func (s *AdminService) Revalidate(ctx context.Context, creds authoring.Credentials, target string) (string, error) {
	if err := s.Authenticate(ctx, creds); err != nil {
		return "", err
	}
	if target == "" {
		target = TargetAll
	}
	switch target {
	case TargetQuestions, TargetLeaderboard, TargetAll:
	default:
		return "", domain.ErrInvalidRevalidateTarget
	}

	if target == TargetQuestions || target == TargetAll {
		if err := s.questions.Invalidate(ctx); err != nil {
			return "", fmt.Errorf("invalidate questions: %w", err)
		}
		s.observer.CacheInvalidated(TargetQuestions)
	}
	if target == TargetLeaderboard || target == TargetAll {
		if err := s.leaderboard.Invalidate(ctx); err != nil {
			return "", fmt.Errorf("invalidate leaderboard: %w", err)
		}
		s.observer.CacheInvalidated(TargetLeaderboard)
	}
	s.log.Info("cache revalidated", zap.String("target", target))
	return target, nil
}

// AddAdmin lets an existing admin create another one. The very first admin comes from BootstrapAdmin.
func (s *AdminService) AddAdmin(ctx context.Context, creds authoring.Credentials, username, password string) (int64, error) {
	count, err := s.admins.CountAdmins(ctx)
	if err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	if count == 0 {
		return 0, domain.ErrNoAdminExists
	}
	if err := s.Authenticate(ctx, creds); err != nil {
		return 0, err
	}
	return s.insertAdmin(ctx, username, password)
}

// BootstrapAdmin inserts an admin without authentication. It backs the CLI seed path only.
func (s *AdminService) BootstrapAdmin(ctx context.Context, username, password string) (int64, error) {
	return s.insertAdmin(ctx, username, password)
}

func (s *AdminService) insertAdmin(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, domain.ErrNewAdminCredentialsRequired
	}
	_, err := s.admins.AdminByUsername(ctx, username)
	if err == nil {
		return 0, domain.ErrAdminUsernameExists
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("load admin: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}
	id, err := s.admins.InsertAdmin(ctx, username, hash)
	if err != nil {
		return 0, fmt.Errorf("insert admin: %w", err)
	}
	s.log.Info("admin added", zap.String("username", username), zap.Int64("id", id))
	return id, nil
}

func (s *AdminService) invalidateQuestions(ctx context.Context) {
	if err := s.questions.Invalidate(ctx); err != nil {
		s.log.Warn("question cache invalidate failed", zap.Error(err))
		return
	}
	s.observer.CacheInvalidated(TargetQuestions)
}
