package app

import (
	"context"

	"logo-quiz-service/internal/domain"
)

// QuestionRepository serves the authoritative question set, usually through a cache.
// Reads may be stale until Invalidate is called after an admin edit.
type QuestionRepository interface {
	GetQuestions(ctx context.Context) (domain.QuestionSet, error)
	Invalidate(ctx context.Context) error
}

// QuestionStore persists authored questions. Returned ids follow input order.
type QuestionStore interface {
	AddRoundOneQuestions(ctx context.Context, questions []domain.RoundOneQuestion) ([]int64, error)
	AddRoundTwoQuestions(ctx context.Context, questions []domain.Question) ([]int64, error)
}

// SubmissionStore appends scored submissions and reads the top of the leaderboard,
// ordered by score desc then creation time asc.
type SubmissionStore interface {
	InsertSubmission(ctx context.Context, rec domain.SubmissionRecord) (domain.LeaderboardEntry, error)
	TopSubmissions(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// LeaderboardRepository is a cached view over SubmissionStore.TopSubmissions.
type LeaderboardRepository interface {
	GetLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
	Invalidate(ctx context.Context) error
}

// AdminStore manages admin accounts. AdminByUsername returns domain.ErrNotFound for unknown users.
type AdminStore interface {
	AdminByUsername(ctx context.Context, username string) (domain.Admin, error)
	CountAdmins(ctx context.Context) (int, error)
	InsertAdmin(ctx context.Context, username, passwordHash string) (int64, error)
}

// PasswordHasher hashes and verifies admin passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) bool
}

// Observer receives scoring and cache events; metrics implement it.
type Observer interface {
	SubmissionScored(score domain.Score)
	SubmissionRejected(code string)
	CacheInvalidated(target string)
}

type nopObserver struct{}

func (nopObserver) SubmissionScored(domain.Score) {}
func (nopObserver) SubmissionRejected(string)     {}
func (nopObserver) CacheInvalidated(string)       {}
