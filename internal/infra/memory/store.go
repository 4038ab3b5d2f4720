package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"logo-quiz-service/internal/domain"
)

// Store is an in-process implementation of the question, submission and admin stores.
// It is used in tests and for `storage.driver: memory` demos; nothing survives a restart.
type Store struct {
	clock func() time.Time

	mu          sync.RWMutex
	nextID      int64
	roundOne    []domain.RoundOneQuestion
	roundTwo    []domain.Question
	submissions []domain.LeaderboardEntry
	admins      map[string]domain.Admin
}

func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock allows deterministic timestamps in tests.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{clock: now, admins: make(map[string]domain.Admin)}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// LoadQuestions returns a deep copy of the stored questions in insertion order.
func (s *Store) LoadQuestions(_ context.Context) (domain.QuestionSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := domain.QuestionSet{
		RoundOne: append([]domain.RoundOneQuestion(nil), s.roundOne...),
		RoundTwo: make([]domain.Question, 0, len(s.roundTwo)),
	}
	for _, q := range s.roundTwo {
		q.Criteria = append([]domain.Criterion(nil), q.Criteria...)
		set.RoundTwo = append(set.RoundTwo, q)
	}
	return set, nil
}

func (s *Store) AddRoundOneQuestions(_ context.Context, questions []domain.RoundOneQuestion) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(questions))
	for _, q := range questions {
		q.ID = s.id()
		s.roundOne = append(s.roundOne, q)
		ids = append(ids, q.ID)
	}
	return ids, nil
}

func (s *Store) AddRoundTwoQuestions(_ context.Context, questions []domain.Question) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(questions))
	for _, q := range questions {
		q.ID = s.id()
		criteria := make([]domain.Criterion, 0, len(q.Criteria))
		for _, c := range q.Criteria {
			c.ID = s.id()
			criteria = append(criteria, c)
		}
		q.Criteria = criteria
		s.roundTwo = append(s.roundTwo, q)
		ids = append(ids, q.ID)
	}
	return ids, nil
}

func (s *Store) InsertSubmission(_ context.Context, rec domain.SubmissionRecord) (domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.LeaderboardEntry{
		ID:         s.id(),
		PlayerName: rec.PlayerName,
		Score:      rec.Score,
		MaxScore:   rec.MaxScore,
		CreatedAt:  s.clock(),
	}
	s.submissions = append(s.submissions, entry)
	return entry, nil
}

func (s *Store) TopSubmissions(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	entries := append([]domain.LeaderboardEntry(nil), s.submissions...)
	s.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Store) AdminByUsername(_ context.Context, username string) (domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.admins[username]
	if !ok {
		return domain.Admin{}, domain.ErrNotFound
	}
	return admin, nil
}

func (s *Store) CountAdmins(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.admins), nil
}

func (s *Store) InsertAdmin(_ context.Context, username, passwordHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[username]; ok {
		return 0, domain.ErrAdminUsernameExists
	}
	admin := domain.Admin{ID: s.id(), Username: username, PasswordHash: passwordHash, CreatedAt: s.clock()}
	s.admins[username] = admin
	return admin.ID, nil
}
