package memory

import (
	"context"
	"testing"
	"time"

	"logo-quiz-service/internal/domain"
)

func TestQuestionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticQuestionLoader(sampleSet())}
	repo := NewQuestionRepository(loader, time.Minute)

	if _, err := repo.GetQuestions(context.Background()); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	set, err := repo.GetQuestions(context.Background())
	if err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if len(set.RoundTwo) != 1 || len(set.RoundOne) != 1 {
		t.Fatalf("unexpected set: %+v", set)
	}
}

func TestQuestionRepositoryExpires(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticQuestionLoader(sampleSet())}
	repo := NewQuestionRepository(loader, time.Minute)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	if _, err := repo.GetQuestions(context.Background()); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	// past TTL plus the maximum jitter
	now = now.Add(2 * time.Minute)
	if _, err := repo.GetQuestions(context.Background()); err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}
}

func TestQuestionRepositoryInvalidate(t *testing.T) {
	store := NewStore()
	repo := NewQuestionRepository(store, time.Hour)
	ctx := context.Background()

	set, err := repo.GetQuestions(ctx)
	if err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if len(set.RoundTwo) != 0 {
		t.Fatalf("expected empty set, got %d", len(set.RoundTwo))
	}

	if _, err := store.AddRoundTwoQuestions(ctx, sampleSet().RoundTwo); err != nil {
		t.Fatalf("add: %v", err)
	}
	set, _ = repo.GetQuestions(ctx)
	if len(set.RoundTwo) != 0 {
		t.Fatalf("expected stale cached set before invalidate")
	}

	if err := repo.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	set, err = repo.GetQuestions(ctx)
	if err != nil {
		t.Fatalf("get questions 3: %v", err)
	}
	if len(set.RoundTwo) != 1 {
		t.Fatalf("expected fresh set after invalidate, got %d", len(set.RoundTwo))
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) (domain.QuestionSet, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx)
}

func sampleSet() domain.QuestionSet {
	return domain.QuestionSet{
		RoundOne: []domain.RoundOneQuestion{
			{ID: 1, LeftImagePath: "/logos/a.png", RightImagePath: "/logos/b.png", CorrectOption: domain.SideLeft},
		},
		RoundTwo: []domain.Question{
			{
				ID:       10,
				LogoPath: "/logos/q10.png",
				Criteria: []domain.Criterion{
					{ID: 101, TextAr: "ألوان كثيرة", IsOmitted: true},
					{ID: 102, TextAr: "خط واضح", IsOmitted: false},
				},
			},
		},
	}
}
