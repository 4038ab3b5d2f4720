package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"logo-quiz-service/internal/domain"
)

// QuestionLoader loads both rounds from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context) (domain.QuestionSet, error) {
	var set domain.QuestionSet

	rows, err := l.pool.Query(ctx, `SELECT id, left_image_path, right_image_path, correct_option
		FROM round_one_questions ORDER BY id`)
	if err != nil {
		return set, fmt.Errorf("load round one: %w", err)
	}
	for rows.Next() {
		var q domain.RoundOneQuestion
		var option string
		if err := rows.Scan(&q.ID, &q.LeftImagePath, &q.RightImagePath, &option); err != nil {
			rows.Close()
			return set, fmt.Errorf("scan round one: %w", err)
		}
		q.CorrectOption = domain.Side(option)
		set.RoundOne = append(set.RoundOne, q)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return set, fmt.Errorf("load round one: %w", err)
	}

	rows, err = l.pool.Query(ctx, `SELECT q.id, q.logo_path, c.id, c.text_ar, c.is_omitted
		FROM questions q
		LEFT JOIN criteria c ON c.question_id = q.id
		ORDER BY q.id, c.id`)
	if err != nil {
		return set, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			qID       int64
			logoPath  string
			cID       *int64
			textAr    *string
			isOmitted *bool
		)
		if err := rows.Scan(&qID, &logoPath, &cID, &textAr, &isOmitted); err != nil {
			return set, fmt.Errorf("scan question: %w", err)
		}
		if n := len(set.RoundTwo); n == 0 || set.RoundTwo[n-1].ID != qID {
			set.RoundTwo = append(set.RoundTwo, domain.Question{ID: qID, LogoPath: logoPath})
		}
		if cID != nil {
			q := &set.RoundTwo[len(set.RoundTwo)-1]
			c := domain.Criterion{ID: *cID}
			if textAr != nil {
				c.TextAr = *textAr
			}
			if isOmitted != nil {
				c.IsOmitted = *isOmitted
			}
			q.Criteria = append(q.Criteria, c)
		}
	}
	if err := rows.Err(); err != nil {
		return set, fmt.Errorf("load questions: %w", err)
	}
	return set, nil
}
