package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"logo-quiz-service/internal/domain"
)

// Store implements the question loader and every write store on top of database/sql.
type Store struct {
	db    *sql.DB
	clock func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, clock: time.Now}
}

func (s *Store) LoadQuestions(ctx context.Context) (domain.QuestionSet, error) {
	var set domain.QuestionSet

	rows, err := s.db.QueryContext(ctx, `SELECT id, left_image_path, right_image_path, correct_option
		FROM round_one_questions ORDER BY id`)
	if err != nil {
		return set, fmt.Errorf("query round one: %w", err)
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
	if err := rows.Err(); err != nil {
		rows.Close()
		return set, err
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT q.id, q.logo_path, c.id, c.text_ar, c.is_omitted
		FROM questions q
		LEFT JOIN criteria c ON c.question_id = q.id
		ORDER BY q.id, c.id`)
	if err != nil {
		return set, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			qID       int64
			logoPath  string
			cID       sql.NullInt64
			textAr    sql.NullString
			isOmitted sql.NullBool
		)
		if err := rows.Scan(&qID, &logoPath, &cID, &textAr, &isOmitted); err != nil {
			return set, fmt.Errorf("scan question: %w", err)
		}
		if n := len(set.RoundTwo); n == 0 || set.RoundTwo[n-1].ID != qID {
			set.RoundTwo = append(set.RoundTwo, domain.Question{ID: qID, LogoPath: logoPath})
		}
		if cID.Valid {
			q := &set.RoundTwo[len(set.RoundTwo)-1]
			q.Criteria = append(q.Criteria, domain.Criterion{ID: cID.Int64, TextAr: textAr.String, IsOmitted: isOmitted.Bool})
		}
	}
	return set, rows.Err()
}

func (s *Store) AddRoundOneQuestions(ctx context.Context, questions []domain.RoundOneQuestion) ([]int64, error) {
	ids := make([]int64, 0, len(questions))
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := s.clock().UnixMilli()
		for _, q := range questions {
			res, err := tx.ExecContext(ctx, `INSERT INTO round_one_questions (left_image_path, right_image_path, correct_option, created_at)
				VALUES (?, ?, ?, ?)`, q.LeftImagePath, q.RightImagePath, string(q.CorrectOption), now)
			if err != nil {
				return fmt.Errorf("insert round one question: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) AddRoundTwoQuestions(ctx context.Context, questions []domain.Question) ([]int64, error) {
	ids := make([]int64, 0, len(questions))
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := s.clock().UnixMilli()
		for _, q := range questions {
			res, err := tx.ExecContext(ctx, `INSERT INTO questions (logo_path, created_at) VALUES (?, ?)`, q.LogoPath, now)
			if err != nil {
				return fmt.Errorf("insert question: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for _, c := range q.Criteria {
				if _, err := tx.ExecContext(ctx, `INSERT INTO criteria (question_id, text_ar, is_omitted) VALUES (?, ?, ?)`,
					id, c.TextAr, c.IsOmitted); err != nil {
					return fmt.Errorf("insert criterion: %w", err)
				}
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) InsertSubmission(ctx context.Context, rec domain.SubmissionRecord) (domain.LeaderboardEntry, error) {
	created := s.clock()
	res, err := s.db.ExecContext(ctx, `INSERT INTO submissions (player_name, score, max_score, answers_json, created_at)
		VALUES (?, ?, ?, ?, ?)`, rec.PlayerName, rec.Score, rec.MaxScore, rec.AnswersJSON, created.UnixMilli())
	if err != nil {
		return domain.LeaderboardEntry{}, fmt.Errorf("insert submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	return domain.LeaderboardEntry{
		ID:         id,
		PlayerName: rec.PlayerName,
		Score:      rec.Score,
		MaxScore:   rec.MaxScore,
		CreatedAt:  time.UnixMilli(created.UnixMilli()).UTC(),
	}, nil
}

func (s *Store) TopSubmissions(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, player_name, score, max_score, created_at
		FROM submissions ORDER BY score DESC, created_at ASC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		var e domain.LeaderboardEntry
		var created int64
		if err := rows.Scan(&e.ID, &e.PlayerName, &e.Score, &e.MaxScore, &created); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) AdminByUsername(ctx context.Context, username string) (domain.Admin, error) {
	var a domain.Admin
	var created int64
	err := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at FROM admin_users WHERE username = ?`, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Admin{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Admin{}, fmt.Errorf("query admin: %w", err)
	}
	a.CreatedAt = time.UnixMilli(created).UTC()
	return a, nil
}

func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

func (s *Store) InsertAdmin(ctx context.Context, username, passwordHash string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO admin_users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, passwordHash, s.clock().UnixMilli())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, domain.ErrAdminUsernameExists
		}
		return 0, fmt.Errorf("insert admin: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
