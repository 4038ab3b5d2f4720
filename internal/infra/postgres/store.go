package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"logo-quiz-service/internal/domain"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID        int64     `bun:"id,pk,autoincrement"`
	LogoPath  string    `bun:"logo_path,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type criterionRow struct {
	bun.BaseModel `bun:"table:criteria"`

	ID         int64  `bun:"id,pk,autoincrement"`
	QuestionID int64  `bun:"question_id,notnull"`
	TextAr     string `bun:"text_ar,notnull"`
	IsOmitted  bool   `bun:"is_omitted,notnull"`
}

type roundOneRow struct {
	bun.BaseModel `bun:"table:round_one_questions"`

	ID             int64     `bun:"id,pk,autoincrement"`
	LeftImagePath  string    `bun:"left_image_path,notnull"`
	RightImagePath string    `bun:"right_image_path,notnull"`
	CorrectOption  string    `bun:"correct_option,notnull"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type submissionRow struct {
	bun.BaseModel `bun:"table:submissions"`

	ID          int64     `bun:"id,pk,autoincrement"`
	PlayerName  string    `bun:"player_name,notnull"`
	Score       int       `bun:"score,notnull"`
	MaxScore    int       `bun:"max_score,notnull"`
	AnswersJSON string    `bun:"answers_json,type:jsonb,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type adminRow struct {
	bun.BaseModel `bun:"table:admin_users"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Store is the bun-backed write side: authoring, submissions and admins.
// Reads of the question set go through QuestionLoader on pgxpool.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) AddRoundOneQuestions(ctx context.Context, questions []domain.RoundOneQuestion) ([]int64, error) {
	rows := make([]roundOneRow, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, roundOneRow{
			LeftImagePath:  q.LeftImagePath,
			RightImagePath: q.RightImagePath,
			CorrectOption:  string(q.CorrectOption),
		})
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if _, err := s.db.NewInsert().Model(&rows).Returning("id").Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert round one questions: %w", err)
	}
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

func (s *Store) AddRoundTwoQuestions(ctx context.Context, questions []domain.Question) ([]int64, error) {
	ids := make([]int64, 0, len(questions))
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, q := range questions {
			row := questionRow{LogoPath: q.LogoPath}
			if _, err := tx.NewInsert().Model(&row).Returning("id").Exec(ctx); err != nil {
				return fmt.Errorf("insert question: %w", err)
			}
			if len(q.Criteria) > 0 {
				criteria := make([]criterionRow, 0, len(q.Criteria))
				for _, c := range q.Criteria {
					criteria = append(criteria, criterionRow{QuestionID: row.ID, TextAr: c.TextAr, IsOmitted: c.IsOmitted})
				}
				if _, err := tx.NewInsert().Model(&criteria).Returning("id").Exec(ctx); err != nil {
					return fmt.Errorf("insert criteria: %w", err)
				}
			}
			ids = append(ids, row.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) InsertSubmission(ctx context.Context, rec domain.SubmissionRecord) (domain.LeaderboardEntry, error) {
	row := submissionRow{
		PlayerName:  rec.PlayerName,
		Score:       rec.Score,
		MaxScore:    rec.MaxScore,
		AnswersJSON: rec.AnswersJSON,
	}
	if _, err := s.db.NewInsert().Model(&row).Returning("id, created_at").Exec(ctx); err != nil {
		return domain.LeaderboardEntry{}, fmt.Errorf("insert submission: %w", err)
	}
	return row.entry(), nil
}

func (s *Store) TopSubmissions(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	var rows []submissionRow
	err := s.db.NewSelect().
		Model(&rows).
		Column("id", "player_name", "score", "max_score", "created_at").
		OrderExpr("score DESC, created_at ASC, id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select submissions: %w", err)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry())
	}
	return entries, nil
}

func (s *Store) AdminByUsername(ctx context.Context, username string) (domain.Admin, error) {
	var row adminRow
	err := s.db.NewSelect().Model(&row).Where("username = ?", username).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Admin{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Admin{}, fmt.Errorf("select admin: %w", err)
	}
	return domain.Admin{ID: row.ID, Username: row.Username, PasswordHash: row.PasswordHash, CreatedAt: row.CreatedAt}, nil
}

func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*adminRow)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

func (s *Store) InsertAdmin(ctx context.Context, username, passwordHash string) (int64, error) {
	row := adminRow{Username: username, PasswordHash: passwordHash}
	if _, err := s.db.NewInsert().Model(&row).Returning("id").Exec(ctx); err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.Field('C') == "23505" {
			return 0, domain.ErrAdminUsernameExists
		}
		return 0, fmt.Errorf("insert admin: %w", err)
	}
	return row.ID, nil
}

func (r submissionRow) entry() domain.LeaderboardEntry {
	return domain.LeaderboardEntry{
		ID:         r.ID,
		PlayerName: r.PlayerName,
		Score:      r.Score,
		MaxScore:   r.MaxScore,
		CreatedAt:  r.CreatedAt,
	}
}
