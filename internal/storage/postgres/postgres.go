package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/letsssgooo/knowledgecheck/internal/domain/models"
	"github.com/letsssgooo/knowledgecheck/internal/quiz"
	"github.com/letsssgooo/knowledgecheck/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS quiz_attempts (
	id                 TEXT PRIMARY KEY,
	video_id           TEXT NOT NULL,
	score              INTEGER NOT NULL,
	total_questions    INTEGER NOT NULL,
	correct_indices    INTEGER[] NOT NULL DEFAULT '{}',
	user_answers       JSONB NOT NULL DEFAULT '{}',
	submitted_at       TIMESTAMPTZ NOT NULL,
	time_taken_seconds INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS quiz_attempts_video_idx ON quiz_attempts (video_id, submitted_at);
CREATE TABLE IF NOT EXISTS quiz_starts (
	id         SERIAL PRIMARY KEY,
	video_id   TEXT NOT NULL,
	started_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const selectAttempts = `
	SELECT id, video_id, score, total_questions, correct_indices, user_answers, submitted_at, time_taken_seconds
	FROM quiz_attempts
`

// Storage реализует storage.Storage на PostgreSQL.
type Storage struct {
	pool *pgxpool.Pool
}

var _ storage.Storage = (*Storage)(nil)

// NewStorage подключается к базе по dsn.
func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dsn: %w", err)
	}

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &Storage{pool: pool}, nil
}

// Migrate создаёт таблицы, если их нет.
func (s *Storage) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)

	return err
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.pool.Close()
}

// SaveAttempt сохраняет попытку.
func (s *Storage) SaveAttempt(ctx context.Context, result *quiz.AttemptResult) error {
	if result == nil {
		return errors.New("attempt is nil")
	}

	model, err := models.NewAttemptModel(result)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO quiz_attempts
		(id, video_id, score, total_questions, correct_indices, user_answers, submitted_at, time_taken_seconds)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = s.pool.Exec(ctx, query,
		model.ID,
		model.VideoID,
		model.Score,
		model.TotalQuestions,
		model.CorrectIndices,
		model.UserAnswers,
		model.SubmittedAt,
		model.TimeTakenSeconds,
	)

	return err
}

// GetAttempt возвращает попытку по ID.
func (s *Storage) GetAttempt(ctx context.Context, id string) (*quiz.AttemptResult, error) {
	row := s.pool.QueryRow(ctx, selectAttempts+` WHERE id = $1`, id)

	model, err := scanAttempt(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("attempt %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	attempt, err := model.ToAttempt()
	if err != nil {
		return nil, err
	}

	return &attempt, nil
}

// ListAttempts возвращает попытки по видео в хронологическом порядке.
func (s *Storage) ListAttempts(ctx context.Context, videoID string) ([]quiz.AttemptResult, error) {
	rows, err := s.pool.Query(ctx, selectAttempts+` WHERE video_id = $1 ORDER BY submitted_at, id`, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := make([]quiz.AttemptResult, 0)

	for rows.Next() {
		model, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}

		attempt, err := model.ToAttempt()
		if err != nil {
			return nil, err
		}

		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}

// ListAllAttempts возвращает попытки по всем видео.
func (s *Storage) ListAllAttempts(ctx context.Context) (map[string][]quiz.AttemptResult, error) {
	rows, err := s.pool.Query(ctx, selectAttempts+` ORDER BY submitted_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := make(map[string][]quiz.AttemptResult)

	for rows.Next() {
		model, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}

		attempt, err := model.ToAttempt()
		if err != nil {
			return nil, err
		}

		all[attempt.VideoID] = append(all[attempt.VideoID], attempt)
	}

	return all, rows.Err()
}

// RecordStart отмечает начало теста.
func (s *Storage) RecordStart(ctx context.Context, videoID string) error {
	query := `
	INSERT INTO quiz_starts (video_id) VALUES ($1)
	`

	_, err := s.pool.Exec(ctx, query, videoID)

	return err
}

// CountStarted возвращает количество начатых тестов.
func (s *Storage) CountStarted(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*) FROM quiz_starts
	`

	var count int
	if err := s.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func scanAttempt(row pgx.Row) (*models.AttemptModel, error) {
	var m models.AttemptModel

	err := row.Scan(
		&m.ID,
		&m.VideoID,
		&m.Score,
		&m.TotalQuestions,
		&m.CorrectIndices,
		&m.UserAnswers,
		&m.SubmittedAt,
		&m.TimeTakenSeconds,
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}
