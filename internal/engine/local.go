package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/letsssgooo/knowledgecheck/internal/quiz"
	"github.com/letsssgooo/knowledgecheck/internal/storage"
)

// StaticSource отдаёт заранее подготовленный набор вопросов.
// Используется в офлайн режиме вместо сервиса генерации.
type StaticSource struct {
	set *quiz.QuestionSet
}

// NewStaticSource проверяет набор вопросов и создаёт источник.
func NewStaticSource(set *quiz.QuestionSet) (*StaticSource, error) {
	if err := quiz.CheckQuestionSet(set); err != nil {
		return nil, err
	}

	return &StaticSource{set: set}, nil
}

// LoadStaticSource читает набор вопросов из JSON файла.
func LoadStaticSource(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question set: %w", err)
	}

	set, err := quiz.ParseQuestionSet(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &StaticSource{set: set}, nil
}

// GenerateQuiz возвращает тот же набор, что и GetQuiz.
func (s *StaticSource) GenerateQuiz(ctx context.Context, videoID string) (*quiz.QuestionSet, error) {
	return s.GetQuiz(ctx, videoID)
}

// GetQuiz возвращает набор вопросов, если он относится к videoID или ни к какому видео.
func (s *StaticSource) GetQuiz(_ context.Context, videoID string) (*quiz.QuestionSet, error) {
	if s.set.VideoID != "" && videoID != "" && s.set.VideoID != videoID {
		return nil, fmt.Errorf("quiz for video %s: %w", videoID, storage.ErrNotFound)
	}

	set := *s.set
	if set.VideoID == "" {
		set.VideoID = videoID
	}

	return &set, nil
}

// LocalSubmitter оценивает ответы на месте и сохраняет попытку в хранилище.
type LocalSubmitter struct {
	Source QuestionSource
	Store  storage.Storage
	Now    func() time.Time
}

// SubmitQuiz реализует SubmissionService.
func (l *LocalSubmitter) SubmitQuiz(ctx context.Context, submission quiz.Submission) (*quiz.SubmissionResponse, error) {
	set, err := l.Source.GetQuiz(ctx, submission.VideoID)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if l.Now != nil {
		now = l.Now
	}

	result, err := quiz.Score(set.Questions, submission.Answers, quiz.ScoreOptions{
		VideoID:          submission.VideoID,
		SubmittedAt:      now(),
		TimeTakenSeconds: submission.TimeTakenSeconds,
	})
	if err != nil {
		return nil, err
	}

	if err = l.Store.SaveAttempt(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save attempt: %w", err)
	}

	return &quiz.SubmissionResponse{
		Result:    *result,
		Questions: set.Questions,
	}, nil
}
