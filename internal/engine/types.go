package engine

import (
	"context"
	"errors"

	"github.com/letsssgooo/knowledgecheck/internal/quiz"
)

// QuestionSource определяет источник наборов вопросов.
type QuestionSource interface {
	// GenerateQuiz генерирует новый тест по видео.
	GenerateQuiz(ctx context.Context, videoID string) (*quiz.QuestionSet, error)

	// GetQuiz загружает уже сгенерированный тест по видео.
	GetQuiz(ctx context.Context, videoID string) (*quiz.QuestionSet, error)
}

// SubmissionService сохраняет и оценивает отправленные ответы.
type SubmissionService interface {
	SubmitQuiz(ctx context.Context, submission quiz.Submission) (*quiz.SubmissionResponse, error)
}

// HistoryService возвращает историю попыток по видео.
type HistoryService interface {
	ListAttempts(ctx context.Context, videoID string) ([]quiz.AttemptResult, error)
}

// StartRecorder отмечает начатые тесты для расчёта доли завершённых.
type StartRecorder interface {
	RecordStart(ctx context.Context, videoID string) error
}

// EventPublisher публикует события жизненного цикла сессии.
type EventPublisher interface {
	Publish(eventType string, payload interface{}) error
}

// Ошибки движка
var (
	ErrNoSession          = errors.New("no active quiz session")
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrGenerationInFlight = errors.New("quiz generation already in progress")
)

// Типы событий
const (
	EventSessionStarted   = "quiz.session.started"
	EventSessionReset     = "quiz.session.reset"
	EventAttemptSubmitted = "quiz.attempt.submitted"
)

// View представляет снимок состояния сессии для отрисовки.
type View struct {
	SessionID      string
	VideoID        string
	Status         quiz.Status
	CurrentIndex   int
	Total          int
	Question       quiz.Question
	Answers        []quiz.Answer
	ElapsedSeconds int
	Progress       quiz.Progress
	Submitting     bool
	Result         *quiz.AttemptResult
	Questions      []quiz.Question
}

// Selected возвращает ответ на текущий вопрос.
func (v View) Selected() string {
	if v.CurrentIndex < 0 || v.CurrentIndex >= len(v.Answers) {
		return ""
	}

	return v.Answers[v.CurrentIndex].SelectedAnswer
}
