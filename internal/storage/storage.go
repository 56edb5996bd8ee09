package storage

import (
	"context"
	"errors"

	"github.com/letsssgooo/knowledgecheck/internal/quiz"
)

// ErrNotFound возвращается, когда запись не найдена.
var ErrNotFound = errors.New("not found")

// Storage определяет интерфейс журнала попыток.
// Журнал только дополняется; статистика в нём не хранится.
type Storage interface {
	// SaveAttempt добавляет попытку в историю видео.
	SaveAttempt(ctx context.Context, result *quiz.AttemptResult) error

	// GetAttempt возвращает попытку по ID.
	GetAttempt(ctx context.Context, id string) (*quiz.AttemptResult, error)

	// ListAttempts возвращает попытки по видео в хронологическом порядке.
	ListAttempts(ctx context.Context, videoID string) ([]quiz.AttemptResult, error)

	// ListAllAttempts возвращает попытки по всем видео.
	ListAllAttempts(ctx context.Context) (map[string][]quiz.AttemptResult, error)

	// RecordStart отмечает, что тест по видео был начат.
	RecordStart(ctx context.Context, videoID string) error

	// CountStarted возвращает количество начатых тестов.
	CountStarted(ctx context.Context) (int, error)
}
