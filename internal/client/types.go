package client

import (
	"fmt"
	"time"

	"github.com/letsssgooo/knowledgecheck/internal/quiz"
)

// APIError описывает ошибку, которую вернул сервис обработки контента.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// generateRequest описывает тело запроса на генерацию теста.
type generateRequest struct {
	VideoID string `json:"video_id"`
}

// attemptsResponse содержит историю попыток по одному видео.
type attemptsResponse struct {
	Attempts []quiz.AttemptResult `json:"attempts"`
}

// AllAttempts содержит историю попыток по всем видео пользователя.
type AllAttempts struct {
	Attempts       map[string][]quiz.AttemptResult `json:"attempts"`
	QuizzesStarted int                             `json:"quizzes_started"`
}

// Таймауты
const (
	timeoutRequest  = 10 * time.Second
	timeoutGenerate = 2 * time.Minute
)
