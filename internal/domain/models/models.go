package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/letsssgooo/knowledgecheck/internal/quiz"
)

// Файл для работы с моделями для базы данных.
// Хранилище переводит попытки в модели, сохраняет их и восстанавливает обратно.

// AttemptModel определяет модель для таблицы попыток
type AttemptModel struct {
	ID               string
	VideoID          string
	Score            int
	TotalQuestions   int
	CorrectIndices   []int32
	UserAnswers      []byte // JSON: {"0": "Paris", ...}
	SubmittedAt      time.Time
	TimeTakenSeconds int
}

// StartModel определяет модель для таблицы начатых тестов
type StartModel struct {
	ID        int
	VideoID   string
	StartedAt time.Time
}

// NewAttemptModel переводит результат попытки в модель.
func NewAttemptModel(result *quiz.AttemptResult) (*AttemptModel, error) {
	indices := make([]int32, 0, len(result.CorrectIndices))
	for _, i := range result.CorrectIndices {
		indices = append(indices, int32(i))
	}

	rawAnswers, err := json.Marshal(result.UserAnswers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user answers: %w", err)
	}

	return &AttemptModel{
		ID:               result.ID,
		VideoID:          result.VideoID,
		Score:            result.Score,
		TotalQuestions:   result.TotalQuestions,
		CorrectIndices:   indices,
		UserAnswers:      rawAnswers,
		SubmittedAt:      result.SubmittedAt,
		TimeTakenSeconds: result.TimeTakenSeconds,
	}, nil
}

// ToAttempt восстанавливает результат попытки из модели.
func (m *AttemptModel) ToAttempt() (quiz.AttemptResult, error) {
	answers := make(map[int]string)
	if len(m.UserAnswers) > 0 {
		if err := json.Unmarshal(m.UserAnswers, &answers); err != nil {
			return quiz.AttemptResult{}, fmt.Errorf("failed to decode user answers of %s: %w", m.ID, err)
		}
	}

	indices := make([]int, 0, len(m.CorrectIndices))
	for _, i := range m.CorrectIndices {
		indices = append(indices, int(i))
	}

	return quiz.AttemptResult{
		ID:               m.ID,
		VideoID:          m.VideoID,
		Score:            m.Score,
		TotalQuestions:   m.TotalQuestions,
		CorrectIndices:   indices,
		UserAnswers:      answers,
		SubmittedAt:      m.SubmittedAt,
		TimeTakenSeconds: m.TimeTakenSeconds,
	}, nil
}
