package quiz

import (
	"time"
)

// Question представляет вопрос с вариантами ответа, сгенерированный по видео.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// QuestionSet представляет неизменяемый набор вопросов для одного видео.
type QuestionSet struct {
	Questions   []Question `json:"questions"`
	VideoID     string     `json:"video_id"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// Answer представляет ответ пользователя на вопрос.
// Пустой SelectedAnswer означает, что вопрос пропущен.
type Answer struct {
	QuestionIndex  int    `json:"question_index"`
	SelectedAnswer string `json:"selected_answer"`
}

// AttemptResult представляет результат одной отправленной попытки.
// Создаётся один раз при отправке и больше не меняется.
type AttemptResult struct {
	ID               string         `json:"id"`
	VideoID          string         `json:"video_id"`
	Score            int            `json:"score"`
	TotalQuestions   int            `json:"total_questions"`
	CorrectIndices   []int          `json:"correct_indices"`
	UserAnswers      map[int]string `json:"user_answers"`
	SubmittedAt      time.Time      `json:"submitted_at"`
	TimeTakenSeconds int            `json:"time_taken_seconds"`
}

// IsCorrect сообщает, был ли вопрос с индексом idx отвечен верно.
func (r *AttemptResult) IsCorrect(idx int) bool {
	for _, i := range r.CorrectIndices {
		if i == idx {
			return true
		}
	}

	return false
}

// Submission содержит данные, которые уходят на сохранение при отправке.
// TimeTakenSeconds сервис может игнорировать и считать время сам.
type Submission struct {
	VideoID          string   `json:"video_id"`
	Answers          []Answer `json:"answers"`
	TimeTakenSeconds int      `json:"time_taken_seconds,omitempty"`
}

// SubmissionResponse представляет ответ сервиса после сохранения попытки.
type SubmissionResponse struct {
	Result    AttemptResult `json:"result"`
	Questions []Question    `json:"questions"`
}

// Status описывает состояние сессии.
type Status string

const (
	StatusGenerating Status = "generating"
	StatusReady      Status = "ready"
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
)

// Progress показывает, сколько вопросов уже отвечено.
type Progress struct {
	Answered int
	Total    int
	Percent  int
}
