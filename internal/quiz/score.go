package quiz

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScoreOptions содержит данные попытки, которые не выводятся из ответов.
type ScoreOptions struct {
	VideoID          string
	SubmittedAt      time.Time
	TimeTakenSeconds int
}

// Score подсчитывает результат попытки.
// Ответ верный, только если после обрезки пробелов он в точности совпадает с CorrectAnswer.
func Score(questions []Question, answers []Answer, opts ScoreOptions) (*AttemptResult, error) {
	if err := CheckSubmission(questions, answers); err != nil {
		return nil, err
	}

	result := &AttemptResult{
		ID:               uuid.NewString(),
		VideoID:          opts.VideoID,
		TotalQuestions:   len(questions),
		CorrectIndices:   make([]int, 0, len(questions)),
		UserAnswers:      make(map[int]string, len(answers)),
		SubmittedAt:      opts.SubmittedAt,
		TimeTakenSeconds: opts.TimeTakenSeconds,
	}

	for i, q := range questions {
		selected := strings.TrimSpace(answers[i].SelectedAnswer)
		result.UserAnswers[i] = selected

		if selected == q.CorrectAnswer {
			result.CorrectIndices = append(result.CorrectIndices, i)
		}
	}

	result.Score = len(result.CorrectIndices)

	return result, nil
}

// Percent возвращает round(100 * score / total). Для пустого набора возвращает 0.
func Percent(score, total int) int {
	if total <= 0 {
		return 0
	}

	return int(math.Round(100 * float64(score) / float64(total)))
}

// QuestionReview описывает строку разбора попытки.
type QuestionReview struct {
	Number        int
	Question      string
	Selected      string
	CorrectAnswer string
	Correct       bool
	Explanation   string
}

// Review собирает разбор попытки по вопросам для экрана результатов.
func Review(questions []Question, result *AttemptResult) []QuestionReview {
	reviews := make([]QuestionReview, 0, len(questions))

	for i, q := range questions {
		reviews = append(reviews, QuestionReview{
			Number:        i + 1,
			Question:      q.Question,
			Selected:      result.UserAnswers[i],
			CorrectAnswer: q.CorrectAnswer,
			Correct:       result.IsCorrect(i),
			Explanation:   q.Explanation,
		})
	}

	return reviews
}
