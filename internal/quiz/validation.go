package quiz

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationResult содержит итог проверки ответов перед отправкой.
// Missing содержит номера пустых вопросов (с единицы) по возрастанию.
type ValidationResult struct {
	Valid   bool
	Missing []int
}

// Err возвращает *IncompleteError для невалидного результата и nil для валидного.
func (v ValidationResult) Err() error {
	if v.Valid {
		return nil
	}

	return &IncompleteError{Missing: v.Missing}
}

// ParseQuestionSet парсит JSON и проверяет структуру набора вопросов.
func ParseQuestionSet(data []byte) (*QuestionSet, error) {
	set := &QuestionSet{}
	if err := json.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("cannot decode question set: %w", err)
	}

	if err := CheckQuestionSet(set); err != nil {
		return nil, err
	}

	return set, nil
}

// CheckQuestionSet проверяет набор вопросов на корректность.
func CheckQuestionSet(set *QuestionSet) error {
	if set == nil {
		return fmt.Errorf("%w: question set is nil", ErrInvalidQuestionSet)
	}

	if len(set.Questions) == 0 {
		return fmt.Errorf("%w: need at least one question", ErrInvalidQuestionSet)
	}

	for i, q := range set.Questions {
		number := i + 1

		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("%w: missing text of question %d", ErrInvalidQuestionSet, number)
		}

		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d must have at least two options", ErrInvalidQuestionSet, number)
		}

		seen := make(map[string]struct{}, len(q.Options))
		hasCorrect := false

		for _, option := range q.Options {
			if _, ok := seen[option]; ok {
				return fmt.Errorf("%w: duplicate option %q in question %d", ErrInvalidQuestionSet, option, number)
			}
			seen[option] = struct{}{}

			if option == q.CorrectAnswer {
				hasCorrect = true
			}
		}

		if !hasCorrect {
			return fmt.Errorf("%w: correct answer of question %d is not among its options", ErrInvalidQuestionSet, number)
		}
	}

	return nil
}

// Validate проверяет, что на каждый вопрос дан непустой ответ.
func Validate(answers []Answer) ValidationResult {
	var missing []int

	for i, a := range answers {
		if strings.TrimSpace(a.SelectedAnswer) == "" {
			missing = append(missing, i+1)
		}
	}

	return ValidationResult{
		Valid:   len(missing) == 0,
		Missing: missing,
	}
}

// CheckSubmission проверяет структуру ответов, пришедших извне:
// количество совпадает с количеством вопросов, индекс равен позиции, повторов нет.
func CheckSubmission(questions []Question, answers []Answer) error {
	if len(answers) != len(questions) {
		return fmt.Errorf(
			"%w: got %d answers for %d questions",
			ErrMalformedSubmission,
			len(answers),
			len(questions),
		)
	}

	seen := make(map[int]struct{}, len(answers))

	for pos, a := range answers {
		if _, ok := seen[a.QuestionIndex]; ok {
			return fmt.Errorf("%w: duplicate question index %d", ErrMalformedSubmission, a.QuestionIndex)
		}
		seen[a.QuestionIndex] = struct{}{}

		if a.QuestionIndex != pos {
			return fmt.Errorf(
				"%w: answer at position %d has question index %d",
				ErrMalformedSubmission,
				pos,
				a.QuestionIndex,
			)
		}
	}

	return nil
}
