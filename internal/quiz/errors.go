package quiz

import (
	"errors"
	"strconv"
	"strings"
)

// Ошибки сессии
var (
	ErrOutOfRange          = errors.New("question index out of range")
	ErrIncomplete          = errors.New("not all questions are answered")
	ErrMalformedSubmission = errors.New("malformed submission")
	ErrAlreadySubmitted    = errors.New("session already submitted")
	ErrUnknownKey          = errors.New("unknown key")
	ErrInvalidQuestionSet  = errors.New("invalid question set")
)

// IncompleteError перечисляет номера неотвеченных вопросов (с единицы).
type IncompleteError struct {
	Missing []int
}

func (e *IncompleteError) Error() string {
	numbers := make([]string, 0, len(e.Missing))
	for _, n := range e.Missing {
		numbers = append(numbers, strconv.Itoa(n))
	}

	return "unanswered questions: " + strings.Join(numbers, ", ")
}

func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}
