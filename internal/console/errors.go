package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/letsssgooo/knowledgecheck/internal/client"
	"github.com/letsssgooo/knowledgecheck/internal/engine"
	"github.com/letsssgooo/knowledgecheck/internal/quiz"
	"github.com/letsssgooo/knowledgecheck/internal/storage"
)

// errorText переводит ошибку в сообщение для пользователя.
func errorText(err error) string {
	var incomplete *quiz.IncompleteError
	var apiErr *client.APIError

	switch {
	case errors.As(err, &incomplete):
		return fmt.Sprintf(msgIncomplete, joinNumbers(incomplete.Missing))
	case errors.Is(err, quiz.ErrOutOfRange):
		return msgOutOfRange
	case errors.Is(err, quiz.ErrUnknownKey):
		return msgUnknownKey
	case errors.Is(err, quiz.ErrAlreadySubmitted):
		return msgAlreadySubmitted
	case errors.Is(err, engine.ErrSubmissionInFlight):
		return msgSubmissionInFlight
	case errors.Is(err, engine.ErrNoSession):
		return msgNoSession
	case errors.As(err, &apiErr):
		return fmt.Sprintf(msgAPIError, apiErr.Message)
	default:
		return fmt.Sprintf(msgUnexpected, err)
	}
}

// isNotFound сообщает, что теста по видео ещё нет.
func isNotFound(err error) bool {
	if errors.Is(err, storage.ErrNotFound) {
		return true
	}

	var apiErr *client.APIError

	return errors.As(err, &apiErr) && apiErr.Status == 404
}

func joinNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}

	return strings.Join(parts, ", ")
}
