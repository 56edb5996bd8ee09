package stats

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/letsssgooo/knowledgecheck/internal/quiz"
)

// ExportCSV экспортирует историю попыток в CSV.
func ExportCSV(history []quiz.AttemptResult) ([]byte, error) {
	records := make([][]string, 0, len(history)+1)
	records = append(records, []string{
		"Attempt",
		"SubmittedAt",
		"Score",
		"TotalQuestions",
		"Percent",
		"TimeTaken",
	})

	for i, attempt := range history {
		records = append(records, []string{
			strconv.Itoa(i + 1),
			attempt.SubmittedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(attempt.Score),
			strconv.Itoa(attempt.TotalQuestions),
			strconv.Itoa(quiz.Percent(attempt.Score, attempt.TotalQuestions)),
			FormatElapsed(attempt.TimeTakenSeconds),
		})
	}

	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}

	return buf.Bytes(), nil
}

// FormatElapsed форматирует секунды как mm:ss.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
