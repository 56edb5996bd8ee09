package sender

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/knowledgecheck/internal/engine"
	"github.com/letsssgooo/knowledgecheck/internal/quiz"
	"github.com/letsssgooo/knowledgecheck/internal/stats"
)

func newTestTerminal(t *testing.T) (*Terminal, *bytes.Buffer) {
	t.Helper()

	color.NoColor = true

	var buf bytes.Buffer
	return NewTerminal(&buf, t.TempDir()), &buf
}

var questions = []quiz.Question{
	{Question: "2 + 2?", Options: []string{"3", "4"}, CorrectAnswer: "4", Explanation: "Арифметика."},
	{Question: "Столица Франции?", Options: []string{"Париж", "Лион"}, CorrectAnswer: "Париж"},
}

func TestTerminal_Question(t *testing.T) {
	term, buf := newTestTerminal(t)

	term.Question(engine.View{
		CurrentIndex:   0,
		Total:          2,
		Question:       questions[0],
		Answers:        []quiz.Answer{{QuestionIndex: 0, SelectedAnswer: "4"}, {QuestionIndex: 1}},
		ElapsedSeconds: 75,
		Progress:       quiz.Progress{Answered: 1, Total: 2, Percent: 50},
		Status:         quiz.StatusInProgress,
	})

	out := buf.String()
	assert.Contains(t, out, "Вопрос 1/2")
	assert.Contains(t, out, "отвечено 1/2 (50%)  01:15")
	assert.Contains(t, out, "  A) 3\n")
	assert.Contains(t, out, "  B) 4  *\n")
}

func TestTerminal_Result(t *testing.T) {
	term, buf := newTestTerminal(t)

	term.Result(engine.View{
		Questions: questions,
		Result: &quiz.AttemptResult{
			Score:            1,
			TotalQuestions:   2,
			CorrectIndices:   []int{0},
			UserAnswers:      map[int]string{0: "4", 1: "Лион"},
			TimeTakenSeconds: 42,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Результат: 1 из 2 (50%)")
	assert.Contains(t, out, "Время: 00:42")
	assert.Contains(t, out, "✓ 1. 2 + 2?")
	assert.Contains(t, out, "Арифметика.")
	assert.Contains(t, out, "✗ 2. Столица Франции?")
	assert.Contains(t, out, "правильный ответ: Париж")
}

func TestTerminal_ResultWithoutAttempt(t *testing.T) {
	term, buf := newTestTerminal(t)

	term.Result(engine.View{})
	assert.Empty(t, buf.String())
}

func TestTerminal_Summary(t *testing.T) {
	term, buf := newTestTerminal(t)

	term.Summary(stats.Summary{
		Statistics: stats.Statistics{
			TotalAttempts:       4,
			AverageScorePercent: 68,
			BestScorePercent:    90,
			WorstScorePercent:   50,
			ImprovementTrend:    stats.TrendImproving,
		},
		SubjectCount:   2,
		QuizzesStarted: 8,
		CompletionRate: 0.5,
	})

	out := buf.String()
	assert.Contains(t, out, "Попыток: 4")
	assert.Contains(t, out, "Средний результат: 68%, лучший: 90%, худший: 50%")
	assert.Contains(t, out, "Динамика: растёт")
	assert.Contains(t, out, "Видео: 2, начато тестов: 8, завершено: 50%")
}

func TestTerminal_Document(t *testing.T) {
	term, buf := newTestTerminal(t)

	require.NoError(t, term.Document("../history.csv", []byte("a,b\n")))

	data, err := os.ReadFile(filepath.Join(term.dir, "history.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
	assert.Contains(t, buf.String(), "Файл сохранён")
}
