package sender

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/letsssgooo/knowledgecheck/internal/engine"
	"github.com/letsssgooo/knowledgecheck/internal/quiz"
	"github.com/letsssgooo/knowledgecheck/internal/stats"
)

// Названия трендов
var trendNames = map[stats.Trend]string{
	stats.TrendImproving:        "растёт",
	stats.TrendDeclining:        "снижается",
	stats.TrendStable:           "стабильно",
	stats.TrendInsufficientData: "недостаточно данных",
}

// Terminal реализует вывод в терминал.
type Terminal struct {
	w   io.Writer
	dir string
	mu  sync.Mutex

	title   *color.Color
	good    *color.Color
	bad     *color.Color
	warn    *color.Color
	muted   *color.Color
	checked *color.Color
}

// NewTerminal создает новый объект структуры Terminal.
// Документы сохраняются в каталог dir.
func NewTerminal(w io.Writer, dir string) *Terminal {
	return &Terminal{
		w:       w,
		dir:     dir,
		title:   color.New(color.Bold),
		good:    color.New(color.FgGreen),
		bad:     color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		muted:   color.New(color.FgHiBlack),
		checked: color.New(color.FgCyan, color.Bold),
	}
}

// Message выводит текстовое сообщение.
func (t *Terminal) Message(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, _ = fmt.Fprintln(t.w, text)
}

// Warning выводит предупреждение.
func (t *Terminal) Warning(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, _ = t.warn.Fprintln(t.w, text)
}

// Question выводит текущий вопрос.
func (t *Terminal) Question(v engine.View) {
	t.mu.Lock()
	defer t.mu.Unlock()

	header := fmt.Sprintf("Вопрос %d/%d", v.CurrentIndex+1, v.Total)
	status := fmt.Sprintf("отвечено %d/%d (%d%%)  %s",
		v.Progress.Answered, v.Progress.Total, v.Progress.Percent, stats.FormatElapsed(v.ElapsedSeconds))

	_, _ = fmt.Fprintln(t.w)
	_, _ = t.title.Fprint(t.w, header)
	_, _ = t.muted.Fprintf(t.w, "  [%s]\n", status)
	_, _ = fmt.Fprintln(t.w, v.Question.Question)

	selected := v.Selected()
	for i, option := range v.Question.Options {
		line := fmt.Sprintf("  %s) %s", quiz.IndexToLetter(i), option)
		if option == selected {
			_, _ = t.checked.Fprintln(t.w, line+"  *")
			continue
		}
		_, _ = fmt.Fprintln(t.w, line)
	}

	switch {
	case v.Submitting:
		_, _ = t.muted.Fprintln(t.w, "Ответы отправляются...")
	case v.Status == quiz.StatusSubmitted:
		_, _ = t.muted.Fprintln(t.w, "Тест отправлен, ответы менять нельзя.")
	}
}

// Result выводит итог попытки.
func (t *Terminal) Result(v engine.View) {
	if v.Result == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	r := v.Result
	percent := quiz.Percent(r.Score, r.TotalQuestions)

	_, _ = fmt.Fprintln(t.w)
	_, _ = t.title.Fprintf(t.w, "Результат: %d из %d (%d%%)\n", r.Score, r.TotalQuestions, percent)
	_, _ = t.muted.Fprintf(t.w, "Время: %s\n", stats.FormatElapsed(r.TimeTakenSeconds))

	for _, review := range quiz.Review(v.Questions, r) {
		mark, c := "✗", t.bad
		if review.Correct {
			mark, c = "✓", t.good
		}

		_, _ = c.Fprintf(t.w, "%s %d. %s\n", mark, review.Number, review.Question)

		selected := review.Selected
		if strings.TrimSpace(selected) == "" {
			selected = "(нет ответа)"
		}
		_, _ = fmt.Fprintf(t.w, "    ваш ответ: %s\n", selected)
		if !review.Correct {
			_, _ = fmt.Fprintf(t.w, "    правильный ответ: %s\n", review.CorrectAnswer)
		}
		if review.Explanation != "" {
			_, _ = t.muted.Fprintf(t.w, "    %s\n", review.Explanation)
		}
	}
}

// Statistics выводит статистику по одному видео.
func (t *Terminal) Statistics(st stats.Statistics) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.writeStatistics(st)
}

// Summary выводит сводку по всем видео.
func (t *Terminal) Summary(sum stats.Summary) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.writeStatistics(sum.Statistics)
	_, _ = fmt.Fprintf(t.w, "Видео: %d, начато тестов: %d, завершено: %d%%\n",
		sum.SubjectCount, sum.QuizzesStarted, int(sum.CompletionRate*100+0.5))
}

func (t *Terminal) writeStatistics(st stats.Statistics) {
	_, _ = fmt.Fprintln(t.w)
	_, _ = t.title.Fprintf(t.w, "Попыток: %d\n", st.TotalAttempts)

	if st.TotalAttempts > 0 {
		_, _ = fmt.Fprintf(t.w, "Средний результат: %d%%, лучший: %d%%, худший: %d%%\n",
			st.AverageScorePercent, st.BestScorePercent, st.WorstScorePercent)
	}

	name, ok := trendNames[st.ImprovementTrend]
	if !ok {
		name = string(st.ImprovementTrend)
	}

	c := t.muted
	switch st.ImprovementTrend {
	case stats.TrendImproving:
		c = t.good
	case stats.TrendDeclining:
		c = t.bad
	}
	_, _ = c.Fprintf(t.w, "Динамика: %s\n", name)
}

// Document сохраняет файл в каталог вывода.
func (t *Terminal) Document(fileName string, data []byte) error {
	path := filepath.Join(t.dir, filepath.Base(fileName))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	t.Message("Файл сохранён: " + path)

	return nil
}
