package stats

import (
	"math"
	"sort"

	"github.com/letsssgooo/knowledgecheck/internal/quiz"
)

// Trend описывает направление изменения результатов.
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendDeclining        Trend = "declining"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// TrendDeadband задаёт разницу в процентных пунктах, ниже которой тренд считается стабильным.
const TrendDeadband = 5

// MinAttemptsForTrend задаёт минимальное количество попыток для расчёта тренда.
const MinAttemptsForTrend = 4

// Statistics содержит сводку по истории попыток одного видео.
type Statistics struct {
	TotalAttempts       int   `json:"total_attempts"`
	AverageScorePercent int   `json:"average_score_percent"`
	BestScorePercent    int   `json:"best_score_percent"`
	WorstScorePercent   int   `json:"worst_score_percent"`
	ImprovementTrend    Trend `json:"improvement_trend"`
}

// Summary содержит сводку по всем видео пользователя.
type Summary struct {
	Statistics
	SubjectCount   int     `json:"subject_count"`
	QuizzesStarted int     `json:"quizzes_started"`
	CompletionRate float64 `json:"completion_rate"`
}

// Aggregate считает статистику по попыткам в хронологическом порядке.
// Пустая история даёт нули и insufficient_data.
func Aggregate(history []quiz.AttemptResult) Statistics {
	st := Statistics{
		TotalAttempts:    len(history),
		ImprovementTrend: TrendInsufficientData,
	}

	if len(history) == 0 {
		return st
	}

	percents := make([]int, len(history))
	for i := range history {
		percents[i] = quiz.Percent(history[i].Score, history[i].TotalQuestions)
	}

	st.AverageScorePercent = int(math.Round(mean(percents)))
	st.BestScorePercent = percents[0]
	st.WorstScorePercent = percents[0]

	for _, p := range percents[1:] {
		if p > st.BestScorePercent {
			st.BestScorePercent = p
		}

		if p < st.WorstScorePercent {
			st.WorstScorePercent = p
		}
	}

	st.ImprovementTrend = trend(percents)

	return st
}

// trend сравнивает средние старой и новой половин истории.
func trend(percents []int) Trend {
	if len(percents) < MinAttemptsForTrend {
		return TrendInsufficientData
	}

	mid := len(percents) / 2
	delta := mean(percents[mid:]) - mean(percents[:mid])

	switch {
	case delta > TrendDeadband:
		return TrendImproving
	case delta < -TrendDeadband:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0
	for _, v := range values {
		sum += v
	}

	return float64(sum) / float64(len(values))
}

// Rollup объединяет попытки всех видео в хронологическом порядке и считает общую статистику.
// started берётся из хранилища: сколько тестов было начато.
func Rollup(bySubject map[string][]quiz.AttemptResult, started int) Summary {
	total := 0
	for _, attempts := range bySubject {
		total += len(attempts)
	}

	subjects := make([]string, 0, len(bySubject))
	for subject := range bySubject {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	all := make([]quiz.AttemptResult, 0, total)
	for _, subject := range subjects {
		all = append(all, bySubject[subject]...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].SubmittedAt.Before(all[j].SubmittedAt)
	})

	return Summary{
		Statistics:     Aggregate(all),
		SubjectCount:   len(bySubject),
		QuizzesStarted: started,
		CompletionRate: completionRate(total, started),
	}
}

func completionRate(submitted, started int) float64 {
	if started <= 0 {
		return 0
	}

	rate := float64(submitted) / float64(started)
	if rate > 1 {
		rate = 1
	}

	return rate
}
