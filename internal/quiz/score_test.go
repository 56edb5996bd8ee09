package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_CaseSensitive(t *testing.T) {
	questions := []Question{
		{Question: "Capital of France?", Options: []string{"Paris", "paris"}, CorrectAnswer: "Paris"},
	}

	result, err := Score(questions, []Answer{{0, "paris"}}, ScoreOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Empty(t, result.CorrectIndices)

	result, err = Score(questions, []Answer{{0, "  Paris "}}, ScoreOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, "Paris", result.UserAnswers[0])
}

func TestScore_Fields(t *testing.T) {
	questions := newTestSet(t, 4).Questions // верные: A, B, C, D
	answers := []Answer{{0, "A"}, {1, "C"}, {2, "C"}, {3, ""}}
	submittedAt := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	result, err := Score(questions, answers, ScoreOptions{
		VideoID:          "v",
		SubmittedAt:      submittedAt,
		TimeTakenSeconds: 99,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.Equal(t, []int{0, 2}, result.CorrectIndices)
	assert.Equal(t, map[int]string{0: "A", 1: "C", 2: "C", 3: ""}, result.UserAnswers)
	assert.Equal(t, submittedAt, result.SubmittedAt)
	assert.Equal(t, 99, result.TimeTakenSeconds)
	assert.Equal(t, "v", result.VideoID)
	assert.NotEmpty(t, result.ID)

	assert.True(t, result.IsCorrect(2))
	assert.False(t, result.IsCorrect(1))
}

func TestScore_Bounds(t *testing.T) {
	questions := newTestSet(t, 4).Questions

	for _, letters := range [][]string{
		{"A", "B", "C", "D"},
		{"D", "C", "B", "A"},
		{"", "", "", ""},
		{"x", "B", "y", "D"},
	} {
		answers := make([]Answer, len(letters))
		for i, l := range letters {
			answers[i] = Answer{QuestionIndex: i, SelectedAnswer: l}
		}

		result, err := Score(questions, answers, ScoreOptions{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Score, 0)
		assert.LessOrEqual(t, result.Score, len(questions))
	}
}

func TestScore_Malformed(t *testing.T) {
	questions := newTestSet(t, 2).Questions

	result, err := Score(questions, []Answer{{1, "A"}, {0, "B"}}, ScoreOptions{})
	assert.ErrorIs(t, err, ErrMalformedSubmission)
	assert.Nil(t, result)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{5, 5, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.score, tt.total), "%d/%d", tt.score, tt.total)
	}
}

func TestReview(t *testing.T) {
	questions := newTestSet(t, 2).Questions

	result, err := Score(questions, []Answer{{0, "A"}, {1, "D"}}, ScoreOptions{})
	require.NoError(t, err)

	reviews := Review(questions, result)
	require.Len(t, reviews, 2)

	assert.Equal(t, 1, reviews[0].Number)
	assert.True(t, reviews[0].Correct)
	assert.Equal(t, "A", reviews[0].Selected)

	assert.False(t, reviews[1].Correct)
	assert.Equal(t, "D", reviews[1].Selected)
	assert.Equal(t, "B", reviews[1].CorrectAnswer)
	assert.Equal(t, "because", reviews[1].Explanation)
}

func TestLetters(t *testing.T) {
	idx, ok := LetterToIndex("c")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = LetterToIndex("e")
	assert.False(t, ok)

	assert.Equal(t, "B", IndexToLetter(1))
	assert.Equal(t, "", IndexToLetter(4))

	idx, ok = DigitToIndex("9")
	assert.True(t, ok)
	assert.Equal(t, 8, idx)

	_, ok = DigitToIndex("10")
	assert.False(t, ok)
}
