package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/knowledgecheck/internal/quiz"
)

func TestAttemptModel_RoundTrip(t *testing.T) {
	result := &quiz.AttemptResult{
		ID:               "id-1",
		VideoID:          "video",
		Score:            2,
		TotalQuestions:   3,
		CorrectIndices:   []int{0, 2},
		UserAnswers:      map[int]string{0: "Paris", 1: "", 2: "Go"},
		SubmittedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		TimeTakenSeconds: 61,
	}

	model, err := NewAttemptModel(result)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 2}, model.CorrectIndices)
	assert.JSONEq(t, `{"0": "Paris", "1": "", "2": "Go"}`, string(model.UserAnswers))

	back, err := model.ToAttempt()
	require.NoError(t, err)
	assert.Equal(t, *result, back)
}

func TestAttemptModel_BadAnswers(t *testing.T) {
	model := &AttemptModel{ID: "x", UserAnswers: []byte(`{"zero": "A"}`)}

	_, err := model.ToAttempt()
	assert.Error(t, err)
}
