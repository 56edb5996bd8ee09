package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/knowledgecheck/internal/quiz"
)

const questionSetJSON = `{
	"video_id": "vid-1",
	"generated_at": "2026-03-01T12:00:00Z",
	"questions": [
		{"question": "Q1", "options": ["A", "B"], "correct_answer": "A", "explanation": "E1"},
		{"question": "Q2", "options": ["A", "B"], "correct_answer": "B", "explanation": "E2"}
	]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewHTTPClient(srv.URL+"/", "secret", 0)
}

func TestGenerateQuiz(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/quiz/generate", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "vid-1", req.VideoID)

		_, _ = io.WriteString(w, questionSetJSON)
	})

	set, err := c.GenerateQuiz(context.Background(), "vid-1")
	require.NoError(t, err)
	assert.Equal(t, "vid-1", set.VideoID)
	assert.Len(t, set.Questions, 2)
}

func TestGetQuiz_InvalidSet(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quiz/vid-1", r.URL.Path)
		_, _ = io.WriteString(w, `{"video_id": "vid-1", "questions": []}`)
	})

	set, err := c.GetQuiz(context.Background(), "vid-1")
	assert.ErrorIs(t, err, quiz.ErrInvalidQuestionSet)
	assert.Nil(t, set)
}

func TestSubmitQuiz(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quiz/submit", r.URL.Path)

		var sub quiz.Submission
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
		assert.Equal(t, "vid-1", sub.VideoID)
		if assert.Len(t, sub.Answers, 2) {
			assert.Equal(t, 1, sub.Answers[1].QuestionIndex)
		}

		_, _ = io.WriteString(w, `{
			"result": {
				"id": "r1",
				"video_id": "vid-1",
				"score": 1,
				"total_questions": 2,
				"correct_indices": [0],
				"user_answers": {"0": "A", "1": "A"},
				"submitted_at": "2026-03-01T12:05:00Z",
				"time_taken_seconds": 33
			},
			"questions": [
				{"question": "Q1", "options": ["A", "B"], "correct_answer": "A"},
				{"question": "Q2", "options": ["A", "B"], "correct_answer": "B"}
			]
		}`)
	})

	resp, err := c.SubmitQuiz(context.Background(), quiz.Submission{
		VideoID: "vid-1",
		Answers: []quiz.Answer{
			{QuestionIndex: 0, SelectedAnswer: "A"},
			{QuestionIndex: 1, SelectedAnswer: "A"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Result.Score)
	assert.Equal(t, []int{0}, resp.Result.CorrectIndices)
	assert.Equal(t, "A", resp.Result.UserAnswers[1])
	assert.Equal(t, 33, resp.Result.TimeTakenSeconds)
	assert.Len(t, resp.Questions, 2)
}

func TestListAttempts(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/quiz/vid%201/attempts", r.URL.EscapedPath())

		_, _ = io.WriteString(w, `{"attempts": [{"id": "r1", "score": 2, "total_questions": 4}]}`)
	})

	attempts, err := c.ListAttempts(context.Background(), "vid 1")
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, 2, attempts[0].Score)
}

func TestListAllAttempts(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quiz/attempts", r.URL.Path)

		_, _ = io.WriteString(w, `{
			"attempts": {"a": [{"id": "1"}], "b": [{"id": "2"}, {"id": "3"}]},
			"quizzes_started": 5
		}`)
	})

	all, err := c.ListAllAttempts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, all.QuizzesStarted)
	assert.Len(t, all.Attempts["b"], 2)
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"json error field", http.StatusBadRequest, `{"error": "quiz not ready"}`, "quiz not ready"},
		{"json detail field", http.StatusUnauthorized, `{"detail": "token expired"}`, "token expired"},
		{"plain text", http.StatusBadGateway, "upstream down\n", "upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.ListAttempts(context.Background(), "v")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestSummary(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{
			"attempts": {
				"a": [{"id": "1", "score": 1, "total_questions": 2, "submitted_at": "2026-03-01T12:00:00Z"}],
				"b": [{"id": "2", "score": 2, "total_questions": 2, "submitted_at": "2026-03-02T12:00:00Z"}]
			},
			"quizzes_started": 4
		}`)
	})

	sum, err := c.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalAttempts)
	assert.Equal(t, 75, sum.AverageScorePercent)
	assert.Equal(t, 2, sum.SubjectCount)
	assert.InDelta(t, 0.5, sum.CompletionRate, 1e-9)
}
