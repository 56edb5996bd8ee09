package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/knowledgecheck/internal/quiz"
	"github.com/letsssgooo/knowledgecheck/internal/storage"
)

// newTestStorage подключается к базе из QUIZ_TEST_DSN; без неё тест пропускается.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	dsn := os.Getenv("QUIZ_TEST_DSN")
	if dsn == "" {
		t.Skip("QUIZ_TEST_DSN is not set")
	}

	ctx := context.Background()

	st, err := NewStorage(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(st.Close)

	require.NoError(t, st.Migrate(ctx))

	return st
}

func TestStorage_Attempts(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	videoID := "video-" + uuid.NewString()
	base := time.Now().UTC().Truncate(time.Second)

	second := &quiz.AttemptResult{
		ID:               uuid.NewString(),
		VideoID:          videoID,
		Score:            2,
		TotalQuestions:   3,
		CorrectIndices:   []int{0, 2},
		UserAnswers:      map[int]string{0: "A", 1: "B", 2: "C"},
		SubmittedAt:      base.Add(time.Minute),
		TimeTakenSeconds: 40,
	}
	first := &quiz.AttemptResult{
		ID:             uuid.NewString(),
		VideoID:        videoID,
		Score:          0,
		TotalQuestions: 3,
		CorrectIndices: []int{},
		UserAnswers:    map[int]string{0: "", 1: "", 2: ""},
		SubmittedAt:    base,
	}

	require.NoError(t, st.SaveAttempt(ctx, second))
	require.NoError(t, st.SaveAttempt(ctx, first))

	attempts, err := st.ListAttempts(ctx, videoID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, first.ID, attempts[0].ID)
	assert.Equal(t, second.ID, attempts[1].ID)
	assert.Equal(t, []int{0, 2}, attempts[1].CorrectIndices)
	assert.Equal(t, "B", attempts[1].UserAnswers[1])
	assert.True(t, second.SubmittedAt.Equal(attempts[1].SubmittedAt))

	got, err := st.GetAttempt(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.TimeTakenSeconds)

	_, err = st.GetAttempt(ctx, uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	all, err := st.ListAllAttempts(ctx)
	require.NoError(t, err)
	assert.Len(t, all[videoID], 2)
}

func TestStorage_Starts(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	before, err := st.CountStarted(ctx)
	require.NoError(t, err)

	require.NoError(t, st.RecordStart(ctx, "video-"+uuid.NewString()))

	after, err := st.CountStarted(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}
