package publisher

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	published []published
	err       error
	closed    bool
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}

	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})

	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublish(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "quiz.events", nil)
	p.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	err := p.Publish("quiz.attempt.submitted", map[string]int{"score": 3})
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "quiz.events", got.exchange)
	assert.Equal(t, "quiz.attempt.submitted", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)

	var env struct {
		Type       string         `json:"type"`
		Payload    map[string]int `json:"payload"`
		OccurredAt time.Time      `json:"occurred_at"`
	}
	require.NoError(t, json.Unmarshal(got.msg.Body, &env))
	assert.Equal(t, "quiz.attempt.submitted", env.Type)
	assert.Equal(t, 3, env.Payload["score"])
	assert.True(t, env.OccurredAt.Equal(p.now()))

	p.Close()
	assert.True(t, ch.closed)
}

func TestPublish_Errors(t *testing.T) {
	broken := errors.New("channel closed")
	p := newPublisher(&fakeChannel{err: broken}, "quiz.events", nil)

	assert.ErrorIs(t, p.Publish("quiz.session.started", nil), broken)
	assert.Error(t, p.Publish("quiz.session.started", make(chan int)))
}
