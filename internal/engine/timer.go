package engine

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ticker выполняет фоновое обновление прошедшего времени для одной сессии.
type ticker struct {
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

func (t *ticker) stop() {
	t.once.Do(t.cancel)
}

func (t *ticker) running() bool {
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// StartTimer запускает фоновый Tick с периодом interval.
// Таймер останавливается при отправке, замене сессии, Close или отмене ctx.
// Повторный вызов перезапускает таймер.
func (e *Engine) StartTimer(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("tick interval must be positive")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return ErrNoSession
	}

	e.stopTimerLocked()

	timerCtx, cancel := context.WithCancel(ctx)
	t := &ticker{cancel: cancel, done: make(chan struct{})}
	e.timer = t

	go e.runTimer(timerCtx, t, interval)

	return nil
}

// TimerRunning сообщает, работает ли сейчас таймер.
func (e *Engine) TimerRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.timer != nil && e.timer.running()
}

func (e *Engine) runTimer(ctx context.Context, t *ticker, interval time.Duration) {
	defer close(t.done)

	tk := time.NewTicker(interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			if !e.Tick(e.now()) {
				t.stop()
				return
			}
		}
	}
}

func (e *Engine) stopTimerLocked() {
	if e.timer == nil {
		return
	}

	e.timer.stop()
	e.timer = nil
	e.log.Debug("timer stopped")
}
