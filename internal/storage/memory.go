package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/letsssgooo/knowledgecheck/internal/quiz"
)

// MemoryStorage реализует Storage в памяти.
type MemoryStorage struct {
	attempts map[string][]quiz.AttemptResult // ключ - videoID
	byID     map[string]quiz.AttemptResult
	started  int
	mu       sync.RWMutex
}

// NewMemoryStorage создаёт новый MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		attempts: make(map[string][]quiz.AttemptResult),
		byID:     make(map[string]quiz.AttemptResult),
	}
}

// SaveAttempt сохраняет попытку.
func (s *MemoryStorage) SaveAttempt(ctx context.Context, result *quiz.AttemptResult) error {
	if result == nil {
		return fmt.Errorf("attempt is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[result.ID]; ok {
		return fmt.Errorf("attempt %s already saved", result.ID)
	}

	stored := cloneAttempt(*result)
	s.byID[result.ID] = stored
	s.attempts[result.VideoID] = append(s.attempts[result.VideoID], stored)

	return nil
}

// GetAttempt возвращает попытку по ID.
func (s *MemoryStorage) GetAttempt(ctx context.Context, id string) (*quiz.AttemptResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attempt, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("attempt %s: %w", id, ErrNotFound)
	}

	clone := cloneAttempt(attempt)

	return &clone, nil
}

// ListAttempts возвращает попытки по видео.
func (s *MemoryStorage) ListAttempts(ctx context.Context, videoID string) ([]quiz.AttemptResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return chronological(s.attempts[videoID]), nil
}

// ListAllAttempts возвращает попытки по всем видео.
func (s *MemoryStorage) ListAllAttempts(ctx context.Context) (map[string][]quiz.AttemptResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make(map[string][]quiz.AttemptResult, len(s.attempts))
	for videoID, attempts := range s.attempts {
		all[videoID] = chronological(attempts)
	}

	return all, nil
}

// RecordStart увеличивает счётчик начатых тестов.
func (s *MemoryStorage) RecordStart(ctx context.Context, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.started++

	return nil
}

// CountStarted возвращает количество начатых тестов.
func (s *MemoryStorage) CountStarted(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.started, nil
}

func chronological(attempts []quiz.AttemptResult) []quiz.AttemptResult {
	out := make([]quiz.AttemptResult, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, cloneAttempt(a))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})

	return out
}

func cloneAttempt(a quiz.AttemptResult) quiz.AttemptResult {
	a.CorrectIndices = append([]int(nil), a.CorrectIndices...)

	answers := make(map[int]string, len(a.UserAnswers))
	for k, v := range a.UserAnswers {
		answers[k] = v
	}
	a.UserAnswers = answers

	return a
}
