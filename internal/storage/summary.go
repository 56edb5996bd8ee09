package storage

import (
	"context"
	"fmt"

	"github.com/letsssgooo/knowledgecheck/internal/stats"
)

// Summary собирает сводку по всем видео из журнала попыток.
func Summary(ctx context.Context, st Storage) (stats.Summary, error) {
	all, err := st.ListAllAttempts(ctx)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("failed to list attempts: %w", err)
	}

	started, err := st.CountStarted(ctx)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("failed to count started quizzes: %w", err)
	}

	return stats.Rollup(all, started), nil
}
