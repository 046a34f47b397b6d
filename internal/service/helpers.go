package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/repository"
)

func nowOr(t *time.Time) time.Time {
	if t != nil {
		return t.UTC()
	}
	return time.Now().UTC()
}

func sessionErr(code app.SessionErrorCode, format string, args ...any) error {
	return &app.SessionError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func discardIfNil(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// loadPainMemory returns the stored memory, a fresh one when none exists,
// and a fresh one flagged as reset when the stored state is unreadable.
func loadPainMemory(ctx context.Context, repo repository.PainMemoryRepo, userID string, logger *slog.Logger) (*domain.PainMemory, bool, error) {
	m, err := repo.Get(ctx, userID)
	switch {
	case err == nil:
		return m, false, nil
	case errors.Is(err, repository.ErrNotFound):
		return domain.NewPainMemory(userID), false, nil
	case errors.Is(err, repository.ErrCorruptState):
		logger.WarnContext(ctx, "unreadable pain memory, starting empty", "user_id", userID, "error", err)
		return domain.NewPainMemory(userID), true, nil
	default:
		return nil, false, fmt.Errorf("loading pain memory: %w", err)
	}
}

// previousWeeks returns the week starts of the n completed weeks before now,
// oldest first.
func previousWeeks(now time.Time, n int) []time.Time {
	current := domain.WeekStart(now)
	out := make([]time.Time, 0, n)
	for k := n; k >= 1; k-- {
		out = append(out, current.AddDate(0, 0, -7*k))
	}
	return out
}
