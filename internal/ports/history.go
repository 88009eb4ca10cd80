package ports

import (
	"context"

	"fortyone/internal/domain"
)

// HistoryPort archives scored rounds for replay and spectator views.
type HistoryPort interface {
	// ArchiveRound stores a round summary. Re-archiving the same round number
	// for a game is a no-op.
	ArchiveRound(ctx context.Context, gameID string, summary domain.RoundSummary) error

	// ListRounds returns the archived rounds of gameID ordered by round number.
	ListRounds(ctx context.Context, gameID string) ([]domain.RoundSummary, error)
}
