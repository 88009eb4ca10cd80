// Package postgres archives scored rounds in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"fortyone/internal/domain"
	"fortyone/internal/ports"
)

const uniqueViolation = pq.ErrorCode("23505")

// HistoryStore implements ports.HistoryPort on a single rounds table.
type HistoryStore struct {
	db *sql.DB
}

// Open connects to dsn and configures the pool.
func Open(ctx context.Context, dsn string) (*HistoryStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return NewHistoryStore(db), nil
}

// NewHistoryStore wraps an open pool.
func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Migrate creates the rounds table if it does not exist.
func (s *HistoryStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS fortyone_rounds (
			game_id       VARCHAR(64)  NOT NULL,
			round_number  INT          NOT NULL,
			dealer_id     VARCHAR(128) NOT NULL,
			bidder_id     VARCHAR(128) NOT NULL,
			bet_amount    INT          NOT NULL,
			without_trump BOOLEAN      NOT NULL,
			trump         VARCHAR(16),
			trick_winners TEXT[]       NOT NULL,
			team1_round   INT          NOT NULL,
			team2_round   INT          NOT NULL,
			team1_total   INT          NOT NULL,
			team2_total   INT          NOT NULL,
			summary       JSONB        NOT NULL,
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			PRIMARY KEY (game_id, round_number)
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate fortyone_rounds: %w", err)
	}
	return nil
}

func (s *HistoryStore) ArchiveRound(ctx context.Context, gameID string, summary domain.RoundSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode round %d: %w", summary.Number, err)
	}
	var trump sql.NullString
	if summary.Trump != nil {
		trump = sql.NullString{String: summary.Trump.String(), Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO fortyone_rounds (
			game_id, round_number, dealer_id, bidder_id, bet_amount, without_trump,
			trump, trick_winners, team1_round, team2_round, team1_total, team2_total, summary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		gameID, summary.Number, summary.DealerID, summary.WinningBet.PlayerID,
		summary.WinningBet.Amount, summary.WinningBet.WithoutTrump, trump,
		pq.Array(trickWinners(summary)),
		summary.RoundScores.Team1, summary.RoundScores.Team2,
		summary.TotalScores.Team1, summary.TotalScores.Team2, payload,
	)
	if isUniqueViolation(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("insert round %d of %s: %w", summary.Number, gameID, err)
	}
	return nil
}

func (s *HistoryStore) ListRounds(ctx context.Context, gameID string) ([]domain.RoundSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT summary FROM fortyone_rounds WHERE game_id = $1 ORDER BY round_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query rounds of %s: %w", gameID, err)
	}
	defer rows.Close()

	var out []domain.RoundSummary
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		var summary domain.RoundSummary
		if err := json.Unmarshal(payload, &summary); err != nil {
			return nil, fmt.Errorf("decode round: %w", err)
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// Close closes the pool.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func trickWinners(summary domain.RoundSummary) []string {
	out := make([]string, len(summary.Tricks))
	for i, tr := range summary.Tricks {
		out[i] = tr.WinnerID
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

var _ ports.HistoryPort = (*HistoryStore)(nil)
