package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"fortyone/internal/domain"
	"fortyone/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

type roundHistoryRequest struct {
	GameID string `json:"game_id"`
}

type roundHistoryResponse struct {
	GameID string                `json:"game_id"`
	Rounds []domain.RoundSummary `json:"rounds"`
}

// newRoundHistoryRPC returns the archived rounds of a game.
//
// Payload: {"game_id": "..."}
// Returns: {"game_id": "...", "rounds": [...]}, rounds ordered by number.
func newRoundHistoryRPC(history ports.HistoryPort) func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error) {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
		if history == nil {
			return "", runtime.NewError("round history is disabled", 12) // UNIMPLEMENTED
		}

		var req roundHistoryRequest
		if err := json.Unmarshal([]byte(payload), &req); err != nil || req.GameID == "" {
			return "", runtime.NewError("payload must carry a game_id", 3) // INVALID_ARGUMENT
		}

		rounds, err := history.ListRounds(ctx, req.GameID)
		if err != nil {
			logger.Error("RpcRoundHistory [User:%s]: Failed to list rounds of %s: %v", userID, req.GameID, err)
			return "", runtime.NewError("failed to load round history", 13) // INTERNAL
		}
		if rounds == nil {
			rounds = []domain.RoundSummary{}
		}

		b, err := json.Marshal(roundHistoryResponse{GameID: req.GameID, Rounds: rounds})
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
