package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fortyone/internal/domain"
	"fortyone/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	historyCollection = "fortyone_rounds"
	historyReadBatch  = 8
)

// StorageHistory archives round summaries as system-owned Nakama storage
// objects, one per round.
type StorageHistory struct {
	nk runtime.NakamaModule
}

// NewStorageHistory creates a history adapter backed by Nakama storage.
func NewStorageHistory(nk runtime.NakamaModule) *StorageHistory {
	return &StorageHistory{nk: nk}
}

func roundKey(gameID string, number int) string {
	return fmt.Sprintf("%s:%03d", gameID, number)
}

// ArchiveRound writes the summary only if the round has not been archived yet.
func (h *StorageHistory) ArchiveRound(ctx context.Context, gameID string, summary domain.RoundSummary) error {
	if gameID == "" {
		return fmt.Errorf("gameID is required")
	}
	value, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal round %d: %w", summary.Number, err)
	}
	_, err = h.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      historyCollection,
			Key:             roundKey(gameID, summary.Number),
			Value:           string(value),
			Version:         "*",
			PermissionRead:  runtime.STORAGE_PERMISSION_PUBLIC_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if errors.Is(err, runtime.ErrStorageRejectedVersion) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to archive round %d of %s: %w", summary.Number, gameID, err)
	}
	return nil
}

// ListRounds reads rounds 1, 2, ... in batches until one is missing.
func (h *StorageHistory) ListRounds(ctx context.Context, gameID string) ([]domain.RoundSummary, error) {
	var out []domain.RoundSummary
	for first := 1; ; first += historyReadBatch {
		reads := make([]*runtime.StorageRead, 0, historyReadBatch)
		for n := first; n < first+historyReadBatch; n++ {
			reads = append(reads, &runtime.StorageRead{Collection: historyCollection, Key: roundKey(gameID, n)})
		}
		objects, err := h.nk.StorageRead(ctx, reads)
		if err != nil {
			return nil, fmt.Errorf("failed to read rounds of %s: %w", gameID, err)
		}
		byKey := make(map[string]string, len(objects))
		for _, obj := range objects {
			byKey[obj.GetKey()] = obj.GetValue()
		}
		for n := first; n < first+historyReadBatch; n++ {
			value, ok := byKey[roundKey(gameID, n)]
			if !ok {
				return out, nil
			}
			var summary domain.RoundSummary
			if err := json.Unmarshal([]byte(value), &summary); err != nil {
				return nil, fmt.Errorf("failed to decode round %d of %s: %w", n, gameID, err)
			}
			out = append(out, summary)
		}
	}
}

var _ ports.HistoryPort = (*StorageHistory)(nil)
