package nakama

import (
	"context"
	"fmt"

	"fortyone/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaProfileAdapter implements ports.ProfilePort using Nakama's account API.
type NakamaProfileAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaProfileAdapter creates a new profile adapter.
func NewNakamaProfileAdapter(nk runtime.NakamaModule) *NakamaProfileAdapter {
	return &NakamaProfileAdapter{nk: nk}
}

func (a *NakamaProfileAdapter) DisplayName(ctx context.Context, userID string) (string, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get account %s: %w", userID, err)
	}
	user := account.GetUser()
	if name := user.GetDisplayName(); name != "" {
		return name, nil
	}
	return user.GetUsername(), nil
}

// SetDisplayName passes an empty username so Nakama keeps the current one.
func (a *NakamaProfileAdapter) SetDisplayName(ctx context.Context, userID, displayName string) error {
	return a.nk.AccountUpdateId(ctx, userID, "", nil, displayName, "", "", "", "")
}

var _ ports.ProfilePort = (*NakamaProfileAdapter)(nil)
