package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is one entry of the bot roster.
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "medium", "hard"
}

var (
	rosterMu  sync.RWMutex
	roster    []BotIdentity
	rosterIDs map[string]int
	loadOnce  sync.Once
	loadErr   error
)

// LoadIdentities loads the bot roster from path once per process.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		var ids []BotIdentity
		if err := json.Unmarshal(data, &ids); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}
		setRoster(ids)
	})
	return loadErr
}

func setRoster(ids []BotIdentity) {
	rosterMu.Lock()
	defer rosterMu.Unlock()
	rosterIDs = make(map[string]int, len(ids))
	for i := range ids {
		// Unprovisioned bots play under a local id until ProvisionBots runs.
		if ids[i].UserID == "" {
			ids[i].UserID = "bot:" + ids[i].Username
		}
		rosterIDs[ids[i].UserID] = i
	}
	roster = ids
}

// ProvisionBots authenticates every device-backed bot so it owns a real
// Nakama account, and tags the account as a bot.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) {
	rosterMu.RLock()
	ids := append([]BotIdentity(nil), roster...)
	rosterMu.RUnlock()

	for i := range ids {
		identity := &ids[i]
		if identity.DeviceID == "" {
			continue
		}
		userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
		if err != nil {
			logger.Error("ProvisionBots: failed to authenticate bot %s: %v", identity.Username, err)
			continue
		}
		identity.UserID = userID
		identity.Username = username

		metadata := map[string]interface{}{
			"is_bot":     true,
			"difficulty": identity.Difficulty,
		}
		if err := nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
			logger.Warn("ProvisionBots: failed to update bot account %s: %v", userID, err)
		}
		logger.Info("ProvisionBots: bot %s (%s) ready, difficulty %s", identity.DisplayName, userID, identity.Difficulty)
	}
	setRoster(ids)
}

// GetBotIdentity returns a roster entry by index (mod roster size). Without a
// roster a synthetic identity is returned.
func GetBotIdentity(index int) BotIdentity {
	rosterMu.RLock()
	defer rosterMu.RUnlock()
	if len(roster) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			Username:    fmt.Sprintf("bot%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
			Difficulty:  BotLevelMedium.String(),
		}
	}
	return roster[index%len(roster)]
}

// IsBot reports whether userID belongs to the roster.
func IsBot(userID string) bool {
	rosterMu.RLock()
	defer rosterMu.RUnlock()
	_, ok := rosterIDs[userID]
	return ok
}

// GetBotDisplayName returns the display name of a roster bot, or "".
func GetBotDisplayName(userID string) string {
	rosterMu.RLock()
	defer rosterMu.RUnlock()
	i, ok := rosterIDs[userID]
	if !ok {
		return ""
	}
	if roster[i].DisplayName == "" {
		return roster[i].Username
	}
	return roster[i].DisplayName
}
