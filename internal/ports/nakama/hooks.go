package nakama

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"fortyone/internal/ports"

	jwt "github.com/form3tech-oss/jwt-go"
	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

var (
	nameAdjectives = []string{"Happy", "Shiny", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Wild"}
	nameNouns      = []string{"Panda", "Tiger", "Eagle", "Dolphin", "Wolf", "Otter", "Falcon", "Bear", "Fox", "Lion"}
)

// AfterAuthenticateDevice is triggered after an account is authenticated.
// New accounts get a friendly display name.
func AfterAuthenticateDevice(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateDeviceRequest) error {
	if !out.GetCreated() {
		return nil
	}
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		resolvedID, err := extractUserIDFromToken(out.GetToken())
		if err != nil {
			logger.Error("AfterAuthenticateDevice: Failed to extract user ID from token: %v", err)
			return err
		}
		userID = resolvedID
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if err := assignFriendlyName(ctx, NewNakamaProfileAdapter(nk), userID, rng); err != nil {
		// A missing display name only affects presentation.
		logger.Warn("AfterAuthenticateDevice: Failed to update profile for user %s: %v", userID, err)
		return nil
	}
	logger.Info("AfterAuthenticateDevice: Named new user %s", userID)
	return nil
}

func assignFriendlyName(ctx context.Context, profiles ports.ProfilePort, userID string, rng *rand.Rand) error {
	return profiles.SetDisplayName(ctx, userID, friendlyName(rng))
}

func friendlyName(rng *rand.Rand) string {
	adj := nameAdjectives[rng.Intn(len(nameAdjectives))]
	noun := nameNouns[rng.Intn(len(nameNouns))]
	return fmt.Sprintf("%s %s %d", adj, noun, rng.Intn(100))
}

// extractUserIDFromToken reads the uid claim of a session token. The token
// was just minted by Nakama so its signature is not checked here.
func extractUserIDFromToken(token string) (string, error) {
	parsed, _, err := new(jwt.Parser).ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected token claims")
	}
	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return "", fmt.Errorf("token claims missing uid")
	}
	return uid, nil
}
