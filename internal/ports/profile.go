package ports

import "context"

// ProfilePort looks up and maintains public account details for players.
type ProfilePort interface {
	// DisplayName returns the name shown at the table for userID.
	// Falls back to the username when no display name is set.
	DisplayName(ctx context.Context, userID string) (string, error)

	// SetDisplayName updates the display name of userID, leaving the
	// username untouched.
	SetDisplayName(ctx context.Context, userID, displayName string) error
}
