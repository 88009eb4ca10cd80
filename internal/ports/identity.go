package ports

import (
	"context"
	"errors"
)

// ErrSessionNotBound is returned when a session has no player in a game.
var ErrSessionNotBound = errors.New("session not bound to a player")

// IdentityPort maps transient session handles to stable player ids, scoped
// per match. The engine only ever sees the player id.
type IdentityPort interface {
	// Bind routes sessionID to playerID inside matchID, replacing any previous
	// session of that player.
	Bind(ctx context.Context, matchID, sessionID, playerID string) error

	// Resolve returns the player bound to sessionID or ErrSessionNotBound.
	Resolve(ctx context.Context, matchID, sessionID string) (string, error)

	// Session returns the live session of playerID or ErrSessionNotBound.
	Session(ctx context.Context, matchID, playerID string) (string, error)

	// Release drops the binding of sessionID. The player keeps its seat.
	Release(ctx context.Context, matchID, sessionID string) error

	// Purge removes every binding of matchID once the match is torn down.
	Purge(ctx context.Context, matchID string) error
}
