package identity

import (
	"context"
	"errors"
	"fmt"

	"fortyone/internal/ports"
)

// Reconciler turns a joining session into the player id it plays as. A valid
// rejoin ticket reclaims the seat named in the ticket; otherwise the Nakama
// user id is the player id.
type Reconciler struct {
	store   ports.IdentityPort
	tickets *TicketIssuer
}

// NewReconciler wires a store and an optional ticket issuer.
func NewReconciler(store ports.IdentityPort, tickets *TicketIssuer) *Reconciler {
	return &Reconciler{store: store, tickets: tickets}
}

// Claim returns the player id a joining user would act as without binding
// anything. A rejected ticket falls back to userID and is reported.
func (r *Reconciler) Claim(matchID, userID, ticket string) (string, error) {
	if ticket == "" || r.tickets == nil {
		return userID, nil
	}
	id, err := r.tickets.Verify(ticket, matchID)
	if err != nil {
		return userID, err
	}
	return id, nil
}

// Attach binds sessionID and returns the player id it acts for. A rejected
// ticket is reported alongside the fallback binding so callers can log it.
func (r *Reconciler) Attach(ctx context.Context, matchID, sessionID, userID, ticket string) (string, error) {
	playerID, ticketErr := r.Claim(matchID, userID, ticket)
	if err := r.store.Bind(ctx, matchID, sessionID, playerID); err != nil {
		return "", fmt.Errorf("bind session %s: %w", sessionID, err)
	}
	return playerID, ticketErr
}

// Resolve returns the player id behind sessionID.
func (r *Reconciler) Resolve(ctx context.Context, matchID, sessionID string) (string, error) {
	return r.store.Resolve(ctx, matchID, sessionID)
}

// Session returns the live session of playerID, or "" when disconnected.
func (r *Reconciler) Session(ctx context.Context, matchID, playerID string) (string, error) {
	sid, err := r.store.Session(ctx, matchID, playerID)
	if errors.Is(err, ports.ErrSessionNotBound) {
		return "", nil
	}
	return sid, err
}

// Detach releases sessionID. The seat it held stays with its player id.
func (r *Reconciler) Detach(ctx context.Context, matchID, sessionID string) error {
	return r.store.Release(ctx, matchID, sessionID)
}

// Purge forgets every session of matchID.
func (r *Reconciler) Purge(ctx context.Context, matchID string) error {
	return r.store.Purge(ctx, matchID)
}

// Ticket issues a rejoin ticket for playerID, or "" when tickets are disabled.
func (r *Reconciler) Ticket(matchID, playerID string) (string, error) {
	if r.tickets == nil {
		return "", nil
	}
	return r.tickets.Issue(matchID, playerID)
}
