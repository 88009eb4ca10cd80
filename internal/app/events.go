package app

import (
	"fortyone/internal/domain"
	"fortyone/internal/stats"
)

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined  EventKind = "player_joined"
	EventPlayerLeft    EventKind = "player_left"
	EventGameUpdated   EventKind = "game_updated"
	EventTrickResolved EventKind = "trick_resolved"
	EventRoundEnded    EventKind = "round_ended"
	EventGameOver      EventKind = "game_over"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	PlayerID string        `json:"player_id"`
	Team     domain.TeamID `json:"team"`
	Bot      bool          `json:"bot"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
}

// GameUpdatedPayload names the action that changed the state. The state itself
// is projected per viewer by the transport.
type GameUpdatedPayload struct {
	Action  domain.ActionType `json:"action"`
	ActorID string            `json:"actor_id"`
	// BettingRestarted is set when every seat skipped and bidding reopened.
	BettingRestarted bool `json:"betting_restarted,omitempty"`
	// RematchStarted is set when the last vote reset the game.
	RematchStarted bool `json:"rematch_started,omitempty"`
}

type TrickResolvedPayload struct {
	Trick domain.TrickRecord `json:"trick"`
}

type RoundEndedPayload struct {
	Summary domain.RoundSummary `json:"summary"`
	Stats   *stats.Summary      `json:"stats,omitempty"`
}

type GameOverPayload struct {
	Winner domain.TeamID     `json:"winner"`
	Scores domain.TeamScores `json:"scores"`
}
