package domain

import (
	"errors"
	"fmt"
)

// Rejection codes carried by ValidationError.
const (
	CodeUnknownAction    = "unknown_action"
	CodeUnknownPlayer    = "unknown_player"
	CodeWrongPhase       = "wrong_phase"
	CodeNotYourTurn      = "not_your_turn"
	CodeAlreadyPlayed    = "already_played"
	CodeTrickFull        = "trick_full"
	CodeInvalidCard      = "invalid_card"
	CodeCardNotInHand    = "card_not_in_hand"
	CodeMustFollowSuit   = "must_follow_suit"
	CodeAlreadyBet       = "already_bet"
	CodeBetOutOfRange    = "bet_out_of_range"
	CodeDealerMustBid    = "dealer_must_bid"
	CodeInvalidTeam      = "invalid_team"
	CodeAlreadyOnTeam    = "already_on_team"
	CodeTeamFull         = "team_full"
	CodeSelfSwap         = "self_swap"
	CodeNotEnoughPlayers = "not_enough_players"
	CodeTeamsUnbalanced  = "teams_unbalanced"
	CodeAlreadyVoted     = "already_voted"
	CodeGameFull         = "game_full"
	CodeDuplicatePlayer  = "duplicate_player"
)

// ValidationError describes why an action was rejected. It is recoverable:
// the actor may retry with a corrected action.
type ValidationError struct {
	Action ActionType
	Code   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Reason)
	}
	return fmt.Sprintf("%s rejected (%s): %s", e.Action, e.Code, e.Reason)
}

func reject(action ActionType, code, format string, args ...any) *ValidationError {
	return &ValidationError{Action: action, Code: code, Reason: fmt.Sprintf(format, args...)}
}

// ErrInvariant is the sentinel every InvariantViolation unwraps to.
var ErrInvariant = errors.New("game invariant violated")

// InvariantViolation is raised by a state transition that was reached without
// passing validation. It signals a caller bug and is never returned.
type InvariantViolation struct {
	Op     string
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvariant, e.Op, e.Reason)
}

func (e *InvariantViolation) Unwrap() error {
	return ErrInvariant
}

func invariant(op, format string, args ...any) {
	panic(&InvariantViolation{Op: op, Reason: fmt.Sprintf(format, args...)})
}
