package domain

// ActionType tags an inbound action.
type ActionType string

const (
	ActionSelectTeam   ActionType = "select_team"
	ActionSwapPosition ActionType = "swap_position"
	ActionStartGame    ActionType = "start_game"
	ActionPlaceBet     ActionType = "place_bet"
	ActionPlayCard     ActionType = "play_card"
	ActionVoteRematch  ActionType = "vote_rematch"
)

// Action is a transport-independent request from a player. Only the fields
// relevant to Type are read.
type Action struct {
	Type    ActionType `json:"type"`
	ActorID string     `json:"actor_id"`

	Team     TeamID `json:"team_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`

	Amount       int  `json:"amount,omitempty"`
	WithoutTrump bool `json:"without_trump,omitempty"`
	Skipped      bool `json:"skipped,omitempty"`

	Card Card `json:"card"`
}

// Bet returns the bet described by a place_bet action, normalized when skipped.
func (a Action) Bet() Bet {
	if a.Skipped {
		return Bet{PlayerID: a.ActorID, Skipped: true}
	}
	return Bet{PlayerID: a.ActorID, Amount: a.Amount, WithoutTrump: a.WithoutTrump}
}

func SelectTeamAction(actorID string, team TeamID) Action {
	return Action{Type: ActionSelectTeam, ActorID: actorID, Team: team}
}

func SwapPositionAction(actorID, targetID string) Action {
	return Action{Type: ActionSwapPosition, ActorID: actorID, TargetID: targetID}
}

func StartGameAction(actorID string) Action {
	return Action{Type: ActionStartGame, ActorID: actorID}
}

func BetAction(actorID string, amount int, withoutTrump bool) Action {
	return Action{Type: ActionPlaceBet, ActorID: actorID, Amount: amount, WithoutTrump: withoutTrump}
}

func SkipBetAction(actorID string) Action {
	return Action{Type: ActionPlaceBet, ActorID: actorID, Skipped: true}
}

func PlayCardAction(actorID string, card Card) Action {
	return Action{Type: ActionPlayCard, ActorID: actorID, Card: card}
}

func VoteRematchAction(actorID string) Action {
	return Action{Type: ActionVoteRematch, ActorID: actorID}
}
