package bot

import (
	"errors"

	"fortyone/internal/domain"
)

// ErrNothingToDecide is returned when the game expects no bet or card from the player.
var ErrNothingToDecide = errors.New("no decision pending for player")

// Brain is the interface that all bot strategies must implement. Brains read
// the game and never mutate it.
type Brain interface {
	ChooseBet(game *domain.Game, player *domain.Player) (domain.Bet, error)
	ChooseCard(game *domain.Game, player *domain.Player) (domain.Card, error)
}

// Decide asks brain for the action playerID owes in the current phase.
func Decide(brain Brain, game *domain.Game, playerID string) (domain.Action, error) {
	player, ok := game.Player(playerID)
	if !ok {
		return domain.Action{}, ErrNothingToDecide
	}
	switch game.Phase {
	case domain.PhaseBetting:
		bet, err := brain.ChooseBet(game, player)
		if err != nil {
			return domain.Action{}, err
		}
		if bet.Skipped {
			return domain.SkipBetAction(playerID), nil
		}
		return domain.BetAction(playerID, bet.Amount, bet.WithoutTrump), nil
	case domain.PhasePlaying:
		card, err := brain.ChooseCard(game, player)
		if err != nil {
			return domain.Action{}, err
		}
		return domain.PlayCardAction(playerID, card), nil
	default:
		return domain.Action{}, ErrNothingToDecide
	}
}
