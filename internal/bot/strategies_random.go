package bot

import (
	"fmt"
	"math/rand"

	"fortyone/internal/domain"
)

// RandomBot plays any legal card and bids at random. It is the easy level.
type RandomBot struct {
	rng *rand.Rand
}

// NewRandomBot returns an easy bot drawing from rng.
func NewRandomBot(rng *rand.Rand) *RandomBot {
	return &RandomBot{rng: rng}
}

func (b *RandomBot) ChooseBet(game *domain.Game, player *domain.Player) (domain.Bet, error) {
	mustOpen := player.ID == game.DealerID()
	for _, bet := range game.Round.Bets {
		if !bet.Skipped {
			mustOpen = false
		}
	}
	if !mustOpen && b.rng.Intn(3) > 0 {
		return domain.Bet{PlayerID: player.ID, Skipped: true}, nil
	}
	return domain.Bet{
		PlayerID: player.ID,
		Amount:   domain.MinBet + b.rng.Intn(3),
	}, nil
}

func (b *RandomBot) ChooseCard(game *domain.Game, player *domain.Player) (domain.Card, error) {
	legal := domain.LegalCards(player.Hand, game.Round.Trick)
	if len(legal) == 0 {
		return domain.Card{}, fmt.Errorf("player %s has no cards", player.ID)
	}
	return legal[b.rng.Intn(len(legal))], nil
}
