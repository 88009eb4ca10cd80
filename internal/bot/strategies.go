package bot

import (
	"sort"

	"fortyone/internal/domain"
)

// PlayContext is the read-only view a rule works from, plus the chosen card.
type PlayContext struct {
	Game   *domain.Game
	Player *domain.Player
	Legal  []domain.Card
	Trick  domain.Trick
	Trump  *domain.Color
	// Position is 0 when leading, 3 when playing the last card.
	Position int
	// PartnerWinning is true when the partner currently holds the trick.
	PartnerWinning bool
	// OpponentWinning is true when an opponent currently holds the trick.
	OpponentWinning bool

	Choice  domain.Card
	Decided bool
}

func newPlayContext(game *domain.Game, player *domain.Player) *PlayContext {
	ctx := &PlayContext{
		Game:     game,
		Player:   player,
		Legal:    domain.LegalCards(player.Hand, game.Round.Trick),
		Trick:    game.Round.Trick,
		Trump:    game.Round.Trump,
		Position: game.Round.Trick.Len(),
	}
	if winner, err := domain.DetermineWinner(ctx.Trick.Cards, ctx.Trump); err == nil {
		winnerPlayer, _ := game.Player(winner.PlayerID)
		if winnerPlayer != nil && winnerPlayer.Team == player.Team {
			ctx.PartnerWinning = true
		} else {
			ctx.OpponentWinning = true
		}
	}
	return ctx
}

// choose records card as the decision.
func (c *PlayContext) choose(card domain.Card) {
	c.Choice = card
	c.Decided = true
}

// effectiveTrump is the trump a card would be compared against. The very
// first card of a round fixes trump to its own color.
func (c *PlayContext) effectiveTrump(card domain.Card) *domain.Color {
	if c.Trump != nil || c.Position > 0 {
		return c.Trump
	}
	bet := c.Game.Round.WinningBet
	if len(c.Game.Round.Tricks) == 0 && (bet == nil || !bet.WithoutTrump) {
		color := card.Color
		return &color
	}
	return nil
}

// wouldWin reports whether card would take the lead of the live trick.
func (c *PlayContext) wouldWin(card domain.Card) bool {
	cards := append(append([]domain.PlayedCard(nil), c.Trick.Cards...), domain.PlayedCard{PlayerID: c.Player.ID, Card: card})
	winner, err := domain.DetermineWinner(cards, c.effectiveTrump(card))
	return err == nil && winner.PlayerID == c.Player.ID
}

func (c *PlayContext) isTrump(card domain.Card) bool {
	return c.Trump != nil && card.Color == *c.Trump
}

// cost ranks cards from cheapest to most valuable to give up. Trump costs
// more than any plain card; the red zero is never cheap.
func (c *PlayContext) cost(card domain.Card) int {
	v := card.Value
	if c.isTrump(card) {
		v += domain.MaxCardValue + 1
	}
	if card.IsRedZero() {
		v += 2 * (domain.MaxCardValue + 1)
	}
	return v
}

func (c *PlayContext) sortedByCost(cards []domain.Card) []domain.Card {
	out := append([]domain.Card(nil), cards...)
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := c.cost(out[i]), c.cost(out[j])
		if ci != cj {
			return ci < cj
		}
		return out[i].Color < out[j].Color
	})
	return out
}

// cheapestWinning returns the least valuable legal card that takes the lead.
func (c *PlayContext) cheapestWinning() (domain.Card, bool) {
	for _, card := range c.sortedByCost(c.Legal) {
		if c.wouldWin(card) {
			return card, true
		}
	}
	return domain.Card{}, false
}

// lowest returns the least valuable legal card.
func (c *PlayContext) lowest() domain.Card {
	return c.sortedByCost(c.Legal)[0]
}

// lowestNonSpecial prefers plain cards; the red zero goes before the brown
// zero when nothing else is left, since the partner holds the trick.
func (c *PlayContext) lowestNonSpecial() domain.Card {
	sorted := c.sortedByCost(c.Legal)
	for _, card := range sorted {
		if !card.IsSpecial() {
			return card
		}
	}
	for _, card := range sorted {
		if card.IsRedZero() {
			return card
		}
	}
	return sorted[0]
}

// mediumOfLongestColor picks the middle card of the longest non-trump color.
// All trump hands fall back to trump.
func (c *PlayContext) mediumOfLongestColor() domain.Card {
	var best []domain.Card
	for _, color := range domain.Colors {
		if c.Trump != nil && color == *c.Trump {
			continue
		}
		var cards []domain.Card
		for _, card := range c.Legal {
			if card.Color == color {
				cards = append(cards, card)
			}
		}
		if len(cards) > len(best) {
			best = cards
		}
	}
	if len(best) == 0 {
		best = append(best, c.Legal...)
	}
	sort.SliceStable(best, func(i, j int) bool { return best[i].Value < best[j].Value })
	return best[len(best)/2]
}
