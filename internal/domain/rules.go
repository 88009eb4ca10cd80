package domain

import "errors"

// ErrEmptyTrick is returned when a winner is requested for a trick with no cards.
var ErrEmptyTrick = errors.New("trick has no cards")

// ErrNoWinningBet is returned when a round is scored before betting settled.
var ErrNoWinningBet = errors.New("round has no winning bet")

// CardPoints returns the point adjustment a card carries into a trick.
func CardPoints(card Card) int {
	switch {
	case card.IsRedZero():
		return RedZeroPoints
	case card.IsBrownZero():
		return BrownZeroPoints
	default:
		return 0
	}
}

// TrickPoints sums the special-card adjustments of the given cards.
func TrickPoints(cards []PlayedCard) int {
	total := 0
	for _, pc := range cards {
		total += CardPoints(pc.Card)
	}
	return total
}

// TrickValue is the total a trick awards its winner: the base point plus adjustments.
func TrickValue(cards []PlayedCard) int {
	return TrickBasePoints + TrickPoints(cards)
}

// DetermineWinner returns the card that currently wins the trick. A trump card
// beats any non-trump card; otherwise only cards of the led color compete.
// Equal ranks keep the earlier card. trump may be nil.
func DetermineWinner(cards []PlayedCard, trump *Color) (PlayedCard, error) {
	if len(cards) == 0 {
		return PlayedCard{}, ErrEmptyTrick
	}
	led := cards[0].Card.Color
	best := cards[0]
	for _, pc := range cards[1:] {
		if beats(pc.Card, best.Card, led, trump) {
			best = pc
		}
	}
	return best, nil
}

// beats reports whether challenger takes the lead from the current best card.
func beats(challenger, best Card, led Color, trump *Color) bool {
	challengerTrump := trump != nil && challenger.Color == *trump
	bestTrump := trump != nil && best.Color == *trump
	switch {
	case challengerTrump && !bestTrump:
		return true
	case !challengerTrump && bestTrump:
		return false
	case challengerTrump && bestTrump:
		return challenger.Value > best.Value
	}
	if challenger.Color != led {
		return false
	}
	if best.Color != led {
		return true
	}
	return challenger.Value > best.Value
}

// RoundScore returns +amount*multiplier when points meet the bet and the
// negated value otherwise. Team scoring applies it to the team's point sum.
func RoundScore(points int, bet Bet) int {
	value := bet.Amount * bet.Multiplier()
	if points >= bet.Amount {
		return value
	}
	return -value
}

// IsBetHigher reports whether a strictly outranks b. At equal amounts a
// without-trump bet outranks a trump bet.
func IsBetHigher(a, b Bet) bool {
	if a.Amount != b.Amount {
		return a.Amount > b.Amount
	}
	return a.WithoutTrump && !b.WithoutTrump
}

// HighestBet folds the non-skipped bets with IsBetHigher. On an exact tie the
// dealer keeps the bid when the dealer is among the tied bidders. ok is false
// when every bet was skipped.
func HighestBet(bets []Bet, dealerID string) (Bet, bool) {
	var best Bet
	found := false
	for _, b := range bets {
		if b.Skipped {
			continue
		}
		switch {
		case !found:
			best, found = b, true
		case IsBetHigher(b, best):
			best = b
		case !IsBetHigher(best, b) && b.PlayerID == dealerID:
			best = b
		}
	}
	return best, found
}
