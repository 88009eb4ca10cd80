package bot

import (
	"math"

	"fortyone/internal/domain"
)

// EstimatePoints predicts the trick-points a hand can take with its partner.
func EstimatePoints(hand []domain.Card, t Tuning) float64 {
	est := t.BaseEstimate
	for _, c := range hand {
		est += t.CardWeight[c.Value]
		if c.IsRedZero() {
			est += t.RedZeroBonus
		}
	}
	if extra := longestColorLen(hand) - t.LengthThreshold; extra > 0 {
		est += float64(extra) * t.LengthBonus
	}
	return est
}

func longestColorLen(hand []domain.Card) int {
	best := 0
	for _, color := range domain.Colors {
		if n := countColor(hand, color); n > best {
			best = n
		}
	}
	return best
}

func countColor(hand []domain.Card, color domain.Color) int {
	n := 0
	for _, c := range hand {
		if c.Color == color {
			n++
		}
	}
	return n
}

func countValue(hand []domain.Card, value int) int {
	n := 0
	for _, c := range hand {
		if c.Value == value {
			n++
		}
	}
	return n
}

// chooseBet bids the estimate, capped at what a round can yield, when it
// beats the table and the partner does not already hold the bid. The dealer opens at the minimum when everyone
// else skipped.
func chooseBet(game *domain.Game, player *domain.Player, t Tuning) domain.Bet {
	dealerID := game.DealerID()
	best, hasBest := domain.HighestBet(game.Round.Bets, dealerID)
	isDealer := player.ID == dealerID

	amount := int(math.Floor(EstimatePoints(player.Hand, t)))
	if amount > domain.RoundPoints {
		amount = domain.RoundPoints
	}
	candidate := domain.Bet{
		PlayerID:     player.ID,
		Amount:       amount,
		WithoutTrump: countValue(player.Hand, domain.MaxCardValue) >= t.WithoutTrumpHighCards,
	}

	partnerHolds := false
	if hasBest {
		if partner, ok := game.Partner(player.ID); ok && partner.ID == best.PlayerID {
			partnerHolds = true
		}
	}

	if amount >= domain.MinBet && !partnerHolds {
		beats := !hasBest || domain.IsBetHigher(candidate, best)
		if !beats && isDealer && !domain.IsBetHigher(best, candidate) {
			beats = true
		}
		if beats {
			return candidate
		}
	}
	if isDealer && !hasBest {
		return domain.Bet{PlayerID: player.ID, Amount: domain.MinBet}
	}
	return domain.Bet{PlayerID: player.ID, Skipped: true}
}
