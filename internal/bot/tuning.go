package bot

import "fortyone/internal/domain"

// Tuning holds the bidding weights.
type Tuning struct {
	// CardWeight is the expected trick-points contributed by a card of each value.
	CardWeight [domain.MaxCardValue + 1]float64
	// LengthBonus is added per card beyond LengthThreshold in the longest color.
	LengthBonus     float64
	LengthThreshold int
	// RedZeroBonus rewards holding the +5 card.
	RedZeroBonus float64
	// BaseEstimate covers the points partner and luck contribute.
	BaseEstimate float64
	// WithoutTrumpHighCards is the number of 7s needed to bid without trump.
	WithoutTrumpHighCards int
}

// DefaultTuning bids a typical hand at the minimum and reserves high bids for
// long colors backed by top cards.
var DefaultTuning = Tuning{
	CardWeight:            [domain.MaxCardValue + 1]float64{0, 0, 0, 0, 0.25, 0.5, 0.9, 1.4},
	LengthBonus:           0.9,
	LengthThreshold:       3,
	RedZeroBonus:          1.0,
	BaseEstimate:          3.0,
	WithoutTrumpHighCards: 3,
}
