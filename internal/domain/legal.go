package domain

// LegalCards returns the cards of hand that may be played into trick. When the
// hand holds the led color only those cards are legal; otherwise any card is.
// Validation and bots both go through this function.
func LegalCards(hand []Card, trick Trick) []Card {
	led, ok := trick.LedColor()
	if !ok || !HasColor(hand, led) {
		return append([]Card(nil), hand...)
	}
	legal := make([]Card, 0, len(hand))
	for _, c := range hand {
		if c.Color == led {
			legal = append(legal, c)
		}
	}
	return legal
}

// IsLegalCard reports whether card is among LegalCards(hand, trick).
func IsLegalCard(hand []Card, trick Trick, card Card) bool {
	return HasCard(LegalCards(hand, trick), card)
}
