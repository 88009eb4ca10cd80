package domain

import (
	"fmt"
	"math/rand"
	"sort"
)

// Color is one of the four card colors.
type Color int

const (
	ColorRed Color = iota
	ColorBrown
	ColorGreen
	ColorBlue
)

// Colors lists every color in display order.
var Colors = [...]Color{ColorRed, ColorBrown, ColorGreen, ColorBlue}

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorBrown:
		return "brown"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	default:
		return "unknown"
	}
}

// Valid reports whether c is one of the four colors.
func (c Color) Valid() bool {
	return c >= ColorRed && c <= ColorBlue
}

// ParseColor maps a color name back to a Color.
func ParseColor(s string) (Color, bool) {
	for _, c := range Colors {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, ok := ParseColor(string(b))
	if !ok {
		return fmt.Errorf("unknown color %q", b)
	}
	*c = parsed
	return nil
}

// Card is a single card of the 32-card deck.
type Card struct {
	Color Color `json:"color"`
	Value int   `json:"value"` // 0..7, 7 is the strongest
}

func (c Card) String() string {
	return fmt.Sprintf("%s-%d", c.Color, c.Value)
}

// Valid reports whether the card exists in the deck.
func (c Card) Valid() bool {
	return c.Color.Valid() && c.Value >= MinCardValue && c.Value <= MaxCardValue
}

// IsRedZero reports whether c is the +5 card.
func (c Card) IsRedZero() bool {
	return c.Color == ColorRed && c.Value == 0
}

// IsBrownZero reports whether c is the -3 card.
func (c Card) IsBrownZero() bool {
	return c.Color == ColorBrown && c.Value == 0
}

// IsSpecial reports whether c carries a point adjustment.
func (c Card) IsSpecial() bool {
	return c.IsRedZero() || c.IsBrownZero()
}

// NewDeck returns the 32-card deck in display order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, c := range Colors {
		for v := MinCardValue; v <= MaxCardValue; v++ {
			deck = append(deck, Card{Color: c, Value: v})
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal splits a full deck into PlayerCount hands of HandSize cards.
func Deal(deck []Card) ([PlayerCount][]Card, error) {
	var hands [PlayerCount][]Card
	if err := checkDeck(deck); err != nil {
		return hands, err
	}
	for i := range hands {
		hand := append([]Card(nil), deck[i*HandSize:(i+1)*HandSize]...)
		SortHand(hand)
		hands[i] = hand
	}
	return hands, nil
}

// SortHand orders a hand by color, then value.
func SortHand(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cardOrder(cards[i]) < cardOrder(cards[j])
	})
}

func cardOrder(c Card) int {
	return int(c.Color)*(MaxCardValue+1) + c.Value
}

func checkDeck(deck []Card) error {
	if len(deck) != DeckSize {
		return fmt.Errorf("deck has %d cards, want %d", len(deck), DeckSize)
	}
	seen := make(map[Card]bool, DeckSize)
	for _, c := range deck {
		if !c.Valid() {
			return fmt.Errorf("deck contains invalid card %v", c)
		}
		if seen[c] {
			return fmt.Errorf("deck contains duplicate card %s", c)
		}
		seen[c] = true
	}
	return nil
}

// RemoveCard removes one copy of card from hand and reports whether it was present.
func RemoveCard(hand []Card, card Card) ([]Card, bool) {
	for i, c := range hand {
		if c == card {
			out := make([]Card, 0, len(hand)-1)
			out = append(out, hand[:i]...)
			return append(out, hand[i+1:]...), true
		}
	}
	return hand, false
}

// HasCard reports whether hand holds card.
func HasCard(hand []Card, card Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

// HasColor reports whether hand holds any card of color.
func HasColor(hand []Card, color Color) bool {
	for _, c := range hand {
		if c.Color == color {
			return true
		}
	}
	return false
}
