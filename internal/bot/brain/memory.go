package brain

import (
	"fortyone/internal/domain"
)

// CardStatus represents what the bot knows about a specific card.
type CardStatus int

const (
	StatusUnknown CardStatus = iota // held by someone else
	StatusMine                      // in the bot's hand
	StatusPlayed                    // already in a trick this round
)

// GameMemory is the bot's private view of one round.
type GameMemory struct {
	// DeckStatus tracks all 32 cards. Index = Color*8 + Value.
	DeckStatus [domain.DeckSize]CardStatus
	// Voids records the colors each player has shown they no longer hold.
	Voids map[string]map[domain.Color]bool
}

// NewMemory initializes a fresh memory state.
func NewMemory() *GameMemory {
	return &GameMemory{Voids: make(map[string]map[domain.Color]bool)}
}

// FromRound rebuilds the memory from the public round record and the bot's hand.
func FromRound(round domain.Round, hand []domain.Card) *GameMemory {
	m := NewMemory()
	for _, tr := range round.Tricks {
		m.RecordTrick(tr.Cards)
	}
	m.RecordTrick(round.Trick.Cards)
	m.MarkMine(hand)
	return m
}

// MarkMine records the cards currently in the bot's hand.
func (m *GameMemory) MarkMine(cards []domain.Card) {
	for _, c := range cards {
		m.DeckStatus[cardToIndex(c)] = StatusMine
	}
}

// RecordTrick marks the cards as played and notes every player that did not
// follow the led color.
func (m *GameMemory) RecordTrick(cards []domain.PlayedCard) {
	if len(cards) == 0 {
		return
	}
	led := cards[0].Card.Color
	for _, pc := range cards {
		m.DeckStatus[cardToIndex(pc.Card)] = StatusPlayed
		if pc.Card.Color != led {
			voids, ok := m.Voids[pc.PlayerID]
			if !ok {
				voids = make(map[domain.Color]bool)
				m.Voids[pc.PlayerID] = voids
			}
			voids[led] = true
		}
	}
}

// IsVoid reports whether playerID has shown out of color.
func (m *GameMemory) IsVoid(playerID string, color domain.Color) bool {
	return m.Voids[playerID][color]
}

// IsBoss returns true if no higher card of the same color is still held by another player.
func (m *GameMemory) IsBoss(c domain.Card) bool {
	for v := c.Value + 1; v <= domain.MaxCardValue; v++ {
		if m.DeckStatus[cardToIndex(domain.Card{Color: c.Color, Value: v})] == StatusUnknown {
			return false
		}
	}
	return true
}

// Outstanding counts cards of color still held by other players.
func (m *GameMemory) Outstanding(color domain.Color) int {
	n := 0
	for v := domain.MinCardValue; v <= domain.MaxCardValue; v++ {
		if m.DeckStatus[cardToIndex(domain.Card{Color: color, Value: v})] == StatusUnknown {
			n++
		}
	}
	return n
}

func cardToIndex(c domain.Card) int {
	return int(c.Color)*(domain.MaxCardValue+1) + c.Value
}
