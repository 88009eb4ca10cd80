// Package stats aggregates per-round play data into end-of-round highlights.
// It only reads what callers record and never fails: with no data it abstains.
package stats

import (
	"time"

	"fortyone/internal/domain"
)

type playerStats struct {
	latencies  []time.Duration
	trumpPlays int
	redZeros   int
	brownZeros int
	tricks     int
	points     int
	bet        *domain.Bet
}

// RoundTracker collects per-player data for a single round.
type RoundTracker struct {
	order   []string
	players map[string]*playerStats
}

// NewRoundTracker returns an empty tracker.
func NewRoundTracker() *RoundTracker {
	return &RoundTracker{players: make(map[string]*playerStats)}
}

func (t *RoundTracker) player(id string) *playerStats {
	ps, ok := t.players[id]
	if !ok {
		ps = &playerStats{}
		t.players[id] = ps
		t.order = append(t.order, id)
	}
	return ps
}

// Reset clears the tracker for the next round.
func (t *RoundTracker) Reset() {
	t.order = nil
	t.players = make(map[string]*playerStats)
}

// Empty reports whether nothing was recorded.
func (t *RoundTracker) Empty() bool {
	return len(t.order) == 0
}

// RecordBet keeps the highest non-skipped bet per player.
func (t *RoundTracker) RecordBet(bet domain.Bet) {
	if bet.Skipped {
		return
	}
	ps := t.player(bet.PlayerID)
	if ps.bet == nil || domain.IsBetHigher(bet, *ps.bet) {
		b := bet
		ps.bet = &b
	}
}

// RecordPlay records a card play and how long the player took. trump is the
// round trump after the play was applied, nil when playing without trump.
func (t *RoundTracker) RecordPlay(playerID string, card domain.Card, trump *domain.Color, latency time.Duration) {
	ps := t.player(playerID)
	if latency >= 0 {
		ps.latencies = append(ps.latencies, latency)
	}
	if trump != nil && card.Color == *trump {
		ps.trumpPlays++
	}
}

// RecordTrick credits a resolved trick to its winner.
func (t *RoundTracker) RecordTrick(rec domain.TrickRecord) {
	ps := t.player(rec.WinnerID)
	ps.tricks++
	ps.points += rec.Points
	for _, pc := range rec.Cards {
		switch {
		case pc.Card.IsRedZero():
			ps.redZeros++
		case pc.Card.IsBrownZero():
			ps.brownZeros++
		}
	}
}

// Summary holds the highlights of a round. Empty ids mean no player qualified.
type Summary struct {
	FastestPlayerID  string         `json:"fastest_player_id,omitempty"`
	FastestAverageMs int64          `json:"fastest_average_ms"`
	TopBidderID      string         `json:"top_bidder_id,omitempty"`
	TopBid           int            `json:"top_bid"`
	TrumpLeaderID    string         `json:"trump_leader_id,omitempty"`
	TrumpPlays       int            `json:"trump_plays"`
	LuckiestPlayerID string         `json:"luckiest_player_id,omitempty"`
	PointsPerTrick   float64        `json:"points_per_trick"`
	RedZeros         map[string]int `json:"red_zeros,omitempty"`
	BrownZeros       map[string]int `json:"brown_zeros,omitempty"`
}

// Summarize derives the round highlights. ok is false when nothing was
// recorded. Ties go to the player recorded first.
func (t *RoundTracker) Summarize() (Summary, bool) {
	if t.Empty() {
		return Summary{}, false
	}
	var s Summary
	var fastest time.Duration = -1
	var topBet *domain.Bet
	bestLuck := 0.0

	for _, id := range t.order {
		ps := t.players[id]
		if avg, ok := average(ps.latencies); ok && (fastest < 0 || avg < fastest) {
			fastest = avg
			s.FastestPlayerID = id
		}
		if ps.bet != nil && (topBet == nil || domain.IsBetHigher(*ps.bet, *topBet)) {
			topBet = ps.bet
			s.TopBidderID = id
		}
		if ps.trumpPlays > s.TrumpPlays {
			s.TrumpPlays = ps.trumpPlays
			s.TrumpLeaderID = id
		}
		if ps.tricks > 0 {
			luck := float64(ps.points) / float64(ps.tricks)
			if s.LuckiestPlayerID == "" || luck > bestLuck {
				bestLuck = luck
				s.LuckiestPlayerID = id
			}
		}
		if ps.redZeros > 0 {
			if s.RedZeros == nil {
				s.RedZeros = make(map[string]int)
			}
			s.RedZeros[id] = ps.redZeros
		}
		if ps.brownZeros > 0 {
			if s.BrownZeros == nil {
				s.BrownZeros = make(map[string]int)
			}
			s.BrownZeros[id] = ps.brownZeros
		}
	}
	if fastest >= 0 {
		s.FastestAverageMs = fastest.Milliseconds()
	}
	if topBet != nil {
		s.TopBid = topBet.Amount
	}
	s.PointsPerTrick = bestLuck
	return s, true
}

func average(ds []time.Duration) (time.Duration, bool) {
	if len(ds) == 0 {
		return 0, false
	}
	var total time.Duration
	for _, d := range ds {
		total += d
	}
	return total / time.Duration(len(ds)), true
}
