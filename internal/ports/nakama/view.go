package nakama

import (
	"fortyone/internal/domain"
)

// PlayerView is a seated player as seen by one viewer. Hand is only filled in
// for the viewer's own seat.
type PlayerView struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Seat      int           `json:"seat"`
	Team      domain.TeamID `json:"team"`
	Bot       bool          `json:"bot"`
	Connected bool          `json:"connected"`
	CardCount int           `json:"card_count"`
	TricksWon int           `json:"tricks_won"`
	PointsWon int           `json:"points_won"`
	Hand      []domain.Card `json:"hand,omitempty"`
}

// RoundView is the public part of the live round.
type RoundView struct {
	Number     int                  `json:"number"`
	Bets       []domain.Bet         `json:"bets"`
	WinningBet *domain.Bet          `json:"winning_bet,omitempty"`
	Trump      *domain.Color        `json:"trump,omitempty"`
	Trick      []domain.PlayedCard  `json:"trick"`
	Tricks     []domain.TrickRecord `json:"tricks"`
}

// GameView is the per-viewer projection of a game sent with every event.
type GameView struct {
	GameID               string                `json:"game_id"`
	Phase                domain.Phase          `json:"phase"`
	ViewerID             string                `json:"viewer_id"`
	Players              []PlayerView          `json:"players"`
	DealerID             string                `json:"dealer_id,omitempty"`
	CurrentPlayerID      string                `json:"current_player_id,omitempty"`
	Scores               domain.TeamScores     `json:"scores"`
	Round                RoundView             `json:"round"`
	History              []domain.RoundSummary `json:"history"`
	Winner               domain.TeamID         `json:"winner,omitempty"`
	RematchVotes         []string              `json:"rematch_votes,omitempty"`
	LegalCards           []domain.Card         `json:"legal_cards,omitempty"`
	TurnSecondsRemaining int                   `json:"turn_seconds_remaining"`
}

func inTurnPhase(p domain.Phase) bool {
	return p == domain.PhaseBetting || p == domain.PhasePlaying
}

// buildView projects g for viewerID. connected reports whether a player has a
// live session.
func buildView(g *domain.Game, viewerID string, connected func(string) bool, secondsLeft int) *GameView {
	v := &GameView{
		GameID:   g.ID,
		Phase:    g.Phase,
		ViewerID: viewerID,
		Players:  make([]PlayerView, 0, len(g.Players)),
		Scores:   g.Scores,
		History:  g.History,
		Winner:   g.Winner,
		Round: RoundView{
			Number:     g.Round.Number,
			Bets:       g.Round.Bets,
			WinningBet: g.Round.WinningBet,
			Trump:      g.Round.Trump,
			Trick:      g.Round.Trick.Cards,
			Tricks:     g.Round.Tricks,
		},
	}
	if g.Phase != domain.PhaseTeamSelection {
		v.DealerID = g.DealerID()
	}

	for seat, p := range g.Players {
		pv := PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Seat:      seat,
			Team:      p.Team,
			Bot:       p.Bot,
			Connected: p.Bot || connected(p.ID),
			CardCount: len(p.Hand),
			TricksWon: p.TricksWon,
			PointsWon: p.PointsWon,
		}
		if p.ID == viewerID && len(p.Hand) > 0 {
			pv.Hand = append([]domain.Card(nil), p.Hand...)
			domain.SortHand(pv.Hand)
		}
		v.Players = append(v.Players, pv)
	}

	for _, p := range g.Players {
		if g.RematchVotes[p.ID] {
			v.RematchVotes = append(v.RematchVotes, p.ID)
		}
	}

	if !inTurnPhase(g.Phase) {
		return v
	}
	current, ok := g.CurrentPlayer()
	if !ok {
		return v
	}
	v.CurrentPlayerID = current.ID
	v.TurnSecondsRemaining = secondsLeft
	if g.Phase == domain.PhasePlaying && current.ID == viewerID {
		v.LegalCards = domain.LegalCards(current.Hand, g.Round.Trick)
		domain.SortHand(v.LegalCards)
	}
	return v
}
