package domain

import (
	"errors"
	"testing"
)

// newLobby seats players a, b, c, d, which alternate Team1/Team2 on join.
func newLobby(t *testing.T) *Game {
	t.Helper()
	g := NewGame("g1")
	for _, id := range []string{"a", "b", "c", "d"} {
		JoinLobby(g, id, id, false)
	}
	return g
}

// newStartedGame deals the unshuffled deck: a holds red, b brown, c green and
// d blue. a deals round 1 and b opens the bidding.
func newStartedGame(t *testing.T) *Game {
	t.Helper()
	g := newLobby(t)
	if err := Validate(g, StartGameAction("a")); err != nil {
		t.Fatalf("start_game rejected: %v", err)
	}
	StartGame(g, NewDeck())
	return g
}

// newPlayingGame settles a single 7 bet from seat 1 (b).
func newPlayingGame(t *testing.T) *Game {
	t.Helper()
	g := newStartedGame(t)
	mustDispatchBet(t, g, BetAction("b", 7, false))
	mustDispatchBet(t, g, SkipBetAction("c"))
	mustDispatchBet(t, g, SkipBetAction("d"))
	out := mustDispatchBet(t, g, SkipBetAction("a"))
	if !out.BettingComplete || out.AllSkipped {
		t.Fatalf("unexpected bet outcome %+v", out)
	}
	ConcludeBetting(g)
	return g
}

func mustDispatchBet(t *testing.T, g *Game, a Action) BetOutcome {
	t.Helper()
	if err := Validate(g, a); err != nil {
		t.Fatalf("bet %+v rejected: %v", a, err)
	}
	return ApplyBet(g, a.Bet())
}

// playFirstLegal plays the first legal card for the current player.
func playFirstLegal(t *testing.T, g *Game) bool {
	t.Helper()
	p, ok := g.CurrentPlayer()
	if !ok {
		t.Fatalf("no current player")
	}
	card := LegalCards(p.Hand, g.Round.Trick)[0]
	if err := Validate(g, PlayCardAction(p.ID, card)); err != nil {
		t.Fatalf("legal card %s rejected: %v", card, err)
	}
	return ApplyCardPlay(g, p.ID, card)
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError %s, got %v", code, err)
	}
	if verr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, verr.Code, verr.Reason)
	}
}

func expectInvariant(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvariant) {
			t.Fatalf("expected invariant panic, got %v", r)
		}
	}()
	fn()
}

func card(c Color, v int) Card {
	return Card{Color: c, Value: v}
}
