package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"fortyone/internal/bot"
	"fortyone/internal/domain"
	"fortyone/internal/stats"
)

// DeckFunc supplies a freshly shuffled 32-card deck for each round.
type DeckFunc func() []domain.Card

// Table is one game plus the per-round bookkeeping the service keeps beside it.
type Table struct {
	Game    *domain.Game
	Tracker *stats.RoundTracker
	// TurnStartedAt is when the current player was handed the turn.
	TurnStartedAt time.Time
}

// Service contains the game use-cases: validate, apply, derive, emit.
type Service struct {
	rng      *rand.Rand
	deck     DeckFunc
	now      func() time.Time
	fallback bot.Brain
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Service{rng: rng, now: time.Now}
	s.deck = func() []domain.Card { return domain.ShuffleDeck(domain.NewDeck(), s.rng) }
	s.fallback, _ = bot.NewBrain(FallbackLevel, rng)
	return s
}

// SetDeck replaces the deck provider.
func (s *Service) SetDeck(deck DeckFunc) { s.deck = deck }

// SetClock replaces the clock used for play latency statistics.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

var ErrGameNotStarted = errors.New("game has not started")

// NewTable creates a game in team selection. An empty id gets a random one.
func (s *Service) NewTable(gameID string) *Table {
	if gameID == "" {
		gameID = uuid.NewString()
	}
	return &Table{
		Game:          domain.NewGame(gameID),
		Tracker:       stats.NewRoundTracker(),
		TurnStartedAt: s.now(),
	}
}

// Join seats a player on the smaller team.
func (s *Service) Join(t *Table, playerID, name string, isBot bool) ([]Event, error) {
	if err := domain.ValidateJoin(t.Game, playerID); err != nil {
		return nil, err
	}
	p := domain.JoinLobby(t.Game, playerID, name, isBot)
	return []Event{
		{Kind: EventPlayerJoined, Payload: PlayerJoinedPayload{PlayerID: p.ID, Team: p.Team, Bot: p.Bot}},
		{Kind: EventGameUpdated, Payload: GameUpdatedPayload{ActorID: p.ID}},
	}, nil
}

// Leave unseats a player while teams are still being picked. Once the game
// has started the seat is kept for reconnection and no events are emitted.
func (s *Service) Leave(t *Table, playerID string) []Event {
	if !domain.LeaveLobby(t.Game, playerID) {
		return nil
	}
	return []Event{
		{Kind: EventPlayerLeft, Payload: PlayerLeftPayload{PlayerID: playerID}},
		{Kind: EventGameUpdated, Payload: GameUpdatedPayload{ActorID: playerID}},
	}
}

// Dispatch validates action, applies it and everything it triggers (trick
// resolution, scoring, the next deal, game over) and returns the events in the
// order they happened. A rejected action leaves the game untouched and returns
// a *domain.ValidationError.
func (s *Service) Dispatch(t *Table, action domain.Action) (events []Event, err error) {
	if verr := domain.Validate(t.Game, action); verr != nil {
		return nil, verr
	}
	defer func() {
		if r := recover(); r != nil {
			var iv *domain.InvariantViolation
			if e, ok := r.(error); ok && errors.As(e, &iv) {
				events, err = nil, fmt.Errorf("dispatch %s: %w", action.Type, iv)
				return
			}
			panic(r)
		}
	}()

	g := t.Game
	now := s.now()
	update := GameUpdatedPayload{Action: action.Type, ActorID: action.ActorID}

	switch action.Type {
	case domain.ActionSelectTeam:
		domain.ApplyTeamSelection(g, action.ActorID, action.Team)
	case domain.ActionSwapPosition:
		domain.ApplyPositionSwap(g, action.ActorID, action.TargetID)
	case domain.ActionStartGame:
		domain.StartGame(g, s.deck())
		t.Tracker.Reset()
	case domain.ActionPlaceBet:
		bet := action.Bet()
		t.Tracker.RecordBet(bet)
		out := domain.ApplyBet(g, bet)
		if out.BettingComplete {
			if out.AllSkipped {
				domain.ResetBetting(g)
				update.BettingRestarted = true
			} else {
				domain.ConcludeBetting(g)
			}
		}
	case domain.ActionPlayCard:
		events = s.playCard(t, action, now.Sub(t.TurnStartedAt))
	case domain.ActionVoteRematch:
		if domain.ApplyRematchVote(g, action.ActorID) {
			domain.ResetForRematch(g)
			g.ID = uuid.NewString()
			t.Tracker.Reset()
			update.RematchStarted = true
		}
	}

	t.TurnStartedAt = now
	return append(events, Event{Kind: EventGameUpdated, Payload: update}), nil
}

func (s *Service) playCard(t *Table, action domain.Action, latency time.Duration) []Event {
	g := t.Game
	full := domain.ApplyCardPlay(g, action.ActorID, action.Card)
	t.Tracker.RecordPlay(action.ActorID, action.Card, g.Round.Trump, latency)
	if !full {
		return nil
	}

	rec := domain.ResolveTrick(g)
	t.Tracker.RecordTrick(rec)
	events := []Event{{Kind: EventTrickResolved, Payload: TrickResolvedPayload{Trick: rec}}}
	if g.Phase != domain.PhaseScoring {
		return events
	}

	summary := domain.ApplyRoundScoring(g)
	ended := RoundEndedPayload{Summary: summary}
	if st, ok := t.Tracker.Summarize(); ok {
		ended.Stats = &st
	}
	t.Tracker.Reset()
	events = append(events, Event{Kind: EventRoundEnded, Payload: ended})

	if g.Phase == domain.PhaseGameOver {
		return append(events, Event{Kind: EventGameOver, Payload: GameOverPayload{Winner: g.Winner, Scores: g.Scores}})
	}
	domain.InitializeRound(g, s.deck())
	return events
}

// Fallback picks the action the current player owes when their turn timer
// expires. The caller dispatches it like any other action.
func (s *Service) Fallback(t *Table) (domain.Action, error) {
	if t.Game.Phase != domain.PhaseBetting && t.Game.Phase != domain.PhasePlaying {
		return domain.Action{}, ErrGameNotStarted
	}
	current, ok := t.Game.CurrentPlayer()
	if !ok {
		return domain.Action{}, ErrGameNotStarted
	}
	return bot.Decide(s.fallback, t.Game, current.ID)
}
