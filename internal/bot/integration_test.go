package bot

import (
	"fmt"
	"math/rand"
	"testing"

	"fortyone/internal/domain"
)

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// playBotGame runs a whole game between four agents, re-validating every
// bot decision exactly as a human action would be.
func playBotGame(t *testing.T, levels [domain.PlayerCount]BotLevel, seed int64) *domain.Game {
	t.Helper()
	rng := newRand(seed)
	g := domain.NewGame(fmt.Sprintf("sim-%d", seed))
	agents := make(map[string]*Agent, domain.PlayerCount)
	for i, level := range levels {
		id := fmt.Sprintf("bot-%d", i)
		domain.JoinLobby(g, id, id, true)
		brain, err := NewBrain(level, rng)
		if err != nil {
			t.Fatalf("NewBrain(%s): %v", level, err)
		}
		agents[id] = NewAgent(BotIdentity{UserID: id, DisplayName: id, Difficulty: level.String()}, brain)
	}
	if err := domain.Validate(g, domain.StartGameAction("bot-0")); err != nil {
		t.Fatalf("start rejected: %v", err)
	}
	domain.StartGame(g, domain.ShuffleDeck(domain.NewDeck(), rng))

	for steps := 0; g.Phase != domain.PhaseGameOver; steps++ {
		if steps > 20000 {
			t.Fatalf("game did not finish, scores %+v", g.Scores)
		}
		current, ok := g.CurrentPlayer()
		if !ok {
			t.Fatalf("no current player in phase %s", g.Phase)
		}
		action, ok, err := agents[current.ID].Play(g)
		if err != nil || !ok {
			t.Fatalf("%s failed to act in %s: ok=%v err=%v", current.ID, g.Phase, ok, err)
		}
		if err := domain.Validate(g, action); err != nil {
			t.Fatalf("%s level %s proposed illegal %+v: %v", current.ID, agents[current.ID].Level, action, err)
		}

		switch action.Type {
		case domain.ActionPlaceBet:
			out := domain.ApplyBet(g, action.Bet())
			if !out.BettingComplete {
				continue
			}
			if out.AllSkipped {
				domain.ResetBetting(g)
				continue
			}
			domain.ConcludeBetting(g)
		case domain.ActionPlayCard:
			if !domain.ApplyCardPlay(g, action.ActorID, action.Card) {
				continue
			}
			domain.ResolveTrick(g)
			if g.Phase != domain.PhaseScoring {
				continue
			}
			domain.ApplyRoundScoring(g)
			if g.Phase == domain.PhaseScoring {
				domain.InitializeRound(g, domain.ShuffleDeck(domain.NewDeck(), rng))
			}
		default:
			t.Fatalf("unexpected action type %s", action.Type)
		}
	}
	return g
}

func TestBotsPlayCompleteGames(t *testing.T) {
	lineups := map[string][domain.PlayerCount]BotLevel{
		"easy":   {BotLevelEasy, BotLevelEasy, BotLevelEasy, BotLevelEasy},
		"medium": {BotLevelMedium, BotLevelMedium, BotLevelMedium, BotLevelMedium},
		"hard":   {BotLevelHard, BotLevelHard, BotLevelHard, BotLevelHard},
		"mixed":  {BotLevelEasy, BotLevelMedium, BotLevelHard, BotLevelMedium},
	}
	for name, levels := range lineups {
		for seed := int64(1); seed <= 10; seed++ {
			t.Run(fmt.Sprintf("%s/seed-%d", name, seed), func(t *testing.T) {
				g := playBotGame(t, levels, seed)
				if !g.Winner.Valid() {
					t.Fatalf("game over without a winner")
				}
				if g.Scores.Get(g.Winner) < domain.TargetScore {
					t.Fatalf("winner %d has only %d points", g.Winner, g.Scores.Get(g.Winner))
				}
				last := g.History[len(g.History)-1]
				if last.TotalScores != g.Scores {
					t.Fatalf("history totals %+v differ from scores %+v", last.TotalScores, g.Scores)
				}
				for _, summary := range g.History[:len(g.History)-1] {
					if summary.TotalScores.Team1 >= domain.TargetScore || summary.TotalScores.Team2 >= domain.TargetScore {
						t.Fatalf("game continued past round %d with scores %+v", summary.Number, summary.TotalScores)
					}
				}
			})
		}
	}
}

func TestHardBeatsEasyMoreOftenThanNot(t *testing.T) {
	wins := 0
	const games = 40
	for seed := int64(100); seed < 100+games; seed++ {
		// Team1 sits in seats 0 and 2.
		g := playBotGame(t, [domain.PlayerCount]BotLevel{BotLevelHard, BotLevelEasy, BotLevelHard, BotLevelEasy}, seed)
		if g.Winner == domain.Team1 {
			wins++
		}
	}
	if wins <= games/2 {
		t.Fatalf("hard bots won only %d of %d games against easy bots", wins, games)
	}
}

func TestAgentWaitsForItsTurn(t *testing.T) {
	g := bettingGame("b", nil, weakHand)
	agent := NewAgent(BotIdentity{UserID: "c", Difficulty: "hard"}, NewCountingBot(DefaultTuning))
	if agent.Level != BotLevelHard {
		t.Fatalf("expected hard level, got %s", agent.Level)
	}
	if _, ok, err := agent.Play(g); ok || err != nil {
		t.Fatalf("agent acted out of turn: ok=%v err=%v", ok, err)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]BotLevel{
		"easy":   BotLevelEasy,
		" Hard ": BotLevelHard,
		"medium": BotLevelMedium,
		"":       BotLevelMedium,
		"expert": BotLevelMedium,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := NewBrain(BotLevel(9), nil); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := NewBrain(BotLevelEasy, nil); err == nil {
		t.Fatalf("easy bot without rng should fail")
	}
}
