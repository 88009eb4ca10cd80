package bot

import (
	"testing"

	"fortyone/internal/domain"
)

func c(color domain.Color, v int) domain.Card {
	return domain.Card{Color: color, Value: v}
}

func pc(id string, card domain.Card) domain.PlayedCard {
	return domain.PlayedCard{PlayerID: id, Card: card}
}

// playingGame seats a, c on Team1 and b, d on Team2 in a round already
// past its first trick. current names the player to act.
func playingGame(current string, trump *domain.Color, trick []domain.PlayedCard, hands map[string][]domain.Card) *domain.Game {
	g := domain.NewGame("g")
	for i, id := range []string{"a", "b", "c", "d"} {
		g.Players = append(g.Players, &domain.Player{ID: id, Team: domain.SeatTeam(i), Hand: hands[id]})
	}
	g.Phase = domain.PhasePlaying
	g.Dealer = 0
	g.Round = domain.Round{
		Number:     1,
		WinningBet: &domain.Bet{PlayerID: "a", Amount: 7},
		Trump:      trump,
		Trick:      domain.Trick{Cards: trick},
		Tricks:     []domain.TrickRecord{{Number: 1}},
	}
	g.CurrentTurn = g.SeatOf(current)
	return g
}

func colorPtr(color domain.Color) *domain.Color { return &color }

func TestHeuristicBotPriorities(t *testing.T) {
	tests := []struct {
		name    string
		current string
		trump   *domain.Color
		trick   []domain.PlayedCard
		hand    []domain.Card
		want    domain.Card
		rule    string
	}{
		{
			name:    "dumps brown zero into a lost trick",
			current: "c",
			trump:   colorPtr(domain.ColorRed),
			trick:   []domain.PlayedCard{pc("b", c(domain.ColorBlue, 5))},
			hand:    []domain.Card{c(domain.ColorBrown, 0), c(domain.ColorBrown, 4), c(domain.ColorGreen, 3)},
			want:    c(domain.ColorBrown, 0),
			rule:    "DumpBrownZero",
		},
		{
			name:    "keeps brown zero while partner wins",
			current: "c",
			trump:   colorPtr(domain.ColorRed),
			trick:   []domain.PlayedCard{pc("a", c(domain.ColorBlue, 5)), pc("b", c(domain.ColorBlue, 2))},
			hand:    []domain.Card{c(domain.ColorBrown, 0), c(domain.ColorBrown, 4), c(domain.ColorGreen, 3)},
			want:    c(domain.ColorGreen, 3),
			rule:    "SupportPartner",
		},
		{
			name:    "captures red zero cheaply",
			current: "c",
			trump:   colorPtr(domain.ColorGreen),
			trick:   []domain.PlayedCard{pc("a", c(domain.ColorRed, 0)), pc("b", c(domain.ColorRed, 5))},
			hand:    []domain.Card{c(domain.ColorRed, 7), c(domain.ColorRed, 6), c(domain.ColorGreen, 1)},
			want:    c(domain.ColorRed, 6),
			rule:    "CaptureRedZero",
		},
		{
			name:    "ducks with a plain card behind partner",
			current: "a",
			trump:   colorPtr(domain.ColorBrown),
			trick: []domain.PlayedCard{
				pc("b", c(domain.ColorGreen, 2)), pc("c", c(domain.ColorGreen, 6)), pc("d", c(domain.ColorGreen, 3)),
			},
			hand: []domain.Card{c(domain.ColorRed, 0), c(domain.ColorBlue, 5), c(domain.ColorBlue, 1)},
			want: c(domain.ColorBlue, 1),
			rule: "SupportPartner",
		},
		{
			name:    "leads medium card of longest plain color",
			current: "a",
			trump:   colorPtr(domain.ColorGreen),
			hand: []domain.Card{
				c(domain.ColorRed, 1), c(domain.ColorRed, 3), c(domain.ColorRed, 6),
				c(domain.ColorBlue, 2), c(domain.ColorGreen, 7), c(domain.ColorGreen, 5), c(domain.ColorGreen, 4),
			},
			want: c(domain.ColorRed, 3),
			rule: "Seat",
		},
		{
			name:    "second seat wins cheaply",
			current: "a",
			trump:   colorPtr(domain.ColorGreen),
			trick:   []domain.PlayedCard{pc("d", c(domain.ColorBlue, 4))},
			hand:    []domain.Card{c(domain.ColorBlue, 2), c(domain.ColorBlue, 7), c(domain.ColorBlue, 6)},
			want:    c(domain.ColorBlue, 6),
			rule:    "Seat",
		},
		{
			name:    "second seat discards lowest when it cannot win",
			current: "a",
			trump:   colorPtr(domain.ColorGreen),
			trick:   []domain.PlayedCard{pc("d", c(domain.ColorBlue, 7))},
			hand:    []domain.Card{c(domain.ColorBlue, 5), c(domain.ColorBlue, 1), c(domain.ColorRed, 0)},
			want:    c(domain.ColorBlue, 1),
			rule:    "Seat",
		},
		{
			name:    "third seat overtrumps with cheapest trump",
			current: "c",
			trump:   colorPtr(domain.ColorGreen),
			trick:   []domain.PlayedCard{pc("a", c(domain.ColorRed, 5)), pc("b", c(domain.ColorGreen, 1))},
			hand:    []domain.Card{c(domain.ColorGreen, 6), c(domain.ColorGreen, 4), c(domain.ColorBlue, 3)},
			want:    c(domain.ColorGreen, 4),
			rule:    "Seat",
		},
		{
			name:    "last seat follows suit even when it cannot win",
			current: "d",
			trump:   colorPtr(domain.ColorGreen),
			trick: []domain.PlayedCard{
				pc("a", c(domain.ColorBlue, 7)), pc("b", c(domain.ColorBlue, 1)), pc("c", c(domain.ColorBlue, 2)),
			},
			hand: []domain.Card{c(domain.ColorGreen, 7), c(domain.ColorBlue, 5), c(domain.ColorBlue, 3)},
			want: c(domain.ColorBlue, 3),
			rule: "Seat",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := playingGame(tt.current, tt.trump, tt.trick, map[string][]domain.Card{tt.current: tt.hand})
			player, _ := g.Player(tt.current)
			bot := NewHeuristicBot(DefaultTuning)
			got, err := bot.ChooseCard(g, player)
			if err != nil {
				t.Fatalf("ChooseCard failed: %v", err)
			}
			if got != tt.want || bot.LastRule != tt.rule {
				t.Fatalf("got %s via %s, want %s via %s", got, bot.LastRule, tt.want, tt.rule)
			}
			if err := domain.Validate(g, domain.PlayCardAction(tt.current, got)); err != nil {
				t.Fatalf("bot card rejected by validation: %v", err)
			}
		})
	}
}

func TestCountingBotLeadsBossCard(t *testing.T) {
	hand := []domain.Card{c(domain.ColorRed, 6), c(domain.ColorBlue, 1), c(domain.ColorBlue, 3), c(domain.ColorBlue, 5)}
	g := playingGame("a", colorPtr(domain.ColorGreen), nil, map[string][]domain.Card{"a": hand})
	g.Round.Tricks = []domain.TrickRecord{{Number: 1, Cards: []domain.PlayedCard{
		pc("a", c(domain.ColorRed, 2)), pc("b", c(domain.ColorRed, 7)), pc("c", c(domain.ColorRed, 3)), pc("d", c(domain.ColorRed, 4)),
	}}}
	player, _ := g.Player("a")

	medium := NewHeuristicBot(DefaultTuning)
	if got, _ := medium.ChooseCard(g, player); got != c(domain.ColorBlue, 3) {
		t.Fatalf("medium bot should lead the medium blue, got %s", got)
	}

	hard := NewCountingBot(DefaultTuning)
	got, err := hard.ChooseCard(g, player)
	if err != nil || got != c(domain.ColorRed, 6) || hard.LastRule != "BossLead" {
		t.Fatalf("hard bot should lead the boss red-6, got %s via %s (%v)", got, hard.LastRule, err)
	}

	// an opponent out of red could trump it
	g.Round.Tricks[0].Cards[3] = pc("d", c(domain.ColorBlue, 0))
	if got, _ := NewCountingBot(DefaultTuning).ChooseCard(g, player); got == c(domain.ColorRed, 6) {
		t.Fatalf("hard bot led a boss card into a void opponent")
	}
}

func TestFirstLeadTreatsOwnColorAsTrump(t *testing.T) {
	hand := []domain.Card{c(domain.ColorRed, 1), c(domain.ColorRed, 4), c(domain.ColorRed, 6), c(domain.ColorBlue, 2)}
	g := playingGame("a", nil, nil, map[string][]domain.Card{"a": hand})
	g.Round.Tricks = nil
	player, _ := g.Player("a")
	ctx := newPlayContext(g, player)
	if !ctx.wouldWin(c(domain.ColorRed, 1)) {
		t.Fatalf("the lead always holds the trick")
	}
	if ctx.effectiveTrump(c(domain.ColorRed, 1)) == nil {
		t.Fatalf("first card of the round should fix trump")
	}
	g.Round.WinningBet.WithoutTrump = true
	if newPlayContext(g, player).effectiveTrump(c(domain.ColorRed, 1)) != nil {
		t.Fatalf("without trump rounds never fix trump")
	}
}

func TestRandomBotAlwaysLegal(t *testing.T) {
	g := playingGame("c", colorPtr(domain.ColorGreen),
		[]domain.PlayedCard{pc("a", c(domain.ColorRed, 2))},
		map[string][]domain.Card{"c": {c(domain.ColorRed, 5), c(domain.ColorRed, 6), c(domain.ColorBlue, 1)}})
	player, _ := g.Player("c")
	bot, err := NewBrain(BotLevelEasy, newRand(3))
	if err != nil {
		t.Fatalf("NewBrain: %v", err)
	}
	for i := 0; i < 50; i++ {
		card, err := bot.ChooseCard(g, player)
		if err != nil {
			t.Fatalf("ChooseCard: %v", err)
		}
		if card.Color != domain.ColorRed {
			t.Fatalf("random bot ignored suit-following: %s", card)
		}
	}
}
