package bot

import (
	"fmt"

	"fortyone/internal/domain"
)

// HeuristicBot plays by partnership and seat-position priorities.
type HeuristicBot struct {
	tuning Tuning
	rules  []PlayRule
	// LastRule names the rule behind the most recent card, for tests and logs.
	LastRule string
}

// NewHeuristicBot returns the medium-level bot.
func NewHeuristicBot(t Tuning) *HeuristicBot {
	return &HeuristicBot{tuning: t, rules: defaultRules()}
}

// NewCountingBot returns the hard-level bot, which also remembers played
// cards and leads unbeatable ones.
func NewCountingBot(t Tuning) *HeuristicBot {
	return &HeuristicBot{tuning: t, rules: countingRules()}
}

func (b *HeuristicBot) ChooseBet(game *domain.Game, player *domain.Player) (domain.Bet, error) {
	return chooseBet(game, player, b.tuning), nil
}

func (b *HeuristicBot) ChooseCard(game *domain.Game, player *domain.Player) (domain.Card, error) {
	if len(player.Hand) == 0 {
		return domain.Card{}, fmt.Errorf("player %s has no cards", player.ID)
	}
	card, rule := runPipeline(newPlayContext(game, player), b.rules)
	b.LastRule = rule
	return card, nil
}
