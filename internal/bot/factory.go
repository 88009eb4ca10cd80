package bot

import (
	"fmt"
	"math/rand"
	"strings"
)

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelEasy BotLevel = iota + 1
	BotLevelMedium
	BotLevelHard
)

func (l BotLevel) String() string {
	switch l {
	case BotLevelEasy:
		return "easy"
	case BotLevelMedium:
		return "medium"
	case BotLevelHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseLevel maps a difficulty name to a level. Unknown names are medium.
func ParseLevel(s string) BotLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return BotLevelEasy
	case "hard":
		return BotLevelHard
	default:
		return BotLevelMedium
	}
}

// NewBrain creates a new AI brain based on the specified level. rng is only
// used by levels that randomize.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	switch level {
	case BotLevelEasy:
		if rng == nil {
			return nil, fmt.Errorf("easy bot needs a random source")
		}
		return NewRandomBot(rng), nil
	case BotLevelMedium:
		return NewHeuristicBot(DefaultTuning), nil
	case BotLevelHard:
		return NewCountingBot(DefaultTuning), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
