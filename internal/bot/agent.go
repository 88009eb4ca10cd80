package bot

import (
	"fortyone/internal/domain"
)

// Agent represents an autonomous bot player seated in a game.
type Agent struct {
	ID       string
	Name     string
	Level    BotLevel
	Strategy Brain
}

// NewAgent seats a bot identity with the brain for its level.
func NewAgent(identity BotIdentity, brain Brain) *Agent {
	return &Agent{
		ID:       identity.UserID,
		Name:     identity.DisplayName,
		Level:    ParseLevel(identity.Difficulty),
		Strategy: brain,
	}
}

// Play asks the agent for its action in the current state. ok is false when
// the agent is not the player the game is waiting on.
func (a *Agent) Play(game *domain.Game) (domain.Action, bool, error) {
	current, ok := game.CurrentPlayer()
	if !ok || current.ID != a.ID {
		return domain.Action{}, false, nil
	}
	action, err := Decide(a.Strategy, game, a.ID)
	if err != nil {
		return domain.Action{}, false, err
	}
	return action, true, nil
}
