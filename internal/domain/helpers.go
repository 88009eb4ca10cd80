package domain

// LabelPayload holds the values advertised in the match label.
type LabelPayload struct {
	Open    bool   `json:"open"`
	Game    string `json:"game"`
	Phase   string `json:"phase"`
	Players int    `json:"players"`
	Round   int    `json:"round"`
}

// ComputeLabel derives the advertised label from game state.
func ComputeLabel(g *Game) LabelPayload {
	open := g.Phase == PhaseTeamSelection && len(g.Players) < PlayerCount
	return LabelPayload{
		Open:    open,
		Game:    "fortyone",
		Phase:   string(g.Phase),
		Players: len(g.Players),
		Round:   g.Round.Number,
	}
}

// TeamCount returns the number of players currently on team t.
func TeamCount(g *Game, t TeamID) int {
	n := 0
	for _, p := range g.Players {
		if p.Team == t {
			n++
		}
	}
	return n
}

// SmallerTeam returns the team with fewer members, Team1 on a tie.
func SmallerTeam(g *Game) TeamID {
	if TeamCount(g, Team2) < TeamCount(g, Team1) {
		return Team2
	}
	return Team1
}
