package domain

// Phase represents the lifecycle stage of a game.
type Phase string

const (
	// PhaseTeamSelection is the lobby stage where players pick teams and seats.
	PhaseTeamSelection Phase = "team_selection"
	// PhaseBetting is the sequential bidding stage of a round.
	PhaseBetting Phase = "betting"
	// PhasePlaying is the trick-taking stage of a round.
	PhasePlaying Phase = "playing"
	// PhaseScoring is entered once every hand is empty.
	PhaseScoring Phase = "scoring"
	// PhaseGameOver is terminal until a rematch reinitializes the game.
	PhaseGameOver Phase = "game_over"
)

// TeamID identifies one of the two partnerships.
type TeamID int

const (
	TeamNone TeamID = 0
	Team1    TeamID = 1
	Team2    TeamID = 2
)

// Valid reports whether t names a real team.
func (t TeamID) Valid() bool {
	return t == Team1 || t == Team2
}

// Opponent returns the other team.
func (t TeamID) Opponent() TeamID {
	if t == Team1 {
		return Team2
	}
	return Team1
}

// SeatTeam returns the team owning a seat under the 1-2-1-2 alternation.
func SeatTeam(seat int) TeamID {
	if seat%2 == 0 {
		return Team1
	}
	return Team2
}

// TeamScores holds a value per team.
type TeamScores struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

// Get returns the value for team t.
func (s TeamScores) Get(t TeamID) int {
	if t == Team2 {
		return s.Team2
	}
	return s.Team1
}

// Add adds delta to team t.
func (s *TeamScores) Add(t TeamID, delta int) {
	if t == Team2 {
		s.Team2 += delta
		return
	}
	s.Team1 += delta
}

// Player holds the durable state of a participant. ID is the stable identity
// used by every persisted reference; connection handles never reach the domain.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Team      TeamID `json:"team"`
	Bot       bool   `json:"bot"`
	Hand      []Card `json:"-"`
	TricksWon int    `json:"tricks_won"`
	PointsWon int    `json:"points_won"`
}

// Bet is a single bidding decision.
type Bet struct {
	PlayerID     string `json:"player_id"`
	Amount       int    `json:"amount"`
	WithoutTrump bool   `json:"without_trump"`
	Skipped      bool   `json:"skipped"`
}

// Multiplier returns 2 for a without-trump bet and 1 otherwise.
func (b Bet) Multiplier() int {
	if b.WithoutTrump {
		return WithoutTrumpMult
	}
	return 1
}

// PlayedCard pairs a card with the player who played it.
type PlayedCard struct {
	PlayerID string `json:"player_id"`
	Card     Card   `json:"card"`
}

// Trick is the live trick, in play order.
type Trick struct {
	Cards []PlayedCard `json:"cards"`
}

// Len returns the number of cards in the trick.
func (t Trick) Len() int {
	return len(t.Cards)
}

// LedColor returns the color of the first card, if any.
func (t Trick) LedColor() (Color, bool) {
	if len(t.Cards) == 0 {
		return 0, false
	}
	return t.Cards[0].Card.Color, true
}

// HasPlayed reports whether playerID already contributed a card.
func (t Trick) HasPlayed(playerID string) bool {
	for _, pc := range t.Cards {
		if pc.PlayerID == playerID {
			return true
		}
	}
	return false
}

// Contains reports whether a specific card is in the trick.
func (t Trick) Contains(card Card) bool {
	for _, pc := range t.Cards {
		if pc.Card == card {
			return true
		}
	}
	return false
}

// TrickRecord is a resolved trick kept in round history.
type TrickRecord struct {
	Number   int          `json:"number"`
	Cards    []PlayedCard `json:"cards"`
	WinnerID string       `json:"winner_id"`
	Points   int          `json:"points"`
}

// Round holds round-scoped state. It is archived into a RoundSummary when scored.
type Round struct {
	Number     int           `json:"number"`
	Bets       []Bet         `json:"bets"`
	WinningBet *Bet          `json:"winning_bet,omitempty"`
	Trump      *Color        `json:"trump,omitempty"`
	Trick      Trick         `json:"trick"`
	Tricks     []TrickRecord `json:"tricks"`
}

// RoundSummary is the archived outcome of a scored round.
type RoundSummary struct {
	Number          int           `json:"number"`
	DealerID        string        `json:"dealer_id"`
	Bets            []Bet         `json:"bets"`
	WinningBet      Bet           `json:"winning_bet"`
	Trump           *Color        `json:"trump,omitempty"`
	Tricks          []TrickRecord `json:"tricks"`
	OffensiveTeam   TeamID        `json:"offensive_team"`
	OffensivePoints int           `json:"offensive_points"`
	DefensivePoints int           `json:"defensive_points"`
	RoundScores     TeamScores    `json:"round_scores"`
	TotalScores     TeamScores    `json:"total_scores"`
}

// Game is the authoritative state of one game instance.
type Game struct {
	ID           string          `json:"id"`
	Phase        Phase           `json:"phase"`
	Players      []*Player       `json:"players"` // seat order is turn order
	Dealer       int             `json:"dealer"`
	CurrentTurn  int             `json:"current_turn"`
	Scores       TeamScores      `json:"scores"`
	Round        Round           `json:"round"`
	History      []RoundSummary  `json:"history"`
	Winner       TeamID          `json:"winner"`
	RematchVotes map[string]bool `json:"rematch_votes,omitempty"`
}

// NewGame creates an empty game in team selection. The dealer starts on the
// last seat so that the first round is dealt by seat 0.
func NewGame(id string) *Game {
	return &Game{
		ID:     id,
		Phase:  PhaseTeamSelection,
		Dealer: PlayerCount - 1,
	}
}

// SeatOf returns the seat index of playerID or -1.
func (g *Game) SeatOf(playerID string) int {
	for i, p := range g.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// Player returns the player with the given id.
func (g *Game) Player(playerID string) (*Player, bool) {
	if seat := g.SeatOf(playerID); seat >= 0 {
		return g.Players[seat], true
	}
	return nil, false
}

// CurrentPlayer returns the player expected to act, if any.
func (g *Game) CurrentPlayer() (*Player, bool) {
	if g.CurrentTurn < 0 || g.CurrentTurn >= len(g.Players) {
		return nil, false
	}
	return g.Players[g.CurrentTurn], true
}

// DealerID returns the stable id of the current dealer.
func (g *Game) DealerID() string {
	if g.Dealer < 0 || g.Dealer >= len(g.Players) {
		return ""
	}
	return g.Players[g.Dealer].ID
}

// TeamMembers returns the players on team t in seat order.
func (g *Game) TeamMembers(t TeamID) []*Player {
	var out []*Player
	for _, p := range g.Players {
		if p.Team == t {
			out = append(out, p)
		}
	}
	return out
}

// Partner returns the teammate of playerID.
func (g *Game) Partner(playerID string) (*Player, bool) {
	me, ok := g.Player(playerID)
	if !ok {
		return nil, false
	}
	for _, p := range g.Players {
		if p.ID != playerID && p.Team == me.Team {
			return p, true
		}
	}
	return nil, false
}

// HasBet reports whether playerID already bet this round.
func (g *Game) HasBet(playerID string) bool {
	for _, b := range g.Round.Bets {
		if b.PlayerID == playerID {
			return true
		}
	}
	return false
}

// HandsEmpty reports whether every player has played out their hand.
func (g *Game) HandsEmpty() bool {
	for _, p := range g.Players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

// HumanCount returns the number of non-bot players.
func (g *Game) HumanCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.Bot {
			n++
		}
	}
	return n
}

func nextSeat(seat int) int {
	return (seat + 1) % PlayerCount
}
