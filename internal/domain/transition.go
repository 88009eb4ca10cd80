package domain

// Transitions mutate the game in place and assume the matching Validate call
// succeeded. A transition reached in an impossible state panics with an
// *InvariantViolation.

// JoinLobby seats a new player on the smaller team.
func JoinLobby(g *Game, playerID, name string, bot bool) *Player {
	if verr := ValidateJoin(g, playerID); verr != nil {
		invariant("JoinLobby", "%s", verr.Reason)
	}
	p := &Player{ID: playerID, Name: name, Bot: bot, Team: SmallerTeam(g)}
	g.Players = append(g.Players, p)
	return p
}

// LeaveLobby removes a player during team selection and reports whether a
// seat was freed. Seats are kept once the game has started.
func LeaveLobby(g *Game, playerID string) bool {
	if g.Phase != PhaseTeamSelection {
		return false
	}
	seat := g.SeatOf(playerID)
	if seat < 0 {
		return false
	}
	g.Players = append(g.Players[:seat], g.Players[seat+1:]...)
	return true
}

// ApplyTeamSelection moves the actor to team.
func ApplyTeamSelection(g *Game, actorID string, team TeamID) {
	p, ok := g.Player(actorID)
	if !ok {
		invariant("ApplyTeamSelection", "unknown player %s", actorID)
	}
	p.Team = team
}

// ApplyPositionSwap exchanges two seats and re-derives every team from its
// seat index so that teams keep alternating.
func ApplyPositionSwap(g *Game, actorID, targetID string) {
	a, b := g.SeatOf(actorID), g.SeatOf(targetID)
	if a < 0 || b < 0 {
		invariant("ApplyPositionSwap", "unknown player in swap %s/%s", actorID, targetID)
	}
	g.Players[a], g.Players[b] = g.Players[b], g.Players[a]
	for seat, p := range g.Players {
		p.Team = SeatTeam(seat)
	}
}

// StartGame arranges the seats so that teams alternate, keeping the relative
// order within each team, and deals the first round.
func StartGame(g *Game, deck []Card) {
	team1, team2 := g.TeamMembers(Team1), g.TeamMembers(Team2)
	if len(g.Players) != PlayerCount || len(team1) != TeamSize || len(team2) != TeamSize {
		invariant("StartGame", "need %d players split %d/%d", PlayerCount, TeamSize, TeamSize)
	}
	seats := make([]*Player, 0, PlayerCount)
	for i := 0; i < TeamSize; i++ {
		seats = append(seats, team1[i], team2[i])
	}
	g.Players = seats
	InitializeRound(g, deck)
}

// InitializeRound deals deck, rotates the dealer and opens betting with the
// seat after the dealer.
func InitializeRound(g *Game, deck []Card) {
	if len(g.Players) != PlayerCount {
		invariant("InitializeRound", "have %d players", len(g.Players))
	}
	hands, err := Deal(deck)
	if err != nil {
		invariant("InitializeRound", "bad deck: %v", err)
	}
	for i, p := range g.Players {
		p.Hand = hands[i]
		p.TricksWon = 0
		p.PointsWon = 0
	}
	g.Dealer = nextSeat(g.Dealer)
	g.Round = Round{Number: g.Round.Number + 1}
	g.CurrentTurn = nextSeat(g.Dealer)
	g.Phase = PhaseBetting
}

// BetOutcome reports the derived facts after a bet.
type BetOutcome struct {
	BettingComplete bool
	AllSkipped      bool
}

// ApplyBet records bet and advances the turn.
func ApplyBet(g *Game, bet Bet) BetOutcome {
	if g.Phase != PhaseBetting {
		invariant("ApplyBet", "phase is %s", g.Phase)
	}
	if bet.Skipped {
		bet.Amount = 0
		bet.WithoutTrump = false
	}
	g.Round.Bets = append(g.Round.Bets, bet)
	g.CurrentTurn = nextSeat(g.CurrentTurn)

	out := BetOutcome{BettingComplete: len(g.Round.Bets) >= PlayerCount}
	if out.BettingComplete {
		out.AllSkipped = !hasOpenBet(g.Round.Bets)
	}
	return out
}

// ResetBetting clears the bets after everyone skipped.
func ResetBetting(g *Game) {
	g.Round.Bets = nil
	g.CurrentTurn = nextSeat(g.Dealer)
}

// ConcludeBetting settles the winning bet and hands the lead to its bidder.
func ConcludeBetting(g *Game) Bet {
	best, ok := HighestBet(g.Round.Bets, g.DealerID())
	if !ok {
		invariant("ConcludeBetting", "no bet was placed")
	}
	seat := g.SeatOf(best.PlayerID)
	if seat < 0 {
		invariant("ConcludeBetting", "bidder %s is not seated", best.PlayerID)
	}
	g.Round.WinningBet = &best
	g.Phase = PhasePlaying
	g.CurrentTurn = seat
	return best
}

// ApplyCardPlay moves card from the actor's hand into the live trick and
// reports whether the trick is now full. The first card of the round fixes
// trump unless the winning bet was without trump.
func ApplyCardPlay(g *Game, actorID string, card Card) bool {
	p, ok := g.Player(actorID)
	if !ok {
		invariant("ApplyCardPlay", "unknown player %s", actorID)
	}
	hand, ok := RemoveCard(p.Hand, card)
	if !ok {
		invariant("ApplyCardPlay", "%s does not hold %s", actorID, card)
	}
	r := &g.Round
	if len(r.Tricks) == 0 && r.Trick.Len() == 0 && r.Trump == nil {
		if r.WinningBet == nil || !r.WinningBet.WithoutTrump {
			trump := card.Color
			r.Trump = &trump
		}
	}
	p.Hand = hand
	r.Trick.Cards = append(r.Trick.Cards, PlayedCard{PlayerID: actorID, Card: card})
	g.CurrentTurn = nextSeat(g.CurrentTurn)
	return r.Trick.Len() == PlayerCount
}

// ResolveTrick credits the full live trick to its winner, who leads next.
// The phase moves to scoring once every hand is empty.
func ResolveTrick(g *Game) TrickRecord {
	r := &g.Round
	if r.Trick.Len() != PlayerCount {
		invariant("ResolveTrick", "trick has %d cards", r.Trick.Len())
	}
	won, err := DetermineWinner(r.Trick.Cards, r.Trump)
	if err != nil {
		invariant("ResolveTrick", "%v", err)
	}
	winner, _ := g.Player(won.PlayerID)
	points := TrickValue(r.Trick.Cards)
	winner.TricksWon++
	winner.PointsWon += points

	rec := TrickRecord{
		Number:   len(r.Tricks) + 1,
		Cards:    r.Trick.Cards,
		WinnerID: winner.ID,
		Points:   points,
	}
	r.Tricks = append(r.Tricks, rec)
	r.Trick = Trick{}
	g.CurrentTurn = g.SeatOf(winner.ID)
	if g.HandsEmpty() {
		g.Phase = PhaseScoring
	}
	return rec
}

// RoundScoring is the outcome of scoring a round, before it is applied.
type RoundScoring struct {
	OffensiveTeam   TeamID
	OffensivePoints int
	DefensivePoints int
	RoundScores     TeamScores
}

// ComputeRoundScoring scores the current round without mutating g. The
// offensive team gains or loses its bet times the multiplier; the defensive
// team always adds the points it took.
func ComputeRoundScoring(g *Game) (RoundScoring, error) {
	bet := g.Round.WinningBet
	if bet == nil {
		return RoundScoring{}, ErrNoWinningBet
	}
	bidder, ok := g.Player(bet.PlayerID)
	if !ok {
		return RoundScoring{}, ErrNoWinningBet
	}
	var points TeamScores
	for _, p := range g.Players {
		points.Add(p.Team, p.PointsWon)
	}
	off := bidder.Team
	def := off.Opponent()
	res := RoundScoring{
		OffensiveTeam:   off,
		OffensivePoints: points.Get(off),
		DefensivePoints: points.Get(def),
	}
	res.RoundScores.Add(off, RoundScore(res.OffensivePoints, *bet))
	res.RoundScores.Add(def, res.DefensivePoints)
	return res, nil
}

// ApplyRoundScoring adds the round result to the cumulative scores, archives
// the round and ends the game once a team reaches TargetScore. When both
// teams cross it the higher score wins and the offensive team takes a tie.
func ApplyRoundScoring(g *Game) RoundSummary {
	if g.Phase != PhaseScoring {
		invariant("ApplyRoundScoring", "phase is %s", g.Phase)
	}
	res, err := ComputeRoundScoring(g)
	if err != nil {
		invariant("ApplyRoundScoring", "%v", err)
	}
	g.Scores.Team1 += res.RoundScores.Team1
	g.Scores.Team2 += res.RoundScores.Team2

	summary := RoundSummary{
		Number:          g.Round.Number,
		DealerID:        g.DealerID(),
		Bets:            g.Round.Bets,
		WinningBet:      *g.Round.WinningBet,
		Trump:           g.Round.Trump,
		Tricks:          g.Round.Tricks,
		OffensiveTeam:   res.OffensiveTeam,
		OffensivePoints: res.OffensivePoints,
		DefensivePoints: res.DefensivePoints,
		RoundScores:     res.RoundScores,
		TotalScores:     g.Scores,
	}
	g.History = append(g.History, summary)

	if winner := gameWinner(g.Scores, res.OffensiveTeam); winner != TeamNone {
		g.Winner = winner
		g.Phase = PhaseGameOver
		g.RematchVotes = make(map[string]bool)
	}
	return summary
}

func gameWinner(s TeamScores, offensive TeamID) TeamID {
	t1, t2 := s.Team1 >= TargetScore, s.Team2 >= TargetScore
	switch {
	case t1 && t2:
		if s.Team1 == s.Team2 {
			return offensive
		}
		if s.Team1 > s.Team2 {
			return Team1
		}
		return Team2
	case t1:
		return Team1
	case t2:
		return Team2
	}
	return TeamNone
}

// ApplyRematchVote records a vote and reports whether every human has voted.
// Bots vote implicitly.
func ApplyRematchVote(g *Game, actorID string) bool {
	if g.Phase != PhaseGameOver {
		invariant("ApplyRematchVote", "phase is %s", g.Phase)
	}
	if g.RematchVotes == nil {
		g.RematchVotes = make(map[string]bool)
	}
	g.RematchVotes[actorID] = true
	for _, p := range g.Players {
		if !p.Bot && !g.RematchVotes[p.ID] {
			return false
		}
	}
	return true
}

// ResetForRematch returns a finished game to team selection with the same
// seats, as if freshly created.
func ResetForRematch(g *Game) {
	for _, p := range g.Players {
		p.Hand = nil
		p.TricksWon = 0
		p.PointsWon = 0
	}
	g.Phase = PhaseTeamSelection
	g.Dealer = PlayerCount - 1
	g.CurrentTurn = 0
	g.Scores = TeamScores{}
	g.Round = Round{}
	g.History = nil
	g.Winner = TeamNone
	g.RematchVotes = nil
}
