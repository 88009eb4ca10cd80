package domain

// Validate checks an action against the current game without mutating it. It
// returns nil or a *ValidationError.
func Validate(g *Game, a Action) error {
	var verr *ValidationError
	switch a.Type {
	case ActionPlayCard:
		verr = ValidatePlayCard(g, a.ActorID, a.Card)
	case ActionPlaceBet:
		verr = ValidateBet(g, a.Bet())
	case ActionSelectTeam:
		verr = ValidateTeamSelection(g, a.ActorID, a.Team)
	case ActionSwapPosition:
		verr = ValidatePositionSwap(g, a.ActorID, a.TargetID)
	case ActionStartGame:
		verr = ValidateStartGame(g, a.ActorID)
	case ActionVoteRematch:
		verr = ValidateRematchVote(g, a.ActorID)
	default:
		verr = reject(a.Type, CodeUnknownAction, "unknown action %q", a.Type)
	}
	if verr != nil {
		return verr
	}
	return nil
}

func checkPhase(g *Game, action ActionType, want Phase) *ValidationError {
	if g.Phase != want {
		return reject(action, CodeWrongPhase, "game is in %s, want %s", g.Phase, want)
	}
	return nil
}

func checkTurn(g *Game, action ActionType, actorID string) *ValidationError {
	current, ok := g.CurrentPlayer()
	if !ok || current.ID != actorID {
		return reject(action, CodeNotYourTurn, "it is not %s's turn", actorID)
	}
	return nil
}

// ValidatePlayCard checks a play_card request.
func ValidatePlayCard(g *Game, actorID string, card Card) *ValidationError {
	if err := checkPhase(g, ActionPlayCard, PhasePlaying); err != nil {
		return err
	}
	player, ok := g.Player(actorID)
	if !ok {
		return reject(ActionPlayCard, CodeUnknownPlayer, "player %s is not in this game", actorID)
	}
	if g.Round.Trick.HasPlayed(actorID) {
		return reject(ActionPlayCard, CodeAlreadyPlayed, "already played this trick")
	}
	if g.Round.Trick.Len() >= PlayerCount {
		return reject(ActionPlayCard, CodeTrickFull, "trick already has %d cards", PlayerCount)
	}
	if err := checkTurn(g, ActionPlayCard, actorID); err != nil {
		return err
	}
	if !card.Valid() {
		return reject(ActionPlayCard, CodeInvalidCard, "card %+v does not exist", card)
	}
	if !HasCard(player.Hand, card) {
		return reject(ActionPlayCard, CodeCardNotInHand, "card %s is not in hand", card)
	}
	if !IsLegalCard(player.Hand, g.Round.Trick, card) {
		led, _ := g.Round.Trick.LedColor()
		return reject(ActionPlayCard, CodeMustFollowSuit, "must follow %s", led)
	}
	return nil
}

// ValidateBet checks a place_bet request. bet.PlayerID is the actor.
func ValidateBet(g *Game, bet Bet) *ValidationError {
	if err := checkPhase(g, ActionPlaceBet, PhaseBetting); err != nil {
		return err
	}
	if _, ok := g.Player(bet.PlayerID); !ok {
		return reject(ActionPlaceBet, CodeUnknownPlayer, "player %s is not in this game", bet.PlayerID)
	}
	if err := checkTurn(g, ActionPlaceBet, bet.PlayerID); err != nil {
		return err
	}
	if g.HasBet(bet.PlayerID) {
		return reject(ActionPlaceBet, CodeAlreadyBet, "already bet this round")
	}
	if bet.Skipped {
		if bet.PlayerID == g.DealerID() && !hasOpenBet(g.Round.Bets) {
			return reject(ActionPlaceBet, CodeDealerMustBid, "dealer must open the bidding when everyone else skipped")
		}
		return nil
	}
	if bet.Amount < MinBet || bet.Amount > MaxBet {
		return reject(ActionPlaceBet, CodeBetOutOfRange, "bet %d outside [%d,%d]", bet.Amount, MinBet, MaxBet)
	}
	return nil
}

func hasOpenBet(bets []Bet) bool {
	for _, b := range bets {
		if !b.Skipped {
			return true
		}
	}
	return false
}

// ValidateTeamSelection checks a select_team request.
func ValidateTeamSelection(g *Game, actorID string, team TeamID) *ValidationError {
	if err := checkPhase(g, ActionSelectTeam, PhaseTeamSelection); err != nil {
		return err
	}
	player, ok := g.Player(actorID)
	if !ok {
		return reject(ActionSelectTeam, CodeUnknownPlayer, "player %s is not in this game", actorID)
	}
	if !team.Valid() {
		return reject(ActionSelectTeam, CodeInvalidTeam, "team %d does not exist", team)
	}
	if player.Team == team {
		return reject(ActionSelectTeam, CodeAlreadyOnTeam, "already on team %d", team)
	}
	if TeamCount(g, team) >= TeamSize {
		return reject(ActionSelectTeam, CodeTeamFull, "team %d is full", team)
	}
	return nil
}

// ValidatePositionSwap checks a swap_position request. Any two seated players may swap.
func ValidatePositionSwap(g *Game, actorID, targetID string) *ValidationError {
	if err := checkPhase(g, ActionSwapPosition, PhaseTeamSelection); err != nil {
		return err
	}
	if _, ok := g.Player(actorID); !ok {
		return reject(ActionSwapPosition, CodeUnknownPlayer, "player %s is not in this game", actorID)
	}
	if _, ok := g.Player(targetID); !ok {
		return reject(ActionSwapPosition, CodeUnknownPlayer, "player %s is not in this game", targetID)
	}
	if actorID == targetID {
		return reject(ActionSwapPosition, CodeSelfSwap, "cannot swap with yourself")
	}
	return nil
}

// ValidateStartGame checks a start_game request.
func ValidateStartGame(g *Game, actorID string) *ValidationError {
	if err := checkPhase(g, ActionStartGame, PhaseTeamSelection); err != nil {
		return err
	}
	if _, ok := g.Player(actorID); !ok {
		return reject(ActionStartGame, CodeUnknownPlayer, "player %s is not in this game", actorID)
	}
	if len(g.Players) != PlayerCount {
		return reject(ActionStartGame, CodeNotEnoughPlayers, "need %d players, have %d", PlayerCount, len(g.Players))
	}
	if TeamCount(g, Team1) != TeamSize || TeamCount(g, Team2) != TeamSize {
		return reject(ActionStartGame, CodeTeamsUnbalanced, "each team needs %d players", TeamSize)
	}
	return nil
}

// ValidateRematchVote checks a vote_rematch request.
func ValidateRematchVote(g *Game, actorID string) *ValidationError {
	if err := checkPhase(g, ActionVoteRematch, PhaseGameOver); err != nil {
		return err
	}
	if _, ok := g.Player(actorID); !ok {
		return reject(ActionVoteRematch, CodeUnknownPlayer, "player %s is not in this game", actorID)
	}
	if g.RematchVotes[actorID] {
		return reject(ActionVoteRematch, CodeAlreadyVoted, "already voted for a rematch")
	}
	return nil
}

// ValidateJoin checks whether playerID can take a seat.
func ValidateJoin(g *Game, playerID string) *ValidationError {
	if g.Phase != PhaseTeamSelection {
		return reject("", CodeWrongPhase, "game already started")
	}
	if _, ok := g.Player(playerID); ok {
		return reject("", CodeDuplicatePlayer, "player %s already seated", playerID)
	}
	if len(g.Players) >= PlayerCount {
		return reject("", CodeGameFull, "game is full")
	}
	return nil
}
