package domain

const (
	PlayerCount    = 4
	TeamSize       = 2
	HandSize       = 8
	DeckSize       = PlayerCount * HandSize
	TricksPerRound = HandSize

	MinCardValue = 0
	MaxCardValue = 7

	MinBet = 7
	MaxBet = 12

	// TargetScore ends the game as soon as a team's cumulative score reaches it.
	TargetScore = 41

	// TrickBasePoints is awarded for every trick before special-card adjustments.
	TrickBasePoints  = 1
	RedZeroPoints    = 5
	BrownZeroPoints  = -3
	WithoutTrumpMult = 2

	// RoundPoints is the total trick-points in play each round. Bets above it
	// cannot be made.
	RoundPoints = TricksPerRound*TrickBasePoints + RedZeroPoints + BrownZeroPoints
)
