package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"
	// RpcRoundHistory returns the archived rounds of a game.
	RpcRoundHistory = "round_history"

	// MatchNameFortyOne is the authoritative match handler name registered with Nakama.
	MatchNameFortyOne = "fortyone_match"

	// MetadataTicket is the join metadata key carrying a rejoin ticket.
	MetadataTicket = "ticket"

	tickRate = 1

	// gameStartTurnBonusSeconds is added to the first turn after the deal.
	gameStartTurnBonusSeconds = 5
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpSelectTeam   int64 = 1
	OpSwapPosition int64 = 2
	OpStartGame    int64 = 3
	OpPlaceBet     int64 = 4
	OpPlayCard     int64 = 5
	OpVoteRematch  int64 = 6

	// Server -> Client events
	OpGameUpdated   int64 = 100
	OpTrickResolved int64 = 101
	OpRoundEnded    int64 = 102
	OpGameOver      int64 = 103
	OpGameError     int64 = 104
	OpRejoinTicket  int64 = 105 // send privately
	OpPlayerJoined  int64 = 106
	OpPlayerLeft    int64 = 107
)
