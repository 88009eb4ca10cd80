package nakama

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"fortyone/internal/app"
	"fortyone/internal/bot"
	"fortyone/internal/config"
	"fortyone/internal/domain"
	"fortyone/internal/identity"
	"fortyone/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// emptyMatchGraceTicks is how long a match survives with nobody connected.
const emptyMatchGraceTicks = 120

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	MatchID string `json:"match_id"`
	Tick    int64  `json:"tick"`

	Table  *app.Table        `json:"-"`
	App    *app.Service      `json:"-"`
	Config config.GameConfig `json:"-"`

	Presences      map[string]runtime.Presence `json:"-"` // PlayerID -> live presence
	PendingTickets map[string]string           `json:"-"` // SessionID -> ticket presented on join
	Identity       *identity.Reconciler        `json:"-"`
	History        ports.HistoryPort           `json:"-"`
	Profiles       ports.ProfilePort           `json:"-"`

	Bots                 map[string]*bot.Agent `json:"-"`
	BotWaitUntil         int64                 `json:"bot_wait_until"`          // Tick when the bot should act
	LastSinglePlayerTick int64                 `json:"last_single_player_tick"` // Tick when a human started waiting for bots
	TurnSecondsRemaining int                   `json:"turn_seconds_remaining"`
	EmptySinceTick       int64                 `json:"empty_since_tick"`
	Corrupted            bool                  `json:"corrupted"` // An invariant broke; the match ends this tick

	label string
	rng   *rand.Rand
}

// Game returns the game hosted by the match.
func (ms *MatchState) Game() *domain.Game {
	return ms.Table.Game
}

func (ms *MatchState) isConnected(playerID string) bool {
	_, ok := ms.Presences[playerID]
	return ok
}

type matchHandler struct {
	deps *dependencies
}

func newMatchHandler(deps *dependencies) *matchHandler {
	return &matchHandler{deps: deps}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	service := app.NewService(rng)

	state := &MatchState{
		MatchID:        matchID,
		Table:          service.NewTable(""),
		App:            service,
		Config:         mh.deps.config,
		Presences:      make(map[string]runtime.Presence),
		PendingTickets: make(map[string]string),
		Identity:       identity.NewReconciler(mh.deps.identities, mh.deps.tickets),
		History:        mh.deps.history,
		Profiles:       mh.deps.profiles,
		Bots:           make(map[string]*bot.Agent),
		rng:            rng,
	}

	label, err := encodeLabel(domain.ComputeLabel(state.Game()))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.label = label
	logger.Debug("MatchInit: Match %s hosting game %s.", matchID, state.Game().ID)
	return state, tickRate, label
}

// MatchJoinAttempt admits returning players at any time and new players while
// the lobby has a free seat or a bot to replace.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if bot.IsBot(presence.GetUserId()) {
		return state, false, "Bot accounts cannot join"
	}

	ticket := metadata[MetadataTicket]
	playerID, err := matchState.Identity.Claim(matchState.MatchID, presence.GetUserId(), ticket)
	if err != nil {
		logger.Warn("MatchJoinAttempt: Ignoring ticket from %s: %v", presence.GetUserId(), err)
	}

	g := matchState.Game()
	if g.SeatOf(playerID) >= 0 {
		matchState.PendingTickets[presence.GetSessionId()] = ticket
		return state, true, ""
	}
	if g.Phase != domain.PhaseTeamSelection {
		return state, false, "Game in progress"
	}
	if len(g.Players) >= domain.PlayerCount && lobbyBot(g) == "" {
		return state, false, "Match full"
	}
	matchState.PendingTickets[presence.GetSessionId()] = ticket
	return state, true, ""
}

// lobbyBot returns a bot seated in the lobby that a human may replace.
func lobbyBot(g *domain.Game) string {
	for i := len(g.Players) - 1; i >= 0; i-- {
		if g.Players[i].Bot {
			return g.Players[i].ID
		}
	}
	return ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		mh.joinPresence(ctx, matchState, dispatcher, logger, p)
	}
	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) joinPresence(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, p runtime.Presence) {
	ticket := state.PendingTickets[p.GetSessionId()]
	delete(state.PendingTickets, p.GetSessionId())

	playerID, err := state.Identity.Attach(ctx, state.MatchID, p.GetSessionId(), p.GetUserId(), ticket)
	if playerID == "" {
		logger.Error("MatchJoin: Failed to bind session of %s: %v", p.GetUserId(), err)
		_ = dispatcher.MatchKick([]runtime.Presence{p})
		return
	}
	if err != nil {
		logger.Warn("MatchJoin: Rejoin ticket of %s rejected: %v", p.GetUserId(), err)
	}
	state.EmptySinceTick = 0

	g := state.Game()
	if g.SeatOf(playerID) >= 0 {
		state.Presences[playerID] = p
		logger.Info("MatchJoin: Player %s reconnected with session %s", playerID, p.GetSessionId())
		mh.broadcastEvents(ctx, state, dispatcher, logger, []app.Event{
			{Kind: app.EventGameUpdated, Payload: app.GameUpdatedPayload{ActorID: playerID}},
		})
		mh.sendTicket(state, dispatcher, logger, playerID)
		return
	}

	if len(g.Players) >= domain.PlayerCount {
		if botID := lobbyBot(g); botID != "" {
			logger.Info("MatchJoin: Replacing bot %s with human %s", botID, playerID)
			delete(state.Bots, botID)
			mh.broadcastEvents(ctx, state, dispatcher, logger, state.App.Leave(state.Table, botID))
		}
	}

	// Registered after any bot swap so the newcomer only hears about its own seat.
	state.Presences[playerID] = p
	events, err := state.App.Join(state.Table, playerID, mh.displayName(ctx, state, logger, playerID, p), false)
	if err != nil {
		logger.Warn("MatchJoin: Player %s could not be seated: %v", playerID, err)
		delete(state.Presences, playerID)
		_ = state.Identity.Detach(ctx, state.MatchID, p.GetSessionId())
		_ = dispatcher.MatchKick([]runtime.Presence{p})
		return
	}
	logger.Info("MatchJoin: Player %s seated (%d/%d)", playerID, len(g.Players), domain.PlayerCount)
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	mh.sendTicket(state, dispatcher, logger, playerID)
}

func (mh *matchHandler) displayName(ctx context.Context, state *MatchState, logger runtime.Logger, playerID string, p runtime.Presence) string {
	if state.Profiles != nil {
		name, err := state.Profiles.DisplayName(ctx, playerID)
		if err == nil && name != "" {
			return name
		}
		if err != nil {
			logger.Debug("MatchJoin: No profile for %s: %v", playerID, err)
		}
	}
	return p.GetUsername()
}

// MatchLeave is called when one or more players leave the match. Seats of a
// started game are kept so the player can rejoin.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		playerID, err := matchState.Identity.Resolve(ctx, matchState.MatchID, p.GetSessionId())
		if err != nil {
			logger.Warn("MatchLeave: Unknown session %s: %v", p.GetSessionId(), err)
			continue
		}
		if err := matchState.Identity.Detach(ctx, matchState.MatchID, p.GetSessionId()); err != nil {
			logger.Warn("MatchLeave: Failed to release session %s: %v", p.GetSessionId(), err)
		}
		// A player that already rebound to a newer session stays connected.
		if sid, err := matchState.Identity.Session(ctx, matchState.MatchID, playerID); err != nil {
			logger.Warn("MatchLeave: Failed to look up session of %s: %v", playerID, err)
		} else if sid != "" {
			logger.Debug("MatchLeave: Player %s still connected on session %s", playerID, sid)
			continue
		}
		if current, ok := matchState.Presences[playerID]; ok && current.GetSessionId() == p.GetSessionId() {
			delete(matchState.Presences, playerID)
		}
		logger.Debug("MatchLeave: Player %s left.", playerID)

		events := matchState.App.Leave(matchState.Table, playerID)
		if events == nil {
			events = []app.Event{{Kind: app.EventGameUpdated, Payload: app.GameUpdatedPayload{ActorID: playerID}}}
		}
		mh.broadcastEvents(ctx, matchState, dispatcher, logger, events)
	}

	if mh.shouldTerminate(matchState, true) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		mh.purge(ctx, matchState, logger)
		return nil
	}
	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// shouldTerminate reports whether the match has nobody left to serve. When
// the last player leaves a lobby or a finished game it ends at once; otherwise
// an empty match is kept for emptyMatchGraceTicks so players can rejoin.
func (mh *matchHandler) shouldTerminate(state *MatchState, lastLeft bool) bool {
	if len(state.Presences) > 0 {
		state.EmptySinceTick = 0
		return false
	}
	if lastLeft {
		switch state.Game().Phase {
		case domain.PhaseTeamSelection, domain.PhaseGameOver:
			return true
		}
	}
	if state.EmptySinceTick == 0 {
		state.EmptySinceTick = state.Tick
	}
	return state.Tick-state.EmptySinceTick >= emptyMatchGraceTicks
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		if matchState.Corrupted {
			break
		}
		mh.handleMessage(ctx, matchState, dispatcher, logger, msg)
	}

	if !matchState.Corrupted {
		mh.advanceTurnTimer(ctx, matchState, dispatcher, logger)
	}
	if !matchState.Corrupted && matchState.Config.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	if matchState.Corrupted {
		logger.Error("MatchLoop: Terminating match %s after an invariant violation.", matchState.MatchID)
		mh.purge(ctx, matchState, logger)
		return nil
	}

	if mh.shouldTerminate(matchState, false) {
		logger.Info("MatchLoop: Terminating abandoned match.")
		mh.purge(ctx, matchState, logger)
		return nil
	}
	return matchState
}

func (mh *matchHandler) handleMessage(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	playerID, err := state.Identity.Resolve(ctx, state.MatchID, msg.GetSessionId())
	if err != nil {
		logger.Warn("MatchLoop: Dropping message from unbound session %s: %v", msg.GetSessionId(), err)
		return
	}

	action, err := decodeAction(msg.GetOpCode(), playerID, msg.GetData())
	if err != nil {
		logger.Warn("MatchLoop: Bad message from %s (op %d): %v", playerID, msg.GetOpCode(), err)
		mh.sendError(state, dispatcher, logger, playerID, errorPayload{Code: "bad_payload", Reason: err.Error()})
		return
	}
	mh.dispatch(ctx, state, dispatcher, logger, action)
}

// dispatch runs action through the app service and publishes the outcome. It
// reports whether the action was accepted.
func (mh *matchHandler) dispatch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, action domain.Action) bool {
	events, err := state.App.Dispatch(state.Table, action)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			logger.Debug("dispatch: %s rejected for %s: %s", action.Type, action.ActorID, verr.Reason)
			mh.sendError(state, dispatcher, logger, action.ActorID, errorPayload{Action: string(verr.Action), Code: verr.Code, Reason: verr.Reason})
			return false
		}
		logger.Error("dispatch: %s by %s failed: %v", action.Type, action.ActorID, err)
		if errors.Is(err, domain.ErrInvariant) {
			// The game may be half-applied; tell everyone and end the match.
			state.Corrupted = true
			for playerID := range state.Presences {
				mh.sendError(state, dispatcher, logger, playerID, errorPayload{Action: string(action.Type), Code: "internal", Reason: "game aborted"})
			}
			return false
		}
		mh.sendError(state, dispatcher, logger, action.ActorID, errorPayload{Action: string(action.Type), Code: "internal", Reason: "internal error"})
		return false
	}

	mh.resetTurnTimer(state, action.Type == domain.ActionStartGame)
	state.BotWaitUntil = 0
	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
	return true
}

func (mh *matchHandler) resetTurnTimer(state *MatchState, gameStart bool) {
	if !inTurnPhase(state.Game().Phase) {
		state.TurnSecondsRemaining = 0
		return
	}
	state.TurnSecondsRemaining = int(state.Config.TurnDuration() / time.Second)
	if gameStart {
		state.TurnSecondsRemaining += gameStartTurnBonusSeconds
	}
}

// advanceTurnTimer counts down the current turn and plays the fallback action
// for the current player when it runs out.
func (mh *matchHandler) advanceTurnTimer(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if !inTurnPhase(state.Game().Phase) {
		state.TurnSecondsRemaining = 0
		return
	}
	if state.TurnSecondsRemaining > 0 {
		state.TurnSecondsRemaining--
		if state.TurnSecondsRemaining > 0 {
			return
		}
	}

	action, err := state.App.Fallback(state.Table)
	if err != nil {
		logger.Error("advanceTurnTimer: No fallback action: %v", err)
		return
	}
	logger.Info("advanceTurnTimer: Turn of %s expired, playing %s", action.ActorID, action.Type)
	mh.dispatch(ctx, state, dispatcher, logger, action)
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	g := state.Game()

	// 1. Fill the open lobby seats once a human has waited long enough.
	if g.Phase == domain.PhaseTeamSelection {
		if g.HumanCount() == 0 || len(g.Players) >= domain.PlayerCount {
			state.LastSinglePlayerTick = 0
			return
		}
		if state.LastSinglePlayerTick == 0 {
			state.LastSinglePlayerTick = state.Tick
			logger.Debug("processBots: Lobby waiting for players, starting auto-fill timer.")
		}
		if state.Tick-state.LastSinglePlayerTick >= int64(state.Config.BotAutoFillDelaySeconds) {
			mh.fillWithBots(ctx, state, dispatcher, logger)
			state.LastSinglePlayerTick = 0
		}
		return
	}

	// 2. Handle bot turns in-game.
	if !inTurnPhase(g.Phase) {
		return
	}
	current, ok := g.CurrentPlayer()
	if !ok || !current.Bot {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := state.rng.Intn(state.Config.BotMaxDelaySeconds-state.Config.BotMinDelaySeconds+1) + state.Config.BotMinDelaySeconds
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s will act at tick %d (current %d)", current.ID, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, exists := state.Bots[current.ID]
	if !exists {
		var err error
		agent, err = mh.newAgent(state, bot.BotIdentity{UserID: current.ID, DisplayName: current.Name})
		if err != nil {
			logger.Error("processBots: Failed to create fallback agent: %v", err)
			return
		}
		state.Bots[current.ID] = agent
	}

	action, ok, err := agent.Play(g)
	if err != nil {
		logger.Error("processBots: Bot %s failed to calculate move: %v", current.ID, err)
		return
	}
	if ok {
		mh.dispatch(ctx, state, dispatcher, logger, action)
	}
}

func (mh *matchHandler) fillWithBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	g := state.Game()
	for i := 0; len(g.Players) < domain.PlayerCount && i < 4*domain.PlayerCount; i++ {
		id := bot.GetBotIdentity(i)
		if g.SeatOf(id.UserID) >= 0 {
			continue
		}
		agent, err := mh.newAgent(state, id)
		if err != nil {
			logger.Error("processBots: Failed to create bot agent for %s: %v", id.UserID, err)
			return
		}
		events, err := state.App.Join(state.Table, agent.ID, agent.Name, true)
		if err != nil {
			logger.Error("processBots: Failed to seat bot %s: %v", agent.ID, err)
			return
		}
		state.Bots[agent.ID] = agent
		logger.Info("processBots: Added %s bot %s (%s)", agent.Level, id.Username, agent.ID)
		mh.broadcastEvents(ctx, state, dispatcher, logger, events)
	}
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) newAgent(state *MatchState, id bot.BotIdentity) (*bot.Agent, error) {
	if id.Difficulty == "" {
		id.Difficulty = state.Config.BotLevel
	}
	if id.DisplayName == "" {
		id.DisplayName = bot.GetBotDisplayName(id.UserID)
	}
	if id.DisplayName == "" {
		id.DisplayName = id.Username
	}
	brain, err := bot.NewBrain(bot.ParseLevel(id.Difficulty), state.rng)
	if err != nil {
		return nil, err
	}
	return bot.NewAgent(id, brain), nil
}

// broadcastEvents sends every event to its recipients, each with their own
// projection of the game, and runs the side effects of round and game ends.
func (mh *matchHandler) broadcastEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		var opCode int64
		switch ev.Kind {
		case app.EventPlayerJoined:
			opCode = OpPlayerJoined
		case app.EventPlayerLeft:
			opCode = OpPlayerLeft
		case app.EventGameUpdated:
			opCode = OpGameUpdated
		case app.EventTrickResolved:
			opCode = OpTrickResolved
			p := ev.Payload.(app.TrickResolvedPayload)
			logger.Debug("Event: trick %d won by %s for %d points", p.Trick.Number, p.Trick.WinnerID, p.Trick.Points)
		case app.EventRoundEnded:
			opCode = OpRoundEnded
			p := ev.Payload.(app.RoundEndedPayload)
			logger.Info("Event: round %d ended, scores %d-%d", p.Summary.Number, p.Summary.TotalScores.Team1, p.Summary.TotalScores.Team2)
			mh.archiveRound(ctx, state, logger, p.Summary)
		case app.EventGameOver:
			opCode = OpGameOver
			p := ev.Payload.(app.GameOverPayload)
			logger.Info("Event: game %s won by team %d (%d-%d)", state.Game().ID, p.Winner, p.Scores.Team1, p.Scores.Team2)
		default:
			logger.Warn("Unknown event kind: %v", ev.Kind)
			continue
		}

		for playerID, presence := range mh.recipients(state, ev) {
			mh.send(state, dispatcher, logger, opCode, presence, envelope{Event: string(ev.Kind), Payload: ev.Payload, State: mh.view(state, playerID)})
		}
	}
}

// recipients resolves the connected presences an event goes to. Targeted
// events never fall back to a broadcast.
func (mh *matchHandler) recipients(state *MatchState, ev app.Event) map[string]runtime.Presence {
	if len(ev.Recipients) == 0 {
		return state.Presences
	}
	out := make(map[string]runtime.Presence, len(ev.Recipients))
	for _, id := range ev.Recipients {
		if p, ok := state.Presences[id]; ok {
			out[id] = p
		}
	}
	return out
}

func (mh *matchHandler) view(state *MatchState, playerID string) *GameView {
	return buildView(state.Game(), playerID, state.isConnected, state.TurnSecondsRemaining)
}

func (mh *matchHandler) archiveRound(ctx context.Context, state *MatchState, logger runtime.Logger, summary domain.RoundSummary) {
	if state.History == nil {
		return
	}
	if err := state.History.ArchiveRound(ctx, state.Game().ID, summary); err != nil {
		logger.Error("Failed to archive round %d of %s: %v", summary.Number, state.Game().ID, err)
	}
}

func (mh *matchHandler) send(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, presence runtime.Presence, env envelope) {
	data, err := encodeEnvelope(env)
	if err != nil {
		logger.Error("%v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Warn("Failed to send %s to %s: %v", env.Event, presence.GetUserId(), err)
	}
}

// sendError sends a game_error message to a specific player.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, playerID string, payload errorPayload) {
	presence, ok := state.Presences[playerID]
	if !ok {
		logger.Debug("Cannot send error to %s: Presence not found", playerID)
		return
	}
	mh.send(state, dispatcher, logger, OpGameError, presence, envelope{Event: "game_error", Payload: payload, State: mh.view(state, playerID)})
}

// sendTicket hands playerID a rejoin ticket when tickets are enabled.
func (mh *matchHandler) sendTicket(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, playerID string) {
	ticket, err := state.Identity.Ticket(state.MatchID, playerID)
	if err != nil {
		logger.Error("Failed to issue rejoin ticket for %s: %v", playerID, err)
		return
	}
	if ticket == "" {
		return
	}
	presence, ok := state.Presences[playerID]
	if !ok {
		return
	}
	mh.send(state, dispatcher, logger, OpRejoinTicket, presence, envelope{Event: "rejoin_ticket", Payload: ticketPayload{PlayerID: playerID, Ticket: ticket}})
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := encodeLabel(domain.ComputeLabel(state.Game()))
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if label == state.label {
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.label = label
}

func (mh *matchHandler) purge(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if err := state.Identity.Purge(ctx, state.MatchID); err != nil {
		logger.Warn("Failed to purge sessions of %s: %v", state.MatchID, err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	if matchState, ok := state.(*MatchState); ok {
		mh.purge(ctx, matchState, logger)
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
