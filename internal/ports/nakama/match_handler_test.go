package nakama

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fortyone/internal/app"
	"fortyone/internal/config"
	"fortyone/internal/domain"
	"fortyone/internal/identity"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode int64
	to     string
	env    decodedEnvelope
}

type decodedEnvelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	State   *GameView       `json:"state"`
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	t      *testing.T
	sent   []sentMessage
	labels []string
	kicked []string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	var env decodedEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		md.t.Fatalf("undecodable message on op %d: %v", opCode, err)
	}
	for _, p := range presences {
		md.sent = append(md.sent, sentMessage{opCode: opCode, to: p.GetUserId(), env: env})
	}
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	for _, p := range presences {
		md.kicked = append(md.kicked, p.GetUserId())
	}
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labels = append(md.labels, label)
	return nil
}

func (md *mockDispatcher) byOp(opCode int64) []sentMessage {
	var out []sentMessage
	for _, m := range md.sent {
		if m.opCode == opCode {
			out = append(out, m)
		}
	}
	return out
}

func (md *mockDispatcher) lastLabel(t *testing.T) domain.LabelPayload {
	t.Helper()
	if len(md.labels) == 0 {
		t.Fatalf("no label update recorded")
	}
	var l domain.LabelPayload
	if err := json.Unmarshal([]byte(md.labels[len(md.labels)-1]), &l); err != nil {
		t.Fatalf("label is not JSON: %v", err)
	}
	return l
}

type fakePresence struct {
	runtime.Presence
	userID, sessionID string
}

func (p fakePresence) GetUserId() string    { return p.userID }
func (p fakePresence) GetSessionId() string { return p.sessionID }
func (p fakePresence) GetUsername() string  { return "user-" + p.userID }

type fakeData struct {
	runtime.MatchData
	presence fakePresence
	opCode   int64
	data     []byte
}

func (d fakeData) GetUserId() string    { return d.presence.userID }
func (d fakeData) GetSessionId() string { return d.presence.sessionID }
func (d fakeData) GetOpCode() int64     { return d.opCode }
func (d fakeData) GetData() []byte      { return d.data }

type handlerFixture struct {
	t     *testing.T
	mh    *matchHandler
	state *MatchState
	disp  *mockDispatcher
	nk    *fakeNK
	ctx   context.Context
	tick  int64
}

func newFixture(t *testing.T, mutate func(*config.GameConfig)) *handlerFixture {
	t.Helper()
	cfg := config.Defaults()
	cfg.TurnDurationSeconds = 1
	cfg.BotMinDelaySeconds = 0
	cfg.BotMaxDelaySeconds = 0
	cfg.BotAutoFillDelaySeconds = 1
	if mutate != nil {
		mutate(&cfg)
	}
	tickets, err := identity.NewTicketIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTicketIssuer: %v", err)
	}
	nk := newFakeNK()
	mh := newMatchHandler(&dependencies{
		config:     cfg,
		identities: identity.NewMemoryStore(),
		tickets:    tickets,
		history:    NewStorageHistory(nk),
		profiles:   NewNakamaProfileAdapter(nk),
	})
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_MATCH_ID, "match-1")
	state, rate, label := mh.MatchInit(ctx, noopLogger{}, nil, nk, nil)
	if rate != tickRate || label == "" {
		t.Fatalf("MatchInit returned rate %d label %q", rate, label)
	}
	return &handlerFixture{t: t, mh: mh, state: state.(*MatchState), disp: &mockDispatcher{t: t}, nk: nk, ctx: ctx}
}

func (f *handlerFixture) join(p fakePresence, ticket string) bool {
	f.t.Helper()
	meta := map[string]string{}
	if ticket != "" {
		meta[MetadataTicket] = ticket
	}
	_, ok, _ := f.mh.MatchJoinAttempt(f.ctx, noopLogger{}, nil, f.nk, f.disp, f.tick, f.state, p, meta)
	if ok {
		f.mh.MatchJoin(f.ctx, noopLogger{}, nil, f.nk, f.disp, f.tick, f.state, []runtime.Presence{p})
	}
	return ok
}

func (f *handlerFixture) loop(msgs ...runtime.MatchData) interface{} {
	f.tick++
	return f.mh.MatchLoop(f.ctx, noopLogger{}, nil, f.nk, f.disp, f.tick, f.state, msgs)
}

func (f *handlerFixture) send(p fakePresence, opCode int64, payload string) {
	f.loop(fakeData{presence: p, opCode: opCode, data: []byte(payload)})
}

var alice = fakePresence{userID: "alice", sessionID: "s-alice"}

func TestJoinSeatsPlayerAndIssuesTicket(t *testing.T) {
	f := newFixture(t, nil)
	f.nk.accounts["alice"] = &api.Account{User: &api.User{Id: "alice", Username: "alice1", DisplayName: "Alice"}}

	if !f.join(alice, "") {
		t.Fatalf("join rejected")
	}
	p, ok := f.state.Game().Player("alice")
	if !ok || p.Name != "Alice" || p.Team != domain.Team1 {
		t.Fatalf("alice not seated as expected: %+v", p)
	}
	tickets := f.disp.byOp(OpRejoinTicket)
	if len(tickets) != 1 || tickets[0].to != "alice" {
		t.Fatalf("expected one private ticket, got %+v", tickets)
	}
	joined := f.disp.byOp(OpPlayerJoined)
	if len(joined) != 1 || joined[0].env.State == nil || joined[0].env.State.ViewerID != "alice" {
		t.Fatalf("player_joined should carry alice's view, got %+v", joined)
	}
	if l := f.disp.lastLabel(t); !l.Open || l.Players != 1 || l.Game != "fortyone" {
		t.Fatalf("unexpected label %+v", l)
	}
}

func TestBotsFillLobbyAfterDelay(t *testing.T) {
	f := newFixture(t, func(c *config.GameConfig) { c.BotAutoFillDelaySeconds = 3 })
	f.join(alice, "")

	f.loop()
	f.loop()
	if n := len(f.state.Game().Players); n != 1 {
		t.Fatalf("bots joined before the delay: %d players", n)
	}
	f.loop()
	f.loop()
	g := f.state.Game()
	if len(g.Players) != domain.PlayerCount || g.HumanCount() != 1 {
		t.Fatalf("lobby not filled: %d players, %d humans", len(g.Players), g.HumanCount())
	}
	if len(f.state.Bots) != domain.PlayerCount-1 {
		t.Fatalf("expected %d agents, got %d", domain.PlayerCount-1, len(f.state.Bots))
	}
	if l := f.disp.lastLabel(t); l.Open {
		t.Fatalf("full lobby should not be advertised as open")
	}
}

func TestBotsDisabledNeverFill(t *testing.T) {
	f := newFixture(t, func(c *config.GameConfig) { c.BotsEnabled = false })
	f.join(alice, "")
	for i := 0; i < 10; i++ {
		f.loop()
	}
	if n := len(f.state.Game().Players); n != 1 {
		t.Fatalf("bots disabled but %d players seated", n)
	}
}

func TestHumanReplacesLobbyBot(t *testing.T) {
	f := newFixture(t, nil)
	f.join(alice, "")
	f.loop()
	f.loop()
	if len(f.state.Game().Players) != domain.PlayerCount {
		t.Fatalf("lobby not filled")
	}

	bob := fakePresence{userID: "bob", sessionID: "s-bob"}
	if !f.join(bob, "") {
		t.Fatalf("bob should replace a bot")
	}
	g := f.state.Game()
	if len(g.Players) != domain.PlayerCount || g.HumanCount() != 2 {
		t.Fatalf("expected 2 humans in a full lobby, got %d/%d", g.HumanCount(), len(g.Players))
	}
	left := f.disp.byOp(OpPlayerLeft)
	if len(left) != 1 || left[0].to != "alice" {
		t.Fatalf("only alice should hear the replaced bot leave, got %+v", left)
	}
	joined := f.disp.byOp(OpPlayerJoined)
	if last := joined[len(joined)-1]; last.env.State == nil || last.env.State.ViewerID != last.to {
		t.Fatalf("player_joined should carry the recipient's view, got %+v", last)
	}
}

func TestRejectedActionSendsError(t *testing.T) {
	f := newFixture(t, nil)
	f.join(alice, "")
	f.send(alice, OpPlaceBet, `{"amount": 7}`)

	errs := f.disp.byOp(OpGameError)
	if len(errs) != 1 || errs[0].to != "alice" {
		t.Fatalf("expected one error for alice, got %+v", errs)
	}
	var payload errorPayload
	if err := json.Unmarshal(errs[0].env.Payload, &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload.Code != domain.CodeWrongPhase {
		t.Fatalf("code = %q, want %q", payload.Code, domain.CodeWrongPhase)
	}

	f.send(alice, OpPlayCard, `{"card": {"color": "purple", "value": 3}}`)
	if errs := f.disp.byOp(OpGameError); len(errs) != 2 {
		t.Fatalf("malformed payload should be reported, got %d errors", len(errs))
	}
}

func TestUnboundSessionIsIgnored(t *testing.T) {
	f := newFixture(t, nil)
	f.join(alice, "")
	stranger := fakePresence{userID: "mallory", sessionID: "s-x"}
	f.send(stranger, OpStartGame, `{}`)
	if len(f.disp.byOp(OpGameError)) != 0 || f.state.Game().Phase != domain.PhaseTeamSelection {
		t.Fatalf("message from an unbound session was processed")
	}
}

// startFullGame seats alice with three bots and starts the game.
func startFullGame(t *testing.T, f *handlerFixture) {
	t.Helper()
	f.join(alice, "")
	f.loop()
	f.loop()
	f.send(alice, OpStartGame, `{}`)
	if f.state.Game().Phase != domain.PhaseBetting {
		t.Fatalf("game did not start: phase %s", f.state.Game().Phase)
	}
}

func TestTimersAndBotsPlayRoundAndArchiveIt(t *testing.T) {
	f := newFixture(t, nil)
	startFullGame(t, f)
	limit := int(f.state.Config.TurnDuration()/time.Second) + gameStartTurnBonusSeconds
	if f.state.TurnSecondsRemaining <= 0 || f.state.TurnSecondsRemaining > limit {
		t.Fatalf("turn timer = %d after start, want 1..%d", f.state.TurnSecondsRemaining, limit)
	}
	if l := f.disp.lastLabel(t); l.Phase != string(domain.PhaseBetting) {
		t.Fatalf("label phase = %s", l.Phase)
	}

	for i := 0; i < 2000 && len(f.disp.byOp(OpRoundEnded)) == 0; i++ {
		f.loop()
	}
	ended := f.disp.byOp(OpRoundEnded)
	if len(ended) == 0 {
		t.Fatalf("round never ended")
	}
	if got := len(f.disp.byOp(OpTrickResolved)); got < domain.TricksPerRound {
		t.Fatalf("trick_resolved messages = %d", got)
	}

	var payload app.RoundEndedPayload
	if err := json.Unmarshal(ended[0].env.Payload, &payload); err != nil {
		t.Fatalf("decode round_ended: %v", err)
	}
	rounds, err := f.state.History.ListRounds(f.ctx, f.state.Game().ID)
	if err != nil {
		t.Fatalf("ListRounds: %v", err)
	}
	if len(rounds) == 0 || rounds[0].Number != payload.Summary.Number || rounds[0].TotalScores != payload.Summary.TotalScores {
		t.Fatalf("archived rounds %+v do not match %+v", rounds, payload.Summary)
	}
}

func TestViewHidesOtherHands(t *testing.T) {
	f := newFixture(t, nil)
	startFullGame(t, f)

	updates := f.disp.byOp(OpGameUpdated)
	view := updates[len(updates)-1].env.State
	if view == nil {
		t.Fatalf("game_updated without state")
	}
	for _, p := range view.Players {
		if p.CardCount != domain.HandSize {
			t.Fatalf("%s card count = %d", p.ID, p.CardCount)
		}
		if p.ID == "alice" && len(p.Hand) != domain.HandSize {
			t.Fatalf("alice should see her hand")
		}
		if p.ID != "alice" && len(p.Hand) != 0 {
			t.Fatalf("alice can see %s's hand", p.ID)
		}
	}
}

func TestTicketReclaimsSeatFromAnotherAccount(t *testing.T) {
	f := newFixture(t, nil)
	startFullGame(t, f)
	ticket := struct {
		Ticket string `json:"ticket"`
	}{}
	if err := json.Unmarshal(f.disp.byOp(OpRejoinTicket)[0].env.Payload, &ticket); err != nil || ticket.Ticket == "" {
		t.Fatalf("no ticket issued: %v", err)
	}

	f.mh.MatchLeave(f.ctx, noopLogger{}, nil, f.nk, f.disp, f.tick, f.state, []runtime.Presence{alice})
	if f.state.isConnected("alice") {
		t.Fatalf("alice still marked connected")
	}
	if f.state.Game().SeatOf("alice") < 0 {
		t.Fatalf("seat should be kept once the game started")
	}

	stranger := fakePresence{userID: "mallory", sessionID: "s-m"}
	if f.join(stranger, "") {
		t.Fatalf("stranger admitted into a running game")
	}

	newDevice := fakePresence{userID: "alice-phone", sessionID: "s-phone"}
	if !f.join(newDevice, ticket.Ticket) {
		t.Fatalf("ticket holder was rejected")
	}
	if !f.state.isConnected("alice") {
		t.Fatalf("ticket should reconnect the alice seat")
	}
	if len(f.state.Game().Players) != domain.PlayerCount {
		t.Fatalf("reconnect changed the seating")
	}
}

func TestEmptyLobbyTerminates(t *testing.T) {
	f := newFixture(t, func(c *config.GameConfig) { c.BotsEnabled = false })
	f.join(alice, "")
	if out := f.mh.MatchLeave(f.ctx, noopLogger{}, nil, f.nk, f.disp, f.tick, f.state, []runtime.Presence{alice}); out != nil {
		t.Fatalf("empty lobby should terminate")
	}
}

func TestAbandonedGameTerminatesAfterGrace(t *testing.T) {
	f := newFixture(t, func(c *config.GameConfig) { c.TurnDurationSeconds = 1000 })
	startFullGame(t, f)
	if out := f.mh.MatchLeave(f.ctx, noopLogger{}, nil, f.nk, f.disp, f.tick, f.state, []runtime.Presence{alice}); out == nil {
		t.Fatalf("started game should wait for its players")
	}
	var out interface{} = f.state
	for i := 0; i <= emptyMatchGraceTicks && out != nil; i++ {
		out = f.loop()
	}
	if out != nil {
		t.Fatalf("abandoned game never terminated")
	}
}

func TestStaleSessionLeaveKeepsPlayer(t *testing.T) {
	f := newFixture(t, func(c *config.GameConfig) { c.BotsEnabled = false })
	f.join(alice, "")
	second := fakePresence{userID: "alice", sessionID: "s-alice-2"}
	if !f.join(second, "") {
		t.Fatalf("second session of alice rejected")
	}

	if out := f.mh.MatchLeave(f.ctx, noopLogger{}, nil, f.nk, f.disp, f.tick, f.state, []runtime.Presence{alice}); out == nil {
		t.Fatalf("match terminated while alice is still connected")
	}
	if p, ok := f.state.Presences["alice"]; !ok || p.GetSessionId() != "s-alice-2" {
		t.Fatalf("alice lost the live presence: %+v", f.state.Presences)
	}
	if len(f.disp.byOp(OpPlayerLeft)) != 0 || len(f.state.Game().Players) != 1 {
		t.Fatalf("stale session removed alice from the lobby")
	}
}

func TestInvariantViolationEndsMatch(t *testing.T) {
	f := newFixture(t, nil)
	startFullGame(t, f)
	for i := 0; i < 200 && f.state.Game().Phase != domain.PhasePlaying; i++ {
		f.loop()
	}
	if f.state.Game().Phase != domain.PhasePlaying {
		t.Fatalf("betting never settled: phase %s", f.state.Game().Phase)
	}
	// Scoring the round now has no bet to score against.
	f.state.Game().Round.WinningBet = nil

	var out interface{} = f.state
	for i := 0; i < 2000 && out != nil; i++ {
		out = f.loop()
	}
	if out != nil {
		t.Fatalf("match kept running on a broken game")
	}
	if !f.state.Corrupted {
		t.Fatalf("match ended without flagging the violation")
	}
	var aborted bool
	for _, m := range f.disp.byOp(OpGameError) {
		var payload errorPayload
		if err := json.Unmarshal(m.env.Payload, &payload); err == nil && payload.Code == "internal" && m.to == "alice" {
			aborted = true
		}
	}
	if !aborted {
		t.Fatalf("alice was not told the game was aborted")
	}
	if len(f.disp.byOp(OpRoundEnded)) != 0 {
		t.Fatalf("a broken round must not be scored")
	}
}
