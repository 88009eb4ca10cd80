package nakama

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"fortyone/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var (
	// ErrUnknownOpCode is returned for op codes no action maps to.
	ErrUnknownOpCode = errors.New("unknown op code")
	// ErrBadPayload is returned when a client payload cannot be decoded.
	ErrBadPayload = errors.New("malformed payload")
)

var opActions = map[int64]domain.ActionType{
	OpSelectTeam:   domain.ActionSelectTeam,
	OpSwapPosition: domain.ActionSwapPosition,
	OpStartGame:    domain.ActionStartGame,
	OpPlaceBet:     domain.ActionPlaceBet,
	OpPlayCard:     domain.ActionPlayCard,
	OpVoteRematch:  domain.ActionVoteRematch,
}

// decodeAction turns a client message into a domain action for actorID.
// Payloads are JSON objects; an empty payload is an empty object.
func decodeAction(opCode int64, actorID string, data []byte) (domain.Action, error) {
	actionType, ok := opActions[opCode]
	if !ok {
		return domain.Action{}, fmt.Errorf("%w: %d", ErrUnknownOpCode, opCode)
	}
	payload := &structpb.Struct{}
	if len(data) > 0 {
		if err := protojson.Unmarshal(data, payload); err != nil {
			return domain.Action{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
	}
	fields := payload.GetFields()
	action := domain.Action{Type: actionType, ActorID: actorID}

	switch actionType {
	case domain.ActionSelectTeam:
		team, err := intField(fields, "team_id")
		if err != nil {
			return domain.Action{}, err
		}
		action.Team = domain.TeamID(team)
	case domain.ActionSwapPosition:
		action.TargetID = fields["target_id"].GetStringValue()
		if action.TargetID == "" {
			return domain.Action{}, fmt.Errorf("%w: target_id is required", ErrBadPayload)
		}
	case domain.ActionPlaceBet:
		action.Skipped = fields["skipped"].GetBoolValue()
		action.WithoutTrump = fields["without_trump"].GetBoolValue()
		if !action.Skipped {
			amount, err := intField(fields, "amount")
			if err != nil {
				return domain.Action{}, err
			}
			action.Amount = amount
		}
	case domain.ActionPlayCard:
		card, err := decodeCard(fields["card"].GetStructValue())
		if err != nil {
			return domain.Action{}, err
		}
		action.Card = card
	}
	return action, nil
}

func decodeCard(s *structpb.Struct) (domain.Card, error) {
	if s == nil {
		return domain.Card{}, fmt.Errorf("%w: card is required", ErrBadPayload)
	}
	fields := s.GetFields()
	color, ok := domain.ParseColor(fields["color"].GetStringValue())
	if !ok {
		return domain.Card{}, fmt.Errorf("%w: unknown color %q", ErrBadPayload, fields["color"].GetStringValue())
	}
	value, err := intField(fields, "value")
	if err != nil {
		return domain.Card{}, err
	}
	return domain.Card{Color: color, Value: value}, nil
}

func intField(fields map[string]*structpb.Value, key string) (int, error) {
	v, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", ErrBadPayload, key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadPayload, key)
	}
	return int(n.NumberValue), nil
}

// envelope is the body of every server message. State is the recipient's
// projection of the game after the event.
type envelope struct {
	Event   string    `json:"event"`
	Payload any       `json:"payload,omitempty"`
	State   *GameView `json:"state,omitempty"`
}

type errorPayload struct {
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

type ticketPayload struct {
	PlayerID string `json:"player_id"`
	Ticket   string `json:"ticket"`
}

func encodeEnvelope(env envelope) ([]byte, error) {
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s message: %w", env.Event, err)
	}
	return b, nil
}

// encodeLabel renders the match label through structpb so that Nakama's
// label query sees plain JSON fields.
func encodeLabel(l domain.LabelPayload) (string, error) {
	s, err := structpb.NewStruct(map[string]interface{}{
		"open":    l.Open,
		"game":    l.Game,
		"phase":   l.Phase,
		"players": l.Players,
		"round":   l.Round,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build label: %w", err)
	}
	b, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal label: %w", err)
	}
	return string(b), nil
}
