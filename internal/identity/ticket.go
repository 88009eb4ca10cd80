package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

const ticketIssuer = "fortyone"

var (
	// ErrInvalidTicket covers malformed, expired and foreign tickets.
	ErrInvalidTicket = errors.New("invalid rejoin ticket")
	// ErrTicketMismatch is returned when a valid ticket targets another match.
	ErrTicketMismatch = errors.New("rejoin ticket issued for another match")
)

// TicketIssuer signs rejoin tickets that let a new session reclaim a seat.
type TicketIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTicketIssuer returns an issuer signing with HS256.
func NewTicketIssuer(secret string, ttl time.Duration) (*TicketIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("ticket secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ticket ttl must be positive")
	}
	return &TicketIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a ticket binding playerID to matchID.
func (t *TicketIssuer) Issue(matchID, playerID string) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"iss": ticketIssuer,
		"sub": playerID,
		"mid": matchID,
		"iat": now.Unix(),
		"exp": now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks a ticket against matchID and returns the player it names.
func (t *TicketIssuer) Verify(ticket, matchID string) (string, error) {
	parser := &jwt.Parser{}
	token, err := parser.Parse(ticket, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !claims.VerifyIssuer(ticketIssuer, true) {
		return "", ErrInvalidTicket
	}
	if !claims.VerifyExpiresAt(t.now().Unix(), true) {
		return "", fmt.Errorf("%w: expired", ErrInvalidTicket)
	}
	if mid, _ := claims["mid"].(string); mid != matchID {
		return "", ErrTicketMismatch
	}
	playerID, _ := claims["sub"].(string)
	if playerID == "" {
		return "", ErrInvalidTicket
	}
	return playerID, nil
}
