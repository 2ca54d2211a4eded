package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "monopoly"

	kindAccess = "access"
	kindTicket = "ticket"
)

// Claims is the payload of both token kinds.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Kind     string `json:"kind"`
	jwt.RegisteredClaims
}

func (s *Service) IssueAccess(u User) (string, error) {
	return s.sign(u, kindAccess)
}

// IssueTicket returns a short-lived token for the websocket handshake.
func (s *Service) IssueTicket(u User) (string, error) {
	return s.sign(u, kindTicket)
}

func (s *Service) sign(u User, kind string) (string, error) {
	ttl := s.cfg.AccessTTL
	if kind == kindTicket {
		ttl = s.cfg.TicketTTL
	}
	now := s.now()
	claims := &Claims{
		UserID:   u.ID,
		Username: u.Username,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Key)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", kind, err)
	}
	return signed, nil
}

func (s *Service) parse(token, kind string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.cfg.Key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind || claims.UserID == "" || claims.Username == "" {
		return nil, fmt.Errorf("unexpected %q claims", claims.Kind)
	}
	return claims, nil
}

// VerifyAccess resolves the user behind an access token.
func (s *Service) VerifyAccess(ctx context.Context, token string) (User, error) {
	claims, err := s.parse(token, kindAccess)
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return s.User(ctx, claims.UserID)
}

// VerifyTicket resolves the user behind a websocket ticket. A valid ticket
// for a deleted user yields ErrUserNotFound.
func (s *Service) VerifyTicket(ctx context.Context, ticket string) (User, error) {
	claims, err := s.parse(ticket, kindTicket)
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}
	return s.User(ctx, claims.UserID)
}
