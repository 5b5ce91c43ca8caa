package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a credential cannot be verified
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the resolved caller, as asserted by the identity provider's
// token. Email may be empty: some providers omit it. A matching Profile row
// may not exist yet - profiles are created lazily on first post.
type Identity struct {
	ID    string
	Email string
}

// Service verifies credentials minted by the identity provider. It holds
// no state beyond the shared HMAC secret.
type Service struct {
	jwtSecret []byte
}

// NewService creates a new identity verification service
func NewService(jwtSecret []byte) *Service {
	return &Service{jwtSecret: jwtSecret}
}

// ValidateToken verifies an HMAC-signed token and extracts the caller's
// identity from its claims. It deliberately does not touch the database.
func (s *Service) ValidateToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: bad claims", ErrInvalidToken)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("%w: missing user_id claim", ErrInvalidToken)
	}

	email, _ := claims["email"].(string)

	return &Identity{ID: userID, Email: email}, nil
}

// MintToken signs a token the service itself would accept. Used by the
// seeder and tests; in production tokens come from the identity provider.
func (s *Service) MintToken(identity Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": identity.ID,
		"email":   identity.Email,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}
