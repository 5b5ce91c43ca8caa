package auth

// TokenVerifier defines the contract for resolving a credential to an
// identity. This enables mocking for handler tests without minting real
// tokens.
type TokenVerifier interface {
	ValidateToken(tokenString string) (*Identity, error)
}

// Ensure Service implements TokenVerifier
var _ TokenVerifier = (*Service)(nil)
