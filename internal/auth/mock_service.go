package auth

import (
	"sync"
)

// MockVerifier is a mock implementation of TokenVerifier for testing.
type MockVerifier struct {
	mu sync.Mutex

	// Tokens maps token strings to the identity they resolve to
	Tokens map[string]*Identity

	// ValidateTokenFunc overrides the lookup when set
	ValidateTokenFunc func(tokenString string) (*Identity, error)

	// Calls records every token that was presented
	Calls []string
}

// NewMockVerifier creates a mock verifier with an empty token table
func NewMockVerifier() *MockVerifier {
	return &MockVerifier{Tokens: make(map[string]*Identity)}
}

// ValidateToken resolves a token against the configured table
func (m *MockVerifier) ValidateToken(tokenString string) (*Identity, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, tokenString)
	m.mu.Unlock()

	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(tokenString)
	}
	if ident, ok := m.Tokens[tokenString]; ok {
		return ident, nil
	}
	return nil, ErrInvalidToken
}

var _ TokenVerifier = (*MockVerifier)(nil)
