package domain

import (
	"context"
	"time"
)

// APIKeyHasher hashes and verifies API client keys.
type APIKeyHasher interface {
	Hash(apiKey string) (string, error)
	Compare(hash, apiKey string) error
}

// TokenIssuer issues access tokens (e.g. JWT) for an authenticated API client.
type TokenIssuer interface {
	Issue(clientID string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated client ID.
type TokenVerifier interface {
	Verify(token string) (clientID string, err error)
}

// AuthService exchanges API client credentials for an access token.
type AuthService interface {
	IssueToken(ctx context.Context, clientID, apiKey string) (string, error)
}
