package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/Ganeshsaykara/email-wallet/internal/domain"
)

type authService struct {
	clientID    string
	apiKeyHash  string
	hasher      domain.APIKeyHasher
	tokenIssuer domain.TokenIssuer
	tokenExpiry time.Duration
}

// NewAuthService creates an AuthService for the single API client identified
// by clientID, whose key must match apiKeyHash.
func NewAuthService(clientID, apiKeyHash string, hasher domain.APIKeyHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration) domain.AuthService {
	return &authService{
		clientID:    clientID,
		apiKeyHash:  apiKeyHash,
		hasher:      hasher,
		tokenIssuer: tokenIssuer,
		tokenExpiry: tokenExpiry,
	}
}

func (s *authService) IssueToken(ctx context.Context, clientID, apiKey string) (string, error) {
	if s.clientID == "" || s.apiKeyHash == "" {
		return "", fmt.Errorf("api client: %w", domain.ErrConfigurationMissing)
	}
	clientID = strings.TrimSpace(clientID)
	if subtle.ConstantTimeCompare([]byte(clientID), []byte(s.clientID)) != 1 {
		return "", domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(s.apiKeyHash, apiKey); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(clientID, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
