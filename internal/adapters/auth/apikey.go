package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Ganeshsaykara/email-wallet/internal/domain"
)

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns an APIKeyHasher that bcrypts the SHA256 hex digest of
// the key, so keys longer than bcrypt's 72 byte input limit are still usable.
func NewBcryptHasher(cost int) domain.APIKeyHasher {
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(apiKey string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(digest(apiKey), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}
	return string(hash), nil
}

func (h *bcryptHasher) Compare(hash, apiKey string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), digest(apiKey))
}

func digest(apiKey string) []byte {
	sum := sha256.Sum256([]byte(apiKey))
	return []byte(hex.EncodeToString(sum[:]))
}
