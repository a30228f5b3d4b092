package operator

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"

	"github.com/osse101/ScoreLedger_Go/internal/domain"
)

// GenerateCredential returns a random string drawn uniformly from letters
// and digits.
func GenerateCredential(length int) (string, error) {
	if length < MinCredentialLength {
		length = MinCredentialLength
	}
	alphabetSize := big.NewInt(int64(len(credentialAlphabet)))

	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate credential: %w", err)
		}
		out[i] = credentialAlphabet[n.Int64()]
	}
	return string(out), nil
}

func hashCredential(secret string, cost int) (string, error) {
	if len(secret) < MinCredentialLength {
		return "", fmt.Errorf("%w: credential must be at least %d characters", domain.ErrInvalidInput, MinCredentialLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return string(hash), nil
}

func credentialMatches(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
