package auth

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// NewTrackingCode returns a one-time code handed to anonymous reporters.
func NewTrackingCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:16]
}

// HashTrackingCode hashes a tracking code with the configured cost.
func HashTrackingCode(code string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CompareTrackingCode verifies a tracking code against its hashed value.
func CompareTrackingCode(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(strings.ToUpper(strings.TrimSpace(plain))))
}
