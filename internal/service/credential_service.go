package service

import (
	"golang.org/x/crypto/bcrypt"
)

const defaultBcryptCost = 10

// CredentialService hashes and verifies passwords.
type CredentialService struct {
	cost int
}

// NewCredentialService builds a CredentialService. A non-positive cost uses 10.
func NewCredentialService(cost int) *CredentialService {
	if cost <= 0 {
		cost = defaultBcryptCost
	}
	return &CredentialService{cost: cost}
}

// Hash returns the bcrypt hash of password.
func (s *CredentialService) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash.
func (s *CredentialService) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
