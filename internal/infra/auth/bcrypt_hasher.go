// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"emart/config"
	"emart/internal/domain/service"
	"emart/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptHasher implements service.PasswordHasher. It hashes customer passwords,
// the owner password and PIN, and password-reset codes.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher uses auth.bcryptCost from the configuration.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost != 0 {
		cost = cfg.Auth.BcryptCost
	}

	return NewBcryptHasherWithCost(cost)
}

// NewBcryptHasherWithCost clamps cost to the range bcrypt accepts.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	return &bcryptHasher{cost: max(bcrypt.MinCost, min(cost, bcrypt.MaxCost))}
}

// Hash fails for secrets longer than 72 bytes instead of silently truncating them.
func (h *bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash secret")
	}

	return string(hash), nil
}

func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
