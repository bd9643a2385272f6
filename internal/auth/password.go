// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/safewatch/internal/config"
)

// DefaultBcryptCost is used for stored password hashes.
const DefaultBcryptCost = 12

// ErrInvalidCredentials is returned when a login does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// OfficerAccount verifies the configured police credentials.
type OfficerAccount struct {
	username     string
	passwordHash []byte
}

// NewOfficerAccount builds the account from config. A configured hash is
// used as is; a plain password is hashed once at startup.
func NewOfficerAccount(cfg *config.SecurityConfig, cost int) (*OfficerAccount, error) {
	if cfg.PoliceUsername == "" {
		return nil, fmt.Errorf("username is required")
	}

	hash := cfg.PolicePasswordHash
	if hash == "" {
		var err error
		hash, err = HashPassword(cfg.PolicePassword, cost)
		if err != nil {
			return nil, err
		}
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("POLICE_PASSWORD_HASH: %w", err)
	}

	return &OfficerAccount{
		username:     cfg.PoliceUsername,
		passwordHash: []byte(hash),
	}, nil
}

// Username returns the officer username.
func (a *OfficerAccount) Username() string {
	return a.username
}

// Verify checks username and password. Both comparisons always run so
// timing does not reveal which one failed.
func (a *OfficerAccount) Verify(username, password string) error {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passwordMatch := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
	if !usernameMatch || !passwordMatch {
		return ErrInvalidCredentials
	}
	return nil
}
