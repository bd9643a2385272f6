// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/safewatch/internal/logging"
)

// ErrRevocationStoreClosed is returned after Close.
var ErrRevocationStoreClosed = errors.New("revocation store is closed")

const revocationPrefix = "revoked:"

type revocationEntry struct {
	JTI       string    `json:"jti"`
	Subject   string    `json:"sub"`
	RevokedAt time.Time `json:"revoked_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RevocationStore remembers revoked token IDs until the tokens expire.
type RevocationStore struct {
	db     *badger.DB
	now    func() time.Time
	mu     sync.RWMutex
	closed bool
}

// OpenRevocationStore opens a store at path. An empty path keeps the store
// in memory, so revocations are lost on restart.
func OpenRevocationStore(path string) (*RevocationStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for revocations: %w", err)
	}
	return &RevocationStore{db: db, now: time.Now}, nil
}

func revocationKey(jti string) []byte {
	return []byte(revocationPrefix + jti)
}

// Revoke marks claims' token as revoked until it expires. Revoking an
// already expired token is a no-op.
func (s *RevocationStore) Revoke(_ context.Context, claims *Claims) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrRevocationStoreClosed
	}
	if claims == nil || claims.ID == "" {
		return fmt.Errorf("%w: missing token id", ErrInvalidToken)
	}
	if claims.ExpiresAt == nil {
		return fmt.Errorf("%w: missing expiry", ErrInvalidToken)
	}

	now := s.now()
	expires := claims.ExpiresAt.Time
	ttl := expires.Sub(now)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(revocationEntry{
		JTI:       claims.ID,
		Subject:   claims.Subject,
		RevokedAt: now.UTC(),
		ExpiresAt: expires.UTC(),
	})
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(revocationKey(claims.ID), data).WithTTL(ttl))
	})
	if err != nil {
		return fmt.Errorf("store revocation: %w", err)
	}

	logging.Debug().Str("jti", claims.ID).Dur("ttl", ttl).Msg("token revoked")
	return nil
}

// IsRevoked reports whether jti was revoked and has not yet expired.
func (s *RevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrRevocationStoreClosed
	}

	var revoked bool
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(revocationKey(jti))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var entry revocationEntry
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entry); err != nil {
				return err
			}
			revoked = s.now().Before(entry.ExpiresAt)
			return nil
		})
	})
	return revoked, err
}

// Close closes the underlying database.
func (s *RevocationStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
