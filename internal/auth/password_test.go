// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/safewatch/internal/config"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("sunny beach 7", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPassword(hash, "sunny beach 7") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "sunny beach 8") {
		t.Error("wrong password accepted")
	}
	if CheckPassword("", "anything") {
		t.Error("empty hash accepted")
	}
	if _, err := HashPassword("", bcrypt.MinCost); err == nil {
		t.Error("empty password hashed")
	}
}

func TestOfficerAccount_PlainPassword(t *testing.T) {
	acct, err := NewOfficerAccount(&config.SecurityConfig{
		PoliceUsername: "police",
		PolicePassword: "Harbour-Lights-42!",
	}, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewOfficerAccount() error = %v", err)
	}

	tests := []struct {
		username, password string
		ok                 bool
	}{
		{"police", "Harbour-Lights-42!", true},
		{"police", "harbour-lights-42!", false},
		{"Police", "Harbour-Lights-42!", false},
		{"", "", false},
	}
	for _, tt := range tests {
		err := acct.Verify(tt.username, tt.password)
		if tt.ok && err != nil {
			t.Errorf("Verify(%q) error = %v", tt.username, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Verify(%q, %q) error = %v, want ErrInvalidCredentials", tt.username, tt.password, err)
		}
	}
}

func TestOfficerAccount_PreHashed(t *testing.T) {
	hash, err := HashPassword("Harbour-Lights-42!", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	acct, err := NewOfficerAccount(&config.SecurityConfig{
		PoliceUsername:     "desk",
		PolicePasswordHash: hash,
	}, bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if acct.Username() != "desk" {
		t.Errorf("Username() = %q", acct.Username())
	}
	if err := acct.Verify("desk", "Harbour-Lights-42!"); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestOfficerAccount_BadHash(t *testing.T) {
	_, err := NewOfficerAccount(&config.SecurityConfig{
		PoliceUsername:     "desk",
		PolicePasswordHash: "$2a$not-a-real-hash",
	}, bcrypt.MinCost)
	if err == nil {
		t.Fatal("malformed hash accepted")
	}
}
