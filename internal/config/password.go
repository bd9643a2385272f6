// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// PasswordPolicy defines minimum password requirements.
type PasswordPolicy struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireDigit     bool
	RequireSpecial   bool

	// MaxConsecutiveRepeats limits runs like "aaaa". 0 disables the check.
	MaxConsecutiveRepeats int

	ForbidCommonPasswords    bool
	ForbidIdentitySimilarity bool
}

// OfficerPasswordPolicy is enforced on the configured police password.
func OfficerPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:                12,
		RequireUppercase:         true,
		RequireLowercase:         true,
		RequireDigit:             true,
		RequireSpecial:           true,
		MaxConsecutiveRepeats:    3,
		ForbidCommonPasswords:    true,
		ForbidIdentitySimilarity: true,
	}
}

// TouristPasswordPolicy is enforced when a tourist registers with a password.
func TouristPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:                8,
		RequireLowercase:         true,
		RequireDigit:             true,
		MaxConsecutiveRepeats:    4,
		ForbidCommonPasswords:    true,
		ForbidIdentitySimilarity: true,
	}
}

// Check returns every rule password breaks, joined, or nil. identity is the
// username or email the password belongs to; empty skips the similarity rule.
func (p PasswordPolicy) Check(password, identity string) error {
	var errs []error

	if len(password) < p.MinLength {
		errs = append(errs, fmt.Errorf("password must be at least %d characters", p.MinLength))
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if p.RequireUppercase && !upper {
		errs = append(errs, errors.New("password must contain an uppercase letter"))
	}
	if p.RequireLowercase && !lower {
		errs = append(errs, errors.New("password must contain a lowercase letter"))
	}
	if p.RequireDigit && !digit {
		errs = append(errs, errors.New("password must contain a digit"))
	}
	if p.RequireSpecial && !special {
		errs = append(errs, errors.New("password must contain a special character"))
	}

	if p.MaxConsecutiveRepeats > 0 && longestRun(password) > p.MaxConsecutiveRepeats {
		errs = append(errs, fmt.Errorf("password cannot repeat a character more than %d times in a row", p.MaxConsecutiveRepeats))
	}
	if p.ForbidCommonPasswords && commonPasswords[strings.ToLower(password)] {
		errs = append(errs, errors.New("password is too common"))
	}
	if p.ForbidIdentitySimilarity && similarToIdentity(password, identity) {
		errs = append(errs, errors.New("password is too similar to the account name"))
	}

	return errors.Join(errs...)
}

func longestRun(s string) int {
	longest, run := 0, 0
	var last rune
	for i, r := range s {
		if i > 0 && r == last {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		last = r
	}
	return longest
}

// similarToIdentity reports whether password contains the identity's local
// part, or the other way round.
func similarToIdentity(password, identity string) bool {
	if at := strings.IndexByte(identity, '@'); at > 0 {
		identity = identity[:at]
	}
	id := strings.ToLower(strings.TrimSpace(identity))
	if len(id) < 3 {
		return false
	}
	pw := strings.ToLower(password)
	return strings.Contains(pw, id) || strings.Contains(id, pw)
}

var commonPasswords = map[string]bool{
	"password":     true,
	"password1":    true,
	"password123":  true,
	"123456":       true,
	"12345678":     true,
	"123456789":    true,
	"1234567890":   true,
	"qwerty":       true,
	"qwerty123":    true,
	"letmein":      true,
	"welcome":      true,
	"welcome1":     true,
	"welcome123":   true,
	"iloveyou":     true,
	"admin":        true,
	"admin123":     true,
	"abc12345":     true,
	"passw0rd":     true,
	"p@ssw0rd":     true,
	"p@ssword123!": true,
	"police123":    true,
	"travel123":    true,
	"tourist1":     true,
	"holiday1":     true,
}
