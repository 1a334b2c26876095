// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Artem Velkov

package service

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/avelkov/go-access-gate/internal/config"
	"github.com/avelkov/go-access-gate/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

// commonPasswords is the embedded denylist. Candidates are compared
// case-insensitively against it.
var commonPasswords = []string{
	"password", "password1", "password123", "passw0rd", "p@ssw0rd",
	"123456", "1234567", "12345678", "123456789", "1234567890",
	"qwerty", "qwerty123", "qwertyuiop", "abc123", "abcd1234",
	"iloveyou", "welcome", "welcome1", "admin", "administrator",
	"letmein", "login", "monkey", "dragon", "sunshine",
	"princess", "football", "baseball", "master", "shadow",
	"superman", "batman", "trustno1", "changeme", "secret",
	"password!", "password2024", "password2025", "password2026", "password2026!",
	"qwerty12345", "1q2w3e4r", "zaq12wsx", "qazwsx", "passwort",
}

// passwordPolicy is the concrete implementation of [PasswordPolicy].
//
// Rules are all mandatory: minimum length, uppercase, lowercase, digit,
// special character, and absence from the common-password denylist. Digests
// are bcrypt; the digest string embeds algorithm, cost and salt, so
// verification needs no separately stored parameters.
type passwordPolicy struct {
	minLength  int
	maxAge     time.Duration
	bcryptCost int
	denylist   map[string]struct{}
	logger     *logger.Logger
}

// NewPasswordPolicy constructs a [PasswordPolicy] from the configured policy
// constants. The returned value is immutable and safe for concurrent use.
func NewPasswordPolicy(cfg config.Policy, logger *logger.Logger) PasswordPolicy {
	denylist := make(map[string]struct{}, len(commonPasswords))
	for _, p := range commonPasswords {
		denylist[p] = struct{}{}
	}

	return &passwordPolicy{
		minLength:  cfg.PasswordMinLength,
		maxAge:     cfg.PasswordMaxAge,
		bcryptCost: cfg.BcryptCost,
		denylist:   denylist,
		logger:     logger,
	}
}

// Validate checks the candidate against every mandatory rule and scores one
// point per satisfied complexity class. Valid requires all five classes and
// a candidate absent from the denylist.
func (p *passwordPolicy) Validate(password string) PolicyResult {
	var result PolicyResult

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	// Length counts characters, not bytes, so multibyte input is not
	// over-credited.
	if utf8.RuneCountInString(password) >= p.minLength {
		result.Score++
	} else {
		result.Violations = append(result.Violations, fmt.Sprintf("password must be at least %d characters long", p.minLength))
	}
	if hasUpper {
		result.Score++
	} else {
		result.Violations = append(result.Violations, "password must contain an uppercase letter")
	}
	if hasLower {
		result.Score++
	} else {
		result.Violations = append(result.Violations, "password must contain a lowercase letter")
	}
	if hasDigit {
		result.Score++
	} else {
		result.Violations = append(result.Violations, "password must contain a digit")
	}
	if hasSpecial {
		result.Score++
	} else {
		result.Violations = append(result.Violations, "password must contain a special character")
	}

	if _, denied := p.denylist[strings.ToLower(password)]; denied {
		result.Violations = append(result.Violations, "password is too common")
	}

	result.Valid = len(result.Violations) == 0
	return result
}

// Hash produces a bcrypt digest at the configured cost.
func (p *passwordPolicy) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. bcrypt recomputes the full
// digest and compares in constant time, so timing does not leak how much of
// the password matched.
func (p *passwordPolicy) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// ExpiryDate returns the expiry for a password set at the given time.
func (p *passwordPolicy) ExpiryDate(from time.Time) time.Time {
	return from.Add(p.maxAge)
}

// HistoryCheck reports whether candidate matches any of the previous
// digests. Each digest carries its own salt, so every comparison is a full
// bcrypt verification.
func (p *passwordPolicy) HistoryCheck(candidate string, previousDigests []string) bool {
	for _, digest := range previousDigests {
		if bcrypt.CompareHashAndPassword([]byte(digest), []byte(candidate)) == nil {
			return true
		}
	}
	return false
}
