// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Artem Velkov

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// The policy constants are checked for sane positive values because every
// component trusts them blindly after construction.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Policy.LockoutThreshold < 1 {
		return fmt.Errorf("%w: lockout threshold must be positive", ErrInvalidConfig)
	}
	if cfg.Policy.LockoutDuration <= 0 {
		return fmt.Errorf("%w: lockout duration must be positive", ErrInvalidConfig)
	}
	if cfg.Policy.PasswordMinLength < 1 {
		return fmt.Errorf("%w: password min length must be positive", ErrInvalidConfig)
	}
	if cfg.Policy.PasswordHistoryLimit < 0 {
		return fmt.Errorf("%w: password history limit must not be negative", ErrInvalidConfig)
	}
	if cfg.Policy.BcryptCost < 4 || cfg.Policy.BcryptCost > 31 {
		return fmt.Errorf("%w: bcrypt cost must be within [4, 31]", ErrInvalidConfig)
	}
	if cfg.Policy.SessionTTL <= 0 {
		return fmt.Errorf("%w: session ttl must be positive", ErrInvalidConfig)
	}
	if cfg.Policy.ResetTokenTTL <= 0 {
		return fmt.Errorf("%w: reset token ttl must be positive", ErrInvalidConfig)
	}

	return nil
}
