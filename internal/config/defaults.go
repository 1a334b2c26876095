package config

import "time"

// Production policy defaults: five failed attempts lock an account for
// thirty minutes, passwords live ninety days, sessions are capped at eight
// hours from original issuance, and reset tokens last one hour.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer: "go-access-gate",
		},
		Policy: Policy{
			LockoutThreshold:     5,
			LockoutDuration:      30 * time.Minute,
			PasswordMinLength:    12,
			PasswordMaxAge:       90 * 24 * time.Hour,
			PasswordHistoryLimit: 12,
			BcryptCost:           12,
			SessionTTL:           8 * time.Hour,
			ResetTokenTTL:        time.Hour,
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Notifier: Notifier{
			RequestTimeout: 10 * time.Second,
		},
		Workers: Workers{
			SweepInterval: 5 * time.Minute,
		},
	}
}
