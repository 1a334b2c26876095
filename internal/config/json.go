package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations, so operators can keep a readable config file.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey string `json:"token_sign_key"`
		TokenIssuer  string `json:"token_issuer"`
		Version      string `json:"version"`
	} `json:"app,omitempty"`

	Policy struct {
		LockoutThreshold     int      `json:"lockout_threshold"`
		LockoutDuration      Duration `json:"lockout_duration"`
		PasswordMinLength    int      `json:"password_min_length"`
		PasswordMaxAge       Duration `json:"password_max_age"`
		PasswordHistoryLimit int      `json:"password_history_limit"`
		BcryptCost           int      `json:"bcrypt_cost"`
		SessionTTL           Duration `json:"session_ttl"`
		ResetTokenTTL        Duration `json:"reset_token_ttl"`
	} `json:"policy,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Notifier struct {
		WebhookURL     string   `json:"webhook_url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"notifier,omitempty"`

	Workers struct {
		SweepInterval Duration `json:"sweep_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey: jsonCfg.App.TokenSignKey,
			TokenIssuer:  jsonCfg.App.TokenIssuer,
			Version:      jsonCfg.App.Version,
		},
		Policy: Policy{
			LockoutThreshold:     jsonCfg.Policy.LockoutThreshold,
			LockoutDuration:      time.Duration(jsonCfg.Policy.LockoutDuration),
			PasswordMinLength:    jsonCfg.Policy.PasswordMinLength,
			PasswordMaxAge:       time.Duration(jsonCfg.Policy.PasswordMaxAge),
			PasswordHistoryLimit: jsonCfg.Policy.PasswordHistoryLimit,
			BcryptCost:           jsonCfg.Policy.BcryptCost,
			SessionTTL:           time.Duration(jsonCfg.Policy.SessionTTL),
			ResetTokenTTL:        time.Duration(jsonCfg.Policy.ResetTokenTTL),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Notifier: Notifier{
			WebhookURL:     jsonCfg.Notifier.WebhookURL,
			RequestTimeout: time.Duration(jsonCfg.Notifier.RequestTimeout),
		},
		Workers: Workers{
			SweepInterval: time.Duration(jsonCfg.Workers.SweepInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
