package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// Capacity is the chat ring's slot count. Fixed for the process lifetime.
	Capacity int `json:"capacity"`
	// MaxMessageBytes bounds a single message value (strict less-than).
	MaxMessageBytes int `json:"maxMessageBytes"`
	// WriteRole is the bitmask a token must intersect to append messages.
	WriteRole uint32 `json:"writeRole"`
	// ReadRole is the bitmask a token must intersect to read snapshots.
	ReadRole uint32 `json:"readRole"`
	// Auth configures the token verifier.
	Auth AuthConfig `json:"auth"`
	// AuditDir is the audit store directory. Empty disables the audit trail.
	AuditDir string `json:"auditDir"`
}

// AuthConfig captures token verification settings.
type AuthConfig struct {
	// Secret is the HS256 shared secret for bearer tokens.
	Secret string `json:"secret"`
	// TokenTTL is the lifetime applied to tokens minted by this process,
	// as a Go duration string ("24h"). Verification trusts the exp claim.
	TokenTTL Duration `json:"tokenTTL"`
}

// Duration wraps time.Duration with JSON string encoding ("30m", "24h").
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Default returns built-in defaults. The secret is intentionally empty and
// must be supplied before the server will start.
func Default() Config {
	return Config{
		Capacity:        256,
		MaxMessageBytes: 1024,
		WriteRole:       1,
		ReadRole:        1,
		Auth: AuthConfig{
			TokenTTL: Duration(24 * time.Hour),
		},
	}
}

// Load reads configuration from a JSON file. If path is empty, returns
// defaults. Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks invariants the ring and verifier rely on.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("config: capacity must be positive, got %d", c.Capacity)
	}
	if c.MaxMessageBytes <= 0 {
		return fmt.Errorf("config: maxMessageBytes must be positive, got %d", c.MaxMessageBytes)
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("config: auth.secret is required")
	}
	return nil
}
