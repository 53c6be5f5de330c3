package config

import (
	"os"
	"strconv"
	"time"
)

// FromEnv overlays RASCHAT_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("RASCHAT_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Capacity = n
		}
	}
	if v := os.Getenv("RASCHAT_MAX_MESSAGE_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxMessageBytes = n
		}
	}
	if v := os.Getenv("RASCHAT_WRITE_ROLE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.WriteRole = uint32(n)
		}
	}
	if v := os.Getenv("RASCHAT_READ_ROLE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.ReadRole = uint32(n)
		}
	}
	if v := os.Getenv("RASCHAT_AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("RASCHAT_AUTH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = Duration(d)
		}
	}
	if v := os.Getenv("RASCHAT_AUDIT_DIR"); v != "" {
		cfg.AuditDir = v
	}
}
