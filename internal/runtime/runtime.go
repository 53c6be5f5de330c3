package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/Ailysom/ras-chat/internal/audit"
	"github.com/Ailysom/ras-chat/internal/auth"
	cfgpkg "github.com/Ailysom/ras-chat/internal/config"
	"github.com/Ailysom/ras-chat/internal/ringlog"
	pebblestore "github.com/Ailysom/ras-chat/internal/storage/pebble"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	// Fsync applies to the audit store when Config.AuditDir is set.
	Fsync pebblestore.FsyncMode
}

// Runtime wires the chat ring, token verifier, audit store, and config for a
// single-node instance. It is the composition root: the ring is constructed
// exactly once here and handed to the chat service by shared reference.
type Runtime struct {
	ring     *ringlog.Ring
	verifier *auth.Verifier
	db       *pebblestore.DB
	auditor  *audit.Store
	config   cfgpkg.Config
}

// Open validates the configuration and builds the Runtime.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ring, err := ringlog.New(cfg.Capacity, cfg.MaxMessageBytes)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{
		ring:     ring,
		verifier: auth.NewVerifier(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTL)),
		config:   cfg,
	}
	if cfg.AuditDir != "" {
		fsync := opts.Fsync
		if fsync == pebblestore.FsyncModeUnspecified {
			fsync = pebblestore.FsyncModeInterval
		}
		db, err := pebblestore.Open(pebblestore.Options{DataDir: cfg.AuditDir, Fsync: fsync})
		if err != nil {
			return nil, err
		}
		rt.db = db
		rt.auditor = audit.NewStore(db)
	}
	return rt, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.ring == nil {
		return errors.New("ring not constructed")
	}
	if r.db != nil {
		it, err := r.db.NewIter(nil)
		if err != nil {
			return err
		}
		it.Close()
	}
	return nil
}

// Ring returns the shared chat ring. Callers serialize access; the chat
// service owns the lock.
func (r *Runtime) Ring() *ringlog.Ring { return r.ring }

// Verifier returns the token verifier.
func (r *Runtime) Verifier() *auth.Verifier { return r.verifier }

// Auditor returns the audit store, or nil when auditing is disabled.
func (r *Runtime) Auditor() *audit.Store { return r.auditor }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
