package chatsvc

import (
	"context"
	"fmt"
	"sync"

	"github.com/Ailysom/ras-chat/internal/audit"
	"github.com/Ailysom/ras-chat/internal/auth"
	"github.com/Ailysom/ras-chat/internal/ringlog"
	"github.com/Ailysom/ras-chat/internal/runtime"
	logpkg "github.com/Ailysom/ras-chat/pkg/log"
)

// Service orchestrates the chat log: per request it validates the token,
// checks the access gate, and performs exactly one ring operation under the
// service's exclusive lock. Reads and writes are mutually exclusive with
// each other and with themselves; the ring's wraparound makes concurrent
// torn reads unsafe without that.
type Service struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
	clock  msClock

	mu     sync.Mutex
	ring   *ringlog.Ring
	closed bool
}

// New returns a Service using a default logger.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, nil)
}

// NewWithLogger constructs the service with an injected logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("chat"))
	}
	return &Service{rt: rt, logger: logger, ring: rt.Ring()}
}

// Ping returns the literal acknowledgment. No authentication required.
func (s *Service) Ping() string { return "pong" }

// Append validates the token, checks the writer gate, derives the message
// key from the subject plus a millisecond timestamp, and stores the message.
func (s *Service) Append(ctx context.Context, token, message string) error {
	rec, err := s.authenticate(ctx, "append", token)
	if err != nil {
		return err
	}
	if !auth.Allow(rec, s.rt.Config().WriteRole) {
		s.deny(ctx, "append", rec.Subject)
		return ErrAuthorizationDenied
	}
	key := MessageKey(rec.Subject, s.clock.nowMs())

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrUnavailable
	}
	err = s.ring.Append(key, message)
	s.mu.Unlock()

	if err != nil {
		s.audit(ctx, audit.Entry{Op: "append", Subject: rec.Subject, Outcome: audit.OutcomeRejected, Detail: err.Error()})
		return err
	}
	s.logger.Debug("message appended", logpkg.Str("subject", rec.Subject), logpkg.Str("key", key))
	s.audit(ctx, audit.Entry{Op: "append", Subject: rec.Subject, Outcome: audit.OutcomeOK})
	return nil
}

// SnapshotAll returns every slot oldest-first. The optional filter is a CEL
// expression over {key, value, size, now_ms}; a malformed expression is a
// bad request.
func (s *Service) SnapshotAll(ctx context.Context, token, filter string) ([]ringlog.Message, error) {
	rec, err := s.authenticate(ctx, "snapshot_all", token)
	if err != nil {
		return nil, err
	}
	if !auth.Allow(rec, s.rt.Config().ReadRole) {
		s.deny(ctx, "snapshot_all", rec.Subject)
		return nil, ErrAuthorizationDenied
	}
	f, err := newCELFilter(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid filter: %v", ErrBadRequest, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrUnavailable
	}
	msgs := s.ring.SnapshotAll()
	s.mu.Unlock()

	s.audit(ctx, audit.Entry{Op: "snapshot_all", Subject: rec.Subject, Outcome: audit.OutcomeOK})
	return applyFilter(msgs, f), nil
}

// SnapshotFrom returns the messages stored after the marker key, inclusive
// of the match, oldest first. An unknown marker yields an empty result.
func (s *Service) SnapshotFrom(ctx context.Context, token, startKey, filter string) ([]ringlog.Message, error) {
	rec, err := s.authenticate(ctx, "snapshot_from", token)
	if err != nil {
		return nil, err
	}
	if !auth.Allow(rec, s.rt.Config().ReadRole) {
		s.deny(ctx, "snapshot_from", rec.Subject)
		return nil, ErrAuthorizationDenied
	}
	f, err := newCELFilter(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid filter: %v", ErrBadRequest, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrUnavailable
	}
	msgs := s.ring.SnapshotFrom(startKey)
	s.mu.Unlock()

	s.audit(ctx, audit.Entry{Op: "snapshot_from", Subject: rec.Subject, Outcome: audit.OutcomeOK})
	return applyFilter(msgs, f), nil
}

// AuditRecent returns the newest audit entries, reader-gated. Returns an
// empty slice when auditing is disabled.
func (s *Service) AuditRecent(ctx context.Context, token string, limit int) ([]audit.Entry, error) {
	rec, err := s.authenticate(ctx, "audit_recent", token)
	if err != nil {
		return nil, err
	}
	if !auth.Allow(rec, s.rt.Config().ReadRole) {
		s.deny(ctx, "audit_recent", rec.Subject)
		return nil, ErrAuthorizationDenied
	}
	auditor := s.rt.Auditor()
	if auditor == nil {
		return []audit.Entry{}, nil
	}
	return auditor.Recent(ctx, limit)
}

// Close marks the service unavailable. In-flight operations holding the lock
// complete; subsequent operations return ErrUnavailable.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// authenticate validates the bearer token, failing closed. The single error
// category deliberately hides why validation failed.
func (s *Service) authenticate(ctx context.Context, op, token string) (auth.TokenRecord, error) {
	rec, err := s.rt.Verifier().Verify(token)
	if err != nil {
		s.logger.Debug("token rejected", logpkg.Str("op", op), logpkg.Err(err))
		s.audit(ctx, audit.Entry{Op: op, Subject: "", Outcome: audit.OutcomeDenied, Detail: "authentication"})
		return auth.TokenRecord{}, ErrAuthenticationFailed
	}
	return rec, nil
}

func (s *Service) deny(ctx context.Context, op, subject string) {
	s.logger.Debug("authorization denied", logpkg.Str("op", op), logpkg.Str("subject", subject))
	s.audit(ctx, audit.Entry{Op: op, Subject: subject, Outcome: audit.OutcomeDenied, Detail: "authorization"})
}

// audit records a best-effort audit entry. Failures are logged, never
// propagated to the request.
func (s *Service) audit(ctx context.Context, e audit.Entry) {
	auditor := s.rt.Auditor()
	if auditor == nil {
		return
	}
	if err := auditor.Record(ctx, e); err != nil {
		s.logger.Warn("audit write failed", logpkg.Str("op", e.Op), logpkg.Err(err))
	}
}
