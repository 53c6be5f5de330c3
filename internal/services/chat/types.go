package chatsvc

import "errors"

// Request-terminal error taxonomy. None of these are retried by the core;
// retry, if any, is a client or transport decision.
var (
	// ErrBadRequest flags malformed or missing required fields.
	ErrBadRequest = errors.New("chat: bad request")
	// ErrAuthenticationFailed covers every token validation failure as one
	// category; responses must not reveal whether the token was absent,
	// malformed, or expired.
	ErrAuthenticationFailed = errors.New("chat: authentication failed")
	// ErrAuthorizationDenied means a valid token lacked the required role.
	// The ring is never touched on this path.
	ErrAuthorizationDenied = errors.New("chat: authorization denied")
	// ErrUnavailable means the shared ring can no longer be obtained, which
	// in this implementation only happens after Close.
	ErrUnavailable = errors.New("chat: service unavailable")
)
