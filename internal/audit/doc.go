// Package audit persists a best-effort trail of request outcomes (who called
// which operation and how it ended) in Pebble. The trail is operational
// metadata for security monitoring; chat messages themselves never reach
// disk. Audit failures are logged and swallowed so they cannot fail the
// request they describe.
package audit
