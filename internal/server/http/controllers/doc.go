// Package controllers contains the HTTP request handlers, grouped by
// concern: general (ping, health) and messages (append, snapshots, audit).
// Controllers decode payloads, delegate to the chat service, and map the
// service error taxonomy onto HTTP statuses.
package controllers
