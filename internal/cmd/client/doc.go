// Package client provides the `raschat` command-line client.
//
// The CLI talks to the RasChat HTTP endpoint to perform chat log
// operations from a terminal. It is primarily intended for developers
// and operators.
//
// Installation
//
//	go install github.com/Ailysom/ras-chat/cmd/raschat@latest
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it
// defaults to http://127.0.0.1:8080 and can be overridden with the
// RASCHAT_HTTP environment variable.
//
// Usage
//
//	raschat chat ping
//
//	raschat token issue --subject alice --roles 3 --ttl 24h
//
//	export RASCHAT_TOKEN=$(raschat token issue --subject alice --roles 3)
//	raschat chat send "hello there"
//
//	raschat chat history
//	raschat chat history --from alice1726833600000
//	raschat chat history --filter 'value.contains("hello")'
//
//	raschat chat audit --limit 50
//
// Notes
//
//   - All chat operations take a bearer token from --token or the
//     RASCHAT_TOKEN environment variable.
//   - token issue mints locally; it needs the signing secret from the
//     config file or RASCHAT_AUTH_SECRET, not a running server.
package client
