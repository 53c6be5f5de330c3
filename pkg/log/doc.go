// Package log provides the structured logging facade used across ras-chat.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. Entries flow through a Formatter
// (text or JSON) into one or more Outputs.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("server"))
//	l.Info("server started", log.Str("addr", ":8080"))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config (level and
// format strings, typically sourced from flags or RASCHAT_LOG_* variables).
// RedirectStdLog routes standard library log output through a Logger so that
// third-party packages share the same format.
package log
