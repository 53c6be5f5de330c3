package log

import (
	stdlog "log"
)

// Config declares logger construction parameters in a form suitable for
// loading from flags or environment.
type Config struct {
	// Level is the minimum level name: debug|info|warn|error|fatal.
	Level string
	// Format selects the formatter: text|json.
	Format string
}

// ApplyConfig builds a Logger from a declarative Config. An empty level or
// format falls back to info/text.
func ApplyConfig(cfg *Config) (Logger, error) {
	level := InfoLevel
	if cfg != nil && cfg.Level != "" {
		parsed, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}
	var formatter Formatter = &TextFormatter{}
	if cfg != nil && cfg.Format == "json" {
		formatter = &JSONFormatter{}
	}
	return NewLogger(
		WithLevel(level),
		WithFormatter(formatter),
		WithOutput(NewConsoleOutput()),
	), nil
}

// stdWriter adapts a Logger to io.Writer for stdlib log redirection.
type stdWriter struct{ logger Logger }

func (w stdWriter) Write(p []byte) (int, error) {
	msg := string(p)
	if n := len(msg); n > 0 && msg[n-1] == '\n' {
		msg = msg[:n-1]
	}
	w.logger.Info(msg, Component("stdlog"))
	return len(p), nil
}

// RedirectStdLog routes standard library log output through the given Logger.
func RedirectStdLog(logger Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(stdWriter{logger: logger})
}
