package log

import (
	"io"
	"os"
	"sync"
)

// Output receives formatted log entries.
type Output interface {
	Write(entry *Entry, formattedEntry []byte) error
	Close() error
}

// ConsoleOutput writes entries to stderr, errors and above included.
type ConsoleOutput struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleOutput returns an Output writing to stderr.
func NewConsoleOutput() *ConsoleOutput {
	return &ConsoleOutput{w: os.Stderr}
}

// NewWriterOutput returns an Output writing to an arbitrary writer.
func NewWriterOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{w: w}
}

// Write implements Output.
func (o *ConsoleOutput) Write(_ *Entry, formattedEntry []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := o.w.Write(formattedEntry)
	return err
}

// Close implements Output. Console output has nothing to close.
func (o *ConsoleOutput) Close() error { return nil }

// NullOutput discards all entries.
type NullOutput struct{}

// Write implements Output.
func (NullOutput) Write(*Entry, []byte) error { return nil }

// Close implements Output.
func (NullOutput) Close() error { return nil }
