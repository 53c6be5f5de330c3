package chatsvc

import (
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/Ailysom/ras-chat/internal/ringlog"
)

// celFilter wraps a compiled CEL program used to narrow snapshot results.
// When disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("key", cel.StringType),
		cel.Variable("value", cel.StringType),
		cel.Variable("size", cel.IntType),
		// Current time in ms for windowed filters over timestamped keys
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against a message. Evaluation
// errors count as non-matches.
func (f celFilter) Eval(m ringlog.Message) bool {
	if !f.enabled {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"key":    m.Key,
		"value":  m.Value,
		"size":   len(m.Value),
		"now_ms": time.Now().UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// applyFilter retains only messages matching the filter. The input slice is
// not modified.
func applyFilter(msgs []ringlog.Message, f celFilter) []ringlog.Message {
	if !f.enabled {
		return msgs
	}
	out := make([]ringlog.Message, 0, len(msgs))
	for _, m := range msgs {
		if f.Eval(m) {
			out = append(out, m)
		}
	}
	return out
}
