package log

import "time"

// Field is a single structured logging attribute.
type Field struct {
	Key   string
	Value interface{}
}

// Str returns a string field.
func Str(key, value string) Field { return Field{Key: key, Value: value} }

// Int returns an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Int64 returns an int64 field.
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Uint32 returns a uint32 field.
func Uint32(key string, value uint32) Field { return Field{Key: key, Value: value} }

// Bool returns a bool field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Dur returns a duration field in milliseconds.
func Dur(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.Milliseconds()}
}

// Err returns an error field keyed "error". Nil errors render as "<nil>".
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Component returns the standard component tag field.
func Component(name string) Field { return Field{Key: "component", Value: name} }

// Any returns a field with an arbitrary value.
func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }
