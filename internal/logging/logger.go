// Package logging is the structured logging layer of the receipt pipeline.
// Components depend on Logger, never on logrus directly, so tests can capture
// entries with MockLogger.
package logging

// Logger is the structured logger passed to every component constructor.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a logger whose entries carry err.
	WithError(err error) Logger

	// WithField returns a logger whose entries carry key=value.
	WithField(key string, value interface{}) Logger

	// WithFields returns a logger whose entries carry every field.
	WithFields(fields ...Field) Logger
}

// Field is a key/value pair attached to a log entry. Keys should come from
// the Field* constants.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field inline.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
