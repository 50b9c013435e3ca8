package log

// Logger receives sync events from a thing and its transport.
// A nil Logger disables capture. Log may be called from the driver and
// transport goroutines at the same time and must not block for long.
type Logger interface {
	Log(event Event)
}

// NoopLogger drops every event.
type NoopLogger struct{}

// Log does nothing.
func (NoopLogger) Log(Event) {}

// LoggerFunc adapts a plain function to a Logger.
type LoggerFunc func(Event)

// Log calls f(event).
func (f LoggerFunc) Log(event Event) { f(event) }

// Tee fans each event out to every non-nil logger, in order. It returns
// nil when no logger is left and the logger itself when only one is.
func Tee(loggers ...Logger) Logger {
	var out tee
	for _, l := range loggers {
		if l != nil {
			out = append(out, l)
		}
	}

	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return out
	}
}

type tee []Logger

func (t tee) Log(event Event) {
	for _, l := range t {
		l.Log(event)
	}
}

var (
	_ Logger = NoopLogger{}
	_ Logger = LoggerFunc(nil)
	_ Logger = tee(nil)
)
