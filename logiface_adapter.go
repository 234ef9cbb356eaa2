package nbbuddy

import "github.com/joeycumines/logiface"

// logifaceAdapter bridges Logger to a logiface.Logger[logiface.Event], so
// callers already using logiface elsewhere can plug their existing sink
// straight into WithLogiface without writing an adapter of their own. Event
// is used bare as its own type parameter here, per the pattern the logiface
// package itself documents for consumers that don't need a custom Event
// implementation.
type logifaceAdapter struct {
	log *logiface.Logger[logiface.Event]
}

// newLogifaceAdapter wraps log as a Logger. A nil log disables logging,
// matching the behavior of the package default.
func newLogifaceAdapter(log *logiface.Logger[logiface.Event]) Logger {
	if log == nil {
		return noOpLogger{}
	}
	return &logifaceAdapter{log: log}
}

func (a *logifaceAdapter) IsEnabled(level LogLevel) bool {
	return a.builder(level) != nil
}

func (a *logifaceAdapter) Log(e LogEvent) {
	b := a.builder(e.Level)
	if b == nil {
		return
	}
	if e.Pos != 0 {
		b = b.Int("pos", int(e.Pos))
	}
	if e.MyID >= 0 {
		b = b.Int("myid", e.MyID)
	}
	if e.Err != nil {
		b = b.Err(e.Err)
	}
	b.Log(e.Message)
}

func (a *logifaceAdapter) builder(level LogLevel) *logiface.Builder[logiface.Event] {
	switch level {
	case LevelDebug:
		return a.log.Debug()
	case LevelInfo:
		return a.log.Info()
	case LevelWarn:
		return a.log.Warning()
	case LevelError:
		return a.log.Err()
	default:
		return a.log.Debug()
	}
}
