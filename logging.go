package conctest

import "github.com/rs/zerolog"

// event-name constants keep log call sites consistent across registry.go
// and controller.go, mirroring how the teacher centralizes its error
// namespace in errors.go.
const (
	logEventRegister = "register"
	logEventResolve  = "resolve"
	logEventIsolate  = "isolate"
	logEventHeal     = "heal"
	logEventAdvance  = "advance"
	logEventClose    = "close"
)

// withTask returns a logger sub-context tagged with the task id and its
// internal correlation id, used consistently by every registry/controller
// log line.
func withTask(l zerolog.Logger, id TaskID, correlationID string) zerolog.Logger {
	return l.With().
		Str("task_id", string(id)).
		Str("correlation_id", correlationID).
		Logger()
}
