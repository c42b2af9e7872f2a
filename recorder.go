package tracklight

import "time"

// Recorder is the capability that persists and transmits assembled
// telemetry.  It is consumed, never implemented, by this package: the
// surrounding integration injects one when building a Registry.
type Recorder interface {
	// Start opens a recording session for a transaction.  Recorders may
	// return a disabled session while the agent is inactive; callers can
	// not distinguish one from a live session.
	Start(id, namespace string, cfg *Config) Session
}

// Session is an open recording session owned by exactly one Transaction for
// its lifetime.  Complete must be called exactly once on every exit path to
// release the resources tied to the session.
type Session interface {
	SetAction(name string)
	SetNamespace(namespace string)
	SetMetadata(key, value string)
	SetQueueStart(millis int64)
	SetError(class, message string, backtrace []string)
	SetSampleData(key string, value interface{})

	StartEvent()
	FinishEvent(name, title, body string, format BodyFormat)
	RecordEvent(name, title, body string, format BodyFormat, duration time.Duration)

	// Finish signals the logical end of work and reports whether this
	// transaction should be sampled.
	Finish() bool

	// Complete releases all resources tied to the session.
	Complete()
}

// disabledRecorder hands out inert sessions.  It backs registries built
// without a recorder so instrumented code keeps working unrecorded.
type disabledRecorder struct{}

func (disabledRecorder) Start(id, namespace string, cfg *Config) Session {
	return disabledSession{}
}

type disabledSession struct{}

func (disabledSession) SetAction(name string)                                   {}
func (disabledSession) SetNamespace(namespace string)                           {}
func (disabledSession) SetMetadata(key, value string)                           {}
func (disabledSession) SetQueueStart(millis int64)                              {}
func (disabledSession) SetError(class, message string, backtrace []string)      {}
func (disabledSession) SetSampleData(key string, value interface{})             {}
func (disabledSession) StartEvent()                                             {}
func (disabledSession) FinishEvent(name, title, body string, format BodyFormat) {}
func (disabledSession) RecordEvent(name, title, body string, format BodyFormat, duration time.Duration) {
}
func (disabledSession) Finish() bool { return false }
func (disabledSession) Complete()    {}
