package tracklight

import "time"

// Transaction tracks one unit of work: an HTTP request, a background job,
// or similar.  Each Transaction is confined to the execution context that
// created it and should only be used in a single goroutine.
//
// Every mutator is side-effect-safe and non-panicking: invalid input is
// logged and ignored so instrumentation code can never crash the host
// application.  Telemetry degrades silently instead.
type Transaction interface {
	// ID returns the transaction's identifier.  It is immutable after
	// creation.
	ID() string

	// Namespace returns the current classification of the unit of work,
	// e.g. "http_request" or "background_job".
	Namespace() string

	// Action returns the name of the specific operation, e.g.
	// "UsersController#show", or the empty string while unset.
	Action() string

	// SetAction names the operation and notifies the recorder
	// immediately.  An empty name is ignored.
	SetAction(name string)

	// SetActionIfNil delegates to SetAction only while the action is
	// unset, giving earlier, more specific instrumentation precedence.
	SetActionIfNil(name string)

	// SetNamespace reclassifies the unit of work and notifies the
	// recorder immediately.  An empty name is ignored.
	SetNamespace(namespace string)

	// SetParams stores the parameters submitted at completion.  A nil
	// value is ignored so an installed producer is never clobbered.
	SetParams(params map[string]interface{})

	// SetParamsIfNil delegates to SetParams only while no parameter
	// source is installed.
	SetParamsIfNil(params map[string]interface{})

	// SetParamsFunc stores a producer evaluated once, at sampling time.
	// A producer failure is logged and the field resolves to absent.
	SetParamsFunc(fn func() (map[string]interface{}, error))

	// SetSessionData stores the session data submitted at completion.
	SetSessionData(data map[string]interface{})

	// SetSessionDataFunc stores a deferred session data producer.
	SetSessionDataFunc(fn func() (map[string]interface{}, error))

	// SetHeaders stores the request environment used for the environment
	// sample data entry.
	SetHeaders(headers map[string]string)

	// SetHeadersFunc stores a deferred request environment producer.
	SetHeadersFunc(fn func() (map[string]string, error))

	// SetTags merges tags into the transaction.  Later calls overwrite
	// same-key entries.  Entries failing the allowed-type check (short
	// string keys; string, boolean, or integer values) are accepted here
	// and dropped at sampling time.
	SetTags(tags map[string]interface{})

	// SetCustomData stores an arbitrary array or map payload.  Other
	// types are rejected with a diagnostic and leave the field
	// unchanged.
	SetCustomData(data interface{})

	// AddBreadcrumb appends a categorized note.  Only the most recent 20
	// breadcrumbs are kept.  A zero at means "now".
	AddBreadcrumb(category, action, message string, metadata map[string]interface{}, at time.Time)

	// SetMetadata forwards a metadata entry to the recorder immediately.
	// Empty keys or values and keys on the metadata filter list are
	// ignored.
	SetMetadata(key, value string)

	// SetQueueStart forwards the moment the unit of work was queued, in
	// milliseconds since the epoch.  Out-of-range values are logged and
	// ignored.
	SetQueueStart(millis int64)

	// SetError forwards an error's class, cleaned message, and backtrace
	// to the recorder, and walks its cause chain for the error_causes
	// sample data entry.  Nil errors are ignored, as is everything while
	// the agent is inactive.
	SetError(err error)

	// StartEvent, FinishEvent, and RecordEvent forward event boundaries
	// to the recorder.  All three are no-ops while the transaction is
	// paused.
	StartEvent()
	FinishEvent(name, title, body string, format BodyFormat)
	RecordEvent(name, title, body string, format BodyFormat, duration time.Duration)

	// Instrument runs fn between StartEvent and FinishEvent.  The finish
	// call is guaranteed even when fn fails; fn's own error or panic
	// propagates to the caller after cleanup.
	Instrument(name, title, body string, format BodyFormat, fn func() error) error

	// Pause suspends event recording.  Data setters are unaffected.
	Pause()
	Resume()
	IsPaused() bool

	// Discard marks the transaction to be dropped at completion: no
	// sample data will ever be produced for it.  Restore undoes the
	// mark before completion.
	Discard()
	Restore()
	IsDiscarded() bool

	// Store returns a named scratch map for collaborator-specific data,
	// lazily created per key.
	Store(key string) map[string]interface{}

	// Complete terminates the transaction: resolves lazy sources,
	// sanitizes and submits sample data if the recorder elects to sample
	// this instance, and releases the recording session.  Subsequent
	// calls have no effect.
	Complete()
}

// BodyFormat describes how an event body should be interpreted by the
// recorder, e.g. whether it needs SQL sanitization.
type BodyFormat int

const (
	BodyFormatDefault BodyFormat = iota
	BodyFormatSQL
)

// The request object attached to a transaction is duck typed: concrete
// request types are adapted by the surrounding integration and every
// capability is optional.  Absence of a capability is tolerated everywhere
// and simply yields absent sample data fields.

// RequestParams is implemented by request objects that expose submitted
// parameters.
type RequestParams interface {
	Params() (map[string]interface{}, error)
}

// RequestFilteredParams is implemented by request objects that expose
// pre-filtered parameters.  It is consulted instead of RequestParams when
// Config.ParamsMethod is "filtered_params".
type RequestFilteredParams interface {
	FilteredParams() (map[string]interface{}, error)
}

// RequestSession is implemented by request objects that expose session
// data.
type RequestSession interface {
	Session() map[string]interface{}
}

// RequestEnv is implemented by request objects that expose an env-like
// header/metadata map.
type RequestEnv interface {
	Env() map[string]string
}
