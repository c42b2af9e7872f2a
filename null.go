package tracklight

import "time"

var _ Transaction = &NullTransaction{}

// NullTransaction is a no-op stand-in returned by the Registry when no
// transaction is active, so call sites can treat "no transaction" and
// "active transaction" uniformly.  Instrument still runs the wrapped
// function, just without recording.
type NullTransaction struct{}

func (t *NullTransaction) ID() string        { return "" }
func (t *NullTransaction) Namespace() string { return "" }
func (t *NullTransaction) Action() string    { return "" }

func (t *NullTransaction) SetAction(name string)                                        {}
func (t *NullTransaction) SetActionIfNil(name string)                                   {}
func (t *NullTransaction) SetNamespace(namespace string)                                {}
func (t *NullTransaction) SetParams(params map[string]interface{})                      {}
func (t *NullTransaction) SetParamsIfNil(params map[string]interface{})                 {}
func (t *NullTransaction) SetParamsFunc(fn func() (map[string]interface{}, error))      {}
func (t *NullTransaction) SetSessionData(data map[string]interface{})                   {}
func (t *NullTransaction) SetSessionDataFunc(fn func() (map[string]interface{}, error)) {}
func (t *NullTransaction) SetHeaders(headers map[string]string)                         {}
func (t *NullTransaction) SetHeadersFunc(fn func() (map[string]string, error))          {}
func (t *NullTransaction) SetTags(tags map[string]interface{})                          {}
func (t *NullTransaction) SetCustomData(data interface{})                               {}

func (t *NullTransaction) AddBreadcrumb(category, action, message string, metadata map[string]interface{}, at time.Time) {
}

func (t *NullTransaction) SetMetadata(key, value string) {}
func (t *NullTransaction) SetQueueStart(millis int64)    {}
func (t *NullTransaction) SetError(err error)            {}

func (t *NullTransaction) StartEvent()                                             {}
func (t *NullTransaction) FinishEvent(name, title, body string, format BodyFormat) {}
func (t *NullTransaction) RecordEvent(name, title, body string, format BodyFormat, duration time.Duration) {
}

func (t *NullTransaction) Instrument(name, title, body string, format BodyFormat, fn func() error) error {
	return fn()
}

func (t *NullTransaction) Pause()            {}
func (t *NullTransaction) Resume()           {}
func (t *NullTransaction) IsPaused() bool    { return false }
func (t *NullTransaction) Discard()          {}
func (t *NullTransaction) Restore()          {}
func (t *NullTransaction) IsDiscarded() bool { return false }

func (t *NullTransaction) Store(key string) map[string]interface{} {
	return map[string]interface{}{}
}

func (t *NullTransaction) Complete() {}
