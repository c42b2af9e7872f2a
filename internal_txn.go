package tracklight

import (
	"fmt"
	"reflect"
	"time"

	"github.com/tracklight/go-agent/internal"
	"github.com/tracklight/go-agent/log"
)

type txn struct {
	id        string
	namespace string
	action    string
	cfg       Config
	request   interface{}
	session   Session

	paused    bool
	discarded bool
	// completed indicates whether Complete has run.  After completed has
	// been set the recording session is released and no further
	// submission should occur.
	completed bool

	tags        map[string]interface{}
	breadcrumbs *internal.BreadcrumbBuffer
	customData  interface{}
	params      internal.Source[map[string]interface{}]
	sessionData internal.Source[map[string]interface{}]
	headers     internal.Source[map[string]string]
	errorCauses []internal.ErrorCause
	store       map[string]map[string]interface{}
}

// NewTransaction opens a recording session with the recorder and returns a
// transaction tracking one unit of work.  The request object may be nil or
// any value; its optional capabilities (RequestParams, RequestSession,
// RequestEnv) are consulted as sample data fallbacks.  Most callers should
// go through Registry.Create instead, which enforces the single active
// transaction rule.
func NewTransaction(recorder Recorder, id, namespace string, request interface{}, cfg Config) Transaction {
	if nil == recorder {
		recorder = disabledRecorder{}
	}
	return &txn{
		id:          id,
		namespace:   namespace,
		cfg:         cfg,
		request:     request,
		session:     recorder.Start(id, namespace, &cfg),
		tags:        make(map[string]interface{}),
		breadcrumbs: internal.NewBreadcrumbBuffer(internal.MaxBreadcrumbs),
	}
}

func (t *txn) ID() string        { return t.id }
func (t *txn) Namespace() string { return t.namespace }
func (t *txn) Action() string    { return t.action }

func (t *txn) SetAction(name string) {
	if "" == name {
		return
	}
	t.action = name
	t.session.SetAction(name)
}

func (t *txn) SetActionIfNil(name string) {
	if "" != t.action {
		return
	}
	t.SetAction(name)
}

func (t *txn) SetNamespace(namespace string) {
	if "" == namespace {
		return
	}
	t.namespace = namespace
	t.session.SetNamespace(namespace)
}

func (t *txn) SetParams(params map[string]interface{}) {
	if nil == params {
		log.Debug("no params given, not setting params", t.logContext(nil))
		return
	}
	t.params = internal.Value(params)
}

func (t *txn) SetParamsIfNil(params map[string]interface{}) {
	if t.params.IsSet() {
		return
	}
	t.SetParams(params)
}

func (t *txn) SetParamsFunc(fn func() (map[string]interface{}, error)) {
	if nil == fn {
		log.Debug("no params producer given, not setting params", t.logContext(nil))
		return
	}
	t.params = internal.Deferred(fn)
}

func (t *txn) SetSessionData(data map[string]interface{}) {
	if nil == data {
		log.Debug("no session data given, not setting session data", t.logContext(nil))
		return
	}
	t.sessionData = internal.Value(data)
}

func (t *txn) SetSessionDataFunc(fn func() (map[string]interface{}, error)) {
	if nil == fn {
		log.Debug("no session data producer given, not setting session data", t.logContext(nil))
		return
	}
	t.sessionData = internal.Deferred(fn)
}

func (t *txn) SetHeaders(headers map[string]string) {
	if nil == headers {
		log.Debug("no headers given, not setting headers", t.logContext(nil))
		return
	}
	t.headers = internal.Value(headers)
}

func (t *txn) SetHeadersFunc(fn func() (map[string]string, error)) {
	if nil == fn {
		log.Debug("no headers producer given, not setting headers", t.logContext(nil))
		return
	}
	t.headers = internal.Deferred(fn)
}

func (t *txn) SetTags(tags map[string]interface{}) {
	for key, value := range tags {
		t.tags[key] = value
	}
}

func (t *txn) SetCustomData(data interface{}) {
	switch reflect.ValueOf(data).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		t.customData = data
	default:
		log.Error("invalid custom data type, only arrays and maps are supported",
			t.logContext(log.Context{"type": fmt.Sprintf("%T", data)}))
	}
}

func (t *txn) AddBreadcrumb(category, action, message string, metadata map[string]interface{}, at time.Time) {
	if at.IsZero() {
		at = t.cfg.clock().Now()
	}
	t.breadcrumbs.Add(internal.Breadcrumb{
		Time:     at.Unix(),
		Category: category,
		Action:   action,
		Message:  message,
		Metadata: metadata,
	})
}

func (t *txn) SetMetadata(key, value string) {
	if "" == key || "" == value {
		log.Debug("no key or value given, not setting metadata", t.logContext(nil))
		return
	}
	if t.cfg.filtersMetadataKey(key) {
		log.Debug("not setting filtered metadata key", t.logContext(log.Context{"key": key}))
		return
	}
	t.session.SetMetadata(key, value)
}

func (t *txn) SetQueueStart(millis int64) {
	if millis <= 0 || millis > internal.QueueStartMaxMillis {
		log.Warn("queue start value out of range, ignoring it",
			t.logContext(log.Context{"queue_start": millis}))
		return
	}
	t.session.SetQueueStart(millis)
}

func (t *txn) SetError(err error) {
	if nil == err {
		log.Debug("no error given, not setting error", t.logContext(nil))
		return
	}
	if !t.cfg.Active {
		return
	}

	class := internal.ErrorClassName(err)
	message := internal.CleanErrorMessage(class, err.Error())
	t.session.SetError(class, message, t.errorBacktrace(err))

	if causes := internal.WalkErrorCauses(err); 0 != len(causes) {
		t.errorCauses = causes
	}
}

func (t *txn) errorBacktrace(err error) []string {
	var stack internal.StackTrace
	if st, ok := err.(StackTracer); ok {
		stack = internal.StackTrace(st.StackTrace())
	}
	if nil == stack {
		stack = internal.GetStackTrace(2)
	}
	backtrace := stack.Format()
	if nil != t.cfg.BacktraceCleaner {
		backtrace = t.cfg.BacktraceCleaner(backtrace)
	}
	return backtrace
}

func (t *txn) StartEvent() {
	if t.paused {
		return
	}
	t.session.StartEvent()
}

func (t *txn) FinishEvent(name, title, body string, format BodyFormat) {
	if t.paused {
		return
	}
	if "" == name {
		log.Debug("no name given, not finishing event", t.logContext(nil))
		return
	}
	t.session.FinishEvent(name, title, body, format)
}

func (t *txn) RecordEvent(name, title, body string, format BodyFormat, duration time.Duration) {
	if t.paused {
		return
	}
	if "" == name {
		log.Debug("no name given, not recording event", t.logContext(nil))
		return
	}
	t.session.RecordEvent(name, title, body, format, duration)
}

func (t *txn) Instrument(name, title, body string, format BodyFormat, fn func() error) error {
	t.StartEvent()
	defer t.FinishEvent(name, title, body, format)
	return fn()
}

func (t *txn) Pause()            { t.paused = true }
func (t *txn) Resume()           { t.paused = false }
func (t *txn) IsPaused() bool    { return t.paused }
func (t *txn) Discard()          { t.discarded = true }
func (t *txn) Restore()          { t.discarded = false }
func (t *txn) IsDiscarded() bool { return t.discarded }

func (t *txn) Store(key string) map[string]interface{} {
	if nil == t.store {
		t.store = make(map[string]map[string]interface{})
	}
	if _, ok := t.store[key]; !ok {
		t.store[key] = map[string]interface{}{}
	}
	return t.store[key]
}

func (t *txn) Complete() {
	if t.completed {
		log.Debug("transaction already completed", t.logContext(nil))
		return
	}
	t.completed = true
	defer t.session.Complete()

	if t.discarded {
		log.Debug("skipping sample data for discarded transaction", t.logContext(nil))
		return
	}
	if t.session.Finish() {
		t.sampleData()
	}
}

// sampleData resolves every lazy source exactly once, sanitizes the result,
// and submits each non-absent entry individually.  The submission order is
// fixed so recorded payloads are deterministic.
func (t *txn) sampleData() {
	env := t.resolveEnvironment()

	if t.cfg.SendParams {
		if params := t.resolveParams(); nil != params {
			t.session.SetSampleData("params", internal.FilterMap(params, t.cfg.FilterParameters))
		}
	}
	if reduced := internal.ReduceEnv(env, t.cfg.RequestHeaders); 0 != len(reduced) {
		t.session.SetSampleData("environment", reduced)
	}
	if t.cfg.SendSessionData {
		if data := t.resolveSessionData(); nil != data {
			t.session.SetSampleData("session_data", internal.FilterMap(data, t.cfg.FilterSessionData))
		}
	}
	if metadata := internal.EnvMetadata(env, t.cfg.FilterMetadata); 0 != len(metadata) {
		t.session.SetSampleData("metadata", metadata)
	}
	if tags := internal.SanitizeTags(t.tags); 0 != len(tags) {
		t.session.SetSampleData("tags", tags)
	}
	if t.breadcrumbs.Len() > 0 {
		t.session.SetSampleData("breadcrumbs", t.breadcrumbs.Contents())
	}
	if nil != t.customData {
		t.session.SetSampleData("custom_data", t.customData)
	}
	if 0 != len(t.errorCauses) {
		t.session.SetSampleData("error_causes", t.errorCauses)
	}
}

func (t *txn) resolveParams() map[string]interface{} {
	if t.params.IsSet() {
		params, err := t.params.Resolve()
		if nil != err {
			log.Error("exception while resolving params", t.logContext(log.Context{"error": err.Error()}))
			return nil
		}
		return params
	}
	if "filtered_params" == t.cfg.ParamsMethod {
		if req, ok := t.request.(RequestFilteredParams); ok {
			return t.requestParams(req.FilteredParams)
		}
	}
	if req, ok := t.request.(RequestParams); ok {
		return t.requestParams(req.Params)
	}
	return nil
}

func (t *txn) requestParams(accessor func() (map[string]interface{}, error)) map[string]interface{} {
	params, err := accessor()
	if nil != err {
		log.Error("exception while fetching params from the request",
			t.logContext(log.Context{"error": err.Error()}))
		return nil
	}
	return params
}

func (t *txn) resolveSessionData() map[string]interface{} {
	if t.sessionData.IsSet() {
		data, err := t.sessionData.Resolve()
		if nil != err {
			log.Error("exception while resolving session data",
				t.logContext(log.Context{"error": err.Error()}))
			return nil
		}
		return data
	}
	if req, ok := t.request.(RequestSession); ok {
		return req.Session()
	}
	return nil
}

func (t *txn) resolveEnvironment() map[string]string {
	if t.headers.IsSet() {
		env, err := t.headers.Resolve()
		if nil != err {
			log.Error("exception while resolving headers",
				t.logContext(log.Context{"error": err.Error()}))
			return nil
		}
		return env
	}
	if req, ok := t.request.(RequestEnv); ok {
		return req.Env()
	}
	return nil
}

func (t *txn) logContext(extra log.Context) log.Context {
	ctx := log.Context{"transaction_id": t.id}
	for key, value := range extra {
		ctx[key] = value
	}
	return ctx
}
