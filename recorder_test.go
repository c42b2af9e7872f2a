package tracklight

import (
	"fmt"
	"time"
)

// mockRecorder captures every Session call for assertions, in the spirit of
// a recording backend test double.
type mockRecorder struct {
	sample   bool
	sessions []*mockSession
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{sample: true}
}

func (r *mockRecorder) Start(id, namespace string, cfg *Config) Session {
	s := &mockSession{
		id:        id,
		namespace: namespace,
		sample:    r.sample,
		metadata:  make(map[string]string),
	}
	r.sessions = append(r.sessions, s)
	return s
}

// last returns the most recently opened session.
func (r *mockRecorder) last() *mockSession {
	if 0 == len(r.sessions) {
		return nil
	}
	return r.sessions[len(r.sessions)-1]
}

type sampleEntry struct {
	key   string
	value interface{}
}

type recordedError struct {
	class     string
	message   string
	backtrace []string
}

type mockSession struct {
	id        string
	namespace string
	sample    bool

	actions     []string
	namespaces  []string
	metadata    map[string]string
	queueStarts []int64
	errors      []recordedError
	sampleData  []sampleEntry
	events      []string

	finishCalls   int
	completeCalls int
	panicOnFinish bool
}

func (s *mockSession) SetAction(name string)         { s.actions = append(s.actions, name) }
func (s *mockSession) SetNamespace(namespace string) { s.namespaces = append(s.namespaces, namespace) }
func (s *mockSession) SetMetadata(key, value string) { s.metadata[key] = value }
func (s *mockSession) SetQueueStart(millis int64)    { s.queueStarts = append(s.queueStarts, millis) }

func (s *mockSession) SetError(class, message string, backtrace []string) {
	s.errors = append(s.errors, recordedError{class: class, message: message, backtrace: backtrace})
}

func (s *mockSession) SetSampleData(key string, value interface{}) {
	s.sampleData = append(s.sampleData, sampleEntry{key: key, value: value})
}

func (s *mockSession) StartEvent() {
	s.events = append(s.events, "start")
}

func (s *mockSession) FinishEvent(name, title, body string, format BodyFormat) {
	s.events = append(s.events, fmt.Sprintf("finish:%s", name))
}

func (s *mockSession) RecordEvent(name, title, body string, format BodyFormat, duration time.Duration) {
	s.events = append(s.events, fmt.Sprintf("record:%s:%s", name, duration))
}

func (s *mockSession) Finish() bool {
	s.finishCalls++
	if s.panicOnFinish {
		panic("recorder gone away")
	}
	return s.sample
}

func (s *mockSession) Complete() {
	s.completeCalls++
}

// sampleDataFor returns the submitted value for key, or nil when the entry
// was never submitted.
func (s *mockSession) sampleDataFor(key string) interface{} {
	for _, entry := range s.sampleData {
		if entry.key == key {
			return entry.value
		}
	}
	return nil
}

func (s *mockSession) sampleDataKeys() []string {
	keys := make([]string, len(s.sampleData))
	for i, entry := range s.sampleData {
		keys[i] = entry.key
	}
	return keys
}
