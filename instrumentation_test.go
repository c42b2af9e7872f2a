package tracklight

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapHandleFunc(t *testing.T) {
	recorder := newMockRecorder()
	registry := NewRegistry(recorder, NewConfig())

	pattern, handler := WrapHandleFunc(registry, "/users", func(w http.ResponseWriter, r *http.Request) {
		txn := registry.Current(r.Context())
		txn.SetActionIfNil("Users#index")
		txn.SetTags(map[string]interface{}{"plan": "pro"})
		w.WriteHeader(http.StatusCreated)
	})
	assert.Equal(t, "/users", pattern)

	req := httptest.NewRequest("GET", "/users?q=gopher", nil)
	req.Header.Set("User-Agent", "curl/8.0")
	handler(httptest.NewRecorder(), req)

	require.Len(t, recorder.sessions, 1)
	session := recorder.last()

	// The handler's own action wins over the route fallback.
	assert.Equal(t, []string{"Users#index"}, session.actions)
	assert.Equal(t, "http_request", session.namespace)
	assert.Equal(t, "GET", session.metadata["method"])
	assert.Equal(t, "/users", session.metadata["path"])
	assert.Equal(t, "201", session.metadata["response_status"])

	// The transaction was completed and its slot cleared.
	assert.Equal(t, 1, session.completeCalls)
	assert.Equal(t, map[string]interface{}{"plan": "pro"}, session.sampleDataFor("tags"))

	env, ok := session.sampleDataFor("environment").(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "curl/8.0", env["HTTP_USER_AGENT"])
	assert.Equal(t, "GET", env["REQUEST_METHOD"])
}

func TestWrapHandleNoticesServerErrors(t *testing.T) {
	recorder := newMockRecorder()
	registry := NewRegistry(recorder, NewConfig())

	_, handler := WrapHandle(registry, "/boom", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/boom", nil))

	session := recorder.last()
	require.Len(t, session.errors, 1)
	assert.Equal(t, "ServerError", session.errors[0].class)
	assert.Equal(t, "502: Bad Gateway", session.errors[0].message)
	assert.Equal(t, "502", session.metadata["response_status"])
}

func TestWrapHandleClientErrorNotNoticed(t *testing.T) {
	recorder := newMockRecorder()
	registry := NewRegistry(recorder, NewConfig())

	_, handler := WrapHandle(registry, "/missing", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", nil))

	session := recorder.last()
	assert.Empty(t, session.errors)
	assert.Equal(t, "404", session.metadata["response_status"])
}

func TestWrapHandleNilRegistry(t *testing.T) {
	called := false
	pattern, handler := WrapHandle(nil, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	assert.Equal(t, "/ping", pattern)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/ping", nil))
	assert.True(t, called)
}

func TestHTTPRequestParams(t *testing.T) {
	req := httptest.NewRequest("GET", "/search?q=gopher&tag=a&tag=b", nil)

	params, err := NewHTTPRequest(req).Params()
	require.NoError(t, err)
	assert.Equal(t, "gopher", params["q"])
	assert.Equal(t, []interface{}{"a", "b"}, params["tag"])
}

func TestHTTPRequestEnv(t *testing.T) {
	req := httptest.NewRequest("POST", "/users", nil)
	req.Header.Set("User-Agent", "curl/8.0")
	req.Header.Set("Content-Type", "application/json")

	env := NewHTTPRequest(req).Env()
	assert.Equal(t, "POST", env["REQUEST_METHOD"])
	assert.Equal(t, "/users", env["PATH_INFO"])
	assert.Equal(t, "curl/8.0", env["HTTP_USER_AGENT"])
	assert.Equal(t, "application/json", env["CONTENT_TYPE"])
}
