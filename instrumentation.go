package tracklight

import (
	"net/http"
	"strconv"
	"strings"
)

// instrumentation.go contains helpers built on the lower level api.

// WrapHandle instruments http.Handler handlers with transactions.  To
// instrument this code:
//
//	http.Handle("/foo", myHandler)
//
// Perform this replacement:
//
//	http.Handle(tracklight.WrapHandle(registry, "/foo", myHandler))
//
// WrapHandle creates a transaction around each request and adds it to the
// request's context.  Access it through the registry to set the action,
// add tags, or record errors:
//
//	func myHandler(w http.ResponseWriter, r *http.Request) {
//		txn := registry.Current(r.Context())
//		txn.SetTags(map[string]interface{}{"plan": "gold"})
//	}
//
// This function is safe to call if 'registry' is nil.
func WrapHandle(registry *Registry, pattern string, handler http.Handler) (string, http.Handler) {
	if nil == registry {
		return pattern, handler
	}
	return pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, txn := registry.Create(r.Context(), "", "http_request", NewHTTPRequest(r), false)
		defer registry.CompleteCurrent(ctx)

		txn.SetActionIfNil(r.Method + " " + pattern)
		txn.SetMetadata("method", r.Method)
		txn.SetMetadata("path", r.URL.Path)

		rw := &statusRecorder{ResponseWriter: w}
		handler.ServeHTTP(rw, r.WithContext(ctx))

		if 0 != rw.status {
			txn.SetMetadata("response_status", strconv.Itoa(rw.status))
		}
		if rw.status >= http.StatusInternalServerError {
			txn.SetError(Error{
				Message: strconv.Itoa(rw.status) + ": " + http.StatusText(rw.status),
				Class:   "ServerError",
				Stack:   []uintptr{},
			})
		}
	})
}

// WrapHandleFunc serves the same purpose as WrapHandle for functions
// registered with ServeMux.HandleFunc.
func WrapHandleFunc(registry *Registry, pattern string, handler func(http.ResponseWriter, *http.Request)) (string, func(http.ResponseWriter, *http.Request)) {
	p, h := WrapHandle(registry, pattern, http.HandlerFunc(handler))
	return p, func(w http.ResponseWriter, r *http.Request) { h.ServeHTTP(w, r) }
}

// statusRecorder captures the response code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	if 0 == w.status {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if 0 == w.status {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// HTTPRequest adapts a *http.Request to the optional request capabilities
// consulted during sample data assembly.
type HTTPRequest struct {
	request *http.Request
}

// NewHTTPRequest turns a *http.Request into a request object for input into
// Registry.Create or NewTransaction.
func NewHTTPRequest(r *http.Request) *HTTPRequest {
	if nil == r {
		return nil
	}
	return &HTTPRequest{request: r}
}

// Params returns the request's query parameters.
func (r *HTTPRequest) Params() (map[string]interface{}, error) {
	params := make(map[string]interface{})
	for key, values := range r.request.URL.Query() {
		if 1 == len(values) {
			params[key] = values[0]
			continue
		}
		items := make([]interface{}, len(values))
		for i, v := range values {
			items[i] = v
		}
		params[key] = items
	}
	return params, nil
}

// Env returns a header/metadata map in the shape expected by the
// environment allow list: HTTP_* entries per request header plus the
// request line fields.
func (r *HTTPRequest) Env() map[string]string {
	env := map[string]string{
		"REQUEST_METHOD":  r.request.Method,
		"PATH_INFO":       r.request.URL.Path,
		"REQUEST_URI":     r.request.URL.RequestURI(),
		"SERVER_PROTOCOL": r.request.Proto,
		"SERVER_NAME":     r.request.Host,
	}
	for name, values := range r.request.Header {
		if 0 == len(values) {
			continue
		}
		key := "HTTP_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		env[key] = values[0]
	}
	if "" != r.request.Header.Get("Content-Type") {
		env["CONTENT_TYPE"] = r.request.Header.Get("Content-Type")
	}
	if "" != r.request.Header.Get("Content-Length") {
		env["CONTENT_LENGTH"] = r.request.Header.Get("Content-Length")
	}
	return env
}
