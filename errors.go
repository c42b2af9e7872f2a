package tracklight

import "github.com/tracklight/go-agent/internal"

// StackTracer can be implemented by errors to provide a stack trace when
// using Transaction.SetError.
type StackTracer interface {
	StackTrace() []uintptr
}

// ErrorClasser can be implemented by errors to provide a custom class when
// using Transaction.SetError.
type ErrorClasser interface {
	ErrorClass() string
}

// Error is an error that implements ErrorClasser and StackTracer.  Use it
// with Transaction.SetError to directly control error message, class, and
// stacktrace.
type Error struct {
	// Message is the error message which will be returned by the Error()
	// method.
	Message string
	// Class indicates how the error may be aggregated.
	Class string
	// Stack is the stack trace.  Assign this field using NewStackTrace,
	// or leave it nil to indicate that Transaction.SetError should
	// generate one.
	Stack []uintptr
}

// NewStackTrace generates a stack trace which can be assigned to the Error
// struct's Stack field or returned by an error that implements the
// StackTracer interface.
func NewStackTrace() []uintptr {
	return []uintptr(internal.GetStackTrace(1))
}

func (e Error) Error() string { return e.Message }

// ErrorClass implements the ErrorClasser interface.
func (e Error) ErrorClass() string { return e.Class }

// StackTrace implements the StackTracer interface.
func (e Error) StackTrace() []uintptr { return e.Stack }
