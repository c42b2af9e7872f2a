package internal

import (
	"errors"
	"reflect"
)

// ErrorCause summarizes one link of an error's cause chain.
type ErrorCause struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	// IsRootCause is only written when the chain was truncated, to
	// distinguish "this is the true root" from "chain continues beyond
	// the limit".
	IsRootCause *bool `json:"is_root_cause,omitempty"`
}

// ErrorClassName returns the class under which an error is aggregated: the
// error's own classification when it provides one, its concrete type
// otherwise.
func ErrorClassName(err error) string {
	if ec, ok := err.(interface{ ErrorClass() string }); ok {
		if name := ec.ErrorClass(); "" != name {
			return name
		}
	}
	return reflect.TypeOf(err).String()
}

// WalkErrorCauses follows err's cause chain and summarizes up to
// MaxErrorCauses underlying errors.  err itself is not included.  The walk
// is bounded by the cap regardless of chain length, so malformed cyclic
// chains cannot loop indefinitely.
func WalkErrorCauses(err error) []ErrorCause {
	var causes []ErrorCause
	for cause := errors.Unwrap(err); nil != cause; cause = errors.Unwrap(cause) {
		if len(causes) == MaxErrorCauses {
			truncated := false
			causes[len(causes)-1].IsRootCause = &truncated
			break
		}
		causes = append(causes, ErrorCause{
			Name:    ErrorClassName(cause),
			Message: cause.Error(),
		})
	}
	return causes
}
