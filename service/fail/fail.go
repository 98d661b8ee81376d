// Package fail carries the typed failures services return to controllers.
package fail

import "errors"

type Kind string

const (
	KindNotFound  Kind = "NOT_FOUND"
	KindForbidden Kind = "FORBIDDEN"
	KindInvalid   Kind = "INVALID"
	KindConflict  Kind = "CONFLICT"
)

type kindError struct {
	kind Kind
	msg  string
}

func (e kindError) Error() string { return e.msg }
func (e kindError) Kind() Kind    { return e.kind }

func NotFound(msg string) error  { return kindError{kind: KindNotFound, msg: msg} }
func Forbidden(msg string) error { return kindError{kind: KindForbidden, msg: msg} }
func Invalid(msg string) error   { return kindError{kind: KindInvalid, msg: msg} }
func Conflict(msg string) error  { return kindError{kind: KindConflict, msg: msg} }

// KindOf extracts the failure kind; "" means an untyped (internal) error.
func KindOf(err error) Kind {
	var ke interface{ Kind() Kind }
	if errors.As(err, &ke) {
		return ke.Kind()
	}
	return ""
}
