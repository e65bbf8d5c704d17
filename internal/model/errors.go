package model

import "errors"

// Error kinds, one per mutating entry point. Match them with errors.Is.
var (
	ErrInitialization = errors.New("route model initialization failed")
	ErrAdd            = errors.New("add route point failed")
	ErrUpdate         = errors.New("update route point failed")
	ErrDelete         = errors.New("delete route point failed")
)

var defaultMessages = map[error]string{
	ErrInitialization: "Can't init route model",
	ErrAdd:            "Can't add route point",
	ErrUpdate:         "Can't update route point",
	ErrDelete:         "Can't delete route point",
}

// Error is returned by every failing RouteModel operation.
// Message is the underlying failure's message when it has one, otherwise the
// default message of the kind.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func newError(kind error, err error) *Error {
	msg := defaultMessages[kind]
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}

	return &Error{Kind: kind, Message: msg, Err: err}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
