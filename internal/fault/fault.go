// Package fault classifies poll-cycle failures.
package fault

import (
	"errors"
	"fmt"
)

// Kind is the class of a cycle failure.
type Kind uint8

const (
	// Unknown is a failure that carries no usable classification or message.
	Unknown Kind = iota
	// Connection means the device was unreachable or the session broke.
	Connection
	// Read means the device rejected the read at protocol level.
	Read
	// Decode means a response buffer was too short for a field window.
	Decode
)

// UnknownMessage is reported when a failure has no message of its own.
const UnknownMessage = "unknown error"

func (k Kind) String() string {
	switch k {
	case Connection:
		return "connection"
	case Read:
		return "read"
	case Decode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is a classified failure.
// Step and Op are optional context; Err may be nil.
type Error struct {
	Kind Kind
	Step string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = UnknownMessage
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Connectionf builds a Connection failure.
func Connectionf(err error, format string, args ...any) *Error {
	return &Error{Kind: Connection, Op: fmt.Sprintf(format, args...), Err: err}
}

// Readf builds a Read failure.
func Readf(err error, format string, args ...any) *Error {
	return &Error{Kind: Read, Op: fmt.Sprintf(format, args...), Err: err}
}

// Decodef builds a Decode failure with a formatted message.
func Decodef(format string, args ...any) *Error {
	return &Error{Kind: Decode, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of err, or Unknown if it is not classified.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) && fe != nil {
		return fe.Kind
	}
	return Unknown
}

// StepOf returns the step name recorded on err, if any.
func StepOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) && fe != nil {
		return fe.Step
	}
	return ""
}

// WithStep tags err with the step that produced it.
// Unclassified errors become Unknown failures.
func WithStep(err error, step string) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) && fe != nil {
		cp := *fe
		cp.Step = step
		return &cp
	}
	return &Error{Kind: Unknown, Step: step, Err: err}
}

// Message returns the status text for err.
// Nil errors and errors with an empty message report UnknownMessage.
func Message(err error) (msg string) {
	if err == nil {
		return UnknownMessage
	}
	defer func() {
		// typed-nil receivers may panic in Error()
		if recover() != nil {
			msg = UnknownMessage
		}
	}()
	msg = err.Error()
	if msg == "" {
		return UnknownMessage
	}
	return msg
}
