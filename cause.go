package devtrace

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

// causer is the pkg/errors cause protocol, kept for errors that predate Unwrap.
type causer interface {
	Cause() error
}

// stackFramer is implemented by errors that resolve their own stack, such as
// *PanicError.
type stackFramer interface {
	StackFrames() []runtime.Frame
}

// stackTracer is implemented by errors created with github.com/pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// causeOf returns the error underlying err, or nil at the root of a chain.
// Multi-errors (errors.Join and friends) are followed through their first
// member.
func causeOf(err error) error {
	switch e := err.(type) {
	case interface{ Unwrap() error }:
		return e.Unwrap()
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if inner != nil {
				return inner
			}
		}
		return nil
	case causer:
		return e.Cause()
	}
	return nil
}

// framesOf returns the stack recorded on err itself, innermost call first.
// Errors that carry no stack yield nil.
func framesOf(err error) []runtime.Frame {
	switch e := err.(type) {
	case stackFramer:
		return e.StackFrames()
	case stackTracer:
		st := e.StackTrace()
		if len(st) == 0 {
			return nil
		}
		pcs := make([]uintptr, len(st))
		for i, f := range st {
			pcs[i] = uintptr(f)
		}
		return resolve(pcs)
	}
	return nil
}

func resolve(pcs []uintptr) []runtime.Frame {
	frames := runtime.CallersFrames(pcs)
	out := make([]runtime.Frame, 0, len(pcs))
	for {
		f, more := frames.Next()
		out = append(out, f)
		if !more {
			break
		}
	}
	return out
}

// classOf names the dynamic type of err the way it is shown in reports.
func classOf(err error) string {
	if p, ok := err.(*PanicError); ok && p != nil {
		return fmt.Sprintf("panic(%T)", p.Value)
	}
	return fmt.Sprintf("%T", err)
}

// messageOf returns err.Error(), or "" when the error cannot describe itself
// (typically a nil pointer receiver).
func messageOf(err error) (msg string) {
	defer func() {
		if recover() != nil {
			msg = ""
		}
	}()
	return err.Error()
}

// Call runs fn and converts a panic into a *PanicError. Errors returned by fn
// are passed through unchanged.
func Call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewPanicError(r)
		}
	}()
	return fn()
}
