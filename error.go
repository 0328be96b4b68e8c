package devtrace

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/go-stack/stack"
)

// PanicError is a recovered panic turned into an error.
type PanicError struct {
	// Value is the original value passed to panic.
	Value any

	// Not part of Error():
	stack stack.CallStack
}

// NewPanicError wraps a recovered value. It must be called from the deferred
// function that recovered, so the captured stack still includes the frames
// that panicked. The stack starts at the panic site: the recovering frames,
// runtime.gopanic and the runtime's panic helpers are dropped.
func NewPanicError(recovered any) *PanicError {
	cs := stack.Trace().TrimRuntime()
	return &PanicError{Value: recovered, stack: panicSite(cs)}
}

// panicSite drops everything above the frame that called panic. Outside a
// deferred recover only NewPanicError itself is dropped.
func panicSite(cs stack.CallStack) stack.CallStack {
	for i, call := range cs {
		if call.Frame().Function != "runtime.gopanic" {
			continue
		}
		rest := cs[i+1:]
		for len(rest) > 1 && runtimePanicHelper(rest[0].Frame().Function) {
			rest = rest[1:]
		}
		return rest
	}
	if len(cs) > 0 {
		return cs[1:]
	}
	return cs
}

// runtimePanicHelper matches the runtime functions between a faulting
// instruction and gopanic, such as runtime.panicmem or runtime.sigpanic.
func runtimePanicHelper(function string) bool {
	return function == "runtime.sigpanic" ||
		strings.HasPrefix(function, "runtime.panic") ||
		strings.HasPrefix(function, "runtime.goPanic")
}

func (e *PanicError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e.Value)
}

// Unwrap exposes a panic value that was itself an error.
func (e *PanicError) Unwrap() error {
	if e == nil {
		return nil
	}
	err, _ := e.Value.(error)
	return err
}

// StackFrames returns the goroutine stack captured at recovery, innermost first.
func (e *PanicError) StackFrames() []runtime.Frame {
	if e == nil {
		return nil
	}
	frames := make([]runtime.Frame, 0, len(e.stack))
	for _, call := range e.stack {
		frames = append(frames, call.Frame())
	}
	return frames
}

// LogValue implements slog.LogValuer.
func (e *PanicError) LogValue() slog.Value {
	if e == nil {
		return slog.GroupValue()
	}
	attrs := []slog.Attr{
		slog.String("panic", e.Error()),
		slog.String("type", fmt.Sprintf("%T", e.Value)),
	}
	if len(e.stack) > 0 {
		attrs = append(attrs, slog.String("at", fmt.Sprintf("%+v", e.stack[0])))
	}
	return slog.GroupValue(attrs...)
}
