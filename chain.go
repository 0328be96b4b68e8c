package devtrace

import (
	"iter"
	"path"
	"runtime"
	"strconv"
)

// Element is one frame of execution context.
type Element struct {
	Origin   Origin
	File     string
	Line     int
	Function string
}

// Location returns "file:line", or "unknown" when the runtime could not
// resolve the frame.
func (e Element) Location() string {
	if e.File == "" {
		return "unknown"
	}
	if e.Line <= 0 {
		return e.File
	}
	return e.File + ":" + strconv.Itoa(e.Line)
}

// Method formats the function name. Runtime and standard library frames keep
// their full import path; application frames are shortened to the last path
// element, e.g. "api.(*Server).Create".
func (e Element) Method() string {
	if e.Function == "" {
		return "unknown"
	}
	if e.Origin == OriginRuntime {
		return e.Function
	}
	pkg, name := splitFunctionName(e.Function)
	if pkg == "" {
		return name
	}
	return path.Base(pkg) + "." + name
}

// Frame describes one error of a chain.
type Frame struct {
	Class    string
	Message  string
	Elements []Element
}

// Chain is an error and its causes, outermost first. Frame i's cause is
// frame i+1. A Chain built by Build always has at least one frame.
type Chain []Frame

// Root returns the outermost frame.
func (c Chain) Root() Frame {
	if len(c) == 0 {
		return Frame{}
	}
	return c[0]
}

// Cause returns the frame that caused frame i.
func (c Chain) Cause(i int) (Frame, bool) {
	if i < 0 || i+1 >= len(c) {
		return Frame{}, false
	}
	return c[i+1], true
}

// All iterates the chain from the outermost frame to the root cause.
func (c Chain) All() iter.Seq2[int, Frame] {
	return func(yield func(int, Frame) bool) {
		for i, f := range c {
			if !yield(i, f) {
				return
			}
		}
	}
}

// Build captures err and its causes. It stops at the first error without a
// cause; a chain of n errors yields n frames. Cyclic chains do not terminate.
func Build(err error) Chain {
	if err == nil {
		return Chain{{Class: "<nil>"}}
	}
	chain := make(Chain, 0, 4)
	for e := err; e != nil; e = causeOf(e) {
		chain = append(chain, newFrame(e))
	}
	return chain
}

func newFrame(err error) Frame {
	return Frame{
		Class:    classOf(err),
		Message:  messageOf(err),
		Elements: elements(framesOf(err)),
	}
}

func elements(frames []runtime.Frame) []Element {
	if len(frames) == 0 {
		return nil
	}
	out := make([]Element, 0, len(frames))
	for _, f := range frames {
		out = append(out, Element{
			Origin:   classify(f.Function),
			File:     f.File,
			Line:     f.Line,
			Function: f.Function,
		})
	}
	return out
}
