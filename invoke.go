package devtrace

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
)

// FailureFunc handles a failure of a wrapped handler. Returning nil means the
// failure was turned into a response; a non-nil error keeps propagating.
type FailureFunc func(w http.ResponseWriter, r *http.Request, err error) error

// Then runs f and hands whatever f lets propagate to next.
func (f FailureFunc) Then(next FailureFunc) FailureFunc {
	return func(w http.ResponseWriter, r *http.Request, err error) error {
		if err = f(w, r, err); err != nil {
			return next(w, r, err)
		}
		return nil
	}
}

// Invocation is a handler in one of the calling conventions devtrace can wrap:
// HandlerFunc, PendingFunc or ContinuationFunc.
type Invocation interface {
	http.Handler

	// wrap routes every failure of the invocation through onFailure and
	// returns an invocation of the same shape.
	wrap(onFailure FailureFunc) Invocation
}

// Adapt picks the calling convention from the shape of h. It panics if h has
// none of the supported shapes.
func Adapt(h any) Invocation {
	switch h := h.(type) {
	case Invocation:
		return h
	case func(http.ResponseWriter, *http.Request) error:
		return HandlerFunc(h)
	case func(http.ResponseWriter, *http.Request) Pending:
		return PendingFunc(h)
	case func(http.ResponseWriter, *http.Request, func(), func(error)):
		return ContinuationFunc(h)
	case func(http.ResponseWriter, *http.Request):
		return Handler(http.HandlerFunc(h))
	case http.Handler:
		return Handler(h)
	}
	panic(fmt.Sprintf("devtrace: unsupported handler type %T", h))
}

// reraise hands a failure that nobody converted back to net/http, which only
// understands panics. A recovered panic is re-raised with its original value.
func reraise(err error) {
	if p, ok := err.(*PanicError); ok && p != nil {
		panic(p.Value)
	}
	panic(err)
}

// aborted reports a deliberate http.ErrAbortHandler panic, which is passed
// through without a report.
func aborted(err error) bool {
	return errors.Is(err, http.ErrAbortHandler)
}

// HandlerFunc is the direct convention: the handler fails by returning an
// error or by panicking.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handler adapts a standard handler, whose only way to fail is to panic.
func Handler(h http.Handler) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		h.ServeHTTP(w, r)
		return nil
	}
}

func (h HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h(w, r); err != nil {
		reraise(err)
	}
}

func (h HandlerFunc) wrap(onFailure FailureFunc) Invocation {
	return HandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		w = trackWriter(w)
		err := Call(func() error { return h(w, r) })
		if err == nil || aborted(err) {
			return err
		}
		return onFailure(w, r, err)
	})
}

// Pending is a result that completes later. Wait blocks until it does.
type Pending interface {
	Wait() error
}

// PendingResult is a Pending computed on demand.
type PendingResult func() error

func (p PendingResult) Wait() error { return p() }

// Resolved returns a Pending that has already completed with err.
func Resolved(err error) Pending {
	return PendingResult(func() error { return err })
}

// Async runs fn on a new goroutine. A panic in fn completes the result with
// a *PanicError carrying that goroutine's stack.
func Async(fn func() error) Pending {
	done := make(chan error, 1)
	go func() {
		done <- Call(fn)
	}()
	var (
		once sync.Once
		err  error
	)
	return PendingResult(func() error {
		once.Do(func() { err = <-done })
		return err
	})
}

// PendingFunc is the direct convention for handlers whose outcome is only
// known later. The handler must not return from ServeHTTP's point of view
// until Wait does, so writes to w stay valid.
type PendingFunc func(w http.ResponseWriter, r *http.Request) Pending

func (h PendingFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := h(w, r)
	if p == nil {
		return
	}
	if err := p.Wait(); err != nil {
		reraise(err)
	}
}

func (h PendingFunc) wrap(onFailure FailureFunc) Invocation {
	return PendingFunc(func(w http.ResponseWriter, r *http.Request) Pending {
		w = trackWriter(w)
		handle := func(err error) error {
			if err == nil || aborted(err) {
				return err
			}
			return onFailure(w, r, err)
		}

		var p Pending
		if err := Call(func() error { p = h(w, r); return nil }); err != nil {
			return Resolved(handle(err))
		}
		if p == nil {
			return nil
		}
		return PendingResult(func() error {
			return handle(Call(p.Wait))
		})
	})
}

// ContinuationFunc is the callback convention: the handler finishes by calling
// exactly one of respond or raise, possibly from another goroutine.
type ContinuationFunc func(w http.ResponseWriter, r *http.Request, respond func(), raise func(error))

// ServeHTTP blocks until the handler calls one of its continuations.
func (h ContinuationFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	done := make(chan error, 1)
	var once sync.Once
	h(w, r,
		func() { once.Do(func() { done <- nil }) },
		func(err error) { once.Do(func() { done <- err }) },
	)
	if err := <-done; err != nil {
		reraise(err)
	}
}

// invocation states of a wrapped ContinuationFunc.
const (
	stateIdle int32 = iota
	stateInvoking
	stateFailed
	stateDone
)

// wrap settles each invocation exactly once. The first continuation called
// wins; later calls are dropped. A panic raised before any continuation is
// treated as a call to raise, a panic raised after one propagates.
func (h ContinuationFunc) wrap(onFailure FailureFunc) Invocation {
	return ContinuationFunc(func(w http.ResponseWriter, r *http.Request, respond func(), raise func(error)) {
		w = trackWriter(w)

		var state atomic.Int32
		settle := func(to int32) bool {
			return state.CompareAndSwap(stateInvoking, to)
		}
		onRespond := func() {
			if settle(stateDone) {
				respond()
			}
		}
		onRaise := func(err error) {
			if !settle(stateFailed) {
				return
			}
			if !aborted(err) {
				err = onFailure(w, r, err)
			}
			if err != nil {
				raise(err)
				return
			}
			respond()
		}

		defer func() {
			if rec := recover(); rec != nil {
				if state.Load() != stateInvoking {
					panic(rec)
				}
				onRaise(NewPanicError(rec))
			}
		}()

		state.Store(stateInvoking)
		h(w, r, onRespond, onRaise)
	})
}
