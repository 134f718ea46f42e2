package lycoris

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"
)

// A Session is the host-side wrapper the evaluator itself refuses to be: it
// runs each request in an isolated goroutine, recovers panics, and enforces
// a wall-clock timeout. The evaluator has no cancellation API, so recovery
// from a timed-out execution is by replacement: the instance is abandoned
// and a fresh one is restored from the last good state snapshot.

// Request is one execution carrying an opaque correlation id.
type Request struct {
	ID     string
	Source string
}

// Response pairs a request id with the execution outcome.
type Response struct {
	ID     string
	Output string
	Err    error
}

const defaultSessionTimeout = 60 * time.Second

type Session struct {
	eval     *Evaluator
	opts     []Option
	timeout  time.Duration
	snapshot []byte // last good user dictionary state
}

func NewSession(timeout time.Duration, opts ...Option) *Session {
	if timeout <= 0 {
		timeout = defaultSessionTimeout
	}
	return &Session{eval: New(opts...), opts: opts, timeout: timeout}
}

type execResult struct {
	out string
	err error
}

// Do runs one request to completion or to the wall-clock limit. A timed-out
// evaluator keeps running on its abandoned goroutine until it finishes on
// its own; the session stops waiting and replaces it.
func (s *Session) Do(req Request) Response {
	resch := make(chan execResult, 1)
	eval := s.eval
	go func() {
		defer recoverEvalPanic(resch)
		out, err := eval.Execute(req.Source)
		resch <- execResult{out, err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()
	select {
	case res := <-resch:
		if res.err == nil {
			if blob, err := eval.SaveState(); err == nil {
				s.snapshot = blob
			}
		}
		return Response{ID: req.ID, Output: res.out, Err: res.err}
	case <-timer.C:
		s.replace()
		return Response{ID: req.ID, Err: errf(LimitExceeded, "execution exceeded %v; evaluator replaced", s.timeout)}
	}
}

// replace discards the evaluator and seeds a fresh one from the last good
// snapshot. The stack and output of the abandoned instance are lost.
func (s *Session) replace() {
	s.eval = New(s.opts...)
	if s.snapshot != nil {
		s.eval.LoadState(s.snapshot)
	}
}

func recoverEvalPanic(resch chan<- execResult) {
	if pe := (panicError{e: recover()}); pe.e != nil {
		pe.stack = debug.Stack()
		select {
		case resch <- execResult{err: pe}:
		default:
		}
	}
}

// panicError reports an abnormal evaluator exit; an allocation the runtime
// refused surfaces this way. Unwraps to the panic value when that is an
// error, and to OutOfMemory otherwise.
type panicError struct {
	e     interface{}
	stack []byte
}

func (pe panicError) Error() string {
	return fmt.Sprint(pe)
}

func (pe panicError) Format(f fmt.State, c rune) {
	fmt.Fprintf(f, "evaluator paniced: %v", pe.e)
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

func (pe panicError) Unwrap() error {
	if err, ok := pe.e.(error); ok {
		return err
	}
	return OutOfMemory
}

// PanicStack returns a non-empty stacktrace string if err is a recovered
// evaluator panic.
func PanicStack(err error) string {
	var pe panicError
	if errors.As(err, &pe) {
		return string(pe.stack)
	}
	return ""
}

// Stack exposes the current evaluator's stack snapshot for interactive
// hosts.
func (s *Session) Stack() []string { return s.eval.StackSnapshot() }

// Serve pumps requests to responses until the input channel closes or the
// context is canceled. Requests run strictly one at a time.
func (s *Session) Serve(ctx context.Context, requests <-chan Request, responses chan<- Response) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case req, ok := <-requests:
				if !ok {
					return nil
				}
				select {
				case responses <- s.Do(req):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})
	return eg.Wait()
}
