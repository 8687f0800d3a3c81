// Package lifecycle tracks the progress of one search request.
package lifecycle

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an event is not allowed in the current state.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// State is a position in the request lifecycle.
type State int

const (
	Idle    State = iota // Nothing submitted yet
	Loading              // Request in flight
	Success              // Last request returned records
	Failed               // Last request failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Lifecycle is the request state machine. The zero value is Idle.
//
// Submit is accepted from every state. From Loading it supersedes the
// in-flight request and the machine stays Loading. Succeed and Fail are
// only accepted from Loading.
type Lifecycle struct {
	state State
}

// State returns the current state.
func (l *Lifecycle) State() State { return l.state }

// Loading reports whether a request is in flight.
func (l *Lifecycle) Loading() bool { return l.state == Loading }

// Submit moves the machine to Loading.
func (l *Lifecycle) Submit() {
	l.state = Loading
}

// Succeed moves Loading to Success.
func (l *Lifecycle) Succeed() error {
	return l.finish(Success)
}

// Fail moves Loading to Failed.
func (l *Lifecycle) Fail() error {
	return l.finish(Failed)
}

func (l *Lifecycle) finish(to State) error {
	if l.state != Loading {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.state, to)
	}
	l.state = to
	return nil
}
