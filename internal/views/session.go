package views

import "sync"

// State is the lifecycle of a load.
type State int

// Load states.
const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Params identify what a load is for.
type Params struct {
	View string
	ID   string
}

// Ticket is handed out by Begin and presented to Complete.
type Ticket struct {
	Generation uint64
	Params     Params
}

// Session tracks one in-flight load at a time. Every Begin supersedes the
// previous one; completions carrying an older ticket are dropped, so a slow
// response for a page the user already left never overwrites the current one.
type Session[T any] struct {
	mu         sync.Mutex
	generation uint64
	params     Params
	state      State
	result     T
	err        error
}

// Begin starts a load for p and discards whatever was shown before.
func (s *Session[T]) Begin(p Params) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.params = p
	s.state = StateLoading
	var zero T
	s.result = zero
	s.err = nil
	return Ticket{Generation: s.generation, Params: p}
}

// Complete records the outcome of the load started with t. It reports false,
// and changes nothing, when t is stale.
func (s *Session[T]) Complete(t Ticket, result T, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Generation != s.generation || s.state != StateLoading {
		return false
	}
	if err != nil {
		s.state = StateFailed
		s.err = err
		return true
	}
	s.state = StateReady
	s.result = result
	return true
}

// Current reports whether t is the latest load.
func (s *Session[T]) Current(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.Generation == s.generation
}

// Reset returns the session to idle and invalidates outstanding tickets.
func (s *Session[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.params = Params{}
	s.state = StateIdle
	var zero T
	s.result = zero
	s.err = nil
}

// State returns the current state.
func (s *Session[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Params returns the parameters of the latest load.
func (s *Session[T]) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Result returns the loaded value and error. Both are zero until the latest
// load completes.
func (s *Session[T]) Result() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.err
}
