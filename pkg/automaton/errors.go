package automaton

import "fmt"

// ConfigError reports a malformed five-tuple at construction time.
// Field names the definition component that failed ("states", "alphabet",
// "start", "accepting" or "transitions"); Value carries the offending value
// when there is one.
type ConfigError struct {
	Field  string
	Reason string
	Value  any
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid definition: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid definition: %s: %s (%v)", e.Field, e.Reason, e.Value)
}

// InvalidSymbolError reports a symbol outside the declared alphabet.
type InvalidSymbolError struct {
	Symbol Symbol
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("symbol %q not in alphabet", e.Symbol)
}

// UndefinedTransitionError reports a well-formed symbol for which the current
// state has no registered transition.
type UndefinedTransitionError struct {
	State  State
	Symbol Symbol
}

func (e *UndefinedTransitionError) Error() string {
	return fmt.Sprintf("no transition from state %q on symbol %q", e.State, e.Symbol)
}

// RejectedError reports an input that was fully processed but ended in a
// non-accepting state.
type RejectedError struct {
	State State
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("input rejected: terminal state %q is not accepting", e.State)
}

// UnknownStateError reports an attempt to restore the automaton to a state
// that is not part of its definition.
type UnknownStateError struct {
	State State
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("state %q not declared", e.State)
}

// InputError annotates a per-symbol failure with its zero-based position in
// the input. It wraps the underlying InvalidSymbolError or
// UndefinedTransitionError.
type InputError struct {
	Pos    int
	Symbol Symbol
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input position %d (%q): %v", e.Pos, e.Symbol, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
