package automaton

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
)

// State identifies a state of the automaton. States are opaque to the engine;
// only equality matters.
type State string

// Symbol is a single input symbol. A Go string is processed as a sequence of
// Symbols, one per rune.
type Symbol rune

// String renders the symbol as the character it stands for, so log lines and
// error messages show "1" rather than rune 49.
func (s Symbol) String() string {
	return string(s)
}

// Definition is the caller-supplied five-tuple describing an automaton.
// All containers remain owned by the caller: New copies what it needs, so
// mutating a Definition after construction does not affect the instance.
type Definition struct {
	States      []State
	Alphabet    []Symbol
	Transitions map[State]map[Symbol]State
	Start       State
	Accepting   []State
}

// Clone returns a deep copy of the definition. Mutating the copy leaves the
// receiver untouched.
func (d Definition) Clone() Definition {
	out := Definition{
		States:    slices.Clone(d.States),
		Alphabet:  slices.Clone(d.Alphabet),
		Start:     d.Start,
		Accepting: slices.Clone(d.Accepting),
	}
	if d.Transitions != nil {
		out.Transitions = make(map[State]map[Symbol]State, len(d.Transitions))
		for from, row := range d.Transitions {
			out.Transitions[from] = maps.Clone(row)
		}
	}
	return out
}

// Hooks are optional observability callbacks. They fire synchronously on the
// calling goroutine and must not mutate the automaton.
type Hooks struct {
	OnTransition func(from State, sym Symbol, to State)
	OnReset      func(start State)
}

// Automaton is a validated instance of a Definition. The definition part is
// immutable after construction; the only mutable field is the current state.
//
// An Automaton is not safe for concurrent use. Share Definitions across
// goroutines and give each logical caller its own instance, or serialize
// access externally.
type Automaton struct {
	states      map[State]struct{}
	alphabet    map[Symbol]struct{}
	transitions map[State]map[Symbol]State
	start       State
	accepting   map[State]struct{}

	current State

	logger *slog.Logger
	hooks  Hooks
}

// Option configures an Automaton at construction.
type Option func(*Automaton)

// WithLogger sets a structured logger for transition-level events.
// The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Automaton) {
		a.logger = logger
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks Hooks) Option {
	return func(a *Automaton) {
		a.hooks = hooks
	}
}

// New validates def and builds an automaton positioned at the start state.
// Validation stops at the first violation and reports it as a *ConfigError:
// empty states, empty alphabet, duplicate identifiers, start-state
// membership, accepting-subset membership, then every transition entry
// (source state, symbol, target state, in that order).
func New(def Definition, opts ...Option) (*Automaton, error) {
	a := &Automaton{}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if len(def.States) == 0 {
		return nil, &ConfigError{Field: "states", Reason: "must not be empty"}
	}
	if len(def.Alphabet) == 0 {
		return nil, &ConfigError{Field: "alphabet", Reason: "must not be empty"}
	}

	a.states = make(map[State]struct{}, len(def.States))
	for _, s := range def.States {
		if _, dup := a.states[s]; dup {
			return nil, &ConfigError{Field: "states", Reason: "duplicate state", Value: s}
		}
		a.states[s] = struct{}{}
	}

	a.alphabet = make(map[Symbol]struct{}, len(def.Alphabet))
	for _, sym := range def.Alphabet {
		if _, dup := a.alphabet[sym]; dup {
			return nil, &ConfigError{Field: "alphabet", Reason: "duplicate symbol", Value: sym}
		}
		a.alphabet[sym] = struct{}{}
	}

	if _, ok := a.states[def.Start]; !ok {
		return nil, &ConfigError{Field: "start", Reason: "start state not declared", Value: def.Start}
	}

	a.accepting = make(map[State]struct{}, len(def.Accepting))
	for _, s := range def.Accepting {
		if _, ok := a.states[s]; !ok {
			return nil, &ConfigError{Field: "accepting", Reason: "accepting state not declared", Value: s}
		}
		a.accepting[s] = struct{}{}
	}

	a.transitions = make(map[State]map[Symbol]State, len(def.Transitions))
	for from, row := range def.Transitions {
		if _, ok := a.states[from]; !ok {
			return nil, &ConfigError{Field: "transitions", Reason: "source state not declared", Value: from}
		}
		for sym, to := range row {
			if _, ok := a.alphabet[sym]; !ok {
				return nil, &ConfigError{Field: "transitions", Reason: "symbol not in alphabet", Value: sym}
			}
			if _, ok := a.states[to]; !ok {
				return nil, &ConfigError{Field: "transitions", Reason: "target state not declared", Value: to}
			}
			if a.transitions[from] == nil {
				a.transitions[from] = make(map[Symbol]State, len(row))
			}
			a.transitions[from][sym] = to
		}
	}

	a.start = def.Start
	a.current = def.Start

	a.logger.Debug("automaton constructed",
		"states", len(a.states),
		"symbols", len(a.alphabet),
		"start", a.start,
	)
	return a, nil
}

// Reset moves the automaton back to its start state.
func (a *Automaton) Reset() {
	a.current = a.start
	a.logger.Debug("reset", "state", a.start)
	if a.hooks.OnReset != nil {
		a.hooks.OnReset(a.start)
	}
}

// Step consumes a single symbol and advances the current state. It fails
// with *InvalidSymbolError when sym is outside the alphabet and with
// *UndefinedTransitionError when the current state has no transition for it;
// on failure the current state is unchanged.
func (a *Automaton) Step(sym Symbol) error {
	if _, ok := a.alphabet[sym]; !ok {
		return &InvalidSymbolError{Symbol: sym}
	}
	next, ok := a.transitions[a.current][sym]
	if !ok {
		return &UndefinedTransitionError{State: a.current, Symbol: sym}
	}

	prev := a.current
	a.current = next
	a.logger.Debug("transition", "from", prev, "symbol", sym, "to", next)
	if a.hooks.OnTransition != nil {
		a.hooks.OnTransition(prev, sym, next)
	}
	return nil
}

// Run resets the automaton and processes input one symbol at a time, left to
// right. The result depends only on the input, never on earlier calls.
//
// An empty input terminates at the start state without taking a transition.
// A per-symbol failure is returned as an *InputError carrying the zero-based
// rune position; the current state then reflects however far processing got.
// After the last symbol the terminal state must be accepting, otherwise Run
// fails with *RejectedError naming it.
func (a *Automaton) Run(input string) (State, error) {
	a.Reset()

	pos := 0
	for _, r := range input {
		sym := Symbol(r)
		if err := a.Step(sym); err != nil {
			return "", &InputError{Pos: pos, Symbol: sym, Err: err}
		}
		pos++
	}

	if _, ok := a.accepting[a.current]; !ok {
		return "", &RejectedError{State: a.current}
	}
	return a.current, nil
}

// Current returns the current state.
func (a *Automaton) Current() State {
	return a.current
}

// Start returns the start state.
func (a *Automaton) Start() State {
	return a.start
}

// IsAccepting reports whether s is one of the accepting states.
func (a *Automaton) IsAccepting(s State) bool {
	_, ok := a.accepting[s]
	return ok
}

// Restore positions the automaton at a previously observed state, e.g. when
// resuming a persisted session. The state must be part of the definition.
func (a *Automaton) Restore(s State) error {
	if _, ok := a.states[s]; !ok {
		return &UnknownStateError{State: s}
	}
	a.current = s
	a.logger.Debug("restore", "state", s)
	return nil
}

// Definition returns a deep copy of the validated five-tuple, with states and
// symbols in sorted order. Mutating the copy does not affect the automaton.
func (a *Automaton) Definition() Definition {
	def := Definition{
		States:      make([]State, 0, len(a.states)),
		Alphabet:    make([]Symbol, 0, len(a.alphabet)),
		Transitions: make(map[State]map[Symbol]State, len(a.transitions)),
		Start:       a.start,
		Accepting:   make([]State, 0, len(a.accepting)),
	}
	for s := range a.states {
		def.States = append(def.States, s)
	}
	slices.Sort(def.States)
	for sym := range a.alphabet {
		def.Alphabet = append(def.Alphabet, sym)
	}
	slices.Sort(def.Alphabet)
	for s := range a.accepting {
		def.Accepting = append(def.Accepting, s)
	}
	slices.Sort(def.Accepting)
	for from, row := range a.transitions {
		copied := make(map[Symbol]State, len(row))
		for sym, to := range row {
			copied[sym] = to
		}
		def.Transitions[from] = copied
	}
	return def
}

// String summarizes the automaton for logs.
func (a *Automaton) String() string {
	return fmt.Sprintf("automaton(states=%d, symbols=%d, current=%s)", len(a.states), len(a.alphabet), a.current)
}
