package dsl

import "github.com/aretw0/espalier/pkg/automaton"

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	id          automaton.State
	accepting   bool
	transitions map[automaton.Symbol]automaton.State
	builder     *Builder
}

// Accept marks the state as accepting.
func (s *StateBuilder) Accept() *StateBuilder {
	s.accepting = true
	return s
}

// On adds a transition to target when sym is read. The symbol joins the
// alphabet and the target is declared as a state if it was not already.
// Declaring the same symbol again replaces the earlier target.
func (s *StateBuilder) On(sym automaton.Symbol, target automaton.State) *StateBuilder {
	if s.transitions == nil {
		s.transitions = make(map[automaton.Symbol]automaton.State)
	}
	s.transitions[sym] = target
	s.builder.alphabet[sym] = struct{}{}
	s.builder.State(target)
	return s
}

// Loop adds a self-transition for each of the given symbols.
func (s *StateBuilder) Loop(syms ...automaton.Symbol) *StateBuilder {
	for _, sym := range syms {
		s.On(sym, s.id)
	}
	return s
}
