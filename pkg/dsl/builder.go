package dsl

import (
	"maps"
	"slices"

	"github.com/aretw0/espalier/pkg/automaton"
)

// Builder manages the machine construction.
type Builder struct {
	start    automaton.State
	states   map[automaton.State]*StateBuilder
	alphabet map[automaton.Symbol]struct{}
}

// New creates a builder for a machine that starts at start. The start state
// is declared immediately.
func New(start automaton.State) *Builder {
	b := &Builder{
		start:    start,
		states:   make(map[automaton.State]*StateBuilder),
		alphabet: make(map[automaton.Symbol]struct{}),
	}
	b.State(start)
	return b
}

// State declares a state in the machine.
// If the state already exists, it returns the existing builder.
func (b *Builder) State(id automaton.State) *StateBuilder {
	if sb, ok := b.states[id]; ok {
		return sb
	}
	sb := &StateBuilder{
		id:      id,
		builder: b,
	}
	b.states[id] = sb
	return sb
}

// Build assembles the definition and validates it. States and symbols come
// out sorted, so the result does not depend on declaration order.
func (b *Builder) Build() (automaton.Definition, error) {
	def := automaton.Definition{Start: b.start}

	for id, sb := range b.states {
		def.States = append(def.States, id)
		if sb.accepting {
			def.Accepting = append(def.Accepting, id)
		}
		if len(sb.transitions) > 0 {
			if def.Transitions == nil {
				def.Transitions = make(map[automaton.State]map[automaton.Symbol]automaton.State, len(b.states))
			}
			def.Transitions[id] = maps.Clone(sb.transitions)
		}
	}
	slices.Sort(def.States)
	slices.Sort(def.Accepting)

	for sym := range b.alphabet {
		def.Alphabet = append(def.Alphabet, sym)
	}
	slices.Sort(def.Alphabet)

	if _, err := automaton.New(def); err != nil {
		return automaton.Definition{}, err
	}

	return def, nil
}
