// Package modthree computes the remainder of a binary number divided by
// three without integer conversion, by driving a three-state automaton over
// the digit stream.
//
// The machine has one state per remainder class. Reading digit d in the state
// for remainder r moves to the state for (2*r + d) mod 3, because appending a
// binary digit doubles the value and adds the digit.
package modthree

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/espalier/pkg/automaton"
)

// States of the machine, one per remainder class.
const (
	StateR0 automaton.State = "R0"
	StateR1 automaton.State = "R1"
	StateR2 automaton.State = "R2"
)

// ErrInternalConfig flags a defect in the built-in transition table. It can
// only occur if the table in this package is edited into an invalid shape,
// never from user input.
var ErrInternalConfig = errors.New("mod-three configuration is invalid")

// InvalidCharacterError reports input characters outside the binary
// alphabet. Chars holds the distinct offenders in sorted order.
type InvalidCharacterError struct {
	Chars []rune
}

func (e *InvalidCharacterError) Error() string {
	quoted := make([]string, len(e.Chars))
	for i, c := range e.Chars {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return fmt.Sprintf("input contains non-binary characters: %s", strings.Join(quoted, ", "))
}

var remainders = map[automaton.State]int{
	StateR0: 0,
	StateR1: 1,
	StateR2: 2,
}

// Definition returns the fixed five-tuple of the mod-three machine. Every
// state is accepting: any remainder class is a valid place to stop.
func Definition() automaton.Definition {
	return automaton.Definition{
		States:   []automaton.State{StateR0, StateR1, StateR2},
		Alphabet: []automaton.Symbol{'0', '1'},
		Transitions: map[automaton.State]map[automaton.Symbol]automaton.State{
			StateR0: {'0': StateR0, '1': StateR1},
			StateR1: {'0': StateR2, '1': StateR0},
			StateR2: {'0': StateR1, '1': StateR2},
		},
		Start:     StateR0,
		Accepting: []automaton.State{StateR0, StateR1, StateR2},
	}
}

// StateRemainder maps a machine state to the remainder class it denotes.
func StateRemainder(s automaton.State) (int, bool) {
	r, ok := remainders[s]
	return r, ok
}

// ModThree wraps an automaton instance configured with the fixed table.
// Like the underlying instance it is owned by one logical caller at a time.
type ModThree struct {
	engine *automaton.Automaton
}

// New builds the machine. The configuration is fixed and known valid, so a
// construction failure signals a defect and wraps ErrInternalConfig.
func New(opts ...automaton.Option) (*ModThree, error) {
	eng, err := automaton.New(Definition(), opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternalConfig, err)
	}
	return &ModThree{engine: eng}, nil
}

// Must is New for wiring paths where a broken built-in table should stop the
// program immediately.
func Must(opts ...automaton.Option) *ModThree {
	m, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Remainder computes value(input) mod 3 for a binary string, most significant
// digit first. The empty string denotes zero and yields 0 without touching
// the engine. Characters outside {'0','1'} fail with *InvalidCharacterError
// before any state moves.
func (m *ModThree) Remainder(input string) (int, error) {
	if input == "" {
		return 0, nil
	}
	if bad := invalidChars(input); len(bad) > 0 {
		return 0, &InvalidCharacterError{Chars: bad}
	}

	state, err := m.engine.Run(input)
	if err != nil {
		return 0, fmt.Errorf("mod three: %w", err)
	}
	r, ok := StateRemainder(state)
	if !ok {
		return 0, fmt.Errorf("%w: terminal state %q has no remainder", ErrInternalConfig, state)
	}
	return r, nil
}

// Reset moves the underlying machine back to R0.
func (m *ModThree) Reset() {
	m.engine.Reset()
}

// Current returns the underlying machine's current state.
func (m *ModThree) Current() automaton.State {
	return m.engine.Current()
}

// String summarizes the machine for logs.
func (m *ModThree) String() string {
	return fmt.Sprintf("modthree(current=%s)", m.engine.Current())
}

func invalidChars(input string) []rune {
	seen := make(map[rune]struct{})
	var bad []rune
	for _, c := range input {
		if c == '0' || c == '1' {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		bad = append(bad, c)
	}
	slices.Sort(bad)
	return bad
}
