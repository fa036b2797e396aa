package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/internal/validator"
	"github.com/aretw0/espalier/pkg/automaton"
)

func modThreeDef() automaton.Definition {
	return automaton.Definition{
		States:   []automaton.State{"R0", "R1", "R2"},
		Alphabet: []automaton.Symbol{'0', '1'},
		Transitions: map[automaton.State]map[automaton.Symbol]automaton.State{
			"R0": {'0': "R0", '1': "R1"},
			"R1": {'0': "R2", '1': "R0"},
			"R2": {'0': "R1", '1': "R2"},
		},
		Start:     "R0",
		Accepting: []automaton.State{"R0", "R1", "R2"},
	}
}

func TestAnalyze_CleanMachine(t *testing.T) {
	assert.Empty(t, validator.Analyze(modThreeDef()))
}

func TestAnalyze_UnreachableState(t *testing.T) {
	def := modThreeDef()
	def.States = append(def.States, "island")

	warnings := validator.Analyze(def)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], `state "island" is unreachable from start state "R0"`)
	// An absent transition row also means every symbol is missing.
	assert.Contains(t, warnings[1], `state "island" has no transition for symbol(s) 0, 1`)
}

func TestAnalyze_DeadState(t *testing.T) {
	// "trap" is reachable but can never accept: both symbols loop back to it.
	def := automaton.Definition{
		States:   []automaton.State{"ok", "trap"},
		Alphabet: []automaton.Symbol{'a', 'b'},
		Transitions: map[automaton.State]map[automaton.Symbol]automaton.State{
			"ok":   {'a': "ok", 'b': "trap"},
			"trap": {'a': "trap", 'b': "trap"},
		},
		Start:     "ok",
		Accepting: []automaton.State{"ok"},
	}

	warnings := validator.Analyze(def)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `state "trap" cannot reach an accepting state`)
}

func TestAnalyze_NoAcceptingStates(t *testing.T) {
	def := modThreeDef()
	def.Accepting = nil

	warnings := validator.Analyze(def)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no accepting states declared")
}

func TestAnalyze_MissingTransitions(t *testing.T) {
	def := modThreeDef()
	delete(def.Transitions["R2"], '1')

	warnings := validator.Analyze(def)
	require.Len(t, warnings, 1)
	assert.Equal(t, `state "R2" has no transition for symbol(s) 1`, warnings[0])
}

func TestAnalyze_UnusedSymbol(t *testing.T) {
	def := modThreeDef()
	def.Alphabet = append(def.Alphabet, 'x')

	warnings := validator.Analyze(def)
	// Every state now misses a transition for 'x', plus the unused-symbol
	// finding itself.
	require.Len(t, warnings, 4)
	assert.Contains(t, warnings[0], `state "R0" has no transition for symbol(s) x`)
	assert.Equal(t, `symbol "x" is never consumed by any transition`, warnings[3])
}

func TestAnalyze_UnreachableNotDoubleReportedAsDead(t *testing.T) {
	// "island" is unreachable and also cannot accept; only the
	// unreachability should be reported for it.
	def := automaton.Definition{
		States:   []automaton.State{"ok", "island"},
		Alphabet: []automaton.Symbol{'a'},
		Transitions: map[automaton.State]map[automaton.Symbol]automaton.State{
			"ok":     {'a': "ok"},
			"island": {'a': "island"},
		},
		Start:     "ok",
		Accepting: []automaton.State{"ok"},
	}

	warnings := validator.Analyze(def)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `state "island" is unreachable`)
}
