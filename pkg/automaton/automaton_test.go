package automaton_test

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/espalier/pkg/automaton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep(t *testing.T) {
	a, err := automaton.New(parityDef())
	require.NoError(t, err)

	t.Run("advances on valid symbol", func(t *testing.T) {
		a.Reset()
		require.NoError(t, a.Step('1'))
		assert.Equal(t, automaton.State("odd"), a.Current())
		require.NoError(t, a.Step('1'))
		assert.Equal(t, automaton.State("even"), a.Current())
	})

	t.Run("rejects symbol outside alphabet", func(t *testing.T) {
		a.Reset()
		err := a.Step('x')

		var symErr *automaton.InvalidSymbolError
		require.ErrorAs(t, err, &symErr)
		assert.Equal(t, automaton.Symbol('x'), symErr.Symbol)
		assert.Equal(t, automaton.State("even"), a.Current(), "failed step must not move the machine")
	})

	t.Run("rejects undefined transition", func(t *testing.T) {
		// One-way machine: nothing leads out of "done".
		def := automaton.Definition{
			States:   []automaton.State{"ready", "done"},
			Alphabet: []automaton.Symbol{'g'},
			Transitions: map[automaton.State]map[automaton.Symbol]automaton.State{
				"ready": {'g': "done"},
			},
			Start:     "ready",
			Accepting: []automaton.State{"done"},
		}
		b, err := automaton.New(def)
		require.NoError(t, err)

		require.NoError(t, b.Step('g'))
		err = b.Step('g')

		var trErr *automaton.UndefinedTransitionError
		require.ErrorAs(t, err, &trErr)
		assert.Equal(t, automaton.State("done"), trErr.State)
		assert.Equal(t, automaton.Symbol('g'), trErr.Symbol)
		assert.Equal(t, automaton.State("done"), b.Current())
	})
}

func TestReset(t *testing.T) {
	a, err := automaton.New(parityDef())
	require.NoError(t, err)

	require.NoError(t, a.Step('1'))
	require.Equal(t, automaton.State("odd"), a.Current())

	a.Reset()
	assert.Equal(t, automaton.State("even"), a.Current())

	// Reset is idempotent.
	a.Reset()
	assert.Equal(t, automaton.State("even"), a.Current())
}

func TestRestore(t *testing.T) {
	a, err := automaton.New(parityDef())
	require.NoError(t, err)

	require.NoError(t, a.Restore("odd"))
	assert.Equal(t, automaton.State("odd"), a.Current())

	err = a.Restore("ghost")
	var unknownErr *automaton.UnknownStateError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, automaton.State("ghost"), unknownErr.State)
	assert.Equal(t, automaton.State("odd"), a.Current(), "failed restore must not move the machine")
}

func TestHooks(t *testing.T) {
	type hop struct {
		from automaton.State
		sym  automaton.Symbol
		to   automaton.State
	}
	var hops []hop
	var resets []automaton.State

	a, err := automaton.New(parityDef(), automaton.WithHooks(automaton.Hooks{
		OnTransition: func(from automaton.State, sym automaton.Symbol, to automaton.State) {
			hops = append(hops, hop{from, sym, to})
		},
		OnReset: func(start automaton.State) {
			resets = append(resets, start)
		},
	}))
	require.NoError(t, err)

	_, err = a.Run("10")
	require.NoError(t, err)

	assert.Equal(t, []automaton.State{"even"}, resets, "Run resets exactly once")
	require.Len(t, hops, 2)
	assert.Equal(t, hop{"even", '1', "odd"}, hops[0])
	assert.Equal(t, hop{"odd", '0', "odd"}, hops[1])
}

func TestWithLogger(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a, err := automaton.New(parityDef(), automaton.WithLogger(logger))
	require.NoError(t, err)

	require.NoError(t, a.Step('1'))

	out := buf.String()
	assert.Contains(t, out, "automaton constructed")
	assert.Contains(t, out, "transition")
}

func TestString(t *testing.T) {
	a, err := automaton.New(parityDef())
	require.NoError(t, err)
	assert.Equal(t, "automaton(states=2, symbols=2, current=even)", a.String())
}
