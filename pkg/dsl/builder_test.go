package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/automaton"
	"github.com/aretw0/espalier/pkg/dsl"
)

func TestBuilder_ModThree(t *testing.T) {
	b := dsl.New("R0")

	b.State("R0").Accept().
		On('0', "R0").
		On('1', "R1")

	b.State("R1").Accept().
		On('0', "R2").
		On('1', "R0")

	b.State("R2").Accept().
		On('0', "R1").
		On('1', "R2")

	def, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, automaton.State("R0"), def.Start)
	assert.Equal(t, []automaton.State{"R0", "R1", "R2"}, def.States)
	assert.Equal(t, []automaton.Symbol{'0', '1'}, def.Alphabet)
	assert.Equal(t, []automaton.State{"R0", "R1", "R2"}, def.Accepting)
	assert.Equal(t, automaton.State("R2"), def.Transitions["R1"]['0'])

	// The built definition drives a working machine.
	a, err := automaton.New(def)
	require.NoError(t, err)

	state, err := a.Run("1101")
	require.NoError(t, err)
	assert.Equal(t, automaton.State("R1"), state)
}

func TestBuilder_AutoDeclaresTargets(t *testing.T) {
	b := dsl.New("a")
	b.State("a").Accept().On('x', "b")

	def, err := b.Build()
	require.NoError(t, err)

	// "b" was never declared explicitly but On pulled it in.
	assert.Equal(t, []automaton.State{"a", "b"}, def.States)
}

func TestBuilder_StateReturnsExisting(t *testing.T) {
	b := dsl.New("a")

	first := b.State("a").Accept()
	second := b.State("a")
	assert.Same(t, first, second)

	def, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []automaton.State{"a"}, def.Accepting)
}

func TestBuilder_OnReplacesEarlierTarget(t *testing.T) {
	b := dsl.New("a")
	b.State("a").Accept().
		On('x', "b").
		On('x', "c")

	def, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, automaton.State("c"), def.Transitions["a"]['x'])
}

func TestBuilder_Loop(t *testing.T) {
	b := dsl.New("hold")
	b.State("hold").Accept().Loop('0', '1')

	def, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, automaton.State("hold"), def.Transitions["hold"]['0'])
	assert.Equal(t, automaton.State("hold"), def.Transitions["hold"]['1'])
}

func TestBuilder_EmptyAlphabet(t *testing.T) {
	b := dsl.New("lonely")

	_, err := b.Build()
	var cfgErr *automaton.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "alphabet", cfgErr.Field)
}
