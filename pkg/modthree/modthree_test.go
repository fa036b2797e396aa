package modthree_test

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/automaton"
	"github.com/aretw0/espalier/pkg/modthree"
)

func TestDefinition_TransitionInvariant(t *testing.T) {
	t.Parallel()

	eng, err := automaton.New(modthree.Definition())
	require.NoError(t, err)

	states := []automaton.State{modthree.StateR0, modthree.StateR1, modthree.StateR2}
	for _, from := range states {
		r, ok := modthree.StateRemainder(from)
		require.True(t, ok)
		for _, d := range []int{0, 1} {
			require.NoError(t, eng.Restore(from))
			require.NoError(t, eng.Step(automaton.Symbol('0'+rune(d))))

			got, ok := modthree.StateRemainder(eng.Current())
			require.True(t, ok)
			assert.Equalf(t, (2*r+d)%3, got, "from %s on digit %d", from, d)
		}
	}
}

func TestRemainder(t *testing.T) {
	t.Parallel()

	m, err := modthree.New()
	require.NoError(t, err)

	cases := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"0", 0},
		{"1", 1},
		{"10", 2},
		{"11", 0},
		{"100", 1},
		{"101", 2},
		{"110", 0},
		{"111", 1},
		{"1010", 1},
		{"1101", 1},
		{"1110", 2},
		{"1111", 0},
		{"0000", 0},
		{"0001", 1},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%q", tc.input), func(t *testing.T) {
			got, err := m.Remainder(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRemainder_MatchesArithmetic(t *testing.T) {
	t.Parallel()

	m, err := modthree.New()
	require.NoError(t, err)

	// Every binary string up to length 12, leading zeros included.
	for length := 0; length <= 12; length++ {
		for v := 0; v < 1<<length; v++ {
			s := ""
			if length > 0 {
				s = fmt.Sprintf("%0*b", length, v)
			}
			got, err := m.Remainder(s)
			require.NoError(t, err)
			require.Equalf(t, v%3, got, "input %q", s)
		}
	}
}

func TestRemainder_LongInputs(t *testing.T) {
	t.Parallel()

	m, err := modthree.New()
	require.NoError(t, err)

	// Deterministic spot checks beyond the exhaustive range.
	inputs := []string{
		strings.Repeat("1", 20),
		strings.Repeat("10", 10),
		"1" + strings.Repeat("0", 19),
		"10011100101110110101",
	}
	for _, s := range inputs {
		v, err := strconv.ParseInt(s, 2, 64)
		require.NoError(t, err)

		got, err := m.Remainder(s)
		require.NoError(t, err)
		assert.Equalf(t, int(v%3), got, "input %q", s)
	}
}

func TestRemainder_InvalidCharacters(t *testing.T) {
	t.Parallel()

	m, err := modthree.New()
	require.NoError(t, err)

	cases := []struct {
		input string
		chars []rune
	}{
		{"102", []rune{'2'}},
		{"abc", []rune{'a', 'b', 'c'}},
		{"2a2a", []rune{'2', 'a'}},
		{" 101", []rune{' '}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%q", tc.input), func(t *testing.T) {
			_, err := m.Remainder(tc.input)
			require.Error(t, err)

			var invalid *modthree.InvalidCharacterError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.chars, invalid.Chars)
		})
	}

	t.Run("message names the offenders", func(t *testing.T) {
		_, err := m.Remainder("102")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `'2'`)
	})

	t.Run("machine state is untouched", func(t *testing.T) {
		_, err := m.Remainder("1x")
		require.Error(t, err)
		assert.Equal(t, modthree.StateR0, m.Current())
	})
}

func TestRemainder_HistoryIndependence(t *testing.T) {
	t.Parallel()

	m, err := modthree.New()
	require.NoError(t, err)

	first, err := m.Remainder("1101")
	require.NoError(t, err)

	_, err = m.Remainder("102")
	require.Error(t, err)

	again, err := m.Remainder("1101")
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestResetAndCurrent(t *testing.T) {
	t.Parallel()

	m, err := modthree.New()
	require.NoError(t, err)
	assert.Equal(t, modthree.StateR0, m.Current())

	_, err = m.Remainder("1")
	require.NoError(t, err)
	assert.Equal(t, modthree.StateR1, m.Current())

	m.Reset()
	assert.Equal(t, modthree.StateR0, m.Current())
	assert.Equal(t, "modthree(current=R0)", m.String())
}

func TestRejectionUnreachable(t *testing.T) {
	t.Parallel()

	eng, err := automaton.New(modthree.Definition())
	require.NoError(t, err)

	// All three states accept, so Run can never end in rejection.
	for _, s := range []automaton.State{modthree.StateR0, modthree.StateR1, modthree.StateR2} {
		assert.True(t, eng.IsAccepting(s))
	}
}

func TestMust(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		m := modthree.Must()
		assert.NotNil(t, m)
	})
}

func TestStateRemainder_Unknown(t *testing.T) {
	t.Parallel()

	_, ok := modthree.StateRemainder(automaton.State("R9"))
	assert.False(t, ok)
}

func TestErrInternalConfig_IsSentinel(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("boot: %w", modthree.ErrInternalConfig)
	assert.True(t, errors.Is(wrapped, modthree.ErrInternalConfig))
}
