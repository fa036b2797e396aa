package espalier_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(input string) (*espalier.Runner, *bytes.Buffer) {
	out := &bytes.Buffer{}
	r := espalier.NewRunner()
	r.Input = strings.NewReader(input)
	r.Output = out
	r.Headless = true
	return r, out
}

func TestRunner_Batch(t *testing.T) {
	svc, err := espalier.New()
	require.NoError(t, err)

	r, out := newTestRunner("1101\n1110\n1111\n")
	require.NoError(t, r.Run(context.Background(), svc, registry.ModThree))

	want := "1101 -> R1 (accepted)\n" +
		"1110 -> R2 (accepted)\n" +
		"1111 -> R0 (accepted)\n"
	assert.Equal(t, want, out.String())
}

func TestRunner_ErrorsDoNotStopBatch(t *testing.T) {
	svc, err := espalier.New()
	require.NoError(t, err)

	r, out := newTestRunner("1121\n0\n")
	require.NoError(t, r.Run(context.Background(), svc, registry.ModThree))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "1121 -> error:")
	assert.Equal(t, "0 -> R0 (accepted)", lines[1])
}

func TestRunner_TrailingLineWithoutNewline(t *testing.T) {
	svc, err := espalier.New()
	require.NoError(t, err)

	r, out := newTestRunner("11")
	require.NoError(t, r.Run(context.Background(), svc, registry.ModThree))
	assert.Equal(t, "11 -> R0 (accepted)\n", out.String())
}

func TestRunner_SkipsBlankLines(t *testing.T) {
	svc, err := espalier.New()
	require.NoError(t, err)

	r, out := newTestRunner("\n\n1\n")
	require.NoError(t, r.Run(context.Background(), svc, registry.ModThree))
	assert.Equal(t, "1 -> R1 (accepted)\n", out.String())
}

func TestRunner_ExitCommand(t *testing.T) {
	svc, err := espalier.New()
	require.NoError(t, err)

	r, out := newTestRunner("1\nexit\n10\n")
	require.NoError(t, r.Run(context.Background(), svc, registry.ModThree))

	// Nothing after "exit" runs.
	assert.Equal(t, "1 -> R1 (accepted)\n", out.String())
}

func TestRunner_InteractiveChrome(t *testing.T) {
	svc, err := espalier.New()
	require.NoError(t, err)

	out := &bytes.Buffer{}
	r := espalier.NewRunner()
	r.Input = strings.NewReader("1101\nquit\n")
	r.Output = out
	require.NoError(t, r.Run(context.Background(), svc, registry.ModThree))

	got := out.String()
	assert.Contains(t, got, "--- espalier (mod3) ---")
	assert.Contains(t, got, "> ")
	assert.Contains(t, got, "1101 -> R1 (accepted)")
	assert.Contains(t, got, "Bye!")
}

func TestRunner_JSONMode(t *testing.T) {
	svc, err := espalier.New()
	require.NoError(t, err)

	r, out := newTestRunner("1101\n12\n")
	r.JSON = true
	require.NoError(t, r.Run(context.Background(), svc, registry.ModThree))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &res))
	assert.Equal(t, "mod3", res["machine"])
	assert.Equal(t, "1101", res["input"])
	assert.Equal(t, "R1", res["state"])
	assert.Equal(t, true, res["accepted"])
	assert.Equal(t, float64(4), res["steps"])

	var fail map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &fail))
	assert.Equal(t, "12", fail["input"])
	assert.Contains(t, fail["error"], "position 1")
}

func TestRunner_JSONModeSuppressesChrome(t *testing.T) {
	svc, err := espalier.New()
	require.NoError(t, err)

	out := &bytes.Buffer{}
	r := espalier.NewRunner()
	r.Input = strings.NewReader("quit\n")
	r.Output = out
	r.JSON = true

	// Not headless, but JSON still keeps the stream clean.
	require.NoError(t, r.Run(context.Background(), svc, registry.ModThree))
	assert.Empty(t, out.String())
}

func TestRunner_RequiresIO(t *testing.T) {
	svc, err := espalier.New()
	require.NoError(t, err)

	r := espalier.NewRunner()
	r.Output = &bytes.Buffer{}
	err = r.Run(context.Background(), svc, registry.ModThree)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input reader")

	r = espalier.NewRunner()
	r.Input = strings.NewReader("")
	err = r.Run(context.Background(), svc, registry.ModThree)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output writer")
}

func TestRunner_CancelledContext(t *testing.T) {
	svc, err := espalier.New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, _ := newTestRunner("1101\n")
	err = r.Run(ctx, svc, registry.ModThree)
	require.ErrorIs(t, err, context.Canceled)
}
