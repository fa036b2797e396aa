package espalier

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Runner feeds whole lines from a reader to a machine, one run per line,
// using provided IO. This allows for easy testing and integration with
// different frontends (piped batches, interactive terminals).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool // suppress the banner and prompt for piped input
	JSON     bool // emit one JSON object per line instead of text

	enc *json.Encoder
}

// NewRunner creates a Runner. The caller sets Input/Output explicitly
// (os.Stdin/os.Stdout in commands, buffers in tests).
func NewRunner() *Runner {
	return &Runner{}
}

// Run reads lines until EOF and runs each against the named machine.
// A failed line is reported on the output and does not stop the batch; the
// per-line error kinds are the engine's. Typing "exit" or "quit" ends an
// interactive session early.
func (r *Runner) Run(ctx context.Context, svc *Service, machine string) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	lineReader := bufio.NewReader(r.Input)

	// JSON mode keeps the stream machine-readable, so no banner or prompt.
	chrome := !r.Headless && !r.JSON
	if r.JSON {
		r.enc = json.NewEncoder(r.Output)
	}

	if chrome {
		fmt.Fprintf(r.Output, "--- espalier (%s) ---\n", machine)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if chrome {
			fmt.Fprint(r.Output, "> ")
		}

		text, err := lineReader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// Run whatever preceded the EOF, then exit gracefully.
				if line := strings.TrimSpace(text); line != "" {
					r.runLine(ctx, svc, machine, line)
				}
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		line := strings.TrimSpace(text)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			if chrome {
				fmt.Fprintln(r.Output, "Bye!")
			}
			return nil
		}

		r.runLine(ctx, svc, machine, line)
	}
}

// lineError is the JSON shape for a line the machine could not accept.
type lineError struct {
	Input string `json:"input"`
	Error string `json:"error"`
}

func (r *Runner) runLine(ctx context.Context, svc *Service, machine string, line string) {
	res, err := svc.Run(ctx, machine, line)

	if r.JSON {
		if err != nil {
			_ = r.enc.Encode(lineError{Input: line, Error: err.Error()})
			return
		}
		_ = r.enc.Encode(res)
		return
	}

	if err != nil {
		fmt.Fprintf(r.Output, "%s -> error: %v\n", line, err)
		return
	}
	fmt.Fprintf(r.Output, "%s -> %s (accepted)\n", line, res.State)
}
